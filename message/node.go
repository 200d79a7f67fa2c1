package message

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/go-pgpmime/message/header"
	"github.com/zostay/go-pgpmime/message/header/param"
	"github.com/zostay/go-pgpmime/message/transfer"
)

// DefaultMultipartContentType is the Content-Type given to a multipart Node
// when the Config does not name one.
const DefaultMultipartContentType = "multipart/mixed"

// Errors related to building a Node.
var (
	// ErrNotMultipart is the panic value when AddChild is called on a leaf
	// Node.
	ErrNotMultipart = errors.New("node is not multipart")

	// ErrMultipart is the panic value when SetContent or SetBytes is called on
	// a multipart Node.
	ErrMultipart = errors.New("node is multipart")

	// ErrEmptyMultipart is returned by Build when a multipart Node has no
	// children.
	ErrEmptyMultipart = errors.New("multipart node has no children")
)

// Config describes a Node to construct.
type Config struct {
	// ContentType is the Content-Type header. It may already carry
	// parameters.
	ContentType string

	// TransferEncoding is the Content-Transfer-Encoding header. It is omitted
	// when empty.
	TransferEncoding string

	// Multipart makes the Node a branch with child parts.
	Multipart bool

	// Boundary fixes the boundary of a multipart Node instead of generating
	// one. It is still replaced on Build if it collides with the content.
	Boundary string
}

// Node is a MIME message or message part under construction. A multipart
// Node holds an ordered list of child Nodes that it owns. Any other Node
// holds content, either text or raw bytes.
//
// The header of the Node is embedded, so the header.Header methods, such as
// Set() and AddParams(), work directly on the Node.
type Node struct {
	header.Header

	multipart bool
	boundary  string
	children  []*Node

	text   string
	data   []byte
	binary bool
}

// NewNode constructs a Node from the given Config. A multipart Node gets its
// boundary right away, so the boundary parameter is part of the Content-Type
// before any children exist.
func NewNode(cfg Config) *Node {
	n := &Node{multipart: cfg.Multipart}

	if cfg.ContentType != "" {
		n.Set(header.ContentType, cfg.ContentType)
	}

	if cfg.Multipart {
		n.boundary = cfg.Boundary
		if n.boundary == "" {
			n.boundary = GenerateBoundary()
		}

		n.AddParams(header.ContentType, DefaultMultipartContentType,
			param.Param{Name: param.Boundary, Value: n.boundary})
	}

	if cfg.TransferEncoding != "" {
		n.SetTransferEncoding(cfg.TransferEncoding)
	}

	return n
}

// IsMultipart returns true if this Node holds children rather than content.
func (n *Node) IsMultipart() bool {
	return n.multipart
}

// Boundary returns the boundary of a multipart Node. It returns an empty
// string for a leaf.
func (n *Node) Boundary() string {
	return n.boundary
}

// Children returns the child Nodes in order.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends a new child constructed from cfg and returns it so the
// caller can continue to configure it. If a filename is given, even an empty
// one, the child is marked as an attachment with that filename.
//
// This will panic with ErrNotMultipart if called on a leaf Node.
func (n *Node) AddChild(cfg Config, filename ...string) *Node {
	if !n.multipart {
		panic(ErrNotMultipart)
	}

	child := NewNode(cfg)
	if len(filename) > 0 {
		child.AddParams(header.ContentDisposition, "attachment",
			param.Param{Name: param.Filename, Value: filename[0]})
	}

	n.children = append(n.children, child)
	return child
}

// AppendChild appends an existing Node as the last child. The child must not
// belong to another Node.
//
// This will panic with ErrNotMultipart if called on a leaf Node.
func (n *Node) AppendChild(child *Node) {
	if !n.multipart {
		panic(ErrNotMultipart)
	}
	n.children = append(n.children, child)
}

// SetHeader sets the named header field, replacing the body of an existing
// field with the same name, matched case-insensitively. A field that already
// exists keeps the name casing it was first given.
func (n *Node) SetHeader(name, value string) {
	n.Set(name, value)
}

// AddHeaderParams appends parameters to the named header field. If the field
// is not yet set, def is used as its primary value.
func (n *Node) AddHeaderParams(name string, params []param.Param, def string) {
	n.AddParams(name, def, params...)
}

// SetContent stores text content, replacing any previous content. The text is
// written verbatim unless the Node declares base64 transfer encoding.
//
// This will panic with ErrMultipart if called on a multipart Node.
func (n *Node) SetContent(text string) {
	if n.multipart {
		panic(ErrMultipart)
	}
	n.text, n.data, n.binary = text, nil, false
}

// SetBytes stores raw content, replacing any previous content. Raw content is
// always written base64 encoded, so the Content-Transfer-Encoding is set to
// base64 if it is not already.
//
// This will panic with ErrMultipart if called on a multipart Node.
func (n *Node) SetBytes(data []byte) {
	if n.multipart {
		panic(ErrMultipart)
	}
	n.text, n.data, n.binary = "", data, true
	if !transfer.IsBase64(&n.Header) {
		n.SetTransferEncoding(transfer.Base64)
	}
}

// Build serializes the Node and everything under it into MIME text. Every line
// ends in CRLF except the last.
//
// Before a multipart Node is written, the serialized children are checked for
// the boundary. If it occurs anywhere in them, a new boundary is generated
// and the Content-Type header is updated to match.
func (n *Node) Build() (string, error) {
	var body []string
	if n.multipart {
		if len(n.children) == 0 {
			return "", ErrEmptyMultipart
		}

		parts := make([]string, len(n.children))
		for i, child := range n.children {
			s, err := child.Build()
			if err != nil {
				return "", err
			}
			parts[i] = s
		}

		if err := n.avoidCollision(parts); err != nil {
			return "", err
		}

		body = make([]string, 0, 2*len(parts)+1)
		for _, part := range parts {
			body = append(body, "--"+n.boundary, part)
		}
		body = append(body, "--"+n.boundary+"--")
	} else {
		c, err := n.encodedContent()
		if err != nil {
			return "", err
		}
		body = []string{c}
	}

	lines := append(n.Lines(), "")
	lines = append(lines, body...)
	return strings.Join(lines, header.CRLF.String()), nil
}

// avoidCollision replaces the boundary if it shows up in any of the parts.
func (n *Node) avoidCollision(parts []string) error {
	collides := false
	for _, part := range parts {
		if strings.Contains(part, n.boundary) {
			collides = true
			break
		}
	}

	if !collides {
		return nil
	}

	n.boundary = GenerateSafeBoundary(strings.Join(parts, header.CRLF.String()))
	if err := n.SetBoundary(n.boundary); err != nil {
		return fmt.Errorf("unable to replace colliding boundary: %w", err)
	}

	return nil
}

// encodedContent returns the content as it should be written.
func (n *Node) encodedContent() (string, error) {
	if !n.binary && !transfer.IsBase64(&n.Header) {
		return n.text, nil
	}

	data := n.data
	if !n.binary {
		data = []byte(n.text)
	}

	var b strings.Builder
	w := transfer.NewBase64Encoder(&b)
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return b.String(), nil
}

// WriteTo writes the serialized Node to the given io.Writer.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	s, err := n.Build()
	if err != nil {
		return 0, err
	}

	wn, err := io.WriteString(w, s)
	return int64(wn), err
}
