package message

import (
	"io"
	"strings"

	"github.com/zostay/go-pgpmime/message/header"
	"github.com/zostay/go-pgpmime/message/transfer"
)

// Parsed is a message or message part returned by Parse. A multipart Parsed
// holds its parts in order. Any other Parsed holds the literal body in
// Content, with no transfer decoding applied.
type Parsed struct {
	header.Header

	// Boundary is the boundary parameter the parts were split on. It is empty
	// for a leaf.
	Boundary string

	// Preamble is the text before the first delimiter of a multipart. It is
	// not part of the structure.
	Preamble string

	// Epilogue is the text after the closing delimiter of a multipart. It is
	// not part of the structure.
	Epilogue string

	// Parts are the sub-parts of a multipart.
	Parts []*Parsed

	// Content is the literal body of a leaf.
	Content string

	// Problems records oddities that did not prevent parsing, such as junk
	// preceding the first header field.
	Problems []error

	multipart bool
}

// IsMultipart returns true if the part was split into sub-parts.
func (p *Parsed) IsMultipart() bool {
	return p.multipart
}

// GetHeader returns the header of the part.
func (p *Parsed) GetHeader() *header.Header {
	return &p.Header
}

// GetParts returns the sub-parts. It returns nil for a leaf.
func (p *Parsed) GetParts() []*Parsed {
	return p.Parts
}

// Reader returns the Content with the Content-transfer-encoding removed.
func (p *Parsed) Reader() io.Reader {
	return transfer.ApplyTransferDecoding(&p.Header, strings.NewReader(p.Content))
}

// Decode returns the Content with the Content-transfer-encoding removed.
func (p *Parsed) Decode() ([]byte, error) {
	return io.ReadAll(p.Reader())
}
