package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zostay/go-pgpmime/message/header"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultMaxLength is the default maximum byte length of a message given
	// to Parse.
	DefaultMaxLength = 64 << 20
)

// Errors that occur during parsing.
var (
	// ErrMalformedMessage is returned by Parse when a message or part has no
	// blank line separating the header from the body.
	ErrMalformedMessage = errors.New("malformed message: no header/body separator")

	// ErrMalformedMultipart is returned by Parse when a multipart body cannot
	// be split into parts. Parse returns a *BoundaryError wrapping this error
	// with the details.
	ErrMalformedMultipart = errors.New("malformed multipart")

	// ErrMessageTooLarge is returned by Parse when the input exceeds the
	// configured WithMaxLength option (or the default, DefaultMaxLength).
	ErrMessageTooLarge = errors.New("the message exceeds the maximum parse length")
)

// BoundaryError is returned when a multipart body could not be split on its
// boundary.
type BoundaryError struct {
	Boundary string // the boundary parameter, as found
	Depth    int    // the multipart nesting depth, starting at 0
	Reason   string // what went wrong
}

// Error returns the error message.
func (err *BoundaryError) Error() string {
	return fmt.Sprintf("%v: %s (boundary %q at depth %d)",
		ErrMalformedMultipart, err.Reason, err.Boundary, err.Depth)
}

// Unwrap returns ErrMalformedMultipart.
func (err *BoundaryError) Unwrap() error {
	return ErrMalformedMultipart
}

const (
	crlf       = "\r\n"
	doubleCRLF = crlf + crlf
)

type parser struct {
	maxDepth  int
	maxLength int
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxDepth:  DefaultMaxMultipartDepth,
	maxLength: DefaultMaxLength,
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxDepth is a ParseOption that controls how many levels of nested
// multipart the parser will accept. A message nested any deeper fails with
// ErrMalformedMultipart. This is set to DefaultMaxMultipartDepth by default.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// WithMaxLength is a ParseOption that sets the maximum length of input Parse
// will accept before failing with ErrMessageTooLarge. A value less than or
// equal to 0 removes the limit. The default is DefaultMaxLength.
func WithMaxLength(n int) ParseOption {
	return func(pr *parser) { pr.maxLength = n }
}

// Parse turns MIME text into a tree of *Parsed parts. Lines are expected to
// end in CRLF.
//
// The header is split from the body at the first blank line. A sub-part with
// an empty header may begin with the blank line directly. Without a blank line
// the parse fails with ErrMalformedMessage, unless it is a sub-part whose
// header ends just before the next delimiter, which is read as a part with an
// empty body.
//
// If the Content-Type carries a boundary parameter, the body is split into
// parts on delimiter lines of the form "--boundary", with the last part ending
// at "--boundary--". Whitespace trailing a delimiter is ignored. The text
// before the first delimiter and after the last is kept only as Preamble and
// Epilogue. Each part is then parsed the same way. A missing opening or
// closing delimiter fails with a *BoundaryError wrapping
// ErrMalformedMultipart.
//
// Any other body is kept literally as Content of a leaf.
//
// Parameter values are split on semicolons outside of quotes. A semicolon
// inside an unquoted value is not supported and will split the value.
func Parse(text string, opts ...ParseOption) (*Parsed, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	if pr.maxLength > 0 && len(text) > pr.maxLength {
		return nil, ErrMessageTooLarge
	}

	return pr.parse(text, 0, false)
}

// splitHeadFromBody finds the header/body split. The returned header includes
// the line break ending its last field.
func splitHeadFromBody(text string, subpart bool) (string, string, error) {
	// a part with an empty header starts with the blank line
	if subpart && strings.HasPrefix(text, crlf) {
		return "", text[len(crlf):], nil
	}

	pos := strings.Index(text, doubleCRLF)
	if pos < 0 {
		// a part whose header runs right up to the next delimiter has no body
		if subpart && strings.HasSuffix(text, crlf) {
			return text, "", nil
		}
		return "", "", ErrMalformedMessage
	}

	return text[:pos+len(crlf)], text[pos+len(doubleCRLF):], nil
}

// parse implements Parse for a message or part at the given depth.
func (pr *parser) parse(text string, depth int, subpart bool) (*Parsed, error) {
	head, body, err := splitHeadFromBody(text, subpart)
	if err != nil {
		return nil, err
	}

	msg := &Parsed{}
	h, err := header.Parse(head, header.CRLF)
	if h == nil {
		return nil, err
	} else if err != nil {
		msg.Problems = append(msg.Problems, err)
	}
	msg.Header = *h

	pv, err := msg.GetContentType()
	if err != nil {
		msg.Content = body
		return msg, nil
	}

	boundary, isMultipart := pv.Parameter("boundary")
	if !isMultipart {
		msg.Content = body
		return msg, nil
	}

	msg.multipart = true
	msg.Boundary = boundary

	if boundary == "" {
		return nil, &BoundaryError{boundary, depth, "empty boundary"}
	}

	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return nil, &BoundaryError{boundary, depth, "multipart nested too deeply"}
	}

	preamble, chunks, epilogue, reason := splitParts(body, boundary)
	if reason != "" {
		return nil, &BoundaryError{boundary, depth, reason}
	}

	msg.Preamble = preamble
	msg.Epilogue = epilogue
	msg.Parts = make([]*Parsed, len(chunks))
	for i, chunk := range chunks {
		part, err := pr.parse(chunk, depth+1, true)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		msg.Parts[i] = part
	}

	return msg, nil
}

// splitParts breaks a multipart body into the text of each part. On failure,
// it returns a non-empty reason.
func splitParts(body, boundary string) (preamble string, chunks []string, epilogue string, reason string) {
	delim := "--" + boundary
	closeDelim := delim + "--"

	lines := strings.Split(body, crlf)
	started := false
	var cur []string
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		switch {
		case trimmed == closeDelim:
			if !started {
				return "", nil, "", "closing delimiter before opening delimiter"
			}
			chunks = append(chunks, strings.Join(cur, crlf))
			epilogue = strings.Join(lines[i+1:], crlf)
			return preamble, chunks, epilogue, ""

		case trimmed == delim:
			if started {
				chunks = append(chunks, strings.Join(cur, crlf))
			} else {
				preamble = strings.Join(lines[:i], crlf)
				started = true
			}
			cur = nil

		case started:
			cur = append(cur, line)
		}
	}

	if !started {
		return "", nil, "", "missing opening delimiter"
	}
	return "", nil, "", "missing closing delimiter"
}
