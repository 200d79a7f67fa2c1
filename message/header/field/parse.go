package field

import (
	"strings"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart string // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line,
// including any folded continuation lines.
type Line string

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// ParseLines splits the given header block into field lines using lb as the
// line break. Any line that starts with a space or tab, or that lacks a colon,
// is treated as a continuation of the field before it.
//
// If the first line (or lines) of input start with spaces or contain no colons,
// these lines will be skipped in the Lines returned and a *BadStartError will
// be returned alongside the lines that were parsed.
func ParseLines(m, lb string) (Lines, error) {
	h := make(Lines, 0, strings.Count(m, lb)+1)
	var err *BadStartError
	for _, line := range strings.SplitAfter(m, lb) {
		if len(line) == 0 || line == lb {
			continue
		}

		if line[0] == '\t' || line[0] == ' ' || !strings.Contains(line, ":") {
			if len(h) == 0 {
				if err != nil {
					err.BadStart += line
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] += Line(line)
			continue
		}

		h = append(h, Line(line))
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Unfold removes the line breaks of folded continuation lines, leaving the
// whitespace that started each continuation in place.
func Unfold(s, lb string) string {
	return strings.ReplaceAll(s, lb, "")
}

// Parse turns a single header field line into a Field. The name is everything
// before the first colon and the body is everything after it with surrounding
// whitespace trimmed. Encoded words in an unstructured body are decoded when
// possible.
func Parse(l Line, lb string) *Field {
	raw := Unfold(strings.TrimSuffix(string(l), lb), lb)

	name, body, _ := strings.Cut(raw, ":")
	body = strings.TrimSpace(body)
	if !Structured(name) {
		if dec, err := Decode(body); err == nil {
			body = dec
		}
	}

	return New(strings.TrimRight(name, " \t"), body)
}
