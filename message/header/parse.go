package header

import (
	"errors"

	"github.com/zostay/go-pgpmime/message/header/field"
)

// Parse parses the given header block into a Header using the given line
// break. The whole string is treated as header; the caller is expected to have
// split off the body already.
//
// Junk at the start of the header is skipped and reported with a
// *field.BadStartError. The header is still returned in that case.
func Parse(m string, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.String())

	var badStartErr *field.BadStartError
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, len(lines))
	for i, line := range lines {
		fields[i] = field.Parse(line, lb.String())
	}

	h := &Header{
		Base: Base{
			lbr:    lb,
			fields: fields,
		},
	}

	return h, finalErr
}
