package header

import (
	"errors"
	"io"
	"strings"

	"github.com/zostay/go-pgpmime/message/header/field"
)

// ErrIndexOutOfRange is returned when an attempt is made to access a header
// field index that is too large or too small.
var ErrIndexOutOfRange = errors.New("header field index is out of range")

// Base is the low-level storage for a header: an ordered list of fields with
// case-insensitive lookup by name.
type Base struct {
	lbr    Break
	fields []*field.Field
}

// Break returns the line break used to separate header fields and terminate
// the header. It is CRLF unless set otherwise.
func (h *Base) Break() Break {
	if h.lbr == "" {
		return CRLF
	}
	return h.lbr
}

// SetBreak changes the line break to use with this header.
func (h *Base) SetBreak(lbr Break) {
	h.lbr = lbr
}

// Len returns the number of fields in the header.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil if there is no such field.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetIndexesNamed returns the indexes of all fields with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	key := field.Key(name)
	is := make([]int, 0, 2)
	for i, f := range h.fields {
		if f.Key() == key {
			is = append(is, i)
		}
	}
	return is
}

// GetAllFieldsNamed returns all the fields with the given name.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	ixs := h.GetIndexesNamed(name)
	fs := make([]*field.Field, len(ixs))
	for i, ix := range ixs {
		fs[i] = h.fields[ix]
	}
	return fs
}

// ListFields returns all the fields in the header, in order.
func (h *Base) ListFields() []*field.Field {
	fs := make([]*field.Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// InsertBeforeField inserts a new field at the given index. Indexes outside
// the header are clamped, so h.Len() appends.
func (h *Base) InsertBeforeField(n int, name, body string) {
	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// DeleteField removes the nth field from the header.
func (h *Base) DeleteField(n int) error {
	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	copy(h.fields[n:], h.fields[n+1:])
	h.fields = h.fields[:len(h.fields)-1]

	return nil
}

// Lines returns each field rendered as a single line, without line breaks.
func (h *Base) Lines() []string {
	ls := make([]string, len(h.fields))
	for i, f := range h.fields {
		ls[i] = f.String()
	}
	return ls
}

// String returns the header block, including the blank line that ends it.
func (h *Base) String() string {
	lb := h.Break().String()
	var b strings.Builder
	for _, l := range h.Lines() {
		b.WriteString(l)
		b.WriteString(lb)
	}
	b.WriteString(lb)
	return b.String()
}

// WriteTo writes the header block to the given writer.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, h.String())
	return int64(n), err
}

// Clone returns a deep copy of the fields.
func (h *Base) Clone() *Base {
	fs := make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		fs[i] = f.Clone()
	}
	return &Base{lbr: h.lbr, fields: fs}
}
