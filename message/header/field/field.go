package field

import (
	"strings"
)

// Field is a single header field. The name is kept exactly as it was given so
// that it can be written back out the same way, while the key is the
// case-folded form used for lookups.
type Field struct {
	name string
	key  string
	body string
}

// New constructs a new field with the given name and body.
func New(name, body string) *Field {
	return &Field{
		name: name,
		key:  Key(name),
		body: body,
	}
}

// Structured reports whether the named field carries MIME parameters. The
// bodies of these fields are written and read as they are, never as RFC 2047
// encoded words, so quoted parameter values such as filenames keep their
// exact text.
func Structured(name string) bool {
	switch Key(name) {
	case "content-type", "content-disposition", "content-transfer-encoding",
		"content-id", "mime-version":
		return true
	}
	return false
}

// Key returns the lookup key for a field name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Name returns the name of the header field as originally given.
func (f *Field) Name() string {
	return f.name
}

// Key returns the case-folded name used to match this field.
func (f *Field) Key() string {
	return f.key
}

// Body returns the value of the header field as a string.
func (f *Field) Body() string {
	return f.body
}

// SetBody updates the body of the header field. The name is left alone.
func (f *Field) SetBody(body string) {
	f.body = body
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}

// String returns the complete header field as a string, without any line
// break. Unstructured bodies that are not plain ASCII are written as RFC 2047
// encoded words. Structured bodies are written raw.
func (f *Field) String() string {
	if Structured(f.key) {
		return f.name + ": " + f.body
	}
	return f.name + ": " + Encode(f.body)
}

// Bytes returns the complete header field as a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}
