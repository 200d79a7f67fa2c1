package param

import (
	"errors"
	"strings"
)

// Names of the parameters this module reads and writes.
const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-Type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-Type header.
	Boundary = "boundary"

	// Protocol is the name of the protocol parameter of multipart/encrypted
	// and multipart/signed.
	Protocol = "protocol"

	// Filename is the name of the filename parameter that may be present in
	// the Content-Disposition header.
	Filename = "filename"
)

// ErrNoValue is returned by Parse when the field body has no primary value
// before the first parameter.
var ErrNoValue = errors.New("parameterized header has no value")

// tspecials are the characters that RFC 2045 does not allow in a token.
const tspecials = `()<>@,;:\"/[]?=`

// Param is a single name=value parameter.
type Param struct {
	Name  string
	Value string
}

// Value represents a parsed parameterized header field, such as is used in the
// Content-Type and Content-Disposition headers. A Value object is immutable:
// You cannot change it in place. However, a Modify() function is provided to
// perform transformation of a Value into a new Value.
type Value struct {
	v  string
	ps []Param
}

// Parse takes a header field body, parses it as a Value and returns it. The
// primary value and the parameter names are case-folded. Parameter values are
// kept exactly as sent, minus any surrounding quotes, because values like the
// boundary and filename are case-sensitive.
//
// Segments that do not look like name=value are skipped. When a parameter is
// repeated, the first occurrence wins.
func Parse(body string) (*Value, error) {
	segs := splitSegments(body)

	v := strings.ToLower(strings.TrimSpace(segs[0]))
	if v == "" {
		return nil, ErrNoValue
	}

	pv := &Value{v: v, ps: make([]Param, 0, len(segs)-1)}
	for _, seg := range segs[1:] {
		name, value, found := strings.Cut(seg, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !found || name == "" {
			continue
		}

		if pv.has(name) {
			continue
		}

		pv.ps = append(pv.ps, Param{name, unquote(strings.TrimSpace(value))})
	}

	return pv, nil
}

// splitSegments splits on every semicolon that is not inside a quoted string.
func splitSegments(s string) []string {
	segs := make([]string, 0, strings.Count(s, ";")+1)
	var (
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ';' && !quoted:
			segs = append(segs, s[start:i])
			start = i + 1
		}
	}
	return append(segs, s[start:])
}

// unquote strips the quotes from a quoted-string and resolves backslash
// escapes. Anything else is returned unchanged.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	var b strings.Builder
	escaped := false
	for i := 1; i < len(s)-1; i++ {
		c := s[i]
		if !escaped && c == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteByte(c)
	}
	return b.String()
}

// NeedsQuote returns true if the parameter value cannot be written as a bare
// RFC 2045 token.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c <= ' ' || c == 0x7f || strings.ContainsRune(tspecials, c) {
			return true
		}
	}
	return false
}

// Quote renders a parameter value as a quoted-string.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Format renders a single name=value pair. The filename parameter is always
// quoted. Any other value is quoted only when it is not a valid token.
func Format(name, value string) string {
	if name == Filename || NeedsQuote(value) {
		return name + "=" + Quote(value)
	}
	return name + "=" + value
}

// New creates a new parameterized header field with the given parameters, in
// the given order.
func New(v string, ps ...Param) *Value {
	pv := &Value{v: v, ps: make([]Param, 0, len(ps))}
	for _, p := range ps {
		pv.set(p.Name, p.Value)
	}
	return pv
}

func (pv *Value) has(name string) bool {
	for _, p := range pv.ps {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (pv *Value) set(name, value string) {
	name = strings.ToLower(name)
	for i := range pv.ps {
		if pv.ps[i].Name == name {
			pv.ps[i].Value = value
			return
		}
	}
	pv.ps = append(pv.ps, Param{name, value})
}

// Modifier is a modification to apply to a Value when calling the Modify()
// function.
type Modifier func(*Value)

// Change is a Modifier that replaces the primary value of the Value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set is a Modifier that sets a parameter with the given name on the Value.
// An existing parameter keeps its position; a new one is appended.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.set(name, value)
	}
}

// Delete is a Modifier that removes the parameter with the given name from the
// Value.
func Delete(name string) Modifier {
	return func(pv *Value) {
		name = strings.ToLower(name)
		for i := range pv.ps {
			if pv.ps[i].Name == name {
				pv.ps = append(pv.ps[:i], pv.ps[i+1:]...)
				return
			}
		}
	}
}

// Modify clones a Value, applies the given modifications (if any) and returns
// the new Value. You can pass multiple changes to this function:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123")
//	nv := param.Modify(v, param.Change("multipart/encrypted"), param.Set("protocol", "application/pgp-encrypted"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-Disposition,
// either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-Type value, e.g.,
// "text/plain", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type returns the part of MediaType() before the slash, or an empty string
// when there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of MediaType() after the slash, or an empty string
// when there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns a copy of the parameters in order.
func (pv *Value) Parameters() []Param {
	ps := make([]Param, len(pv.ps))
	copy(ps, pv.ps)
	return ps
}

// Parameter returns the value of the parameter with the given name and whether
// it was set at all.
func (pv *Value) Parameter(k string) (string, bool) {
	k = strings.ToLower(k)
	for _, p := range pv.ps {
		if p.Name == k {
			return p.Value, true
		}
	}
	return "", false
}

func (pv *Value) param(k string) string {
	v, _ := pv.Parameter(k)
	return v
}

// Filename returns the value of the "filename" parameter.
func (pv *Value) Filename() string {
	return pv.param(Filename)
}

// Charset returns the value of the "charset" parameter.
func (pv *Value) Charset() string {
	return pv.param(Charset)
}

// Boundary returns the value of the "boundary" parameter.
func (pv *Value) Boundary() string {
	return pv.param(Boundary)
}

// Protocol returns the value of the "protocol" parameter.
func (pv *Value) Protocol() string {
	return pv.param(Protocol)
}

// String returns the serialized value including the primary value and all
// parameters, joined by "; ".
func (pv *Value) String() string {
	parts := make([]string, len(pv.ps)+1)
	parts[0] = pv.v
	for i, p := range pv.ps {
		parts[i+1] = Format(p.Name, p.Value)
	}
	return strings.Join(parts, "; ")
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	return &Value{v: pv.v, ps: pv.Parameters()}
}
