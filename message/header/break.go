package header

// Break represents the line break used to terminate header fields.
type Break string

// Line breaks. Everything this module writes uses CRLF; LF exists for reading
// headers produced by tools that do not follow RFC 5322.
const (
	CRLF Break = "\x0d\x0a" // \r\n - Network linebreak
	LF   Break = "\x0a"     // \n - Unix/Linux/BSD linebreak
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
