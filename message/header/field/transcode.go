package field

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
)

// CharsetDecoderFunc turns bytes in the named charset into a UTF-8 string.
type CharsetDecoderFunc func(charset string, b []byte) (string, error)

// CharsetDecoder is used to decode RFC 2047 encoded words that use a charset
// the standard library does not know. It only handles UTF-8 and US-ASCII by
// default. Import the encoding package for broad charset support:
//
//	import _ "github.com/zostay/go-pgpmime/message/header/encoding"
var CharsetDecoder CharsetDecoderFunc = DefaultCharsetDecoder

// DefaultCharsetDecoder accepts UTF-8 and US-ASCII (or no charset) and fails
// for everything else.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return string(b), nil
	}
	return "", fmt.Errorf("unsupported byte encoding %q", charset)
}

// CharsetDecoderToCharsetReader adapts a CharsetDecoderFunc to the
// CharsetReader hook of mime.WordDecoder.
func CharsetDecoderToCharsetReader(dec CharsetDecoderFunc) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, r io.Reader) (io.Reader, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		s, err := dec(charset, b)
		if err != nil {
			return nil, err
		}

		return bytes.NewReader([]byte(s)), nil
	}
}

// Encode transforms a header field body into RFC 2047 b-encoded words when it
// contains anything other than printable ASCII. Plain bodies are returned as
// they are.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

// Decode looks for RFC 2047 encoded words in a header field body and decodes
// them.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}
	return dec.DecodeHeader(body)
}
