// Package encoding provides a replacement charset decoder for the RFC 2047
// encoded words found in header fields. Importing it for side effects
// installs a decoder that knows every charset provided with:
//
// * golang.org/x/text/encoding/ianaindex
//
// This will make the size of your compiled binaries considerably larger. The
// message bodies this module produces are always UTF-8, but mail arriving from
// elsewhere often names attachments in older charsets.
package encoding

import (
	"fmt"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-pgpmime/message/header/field"
)

func init() {
	field.CharsetDecoder = CharsetDecoder
}

// CharsetDecoder decodes the given bytes from the named charset into a UTF-8
// string.
func CharsetDecoder(charset string, b []byte) (string, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		return "", fmt.Errorf("no encoding found for charset %q", charset)
	}

	eb, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(eb), nil
}
