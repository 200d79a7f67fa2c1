package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/message/header/encoding"
	"github.com/zostay/go-pgpmime/message/header/field"
)

func TestCharsetDecoder(t *testing.T) {
	t.Parallel()

	s, err := encoding.CharsetDecoder("iso-8859-7", []byte{0xe1, 0xe2, 0xe3})
	require.NoError(t, err)
	assert.Equal(t, "αβγ", s)

	_, err = encoding.CharsetDecoder("not-a-charset", []byte("x"))
	assert.Error(t, err)
}

func TestDecode_WithLoadedCharsets(t *testing.T) {
	t.Parallel()

	s, err := field.Decode("=?iso-8859-7?q?=E1=E2=E3.txt?=")
	require.NoError(t, err)
	assert.Equal(t, "αβγ.txt", s)
}
