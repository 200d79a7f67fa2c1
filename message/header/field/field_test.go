package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-pgpmime/message/header/field"
)

func TestNew(t *testing.T) {
	t.Parallel()

	f := field.New("Content-Type", "text/plain")

	assert.Equal(t, "Content-Type: text/plain", f.String())
	assert.Equal(t, []byte("Content-Type: text/plain"), f.Bytes())
	assert.Equal(t, "Content-Type", f.Name())
	assert.Equal(t, "content-type", f.Key())
	assert.Equal(t, "text/plain", f.Body())

	f.SetBody("multipart/mixed")
	assert.Equal(t, "Content-Type: multipart/mixed", f.String())
	assert.Equal(t, "Content-Type", f.Name())
}

func TestField_StringEncodesNonASCII(t *testing.T) {
	t.Parallel()

	f := field.New("subject", "☺")
	assert.Equal(t, "subject: =?utf-8?b?4pi6?=", f.String())
}

func TestField_Clone(t *testing.T) {
	t.Parallel()

	f := field.New("X-Test", "a")
	c := f.Clone()
	c.SetBody("b")

	assert.Equal(t, "a", f.Body())
	assert.Equal(t, "b", c.Body())
}

func TestField_StringStructuredRaw(t *testing.T) {
	t.Parallel()

	f := field.New("Content-Disposition", `attachment; filename="é.txt"`)
	assert.Equal(t, `Content-Disposition: attachment; filename="é.txt"`, f.String())
}

func TestStructured(t *testing.T) {
	t.Parallel()

	assert.True(t, field.Structured("Content-Type"))
	assert.True(t, field.Structured("content-disposition"))
	assert.True(t, field.Structured(" Content-Transfer-Encoding"))
	assert.False(t, field.Structured("Subject"))
	assert.False(t, field.Structured("X-Content-Type"))
}
