package message_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-pgpmime/message"
)

func TestGenerateBoundary(t *testing.T) {
	t.Parallel()

	b := message.GenerateBoundary()
	assert.Len(t, b, message.BoundaryLength)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, b)
	assert.NotEqual(t, b, message.GenerateBoundary())
}

func TestGenerateSafeBoundary(t *testing.T) {
	t.Parallel()

	contents := strings.Repeat(message.GenerateBoundary(), 10)
	b := message.GenerateSafeBoundary(contents)
	assert.NotContains(t, contents, b)
}
