package message

import (
	"math/rand"
	"strings"
)

// BoundaryLength is the length of the boundaries made by GenerateBoundary.
const BoundaryLength = 30

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateBoundary will generate a random MIME boundary that is probably unique
// in most circumstances. This is for avoiding collisions with content only; it
// is not meant to be unpredictable.
func GenerateBoundary() string {
	s := make([]rune, BoundaryLength)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))]
	}
	return string(s)
}

// GenerateSafeBoundary will generate a random MIME boundary that does not
// occur anywhere in the given contents.
func GenerateSafeBoundary(contents string) string {
	for {
		boundary := GenerateBoundary()
		if !strings.Contains(contents, boundary) {
			return boundary
		}
	}
}
