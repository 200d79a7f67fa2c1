package walker_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/walker"
)

var msg = strings.ReplaceAll(`X-Where: A
Content-type: multipart/mixed; boundary=aaaaaaa

--aaaaaaa
X-Where: B
Content-type: multipart/mixed; boundary=bbbbbbb

--bbbbbbb
X-Where: E
Content-type: text/plain

--bbbbbbb
X-Where: F
Content-type: text/plain

--bbbbbbb--
--aaaaaaa
X-Where: C
Content-type: multipart/mixed; boundary=ccccccc

--ccccccc
X-Where: G
Content-type: text/plain

--ccccccc
X-Where: H
Content-type: text/plain

--ccccccc--
--aaaaaaa
X-Where: D
Content-type: multipart/mixed; boundary=ddddddd

--ddddddd
X-Where: I
Content-type: text/plain

--ddddddd
X-Where: J
Content-type: text/plain

--ddddddd--
--aaaaaaa--
`, "\n", "\r\n")

func parse(t *testing.T) *message.Parsed {
	t.Helper()

	m, err := message.Parse(msg)
	require.NoError(t, err)
	return m
}

func expectWalk(t *testing.T, expectOrder []string, expectDepth, expectIndex []int) walker.Parts {
	i := 0
	return func(depth, j int, part *message.Parsed) error {
		where, err := part.GetHeader().Get("X-Where")
		assert.NoError(t, err)
		assert.Equal(t, expectOrder[i], where)
		assert.Equal(t, expectDepth[i], depth)
		assert.Equal(t, expectIndex[i], j)
		i++
		return nil
	}
}

func TestParts_Walk(t *testing.T) {
	t.Parallel()

	pw := expectWalk(t,
		[]string{"A", "B", "E", "F", "C", "G", "H", "D", "I", "J"},
		[]int{0, 1, 2, 2, 1, 2, 2, 1, 2, 2},
		[]int{0, 0, 0, 1, 1, 0, 1, 2, 0, 1})

	assert.NoError(t, pw.Walk(parse(t)))
}

func TestParts_WalkLeaves(t *testing.T) {
	t.Parallel()

	pw := expectWalk(t,
		[]string{"E", "F", "G", "H", "I", "J"},
		[]int{2, 2, 2, 2, 2, 2},
		[]int{0, 1, 0, 1, 0, 1})

	assert.NoError(t, pw.WalkLeaves(parse(t)))
}

func TestParts_WalkMultipart(t *testing.T) {
	t.Parallel()

	pw := expectWalk(t,
		[]string{"A", "B", "C", "D"},
		[]int{0, 1, 1, 1},
		[]int{0, 0, 1, 2})

	assert.NoError(t, pw.WalkMultipart(parse(t)))
}

func TestParts_WalkStops(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	var pw walker.Parts = func(depth, i int, part *message.Parsed) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	}

	assert.ErrorIs(t, pw.Walk(parse(t)), stop)
	assert.Equal(t, 3, count)
}
