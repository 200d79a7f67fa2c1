package transfer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/message/header"
	"github.com/zostay/go-pgpmime/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = "MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr\r\n" +
	"aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg\r\n" +
	"d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg\r\n" +
	"bWFueSBwYW5ncy4="

func TestApplyTransferDecoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetTransferEncoding("Base64")

	tdr := transfer.ApplyTransferDecoding(h, strings.NewReader(enc))
	tdb, err := io.ReadAll(tdr)
	assert.NoError(t, err)
	assert.Equal(t, []byte(dec), tdb)
}

func TestApplyTransferDecoding_Multipart(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentType, "multipart/mixed; boundary=x")
	h.SetTransferEncoding(transfer.Base64)

	tdb, err := io.ReadAll(transfer.ApplyTransferDecoding(h, strings.NewReader(enc)))
	assert.NoError(t, err)
	assert.Equal(t, enc, string(tdb))
}

func TestApplyTransferDecoding_Corrupt(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetTransferEncoding(transfer.Base64)

	_, err := io.ReadAll(transfer.ApplyTransferDecoding(h, strings.NewReader("not*base64!")))
	assert.Error(t, err)
}

func TestApplyTransferEncoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetTransferEncoding(transfer.Base64)

	w := &bytes.Buffer{}
	tdwc := transfer.ApplyTransferEncoding(h, w)
	n, err := tdwc.Write([]byte(dec))
	assert.Equal(t, len(dec), n)
	assert.NoError(t, err)

	require.NoError(t, tdwc.Close())
	assert.Equal(t, enc, w.String())
}

func TestApplyTransferEncoding_AsIs(t *testing.T) {
	t.Parallel()

	for _, te := range []string{transfer.None, transfer.Bit7, transfer.Bit8, transfer.Binary, "x-unknown"} {
		h := &header.Header{}
		if te != transfer.None {
			h.SetTransferEncoding(te)
		}

		w := &bytes.Buffer{}
		wc := transfer.ApplyTransferEncoding(h, w)
		_, err := io.WriteString(wc, "as is\r\n")
		require.NoError(t, err)
		require.NoError(t, wc.Close())
		assert.Equal(t, "as is\r\n", w.String())
	}
}

func TestBase64_ExactLine(t *testing.T) {
	t.Parallel()

	// 57 input bytes encode to exactly one full line
	w := &bytes.Buffer{}
	wc := transfer.NewBase64Encoder(w)
	_, err := wc.Write(bytes.Repeat([]byte{0xff}, 57))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	assert.Len(t, w.String(), transfer.Base64LineLength)
	assert.NotContains(t, w.String(), "\r\n")
}

func TestIsBase64(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	assert.False(t, transfer.IsBase64(h))
	h.SetTransferEncoding("BASE64")
	assert.True(t, transfer.IsBase64(h))
}
