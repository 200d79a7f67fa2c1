package transfer

import (
	"io"

	"github.com/zostay/go-pgpmime/message/header"
)

// Content-Transfer-Encoding values this package knows about.
const (
	None   = ""       // bytes will be left as-is
	Bit7   = "7bit"   // bytes will be left as-is
	Bit8   = "8bit"   // bytes will be left as-is
	Binary = "binary" // bytes will be left as-is
	Base64 = "base64" // bytes will be transformed between base64 and binary data
)

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close() on
	// the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-Transfer-Encodings and how to
// handle them. Anything not listed here is passed through as-is.
var Transcodings = map[string]Transcoding{
	None:   AsIsTranscoder,
	Bit7:   AsIsTranscoder,
	Bit8:   AsIsTranscoder,
	Binary: AsIsTranscoder,
	Base64: {NewBase64Encoder, NewBase64Decoder},
}

// IsBase64 returns true if the header declares base64 transfer encoding.
func IsBase64(h *header.Header) bool {
	te, err := h.GetTransferEncoding()
	return err == nil && te == Base64
}

// ApplyTransferEncoding returns an io.WriteCloser that encodes what is written
// to it according to the Content-Transfer-Encoding of the given header (or
// passes the bytes through if no encoding applies).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	te, err := h.GetTransferEncoding()
	if err != nil {
		return NewAsIsEncoder(w)
	}

	if tc, hasCode := Transcodings[te]; hasCode {
		return tc.Encoder(w)
	}

	return NewAsIsEncoder(w)
}

// ApplyTransferDecoding returns an io.Reader that decodes incoming bytes
// according to the Content-Transfer-Encoding of the given header. Multipart
// content is never decoded.
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	te, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if tc, hasCode := Transcodings[te]; hasCode {
		return tc.Decoder(r)
	}

	return r
}
