package transfer

import (
	"encoding/base64"
	"io"
)

// Base64LineLength is the longest line the base64 encoder will write.
const Base64LineLength = 76

var base64LineBreak = []byte("\r\n")

// newlineWriter breaks the bytes written to it into lines of at most every
// bytes. A break is only written between lines, never after the last one.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		chunk := nw.every - nw.acc
		if chunk > len(b) {
			chunk = len(b)
		}

		wn, err := nw.w.Write(b[:chunk])
		n += wn
		nw.acc += wn
		if err != nil {
			return n, err
		}

		b = b[chunk:]
	}

	return n, nil
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding, broken into CRLF separated lines, and
// write those to the given io.Writer. Close must be called to flush the final
// quantum.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	enc := base64.NewEncoder(base64.StdEncoding, &newlineWriter{
		every: Base64LineLength,
		lbr:   base64LineBreak,
		w:     w,
	})
	return &writer{enc, enc}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
