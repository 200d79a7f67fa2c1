// Package transfer contains utilities related to encoding and decoding transfer
// encodings, which interpret the Content-Transfer-Encoding header. Only base64
// actually changes the bytes. Settings such as binary, 7bit, or 8bit leave the
// bytes as-is, and so does anything this package does not recognize.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-Transfer-Encoding back to raw bytes.
// Meanwhile, "encoded" means that the raw bytes have been transformed into the
// named Content-Transfer-Encoding.
package transfer
