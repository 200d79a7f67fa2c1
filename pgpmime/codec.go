package pgpmime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/header"
	"github.com/zostay/go-pgpmime/message/header/param"
	"github.com/zostay/go-pgpmime/message/transfer"
)

// Media types used in building and reading messages.
const (
	TextPlain           = "text/plain"
	MultipartMixed      = "multipart/mixed"
	MultipartEncrypted  = "multipart/encrypted"
	PGPEncrypted        = "application/pgp-encrypted"
	OctetStream         = "application/octet-stream"
	PGPEncryptedVersion = "Version: 1"
)

// BuildPlaintextTree builds the MIME tree for the given content. A message
// without attachments is a single text/plain part. Otherwise, it is a
// multipart/mixed with the text/plain body first, followed by one base64
// encoded application/octet-stream part per attachment, in order.
func BuildPlaintextTree(mc MailContent) *message.Node {
	if len(mc.Attachments) == 0 {
		n := message.NewNode(message.Config{
			ContentType:      TextPlain,
			TransferEncoding: transfer.Bit7,
		})
		n.SetContent(mc.Body)
		return n
	}

	root := message.NewNode(message.Config{
		ContentType: MultipartMixed,
		Multipart:   true,
	})

	root.AddChild(message.Config{
		ContentType:      TextPlain,
		TransferEncoding: transfer.Bit7,
	}).SetContent(mc.Body)

	for _, a := range mc.Attachments {
		root.AddChild(message.Config{
			ContentType:      OctetStream,
			TransferEncoding: transfer.Base64,
		}, a.Filename).SetBytes(a.Content)
	}

	return root
}

// WrapEncrypted builds the RFC 3156 multipart/encrypted tree around the given
// ASCII-armored ciphertext. The ciphertext is written verbatim.
func WrapEncrypted(ciphertext string) *message.Node {
	root := message.NewNode(message.Config{
		ContentType:      MultipartEncrypted + "; " + param.Format(param.Protocol, PGPEncrypted),
		TransferEncoding: transfer.Bit7,
		Multipart:        true,
	})

	root.AddChild(message.Config{
		ContentType:      PGPEncrypted,
		TransferEncoding: transfer.Bit7,
	}).SetContent(PGPEncryptedVersion)

	root.AddChild(message.Config{
		ContentType:      OctetStream,
		TransferEncoding: transfer.Bit7,
	}).SetContent(ciphertext)

	return root
}

// unsupported wraps ErrUnsupportedMimeContent with a description.
func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedMimeContent, fmt.Sprintf(format, args...))
}

// ExtractEncryptedPayload parses raw and returns the ciphertext carried in the
// second part of its multipart/encrypted body. The message must have exactly
// the RFC 3156 shape: a multipart/encrypted root with the
// application/pgp-encrypted protocol and exactly two parts, the first being
// application/pgp-encrypted and the second application/octet-stream. Anything
// else fails with ErrUnsupportedMimeContent.
func ExtractEncryptedPayload(raw string, opts ...message.ParseOption) (string, error) {
	msg, err := message.Parse(raw, opts...)
	if err != nil {
		return "", err
	}

	ct, err := msg.GetContentType()
	if err != nil {
		return "", unsupported("root Content-Type: %v", err)
	}

	if ct.MediaType() != MultipartEncrypted {
		return "", unsupported("root is %s, not %s", ct.MediaType(), MultipartEncrypted)
	}

	if !strings.EqualFold(ct.Protocol(), PGPEncrypted) {
		return "", unsupported("protocol is %q, not %q", ct.Protocol(), PGPEncrypted)
	}

	if len(msg.Parts) != 2 {
		return "", unsupported("%s has %d parts, not 2", MultipartEncrypted, len(msg.Parts))
	}

	for i, want := range []string{PGPEncrypted, OctetStream} {
		mt, err := msg.Parts[i].GetMediaType()
		if err != nil {
			return "", unsupported("part %d Content-Type: %v", i, err)
		}
		if mt != want {
			return "", unsupported("part %d is %s, not %s", i, mt, want)
		}
	}

	return msg.Parts[1].Content, nil
}

// ExtractMailContent reads the body and attachments out of a parsed plaintext
// message.
//
// A text/plain root is the body. A root or part without a Content-Type is
// read as text/plain. For a multipart/mixed root, the first text/plain part
// is the body and later text/plain parts are ignored. Every
// application/octet-stream part with a filename parameter, even an empty one,
// becomes an Attachment. Other parts are ignored. Any other root fails with
// ErrUnsupportedMimeContent.
//
// An attachment that cannot be decoded is left out and reported as an
// *AttachmentDecodeError in the returned slice. The rest of the message is
// still returned.
func ExtractMailContent(msg *message.Parsed) (*MailContent, []error, error) {
	mt, err := msg.GetMediaType()
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		mt = TextPlain
	case err != nil:
		return nil, nil, unsupported("root Content-Type: %v", err)
	}

	switch mt {
	case TextPlain:
		if msg.IsMultipart() {
			return nil, nil, unsupported("%s root with a boundary", TextPlain)
		}

		body, err := decodeBody(msg)
		if err != nil {
			return nil, nil, err
		}

		return &MailContent{Body: body}, nil, nil

	case MultipartMixed:
		if !msg.IsMultipart() {
			return nil, nil, unsupported("%s root without parts", MultipartMixed)
		}
		return extractMixed(msg)
	}

	return nil, nil, unsupported("root is %s", mt)
}

// decodeBody returns the text of a text/plain part with any transfer
// encoding removed.
func decodeBody(p *message.Parsed) (string, error) {
	if !transfer.IsBase64(&p.Header) {
		return p.Content, nil
	}

	b, err := p.Decode()
	if err != nil {
		return "", unsupported("undecodable %s body: %v", TextPlain, err)
	}

	return string(b), nil
}

// extractMixed implements ExtractMailContent for a multipart/mixed root.
func extractMixed(msg *message.Parsed) (*MailContent, []error, error) {
	var (
		mc      = &MailContent{}
		errs    []error
		hasBody bool
	)

	for i, part := range msg.Parts {
		mt, err := part.GetMediaType()
		switch {
		case errors.Is(err, header.ErrNoSuchField):
			mt = TextPlain
		case err != nil:
			continue
		}

		switch mt {
		case TextPlain:
			if hasBody || part.IsMultipart() {
				continue
			}

			body, err := decodeBody(part)
			if err != nil {
				return nil, nil, err
			}

			mc.Body, hasBody = body, true

		case OctetStream:
			a, err := extractAttachment(i, part)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			mc.Attachments = append(mc.Attachments, *a)
		}
	}

	return mc, errs, nil
}

// extractAttachment decodes an application/octet-stream part.
func extractAttachment(i int, part *message.Parsed) (*Attachment, error) {
	fn, err := part.GetFilename()
	switch {
	case errors.Is(err, header.ErrNoSuchField), errors.Is(err, header.ErrNoSuchFieldParameter):
		return nil, &AttachmentDecodeError{Index: i, Cause: ErrMissingFilename}
	case err != nil:
		return nil, &AttachmentDecodeError{Index: i, Cause: err}
	}

	content, err := part.Decode()
	if err != nil {
		return nil, &AttachmentDecodeError{Index: i, Filename: fn, Cause: err}
	}

	return &Attachment{Filename: fn, Content: content}, nil
}
