package pgpmime

import (
	"context"
	"fmt"
	"time"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/message/header"
)

// EncryptRequest is everything an Encrypter needs to encrypt one message.
type EncryptRequest struct {
	// PlaintextMIME is the serialized plaintext MIME tree. Compose fills this
	// in.
	PlaintextMIME string

	// Recipients are the email addresses to encrypt to.
	Recipients []string

	// Signer is the email address of the key to sign with. The message is not
	// signed when this is empty.
	Signer string

	// Passphrases are passwords the message may also be decrypted with.
	Passphrases []string
}

// Encrypter turns plaintext MIME into ASCII-armored OpenPGP ciphertext.
type Encrypter interface {
	Encrypt(ctx context.Context, req EncryptRequest) (string, error)
}

// Decrypter turns ASCII-armored OpenPGP ciphertext back into plaintext MIME.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type composer struct {
	from    string
	to      []string
	subject string
	date    time.Time
	headers [][2]string
}

// ComposeOption modifies the outer headers Compose puts on the encrypted
// message.
type ComposeOption func(c *composer)

// WithFrom sets the From header of the encrypted message.
func WithFrom(from string) ComposeOption {
	return func(c *composer) { c.from = from }
}

// WithTo sets the To header of the encrypted message. When the EncryptRequest
// names neither recipients nor passphrases, these addresses are used as the
// recipients.
func WithTo(to ...string) ComposeOption {
	return func(c *composer) { c.to = append(c.to, to...) }
}

// WithSubject sets the Subject header of the encrypted message. The subject is
// not protected by the encryption.
func WithSubject(subject string) ComposeOption {
	return func(c *composer) { c.subject = subject }
}

// WithDate sets the Date header of the encrypted message.
func WithDate(date time.Time) ComposeOption {
	return func(c *composer) { c.date = date }
}

// WithHeader sets any other header on the encrypted message.
func WithHeader(name, value string) ComposeOption {
	return func(c *composer) { c.headers = append(c.headers, [2]string{name, value}) }
}

// apply sets the outer headers on the encrypted root.
func (c *composer) apply(root *message.Node) error {
	root.SetHeader(header.MIMEVersion, "1.0")

	if c.from != "" {
		if err := root.SetFrom(c.from); err != nil {
			return fmt.Errorf("unable to set From: %w", err)
		}
	}

	if len(c.to) > 0 {
		to := make([]any, len(c.to))
		for i, a := range c.to {
			to[i] = a
		}
		if err := root.SetTo(to...); err != nil {
			return fmt.Errorf("unable to set To: %w", err)
		}
	}

	if c.subject != "" {
		root.SetSubject(c.subject)
	}

	if !c.date.IsZero() {
		root.SetDate(c.date)
	}

	for _, h := range c.headers {
		root.SetHeader(h[0], h[1])
	}

	return nil
}

// recipients returns the bare email addresses given to WithTo.
func (c *composer) recipients() ([]string, error) {
	var rs []string
	for _, to := range c.to {
		al, err := addr.ParseEmailAddressList(to)
		if err != nil {
			return nil, err
		}
		for _, a := range al {
			rs = append(rs, a.Address())
		}
	}
	return rs, nil
}

// Compose builds the plaintext tree for mc, encrypts it with enc, and returns
// the serialized multipart/encrypted message. The Encrypter is called exactly
// once. If anything fails, including cancellation of ctx, nothing but the
// error is returned.
func Compose(
	ctx context.Context,
	enc Encrypter,
	mc MailContent,
	req EncryptRequest,
	opts ...ComposeOption,
) (string, error) {
	c := &composer{}
	for _, opt := range opts {
		opt(c)
	}

	if len(req.Recipients) == 0 && len(req.Passphrases) == 0 {
		rs, err := c.recipients()
		if err != nil {
			return "", fmt.Errorf("unable to read recipients: %w", err)
		}
		req.Recipients = rs
	}

	plain, err := BuildPlaintextTree(mc).Build()
	if err != nil {
		return "", fmt.Errorf("unable to build plaintext: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	req.PlaintextMIME = plain
	ciphertext, err := enc.Encrypt(ctx, req)
	if err != nil {
		return "", fmt.Errorf("unable to encrypt: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	root := WrapEncrypted(ciphertext)
	if err := c.apply(root); err != nil {
		return "", err
	}

	return root.Build()
}

// Open checks that raw is a PGP/MIME encrypted message, decrypts its payload
// with dec, and extracts the plaintext content. The returned slice reports
// attachments that could not be decoded, as in ExtractMailContent.
func Open(
	ctx context.Context,
	dec Decrypter,
	raw string,
	opts ...message.ParseOption,
) (*MailContent, []error, error) {
	payload, err := ExtractEncryptedPayload(raw, opts...)
	if err != nil {
		return nil, nil, err
	}

	plain, err := dec.Decrypt(ctx, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to decrypt: %w", err)
	}

	msg, err := message.Parse(plain, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse decrypted message: %w", err)
	}

	return ExtractMailContent(msg)
}
