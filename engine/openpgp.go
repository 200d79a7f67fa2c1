package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-pgpmime/pgpmime"
)

// MessageType is the armor block type of an encrypted message.
const MessageType = "PGP MESSAGE"

// OpenPGP encrypts and decrypts with the keys of an in-memory keyring. It is
// safe for concurrent use.
type OpenPGP struct {
	// mu guards unlocking secret keys, which modifies them in place
	mu sync.Mutex

	keyring     openpgp.EntityList
	passphrases [][]byte
	config      *packet.Config
}

// OpenPGPOption configures an OpenPGP engine.
type OpenPGPOption func(e *OpenPGP)

// WithPassphrases gives passphrases to try when a secret key is locked and
// when decrypting passphrase protected messages.
func WithPassphrases(ps ...string) OpenPGPOption {
	return func(e *OpenPGP) {
		for _, p := range ps {
			e.passphrases = append(e.passphrases, []byte(p))
		}
	}
}

// WithConfig sets the packet configuration used for all operations.
func WithConfig(cfg *packet.Config) OpenPGPOption {
	return func(e *OpenPGP) { e.config = cfg }
}

// NewOpenPGP returns an engine using the given keyring.
func NewOpenPGP(keyring openpgp.EntityList, opts ...OpenPGPOption) *OpenPGP {
	e := &OpenPGP{keyring: keyring}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadKeyRing reads and combines the ASCII-armored keyrings in the named
// files.
func ReadKeyRing(paths ...string) (openpgp.EntityList, error) {
	var keyring openpgp.EntityList
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		el, err := openpgp.ReadArmoredKeyRing(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to read keyring %s: %w", path, err)
		}

		keyring = append(keyring, el...)
	}
	return keyring, nil
}

// emailOf returns the bare email address of a recipient given in any form
// accepted in a To header.
func emailOf(s string) (string, error) {
	al, err := addr.ParseEmailAddressList(s)
	if err != nil {
		return "", err
	}
	if len(al) != 1 {
		return "", fmt.Errorf("expected one address, got %d in %q", len(al), s)
	}
	return al[0].Address(), nil
}

// find returns the first entity with an identity for the given address. When
// secret is true, only entities with a private key are considered.
func (e *OpenPGP) find(who string, secret bool) (*openpgp.Entity, error) {
	email, err := emailOf(who)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownKey, who, err)
	}

	for _, ent := range e.keyring {
		if secret && ent.PrivateKey == nil {
			continue
		}

		for _, id := range ent.Identities {
			if id.UserId != nil && strings.EqualFold(id.UserId.Email, email) {
				return ent, nil
			}
		}
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownKey, email)
}

// unlock decrypts the private keys of the entity if they are locked.
func (e *OpenPGP) unlock(ent *openpgp.Entity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ent.PrivateKey == nil || !ent.PrivateKey.Encrypted {
		return nil
	}

	for _, p := range e.passphrases {
		if err := ent.DecryptPrivateKeys(p); err == nil {
			return nil
		}
	}

	return ErrLockedKey
}

// Encrypt encrypts req.PlaintextMIME to the recipients, signing it when a
// signer is named. Without recipients, the message is encrypted with the
// single passphrase in req.Passphrases instead. The result is ASCII-armored
// with CRLF line breaks.
func (e *OpenPGP) Encrypt(ctx context.Context, req pgpmime.EncryptRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	buf := &strings.Builder{}
	aw, err := armor.Encode(buf, MessageType, nil)
	if err != nil {
		return "", err
	}

	hints := &openpgp.FileHints{IsBinary: true}

	var pw io.WriteCloser
	switch {
	case len(req.Recipients) > 0 && len(req.Passphrases) > 0:
		return "", fmt.Errorf("%w: both recipients and passphrases given", ErrUnsupportedRequest)

	case len(req.Recipients) > 0:
		to := make([]*openpgp.Entity, len(req.Recipients))
		for i, r := range req.Recipients {
			if to[i], err = e.find(r, false); err != nil {
				return "", err
			}
		}

		var signer *openpgp.Entity
		if req.Signer != "" {
			if signer, err = e.find(req.Signer, true); err != nil {
				return "", err
			}
			if err := e.unlock(signer); err != nil {
				return "", fmt.Errorf("signer %q: %w", req.Signer, err)
			}
		}

		pw, err = openpgp.Encrypt(aw, to, signer, hints, e.config)

	case len(req.Passphrases) == 1:
		if req.Signer != "" {
			return "", fmt.Errorf("%w: signing a passphrase encrypted message", ErrUnsupportedRequest)
		}

		pw, err = openpgp.SymmetricallyEncrypt(aw, []byte(req.Passphrases[0]), hints, e.config)

	case len(req.Passphrases) > 1:
		return "", fmt.Errorf("%w: more than one passphrase", ErrUnsupportedRequest)

	default:
		return "", ErrNoRecipients
	}

	if err != nil {
		return "", err
	}

	if _, err := io.WriteString(pw, req.PlaintextMIME); err != nil {
		return "", err
	}

	if err := pw.Close(); err != nil {
		return "", err
	}

	if err := aw.Close(); err != nil {
		return "", err
	}

	return toCRLF(buf.String()), nil
}

// prompt returns the PromptFunction that tries each passphrase once.
func (e *OpenPGP) prompt() openpgp.PromptFunction {
	tried := 0
	return func(keys []openpgp.Key, symmetric bool) ([]byte, error) {
		if symmetric {
			if tried >= len(e.passphrases) {
				return nil, ErrLockedKey
			}
			tried++
			return e.passphrases[tried-1], nil
		}

		e.mu.Lock()
		defer e.mu.Unlock()

		for _, k := range keys {
			if k.PrivateKey == nil {
				continue
			}
			if !k.PrivateKey.Encrypted {
				return nil, nil
			}
			for _, p := range e.passphrases {
				if err := k.PrivateKey.Decrypt(p); err == nil {
					return nil, nil
				}
			}
		}

		return nil, ErrLockedKey
	}
}

// Decrypt decrypts an ASCII-armored message. A signature made by a key in the
// keyring is verified and a bad signature is an error. A signature by an
// unknown key is ignored.
func (e *OpenPGP) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	block, err := armor.Decode(strings.NewReader(ciphertext))
	if err != nil {
		return "", fmt.Errorf("unable to read armor: %w", err)
	}

	if block.Type != MessageType {
		return "", fmt.Errorf("unexpected armor block %q", block.Type)
	}

	md, err := openpgp.ReadMessage(block.Body, e.keyring, e.prompt(), e.config)
	if err != nil {
		return "", err
	}

	plain, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return "", err
	}

	if md.IsSigned && md.SignatureError != nil && !errors.Is(md.SignatureError, pgperrors.ErrUnknownIssuer) {
		return "", fmt.Errorf("bad signature: %w", md.SignatureError)
	}

	return string(plain), nil
}
