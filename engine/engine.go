// Package engine provides the encryption engines used by pgpmime.
//
// OpenPGP does the work in process using ProtonMail's fork of the Go
// OpenPGP packages. Remote hands the work to another process speaking
// newline-delimited JSON, which Serve implements on top of any other Engine.
package engine

import (
	"errors"
	"strings"

	"github.com/zostay/go-pgpmime/pgpmime"
)

// Engine is able to both encrypt and decrypt.
type Engine interface {
	pgpmime.Encrypter
	pgpmime.Decrypter
}

// Errors returned by the engines.
var (
	// ErrNoRecipients is returned when there is nobody to encrypt to: no
	// recipients and no passphrases.
	ErrNoRecipients = errors.New("no recipients or passphrases to encrypt to")

	// ErrUnknownKey is returned when no key in the keyring matches a
	// recipient or signer. The address is included in the wrapping error.
	ErrUnknownKey = errors.New("no usable key for address")

	// ErrLockedKey is returned when a secret key is needed but none of the
	// configured passphrases unlocks it.
	ErrLockedKey = errors.New("unable to unlock secret key")

	// ErrUnsupportedRequest is returned for combinations the engine cannot
	// produce, such as mixing public key and passphrase encryption.
	ErrUnsupportedRequest = errors.New("unsupported encryption request")
)

// toCRLF rewrites bare LF line breaks as CRLF.
func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
