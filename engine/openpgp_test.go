package engine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/engine"
	"github.com/zostay/go-pgpmime/pgpmime"
)

var keyConfig = &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}

func newEntity(t *testing.T, name, email string) *openpgp.Entity {
	t.Helper()

	ent, err := openpgp.NewEntity(name, "", email, keyConfig)
	require.NoError(t, err)
	return ent
}

func writeKeyRing(t *testing.T, ents ...*openpgp.Entity) string {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := armor.Encode(buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	for _, ent := range ents {
		require.NoError(t, ent.SerializePrivate(w, nil))
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "secring.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

const plainMIME = "Content-Type: text/plain\r\nContent-Transfer-Encoding: 7bit\r\n\r\nhello"

func TestOpenPGP_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice := newEntity(t, "Alice", "alice@example.com")
	bob := newEntity(t, "Bob", "bob@example.com")
	e := engine.NewOpenPGP(openpgp.EntityList{alice, bob})

	ct, err := e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"Bob <BOB@example.com>"},
		Signer:        "alice@example.com",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "-----BEGIN PGP MESSAGE-----\r\n"))
	assert.NotContains(t, strings.ReplaceAll(ct, "\r\n", ""), "\n")
	assert.NotContains(t, ct, "hello")

	pt, err := e.Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, plainMIME, pt)

	// bob alone can read it too, without knowing alice
	pt, err = engine.NewOpenPGP(openpgp.EntityList{bob}).Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, plainMIME, pt)

	// alice was not a recipient
	_, err = engine.NewOpenPGP(openpgp.EntityList{alice}).Decrypt(ctx, ct)
	assert.Error(t, err)
}

func TestOpenPGP_Symmetric(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := engine.NewOpenPGP(nil, engine.WithPassphrases("wrong", "sekrit"))

	ct, err := e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Passphrases:   []string{"sekrit"},
	})
	require.NoError(t, err)

	pt, err := e.Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, plainMIME, pt)

	_, err = engine.NewOpenPGP(nil, engine.WithPassphrases("nope")).Decrypt(ctx, ct)
	assert.Error(t, err)
}

func TestOpenPGP_LockedKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice := newEntity(t, "Alice", "alice@example.com")
	require.NoError(t, alice.EncryptPrivateKeys([]byte("pw"), nil))

	e := engine.NewOpenPGP(openpgp.EntityList{alice})
	_, err := e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"alice@example.com"},
		Signer:        "alice@example.com",
	})
	assert.ErrorIs(t, err, engine.ErrLockedKey)

	ct, err := e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"alice@example.com"},
	})
	require.NoError(t, err)

	_, err = e.Decrypt(ctx, ct)
	assert.Error(t, err)

	pt, err := engine.NewOpenPGP(openpgp.EntityList{alice}, engine.WithPassphrases("pw")).Decrypt(ctx, ct)
	require.NoError(t, err)
	assert.Equal(t, plainMIME, pt)
}

func TestOpenPGP_RequestErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice := newEntity(t, "Alice", "alice@example.com")
	e := engine.NewOpenPGP(openpgp.EntityList{alice})

	_, err := e.Encrypt(ctx, pgpmime.EncryptRequest{PlaintextMIME: plainMIME})
	assert.ErrorIs(t, err, engine.ErrNoRecipients)

	_, err = e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"carol@example.com"},
	})
	assert.ErrorIs(t, err, engine.ErrUnknownKey)

	_, err = e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"alice@example.com"},
		Passphrases:   []string{"pw"},
	})
	assert.ErrorIs(t, err, engine.ErrUnsupportedRequest)

	_, err = e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Passphrases:   []string{"one", "two"},
	})
	assert.ErrorIs(t, err, engine.ErrUnsupportedRequest)

	_, err = e.Encrypt(ctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Passphrases:   []string{"pw"},
		Signer:        "alice@example.com",
	})
	assert.ErrorIs(t, err, engine.ErrUnsupportedRequest)

	_, err = e.Decrypt(ctx, "not armored")
	assert.Error(t, err)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.Encrypt(cctx, pgpmime.EncryptRequest{
		PlaintextMIME: plainMIME,
		Recipients:    []string{"alice@example.com"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadKeyRing(t *testing.T) {
	t.Parallel()

	alice := newEntity(t, "Alice", "alice@example.com")
	bob := newEntity(t, "Bob", "bob@example.com")

	kr, err := engine.ReadKeyRing(writeKeyRing(t, alice), writeKeyRing(t, bob))
	require.NoError(t, err)
	assert.Len(t, kr, 2)

	_, err = engine.ReadKeyRing(filepath.Join(t.TempDir(), "missing.asc"))
	assert.Error(t, err)
}

func TestOpenPGP_ComposeOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alice := newEntity(t, "Alice", "alice@example.com")
	bob := newEntity(t, "Bob", "bob@example.com")

	kr, err := engine.ReadKeyRing(writeKeyRing(t, alice, bob))
	require.NoError(t, err)
	e := engine.NewOpenPGP(kr)

	mc := pgpmime.MailContent{
		Body: "See attached.\r\n",
		Attachments: []pgpmime.Attachment{
			{Filename: "data.bin", Content: []byte{0, 1, 2, 0xfe, 0xff}},
		},
	}

	raw, err := pgpmime.Compose(ctx, e, mc,
		pgpmime.EncryptRequest{Signer: "alice@example.com"},
		pgpmime.WithFrom("Alice <alice@example.com>"),
		pgpmime.WithTo("Bob <bob@example.com>"),
	)
	require.NoError(t, err)

	got, errs, err := pgpmime.Open(ctx, e, raw)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, &mc, got)
}
