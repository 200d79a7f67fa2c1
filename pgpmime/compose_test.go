package pgpmime_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/pgpmime"
)

const (
	beginArmor = "-----BEGIN FAKE MESSAGE-----\r\n"
	endArmor   = "\r\n-----END FAKE MESSAGE-----"
)

// fakeEngine "encrypts" by base64 encoding inside armor-like lines.
type fakeEngine struct {
	calls int
	last  pgpmime.EncryptRequest
	err   error
}

func (e *fakeEngine) Encrypt(_ context.Context, req pgpmime.EncryptRequest) (string, error) {
	e.calls++
	e.last = req
	if e.err != nil {
		return "", e.err
	}
	return beginArmor + base64.StdEncoding.EncodeToString([]byte(req.PlaintextMIME)) + endArmor, nil
}

func (e *fakeEngine) Decrypt(_ context.Context, ciphertext string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	b := strings.TrimSuffix(strings.TrimPrefix(ciphertext, beginArmor), endArmor)
	plain, err := base64.StdEncoding.DecodeString(b)
	return string(plain), err
}

func TestCompose_Open(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := &fakeEngine{}
	mc := pgpmime.MailContent{
		Body: "Secret plans\r\n",
		Attachments: []pgpmime.Attachment{
			{Filename: "plans.pdf", Content: []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}},
		},
	}

	date := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	raw, err := pgpmime.Compose(ctx, eng, mc,
		pgpmime.EncryptRequest{Signer: "me@example.com", Passphrases: []string{"pw"}},
		pgpmime.WithFrom("Me <me@example.com>"),
		pgpmime.WithTo("You <you@example.com>", "them@example.com"),
		pgpmime.WithSubject("..."),
		pgpmime.WithDate(date),
		pgpmime.WithHeader("X-Mailer", "pgpmime"),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.calls)

	assert.Equal(t, []string{"you@example.com", "them@example.com"}, eng.last.Recipients)
	assert.Equal(t, "me@example.com", eng.last.Signer)
	assert.Equal(t, []string{"pw"}, eng.last.Passphrases)
	assert.NotContains(t, raw, "Secret plans")

	msg, err := message.Parse(raw)
	require.NoError(t, err)

	mv, err := msg.Get("MIME-Version")
	require.NoError(t, err)
	assert.Equal(t, "1.0", mv)

	to, err := msg.GetTo()
	require.NoError(t, err)
	assert.Len(t, to, 2)

	d, err := msg.GetDate()
	require.NoError(t, err)
	assert.True(t, date.Equal(d))

	xm, err := msg.Get("x-mailer")
	require.NoError(t, err)
	assert.Equal(t, "pgpmime", xm)

	got, errs, err := pgpmime.Open(ctx, eng, raw)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, &mc, got)
	assert.Equal(t, 2, eng.calls)
}

func TestCompose_ExplicitRecipients(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	_, err := pgpmime.Compose(context.Background(), eng,
		pgpmime.MailContent{Body: "x"},
		pgpmime.EncryptRequest{Recipients: []string{"a@example.com"}},
		pgpmime.WithTo("b@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, eng.last.Recipients)
}

func TestCompose_EngineFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no public key")
	eng := &fakeEngine{err: boom}
	raw, err := pgpmime.Compose(context.Background(), eng,
		pgpmime.MailContent{Body: "x"}, pgpmime.EncryptRequest{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, raw)
	assert.Equal(t, 1, eng.calls)
}

func TestCompose_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := &fakeEngine{}
	raw, err := pgpmime.Compose(ctx, eng, pgpmime.MailContent{Body: "x"}, pgpmime.EncryptRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, raw)
	assert.Equal(t, 0, eng.calls)
}

func TestCompose_BadAddress(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	_, err := pgpmime.Compose(context.Background(), eng,
		pgpmime.MailContent{Body: "x"}, pgpmime.EncryptRequest{},
		pgpmime.WithTo("not an address <"))
	assert.Error(t, err)
	assert.Equal(t, 0, eng.calls)
}

func TestOpen_NotEncrypted(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	mc, _, err := pgpmime.Open(context.Background(), eng, "Content-Type: text/plain\r\n\r\nhello")
	assert.ErrorIs(t, err, pgpmime.ErrUnsupportedMimeContent)
	assert.Nil(t, mc)
	assert.Equal(t, 0, eng.calls)
}

func TestOpen_DecryptFailure(t *testing.T) {
	t.Parallel()

	raw, err := pgpmime.WrapEncrypted("ciphertext").Build()
	require.NoError(t, err)

	boom := errors.New("no secret key")
	_, _, err = pgpmime.Open(context.Background(), &fakeEngine{err: boom}, raw)
	assert.ErrorIs(t, err, boom)
}
