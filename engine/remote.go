package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/zostay/go-pgpmime/pgpmime"
	"github.com/zostay/go-pgpmime/session"
)

// MaxLineLength is the longest line either side of the remote protocol will
// read.
const MaxLineLength = 64 << 20

// ErrRemote wraps the error messages reported by a remote engine.
var ErrRemote = errors.New("remote engine error")

// Remote is an Engine that forwards each operation to another process as a
// line of JSON and waits for the matching reply. Many operations may be in
// flight at once.
type Remote struct {
	log  logrus.FieldLogger
	sess *session.Session

	wmu sync.Mutex
	enc *json.Encoder
	w   io.Writer

	cmd  *exec.Cmd
	done chan struct{}
}

// NewRemote returns a Remote that writes requests to w and reads replies from
// r. It starts a goroutine reading r until it fails or reaches EOF, at which
// point every waiting operation fails.
func NewRemote(r io.Reader, w io.Writer, log logrus.FieldLogger) *Remote {
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &Remote{
		log:  log,
		sess: session.New(),
		enc:  json.NewEncoder(w),
		w:    w,
		done: make(chan struct{}),
	}

	go e.readReplies(r)

	return e
}

// StartRemote runs the named command and returns a Remote talking to it over
// its standard input and output.
func StartRemote(ctx context.Context, log logrus.FieldLogger, name string, args ...string) (*Remote, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start remote engine %s: %w", name, err)
	}

	e := NewRemote(stdout, stdin, log)
	e.cmd = cmd
	return e, nil
}

// readReplies delivers each reply to the operation waiting on it.
func (e *Remote) readReplies(r io.Reader) {
	defer close(e.done)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for sc.Scan() {
		var res response
		if err := json.Unmarshal(sc.Bytes(), &res); err != nil {
			e.log.WithError(err).Warn("discarding unreadable reply from remote engine")
			continue
		}

		var rerr error
		if res.Error != "" {
			rerr = fmt.Errorf("%w: %s", ErrRemote, res.Error)
		}

		if err := e.sess.Deliver(res.ID, session.Reply{Value: res.Result, Err: rerr}); err != nil {
			e.log.WithField("id", res.ID).Warn("discarding reply to unknown request")
		}
	}

	err := sc.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	e.log.WithError(err).Debug("remote engine stopped replying")
	e.sess.Close(err)
}

// call sends the request and waits for the reply.
func (e *Remote) call(ctx context.Context, req *request) (string, error) {
	return e.sess.Request(ctx, func(id string) error {
		req.ID = id

		e.wmu.Lock()
		defer e.wmu.Unlock()

		e.log.WithFields(logrus.Fields{"id": id, "op": req.Op}).Debug("sending request to remote engine")
		return e.enc.Encode(req)
	})
}

// Encrypt asks the remote engine to encrypt.
func (e *Remote) Encrypt(ctx context.Context, req pgpmime.EncryptRequest) (string, error) {
	return e.call(ctx, encryptRequest(req))
}

// Decrypt asks the remote engine to decrypt.
func (e *Remote) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	return e.call(ctx, &request{Op: OpDecrypt, Ciphertext: ciphertext})
}

// Close closes the request stream, if it can be closed, and waits for the
// remote engine to stop replying. If the Remote was started by StartRemote,
// it also waits for the command to exit.
func (e *Remote) Close() error {
	if c, ok := e.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}

	<-e.done

	if e.cmd != nil {
		return e.cmd.Wait()
	}

	return nil
}
