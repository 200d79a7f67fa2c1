package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// readLines sends each line read from r to lines, until r fails or reaches EOF
// or stop is closed. The final error, nil at EOF, is sent to done.
func readLines(r io.Reader, lines chan<- []byte, done chan<- error, stop <-chan struct{}) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		select {
		case lines <- line:
		case <-stop:
			return
		}
	}
	done <- sc.Err()
}

// Serve answers remote protocol requests read from r by running them on eng
// and writing the replies to w. Requests are handled concurrently, so replies
// may be written in a different order than the requests arrived. Serve
// returns when r reaches EOF or ctx is done, after every started request has
// been answered. When ctx is done, r is closed if it is an io.Closer, so that
// a read blocked on it can end.
func Serve(ctx context.Context, eng Engine, r io.Reader, w io.Writer, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var (
		wg  sync.WaitGroup
		wmu sync.Mutex
		enc = json.NewEncoder(w)
	)

	reply := func(res *response) {
		wmu.Lock()
		defer wmu.Unlock()

		if err := enc.Encode(res); err != nil {
			log.WithError(err).WithField("id", res.ID).Error("unable to write reply")
		}
	}

	defer wg.Wait()

	var (
		lines = make(chan []byte)
		done  = make(chan error, 1)
		stop  = make(chan struct{})
	)
	defer close(stop)

	go readLines(r, lines, done, stop)

	for {
		var line []byte
		select {
		case <-ctx.Done():
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			return ctx.Err()
		case err := <-done:
			return err
		case line = <-lines:
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			log.WithError(err).Warn("discarding unreadable request")
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			logger := log.WithFields(logrus.Fields{"id": req.ID, "op": req.Op})
			res := &response{ID: req.ID}

			var err error
			switch req.Op {
			case OpEncrypt:
				res.Result, err = eng.Encrypt(ctx, req.encryptRequest())
			case OpDecrypt:
				res.Result, err = eng.Decrypt(ctx, req.Ciphertext)
			default:
				err = fmt.Errorf("unknown operation %q", req.Op)
			}

			if err != nil {
				logger.WithError(err).Info("request failed")
				res.Error = err.Error()
			} else {
				logger.Debug("request done")
			}

			reply(res)
		}()
	}
}
