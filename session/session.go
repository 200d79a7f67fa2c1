// Package session correlates requests sent over a message channel with the
// replies that come back, possibly out of order.
//
// Each request is given a fresh id. The caller sends the request tagged with
// that id, and whatever reads the replies hands each one to Deliver. The
// waiting caller then receives it. A Session is safe for concurrent use.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Errors returned by Session methods.
var (
	// ErrUnknownRequest is returned by Deliver when no request is waiting on
	// the given id. This happens when a reply arrives twice or after the
	// request was cancelled.
	ErrUnknownRequest = errors.New("no pending request with that id")

	// ErrClosed is returned to waiting and new requests once the Session is
	// closed.
	ErrClosed = errors.New("session closed")
)

// Reply is the answer to a request.
type Reply struct {
	Value string
	Err   error
}

// Session holds the requests awaiting a reply.
type Session struct {
	mu      sync.Mutex
	pending map[string]chan Reply
	err     error
}

// New returns an empty Session.
func New() *Session {
	return &Session{pending: map[string]chan Reply{}}
}

// Begin registers a new request and returns its id and the channel the reply
// will arrive on. The channel receives exactly one Reply, unless the request
// is cancelled first. Most callers want Request instead.
func (s *Session) Begin() (string, <-chan Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", nil, s.err
	}

	id := uuid.NewString()
	ch := make(chan Reply, 1)
	s.pending[id] = ch
	return id, ch, nil
}

// Cancel forgets the request with the given id. A reply that arrives later
// is rejected by Deliver.
func (s *Session) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
}

// Deliver hands the reply to the request waiting on id.
func (s *Session) Deliver(id string, r Reply) error {
	s.mu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownRequest
	}

	ch <- r
	return nil
}

// Request begins a request, calls send with its id, and waits for the reply.
// If send fails or ctx is done first, the request is cancelled and the error
// is returned.
func (s *Session) Request(ctx context.Context, send func(id string) error) (string, error) {
	id, ch, err := s.Begin()
	if err != nil {
		return "", err
	}

	if err := send(id); err != nil {
		s.Cancel(id)
		return "", err
	}

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		s.Cancel(id)
		return "", ctx.Err()
	}
}

// Pending returns the number of requests awaiting a reply.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Close fails every waiting request with err, or ErrClosed if err is nil, and
// rejects any new request with the same error.
func (s *Session) Close(err error) {
	if err == nil {
		err = ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return
	}

	s.err = err
	for id, ch := range s.pending {
		ch <- Reply{Err: err}
		delete(s.pending, id)
	}
}
