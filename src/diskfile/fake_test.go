package diskfile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type fakeFile struct {
	name  string
	typ   string
	data  []byte
	err   error
	block chan struct{} // read waits for close, or for ctx when ignoreCtx is false
	// ignoreCtx makes the read hang on block even after cancellation.
	ignoreCtx bool
	// reads counts finished ReadAll calls when set.
	reads *atomic.Int32
}

func (f *fakeFile) Name() string { return f.name }
func (f *fakeFile) Type() string { return f.typ }

func (f *fakeFile) ReadAll(ctx context.Context) ([]byte, error) {
	if f.reads != nil {
		defer f.reads.Add(1)
	}
	if f.block != nil {
		if f.ignoreCtx {
			<-f.block
		} else {
			select {
			case <-f.block:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeSession struct {
	events chan Event
	closed atomic.Int32
}

func (s *fakeSession) Events() <-chan Event { return s.events }

func (s *fakeSession) Close() error {
	s.closed.Add(1)
	return nil
}

func (s *fakeSession) send(ev Event) { s.events <- ev }

// fakeControl hands out a new session per Open and lets the test script
// the signals through script.
type fakeControl struct {
	mu       sync.Mutex
	openErr  error
	script   func(s *fakeSession)
	sessions []*fakeSession
	requests []Request
	opened   chan *fakeSession
}

func newFakeControl(script func(s *fakeSession)) *fakeControl {
	return &fakeControl{script: script, opened: make(chan *fakeSession, 16)}
}

func (c *fakeControl) Open(_ context.Context, req Request) (Session, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	s := &fakeSession{events: make(chan Event, 16)}
	c.mu.Lock()
	c.sessions = append(c.sessions, s)
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.script != nil {
		c.script(s)
	}
	c.opened <- s
	return s, nil
}

func (c *fakeControl) lastRequest() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

func selects(files ...File) func(s *fakeSession) {
	return func(s *fakeSession) {
		s.send(Event{Kind: EventFocus})
		s.send(Event{Kind: EventChange, Files: files})
	}
}

func dismisses(s *fakeSession) {
	s.send(Event{Kind: EventFocus})
}

var errDisk = errors.New("disk went away")
