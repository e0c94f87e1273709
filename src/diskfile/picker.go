package diskfile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"diskread/src/logx"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

const (
	DefaultGrace         = 500 * time.Millisecond
	DefaultDecodeTimeout = 30 * time.Second
)

// Order controls how PickMany arranges its results.
type Order uint8

const (
	// OrderCompletion lists results as their reads finish.
	OrderCompletion Order = iota
	// OrderSelection lists results in the order the platform reported them.
	OrderSelection
)

func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), "selection") {
		return OrderSelection
	}
	return OrderCompletion
}

func (o Order) String() string {
	if o == OrderSelection {
		return "selection"
	}
	return "completion"
}

type Picker struct {
	control       Control
	clock         clock.Clock
	logger        logx.Logger
	grace         time.Duration
	decodeTimeout time.Duration
	maxParallel   int
	order         Order
	title         string
}

type Option func(*Picker)

func WithClock(c clock.Clock) Option {
	return func(p *Picker) { p.clock = c }
}

func WithLogger(l logx.Logger) Option {
	return func(p *Picker) { p.logger = l }
}

// WithGrace sets how long to wait after focus returns before treating an
// empty selection as a cancel.
func WithGrace(d time.Duration) Option {
	return func(p *Picker) {
		if d > 0 {
			p.grace = d
		}
	}
}

// WithDecodeTimeout bounds the time spent reading the selection. Zero
// disables the bound.
func WithDecodeTimeout(d time.Duration) Option {
	return func(p *Picker) {
		if d >= 0 {
			p.decodeTimeout = d
		}
	}
}

// WithMaxParallel caps concurrent reads in PickMany. Zero means unbounded.
func WithMaxParallel(n int) Option {
	return func(p *Picker) {
		if n >= 0 {
			p.maxParallel = n
		}
	}
}

func WithOrder(o Order) Option {
	return func(p *Picker) { p.order = o }
}

func WithTitle(title string) Option {
	return func(p *Picker) { p.title = title }
}

func NewPicker(c Control, opts ...Option) *Picker {
	p := &Picker{
		control:       c,
		clock:         clock.RealClock{},
		logger:        logx.Nop(),
		grace:         DefaultGrace,
		decodeTimeout: DefaultDecodeTimeout,
		order:         OrderCompletion,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pick asks for a single file and reads it in the given mode.
// A cancelled dialog or a failed read yields nil without an error.
func (p *Picker) Pick(ctx context.Context, mode Mode, accept string) (*ReadResult, error) {
	files, err := p.choose(ctx, Request{Accept: acceptOrDefault(accept), Title: p.title})
	if err != nil || len(files) == 0 {
		return nil, err
	}

	results, failures := p.readFiles(ctx, files[:1], mode)
	if len(results) == 1 {
		return results[0], nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := failures[0]
	if errors.Is(f.Err, ErrDecodeTimeout) {
		p.logger.Errorf("read %q timed out after %s", f.Filename, p.decodeTimeout)
		return nil, f
	}
	p.logger.Warnf("read %q failed: %v", f.Filename, f.Err)
	return nil, nil
}

// PickMany asks for any number of files and reads them concurrently.
// Files that could not be read are reported through *PartialError next to
// the results that did complete.
func (p *Picker) PickMany(ctx context.Context, mode Mode, accept string) ([]*ReadResult, error) {
	files, err := p.choose(ctx, Request{Accept: acceptOrDefault(accept), Multiple: true, Title: p.title})
	if err != nil || len(files) == 0 {
		return nil, err
	}

	results, failures := p.readFiles(ctx, files, mode)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(failures) == 0 {
		return results, nil
	}

	perr := &PartialError{Total: len(files), Failures: failures}
	p.logger.Warnf("%v", perr)
	if len(results) == 0 {
		return nil, perr
	}
	return results, perr
}

func (p *Picker) choose(ctx context.Context, req Request) ([]File, error) {
	if p.control == nil {
		return nil, ErrNilControl
	}
	p.logger.Debugf("open chooser accept=%q multiple=%t", req.Accept, req.Multiple)

	sess, err := p.control.Open(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrControl, err)
	}
	defer sess.Close()

	return p.await(ctx, sess)
}

// await waits for a selection. There is no cancel signal from the dialog,
// so the first focus return arms the grace timer and an empty selection at
// expiry counts as cancelled.
func (p *Picker) await(ctx context.Context, sess Session) ([]File, error) {
	var (
		grace  clock.Timer
		expiry <-chan time.Time
	)
	defer func() {
		if grace != nil {
			grace.Stop()
		}
	}()

	events := sess.Events()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-expiry:
			p.logger.Debugf("chooser dismissed")
			return nil, nil
		case ev, ok := <-events:
			if !ok {
				p.logger.Debugf("chooser closed without selection")
				return nil, nil
			}
			switch ev.Kind {
			case EventFocus:
				if grace == nil {
					grace = p.clock.NewTimer(p.grace)
					expiry = grace.C()
				}
			case EventChange:
				p.logger.Debugf("chooser selected %d files", len(ev.Files))
				return ev.Files, nil
			case EventError:
				return nil, fmt.Errorf("%w: %w", ErrControl, ev.Err)
			}
		}
	}
}

type readSlot struct {
	res *ReadResult
	err error
}

func (p *Picker) readFiles(ctx context.Context, files []File, mode Mode) ([]*ReadResult, []*FileError) {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		slots     = make([]readSlot, len(files))
		completed = make([]*ReadResult, 0, len(files))
		done      = make(chan struct{})
	)

	go func() {
		defer close(done)
		var g errgroup.Group
		if p.maxParallel > 0 {
			g.SetLimit(p.maxParallel)
		}
		for i, f := range files {
			g.Go(func() error {
				res, err := decode(readCtx, f, mode)
				mu.Lock()
				slots[i] = readSlot{res: res, err: err}
				if err == nil {
					completed = append(completed, res)
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()

	var deadline <-chan time.Time
	if p.decodeTimeout > 0 {
		t := p.clock.NewTimer(p.decodeTimeout)
		defer t.Stop()
		deadline = t.C()
	}

	timedOut := false
	select {
	case <-done:
	case <-deadline:
		timedOut = true
		cancel()
		<-done
	case <-ctx.Done():
		<-done
	}

	var failures []*FileError
	for i, s := range slots {
		if s.err == nil {
			continue
		}
		err := s.err
		if timedOut && errors.Is(err, context.Canceled) {
			err = ErrDecodeTimeout
		}
		failures = append(failures, &FileError{Filename: files[i].Name(), Err: err})
	}

	if p.order == OrderSelection {
		ordered := make([]*ReadResult, 0, len(files))
		for _, s := range slots {
			if s.err == nil {
				ordered = append(ordered, s.res)
			}
		}
		return ordered, failures
	}
	return completed, failures
}

// decode reads f and builds its result. A File that ignores ctx can not
// hold the caller past cancellation.
func decode(ctx context.Context, f File, mode Mode) (*ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type readOut struct {
		data []byte
		err  error
	}
	ch := make(chan readOut, 1)
	go func() {
		data, err := f.ReadAll(ctx)
		ch <- readOut{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		if out.err != nil {
			return nil, out.err
		}
		return newReadResult(f.Name(), f.Type(), out.data, mode), nil
	}
}

func acceptOrDefault(accept string) string {
	if strings.TrimSpace(accept) == "" {
		return DefaultAccept
	}
	return accept
}
