package diskfile

import "context"

// File is one entry of a platform selection.
type File interface {
	Name() string
	Type() string
	ReadAll(ctx context.Context) ([]byte, error)
}

type Request struct {
	Accept   string
	Multiple bool
	Title    string
}

// Control opens the platform file chooser. Every Open returns a fresh
// Session; nothing is shared between sessions.
type Control interface {
	Open(ctx context.Context, req Request) (Session, error)
}

// Session delivers the signals of one open dialog. Close releases every
// handler the session installed and is safe to call more than once.
type Session interface {
	Events() <-chan Event
	Close() error
}

type EventKind uint8

const (
	// EventFocus fires when the dialog closes and focus returns to the host.
	EventFocus EventKind = iota + 1
	// EventChange carries the confirmed selection, possibly empty.
	EventChange
	// EventError reports a platform failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventFocus:
		return "focus"
	case EventChange:
		return "change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind  EventKind
	Files []File
	Err   error
}
