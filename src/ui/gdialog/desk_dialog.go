//go:build !js && !wasm
// +build !js,!wasm

package gdialog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"diskread/src/diskfile"
	"diskread/src/logx"

	"github.com/sqweek/dialog"
)

// LoadFunc shows one native open dialog and returns the chosen path.
// A dismissed dialog returns dialog.ErrCancelled.
type LoadFunc func(title string, exts []string) (string, error)

func nativeLoad(title string, exts []string) (string, error) {
	b := dialog.File().Title(title)
	if len(exts) > 0 {
		b = b.Filter("Accepted files", exts...)
	}
	return b.Load()
}

type Control struct {
	logger logx.Logger
	load   LoadFunc
}

func NewControl(l logx.Logger) *Control {
	return &Control{logger: l, load: nativeLoad}
}

// NewControlWithLoader swaps the native dialog, mostly for tests.
func NewControlWithLoader(l logx.Logger, load LoadFunc) *Control {
	return &Control{logger: l, load: load}
}

// Open runs the native dialog on its own goroutine. The native dialog has
// no multi-select, so a multiple request reopens it until the user cancels.
func (c *Control) Open(ctx context.Context, req diskfile.Request) (diskfile.Session, error) {
	s := &session{events: make(chan diskfile.Event, 3), closed: make(chan struct{})}
	exts := diskfile.ParseAccept(req.Accept).DialogExtensions()
	go s.run(ctx, c, req, exts)
	return s, nil
}

type session struct {
	events    chan diskfile.Event
	closed    chan struct{}
	closeOnce sync.Once
}

func (s *session) Events() <-chan diskfile.Event { return s.events }

// Close stops a multiple request from reopening the dialog. A dialog already
// on screen stays until the user dismisses it.
func (s *session) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *session) run(ctx context.Context, c *Control, req diskfile.Request, exts []string) {
	defer close(s.events)

	var (
		files []diskfile.File
		seen  = make(map[string]struct{})
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			return
		default:
		}

		path, err := c.load(dialogTitle(req, len(files)), exts)
		if errors.Is(err, dialog.ErrCancelled) {
			break
		}
		if err != nil {
			c.logger.Errorf("native dialog: %v", err)
			s.events <- diskfile.Event{Kind: diskfile.EventError, Err: err}
			return
		}
		if _, dup := seen[path]; !dup {
			seen[path] = struct{}{}
			files = append(files, NewDiskFile(path))
		}
		if !req.Multiple {
			break
		}
	}

	s.events <- diskfile.Event{Kind: diskfile.EventFocus}
	if len(files) > 0 {
		s.events <- diskfile.Event{Kind: diskfile.EventChange, Files: files}
	}
}

func dialogTitle(req diskfile.Request, chosen int) string {
	title := req.Title
	if title == "" {
		title = "Open file"
		if req.Multiple {
			title = "Open files"
		}
	}
	if req.Multiple && chosen > 0 {
		title = fmt.Sprintf("%s (%d selected, cancel to finish)", title, chosen)
	}
	return title
}

// DiskFile is a selected path on the local file system.
type DiskFile struct {
	path string
	name string
	typ  string
}

func NewDiskFile(path string) *DiskFile {
	name := filepath.Base(path)
	return &DiskFile{path: path, name: name, typ: diskfile.TypeByName(name)}
}

func (f *DiskFile) Name() string { return f.name }
func (f *DiskFile) Type() string { return f.typ }
func (f *DiskFile) Path() string { return f.path }

func (f *DiskFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.path)
}
