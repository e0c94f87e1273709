//go:build js && wasm
// +build js,wasm

package gdialog

import (
	"context"
	"errors"
	"sync"
	"syscall/js"

	"diskread/src/diskfile"
	"diskread/src/logx"
)

type Control struct {
	logger logx.Logger
}

func NewControl(l logx.Logger) *Control {
	return &Control{logger: l}
}

// Open adds a hidden <input type="file"> to the page and clicks it.
// Focus is watched through a window listener owned by this session only.
func (c *Control) Open(_ context.Context, req diskfile.Request) (diskfile.Session, error) {
	global := js.Global()
	doc := global.Get("document")
	if !doc.Truthy() {
		return nil, errors.New("document not available")
	}
	body := doc.Get("body")
	if !body.Truthy() {
		return nil, errors.New("document.body not available")
	}

	input := doc.Call("createElement", "input")
	input.Get("style").Set("display", "none")
	input.Call("setAttribute", "type", "file")
	input.Call("setAttribute", "accept", req.Accept)
	if req.Multiple {
		input.Call("setAttribute", "multiple", "multiple")
	}

	s := &session{
		events: make(chan diskfile.Event, 8),
		window: global,
		body:   body,
		input:  input,
		logger: c.logger,
	}

	s.onclick = js.FuncOf(func(this js.Value, args []js.Value) any {
		input.Set("value", "")
		return nil
	})
	s.onfocus = js.FuncOf(func(this js.Value, args []js.Value) any {
		s.send(diskfile.Event{Kind: diskfile.EventFocus})
		return nil
	})
	s.onchange = js.FuncOf(func(this js.Value, args []js.Value) any {
		list := input.Get("files")
		files := make([]diskfile.File, 0, list.Length())
		for i := 0; i < list.Length(); i++ {
			files = append(files, &wasmFile{v: list.Index(i)})
		}
		s.send(diskfile.Event{Kind: diskfile.EventChange, Files: files})
		return nil
	})
	// browsers that fire "cancel" on file inputs skip the grace period
	s.oncancel = js.FuncOf(func(this js.Value, args []js.Value) any {
		s.send(diskfile.Event{Kind: diskfile.EventChange})
		return nil
	})

	input.Call("addEventListener", "click", s.onclick)
	input.Call("addEventListener", "change", s.onchange)
	input.Call("addEventListener", "cancel", s.oncancel)
	global.Call("addEventListener", "focus", s.onfocus)

	body.Call("appendChild", input)
	input.Call("click")
	return s, nil
}

type session struct {
	events chan diskfile.Event
	window js.Value
	body   js.Value
	input  js.Value
	logger logx.Logger

	onclick  js.Func
	onfocus  js.Func
	onchange js.Func
	oncancel js.Func

	mu     sync.Mutex
	closed bool
}

func (s *session) Events() <-chan diskfile.Event { return s.events }

// send never blocks the JS event loop; extra focus events are dropped.
func (s *session) send(ev diskfile.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Debugf("dropped %s event", ev.Kind)
	}
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	s.window.Call("removeEventListener", "focus", s.onfocus)
	s.input.Call("removeEventListener", "click", s.onclick)
	s.input.Call("removeEventListener", "change", s.onchange)
	s.input.Call("removeEventListener", "cancel", s.oncancel)
	if s.input.Get("parentNode").Truthy() {
		s.body.Call("removeChild", s.input)
	}

	s.onclick.Release()
	s.onfocus.Release()
	s.onchange.Release()
	s.oncancel.Release()
	return nil
}

// wasmFile wraps a JS File object.
type wasmFile struct {
	v js.Value
}

func (f *wasmFile) Name() string { return f.v.Get("name").String() }
func (f *wasmFile) Type() string { return f.v.Get("type").String() }

func (f *wasmFile) ReadAll(ctx context.Context) ([]byte, error) {
	type readOut struct {
		data []byte
		err  error
	}
	ch := make(chan readOut, 1)

	reader := js.Global().Get("FileReader").New()
	onloadend := js.FuncOf(func(this js.Value, args []js.Value) any {
		result := reader.Get("result")
		if reader.Get("error").Truthy() || !result.Truthy() {
			ch <- readOut{err: errors.New("failed to read file")}
			return nil
		}
		u8 := js.Global().Get("Uint8Array").New(result)
		data := make([]byte, u8.Get("length").Int())
		js.CopyBytesToGo(data, u8)
		ch <- readOut{data: data}
		return nil
	})
	defer onloadend.Release()

	reader.Set("onloadend", onloadend)
	reader.Call("readAsArrayBuffer", f.v)

	select {
	case out := <-ch:
		return out.data, out.err
	case <-ctx.Done():
		reader.Set("onloadend", js.Null())
		reader.Call("abort")
		return nil, ctx.Err()
	}
}
