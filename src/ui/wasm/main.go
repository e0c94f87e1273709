//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"diskread/src/diskfile"
	"diskread/src/logx"
	"diskread/src/ui/gdialog"
)

func GetLogger() *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString("info"),
		false,
		true,
	)
	l.InitLogger(nil)
	return l
}

// promise runs fn on a goroutine and settles a JS Promise with its result.
func promise(fn func() (any, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}

// pickArgs reads the optional (mode, accept) arguments.
func pickArgs(args []js.Value) (diskfile.Mode, string) {
	mode, accept := diskfile.ModeBlob, diskfile.DefaultAccept
	if len(args) > 0 && args[0].Type() == js.TypeString {
		mode = diskfile.ParseMode(args[0].String())
	}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		accept = args[1].String()
	}
	return mode, accept
}

func toJS(r *diskfile.ReadResult) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("filename", r.Filename)
	obj.Set("ext", r.Ext)
	obj.Set("type", r.Type)
	obj.Set("length", r.Length)
	if r.Blob != nil {
		data := r.Blob.Bytes()
		u8 := js.Global().Get("Uint8Array").New(len(data))
		js.CopyBytesToJS(u8, data)
		obj.Set("result", js.Global().Get("Blob").New(
			[]any{u8},
			map[string]any{"type": r.Blob.Type()},
		))
	} else {
		obj.Set("result", r.DataURL)
	}
	return obj
}

func main() {
	logger := GetLogger()
	picker := diskfile.NewPicker(
		gdialog.NewControl(logger.Named("gdialog")),
		diskfile.WithLogger(logger.Named("diskfile")),
	)

	js.Global().Set("readDiskFile", js.FuncOf(func(this js.Value, args []js.Value) any {
		mode, accept := pickArgs(args)
		return promise(func() (any, error) {
			res, err := picker.Pick(context.Background(), mode, accept)
			if err != nil || res == nil {
				return js.Null(), err
			}
			return toJS(res), nil
		})
	}))

	js.Global().Set("readDiskFiles", js.FuncOf(func(this js.Value, args []js.Value) any {
		mode, accept := pickArgs(args)
		return promise(func() (any, error) {
			res, err := picker.PickMany(context.Background(), mode, accept)
			var perr *diskfile.PartialError
			if err != nil && !(errors.As(err, &perr) && len(res) > 0) {
				return js.Null(), err
			}
			if res == nil {
				return js.Null(), nil
			}
			arr := js.Global().Get("Array").New()
			for _, r := range res {
				arr.Call("push", toJS(r))
			}
			return arr, nil
		})
	}))

	select {}
}
