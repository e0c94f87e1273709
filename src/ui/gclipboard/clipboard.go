//go:build !js && !wasm
// +build !js,!wasm

package gclipboard

import (
	"errors"

	"diskread/src/diskfile"

	"github.com/atotto/clipboard"
)

var ErrNothingToCopy = errors.New("nothing to copy")

// Writer is the clipboard sink, swapped out in tests.
type Writer func(text string) error

var WriteAll Writer = clipboard.WriteAll

// CopyResult puts the data URL of r on the clipboard. Blob results are
// encoded first so the clipboard always receives text.
func CopyResult(w Writer, r *diskfile.ReadResult) error {
	if r == nil {
		return ErrNothingToCopy
	}
	text := r.DataURL
	if r.Blob != nil {
		text = diskfile.DataURL(r.Blob.Type(), r.Blob.Bytes())
	}
	if text == "" {
		return ErrNothingToCopy
	}
	return w(text)
}
