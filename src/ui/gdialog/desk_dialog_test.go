//go:build !js && !wasm
// +build !js,!wasm

package gdialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"diskread/src/diskfile"
	"diskread/src/logx"

	"github.com/sqweek/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLoader answers dialog calls from a fixed list of paths, then
// reports a cancel.
type scriptedLoader struct {
	mu     sync.Mutex
	paths  []string
	err    error
	titles []string
	exts   [][]string
}

func (l *scriptedLoader) load(title string, exts []string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.titles = append(l.titles, title)
	l.exts = append(l.exts, exts)
	if l.err != nil {
		return "", l.err
	}
	if len(l.paths) == 0 {
		return "", dialog.ErrCancelled
	}
	p := l.paths[0]
	l.paths = l.paths[1:]
	return p, nil
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func newPicker(l *scriptedLoader) *diskfile.Picker {
	return diskfile.NewPicker(
		NewControlWithLoader(logx.Nop(), l.load),
		diskfile.WithGrace(10*time.Millisecond),
	)
}

func TestDeskPick(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Report.PDF", []byte("%PDF-1.7"))
	l := &scriptedLoader{paths: []string{path}}

	res, err := newPicker(l).Pick(context.Background(), diskfile.ModeBlob, ".pdf")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Report.PDF", res.Filename)
	assert.Equal(t, "pdf", res.Ext)
	assert.Equal(t, "application/pdf", res.Type)
	assert.Equal(t, 8, res.Length)
	assert.Equal(t, []string{"Open file"}, l.titles)
	assert.Equal(t, []string{"pdf"}, l.exts[0])
}

func TestDeskPickCancelled(t *testing.T) {
	res, err := newPicker(&scriptedLoader{}).Pick(context.Background(), diskfile.ModeBase64, "")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestDeskPickMany(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", []byte("alpha"))
	b := writeFile(t, dir, "b.png", []byte{0x89, 'P', 'N', 'G'})
	l := &scriptedLoader{paths: []string{a, b, a}}

	res, err := newPicker(l).PickMany(context.Background(), diskfile.ModeBase64, "")
	require.NoError(t, err)
	require.Len(t, res, 2)

	byName := map[string]*diskfile.ReadResult{}
	for _, r := range res {
		byName[r.Filename] = r
	}
	assert.Equal(t, "data:application/json;base64,YWxwaGE=", byName["a.json"].DataURL)
	assert.Equal(t, "image/png", byName["b.png"].Type)
	assert.Len(t, l.titles, 4)
	assert.Equal(t, "Open files (2 selected, cancel to finish)", l.titles[3])
}

func TestDeskPickManyNothingChosen(t *testing.T) {
	res, err := newPicker(&scriptedLoader{}).PickMany(context.Background(), diskfile.ModeBlob, "")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestDeskDialogError(t *testing.T) {
	l := &scriptedLoader{err: errors.New("no display")}
	_, err := newPicker(l).Pick(context.Background(), diskfile.ModeBlob, "")
	assert.ErrorIs(t, err, diskfile.ErrControl)
}

func TestDeskReadMissingFile(t *testing.T) {
	l := &scriptedLoader{paths: []string{filepath.Join(t.TempDir(), "gone.txt")}}
	res, err := newPicker(l).Pick(context.Background(), diskfile.ModeBlob, "")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestNewDiskFile(t *testing.T) {
	f := NewDiskFile(filepath.Join("some", "dir", "Page.HTML"))
	assert.Equal(t, "Page.HTML", f.Name())
	assert.Equal(t, "text/html", f.Type())
	assert.Equal(t, filepath.Join("some", "dir", "Page.HTML"), f.Path())
}
