// Package diskfile prompts the user for local files through a platform
// Control and reads them into memory as typed blobs or base64 data URLs.
package diskfile

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Mode string

const (
	ModeBlob   Mode = "blob"
	ModeBase64 Mode = "base64"
)

// ParseMode maps "blob", "binary" and "base64". Anything else reads as blob.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base64":
		return ModeBase64
	default:
		return ModeBlob
	}
}

const (
	DefaultAccept      = "*/*"
	defaultDataURLType = "application/octet-stream"
)

// Blob is an immutable byte payload with a declared content type.
// It implements File, so a blob can be read back through the same path.
type Blob struct {
	typ  string
	name string
	data []byte
}

func NewBlob(data []byte, typ string) *Blob {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Blob{typ: typ, data: cp}
}

func (b *Blob) Type() string { return b.typ }
func (b *Blob) Name() string { return b.name }
func (b *Blob) Size() int    { return len(b.data) }

// Bytes returns a copy of the payload.
func (b *Blob) Bytes() []byte {
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}

func (b *Blob) Reader() io.Reader {
	return bytes.NewReader(b.data)
}

func (b *Blob) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// ReadResult describes one file read from disk.
// Length counts bytes of Blob in blob mode and characters of DataURL in
// base64 mode.
type ReadResult struct {
	Filename string
	Ext      string
	Type     string
	Blob     *Blob
	DataURL  string
	Length   int
}

// Result returns the payload the read mode produced: *Blob or string.
func (r *ReadResult) Result() any {
	if r.Blob != nil {
		return r.Blob
	}
	return r.DataURL
}

// ExtOf lowercases whatever follows the last dot. A name without a dot
// yields the whole name lowercased.
func ExtOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i+1:])
	}
	return strings.ToLower(filename)
}

// DataURL encodes data the way FileReader.readAsDataURL does.
func DataURL(typ string, data []byte) string {
	if typ == "" {
		typ = defaultDataURLType
	}
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(typ) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(typ)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

func newReadResult(name, typ string, data []byte, mode Mode) *ReadResult {
	r := &ReadResult{
		Filename: name,
		Ext:      ExtOf(name),
		Type:     typ,
	}
	switch mode {
	case ModeBase64:
		r.DataURL = DataURL(typ, data)
		r.Length = len(r.DataURL)
	default:
		r.Blob = &Blob{typ: typ, name: name, data: data}
		r.Length = len(data)
	}
	return r
}

// ParseDataURL is the inverse of DataURL for base64 payloads.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errors.New("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data url without payload")
	}
	typ, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data url is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data url payload: %w", err)
	}
	return typ, data, nil
}

// Payload returns the raw bytes behind either result form.
func (r *ReadResult) Payload() ([]byte, error) {
	if r.Blob != nil {
		return r.Blob.Bytes(), nil
	}
	_, data, err := ParseDataURL(r.DataURL)
	return data, err
}
