package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"diskread/src/diskfile"
	"diskread/src/preview"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// ANSI-code
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dimF  = "\033[90m"
	redF  = "\033[31m"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

type Thumb struct {
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
	DataURL string `json:"data_url" yaml:"data_url"`
}

// Entry is the printable summary of one read file. Payloads are never
// printed, only their size.
type Entry struct {
	Filename  string `json:"filename" yaml:"filename"`
	Ext       string `json:"ext" yaml:"ext"`
	Type      string `json:"type" yaml:"type"`
	Mode      string `json:"mode" yaml:"mode"`
	Length    int    `json:"length" yaml:"length"`
	Thumbnail *Thumb `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

func NewEntry(r *diskfile.ReadResult) Entry {
	mode := diskfile.ModeBlob
	if r.Blob == nil {
		mode = diskfile.ModeBase64
	}
	return Entry{
		Filename: r.Filename,
		Ext:      r.Ext,
		Type:     r.Type,
		Mode:     string(mode),
		Length:   r.Length,
	}
}

func (e *Entry) AttachThumbnail(t *preview.Thumbnail) {
	e.Thumbnail = &Thumb{Width: t.Width, Height: t.Height, DataURL: t.DataURL()}
}

type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	color  bool
}

func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	return &Printer{out: out, errOut: errOut, format: format, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + reset
}

// Print writes entries. A nil slice means the dialog was dismissed.
func (p *Printer) Print(entries []Entry) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if entries == nil {
			return enc.Encode(nil)
		}
		return enc.Encode(entries)
	case FormatYAML:
		if entries == nil {
			_, err := fmt.Fprintln(p.out, "null")
			return err
		}
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	if entries == nil {
		_, err := fmt.Fprintln(p.out, p.paint(dimF, "no file selected"))
		return err
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, p.paint(bold, "FILENAME")+"\tEXT\tTYPE\tMODE\tLENGTH\tTHUMB")
	for _, e := range entries {
		typ := e.Type
		if typ == "" {
			typ = p.paint(dimF, "-")
		}
		thumb := "-"
		if e.Thumbnail != nil {
			thumb = fmt.Sprintf("%dx%d", e.Thumbnail.Width, e.Thumbnail.Height)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", p.paint(bold, e.Filename), e.Ext, typ, e.Mode, e.Length, thumb)
	}
	return tw.Flush()
}

// Warn reports a non-fatal problem on the error stream, so structured
// output on out stays parseable.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isTerminal(p.errOut) {
		msg = redF + msg + reset
	}
	fmt.Fprintln(p.errOut, msg)
}
