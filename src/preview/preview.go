package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"diskread/src/diskfile"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("not an image")

type Thumbnail struct {
	Width     int
	Height    int
	SrcWidth  int
	SrcHeight int
	Format    string // decoder name of the source
	PNG       []byte
}

func (t *Thumbnail) DataURL() string {
	return diskfile.DataURL("image/png", t.PNG)
}

func Supported(typ string) bool {
	return strings.HasPrefix(strings.ToLower(typ), "image/")
}

// FromResult renders r into a PNG no larger than edge on either side, with
// rounded corners. Images smaller than edge keep their size.
func FromResult(r *diskfile.ReadResult, edge int) (*Thumbnail, error) {
	if !Supported(r.Type) {
		return nil, fmt.Errorf("%s: %w", r.Filename, ErrNotImage)
	}
	data, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return Render(data, edge)
}

func Render(data []byte, edge int) (*Thumbnail, error) {
	if edge <= 0 {
		return nil, errors.New("thumbnail edge must be positive")
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decode image: empty %dx%d", w, h)
	}
	scale := math.Min(1, float64(edge)/float64(max(w, h)))
	tw := max(1, int(math.Round(float64(w)*scale)))
	th := max(1, int(math.Round(float64(h)*scale)))

	scaled := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)

	// anti-aliased rounded corners
	dc := gg.NewContext(tw, th)
	dc.DrawRoundedRectangle(0, 0, float64(tw), float64(th), float64(min(tw, th))/8)
	dc.Clip()
	dc.DrawImage(scaled, 0, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return &Thumbnail{
		Width:     tw,
		Height:    th,
		SrcWidth:  w,
		SrcHeight: h,
		Format:    format,
		PNG:       buf.Bytes(),
	}, nil
}
