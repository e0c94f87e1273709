package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"diskread/src/diskfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderScalesDown(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	th, err := Render(encodePNG(t, solid(200, 100, red)), 64)
	require.NoError(t, err)

	assert.Equal(t, 64, th.Width)
	assert.Equal(t, 32, th.Height)
	assert.Equal(t, 200, th.SrcWidth)
	assert.Equal(t, "png", th.Format)

	out, err := png.Decode(bytes.NewReader(th.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), out.Bounds())

	_, _, _, a := out.At(0, 0).RGBA()
	assert.Zero(t, a, "corner should be clipped")
	r, _, _, a := out.At(32, 16).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0xf000))
}

func TestRenderKeepsSmallImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solid(10, 20, color.White)))

	th, err := Render(buf.Bytes(), 64)
	require.NoError(t, err)
	assert.Equal(t, 10, th.Width)
	assert.Equal(t, 20, th.Height)
	assert.Equal(t, "bmp", th.Format)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render([]byte("definitely not an image"), 64)
	assert.Error(t, err)

	_, err = Render(encodePNG(t, solid(2, 2, color.Black)), 0)
	assert.Error(t, err)
}

func TestFromResult(t *testing.T) {
	data := encodePNG(t, solid(40, 40, color.Black))
	blob := diskfile.NewBlob(data, "image/png")

	for _, r := range []*diskfile.ReadResult{
		{Filename: "a.png", Type: "image/png", Blob: blob, Length: blob.Size()},
		{Filename: "a.png", Type: "image/png", DataURL: diskfile.DataURL("image/png", data)},
	} {
		th, err := FromResult(r, 16)
		require.NoError(t, err)
		assert.Equal(t, 16, th.Width)
		assert.Contains(t, th.DataURL(), "data:image/png;base64,")
	}

	_, err := FromResult(&diskfile.ReadResult{Filename: "a.txt", Type: "text/plain"}, 16)
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("image/webp"))
	assert.True(t, Supported("IMAGE/PNG"))
	assert.False(t, Supported("application/pdf"))
	assert.False(t, Supported(""))
}
