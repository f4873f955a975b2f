package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
)

var (
	grayColor  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	doughColor = color.RGBA{R: 200, G: 150, B: 80, A: 255}
	trayColor  = color.RGBA{R: 40, G: 60, B: 200, A: 255}
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func maskFromRects(w, h int, rects ...image.Rectangle) *entity.Mask {
	m := entity.NewMask(w, h)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// doughScene серый фон и два куска теста: 50x50 в (40,60) и 60x40 в (120,120).
func doughScene() *image.RGBA {
	img := solidImage(200, 200, grayColor)
	fillRect(img, image.Rect(40, 60, 90, 110), doughColor)
	fillRect(img, image.Rect(120, 120, 180, 160), doughColor)
	return img
}
