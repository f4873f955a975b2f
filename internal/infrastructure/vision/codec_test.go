//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
)

func TestDecodeImage(t *testing.T) {
	img, err := decodeImage(encodePNG(t, solidImage(30, 20, doughColor)))
	require.NoError(t, err)
	require.Equal(t, 30, img.Bounds().Dx())
	require.Equal(t, 20, img.Bounds().Dy())

	_, err = decodeImage([]byte("garbage"))
	require.Error(t, err)
}

func TestResizeNearest(t *testing.T) {
	out := resizeNearest(doughScene(), 100, 100)
	require.Equal(t, 100, out.Bounds().Dx())
	r, g, b := rgbAt(out, 30, 40)
	require.Equal(t, [3]uint8{200, 150, 80}, [3]uint8{r, g, b})
}

func TestHighlightWithoutGoCV(t *testing.T) {
	_, err := NewRuleDetector().HighlightDefects(nil, &entity.InspectionResult{})
	require.EqualError(t, err, "gocv build tag is not enabled")
}
