package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
)

func TestExtractComponents_Empty(t *testing.T) {
	require.Empty(t, ExtractComponents(entity.NewMask(50, 50)))
}

func TestExtractComponents_SmallExcluded(t *testing.T) {
	m := maskFromRects(50, 50, image.Rect(0, 0, 10, 30))
	m.Set(40, 40, true)
	require.Empty(t, ExtractComponents(m))
}

func TestExtractComponents_Bounds(t *testing.T) {
	m := maskFromRects(100, 100, image.Rect(10, 20, 30, 35), image.Rect(50, 5, 70, 90))

	comps := ExtractComponents(m)
	require.Equal(t, []entity.ConnectedComponent{
		{Bounds: image.Rect(50, 5, 70, 90), PixelCount: 20 * 85},
		{Bounds: image.Rect(10, 20, 30, 35), PixelCount: 20 * 15},
	}, comps)
}

func TestExtractComponents_DiagonalNotConnected(t *testing.T) {
	m := maskFromRects(60, 60, image.Rect(0, 0, 12, 12), image.Rect(12, 12, 24, 24))
	require.Len(t, ExtractComponents(m), 2)
}

func TestExtractComponents_LShape(t *testing.T) {
	m := maskFromRects(60, 60, image.Rect(0, 0, 40, 12), image.Rect(0, 0, 12, 40))

	comps := ExtractComponents(m)
	require.Len(t, comps, 1)
	require.Equal(t, image.Rect(0, 0, 40, 40), comps[0].Bounds)
	require.Equal(t, 40*12*2-12*12, comps[0].PixelCount)
}

func TestExtractComponents_CustomMinSide(t *testing.T) {
	m := maskFromRects(50, 50, image.Rect(0, 0, 4, 4))
	require.Len(t, extractComponents(m, 3), 1)
	require.Empty(t, extractComponents(m, 4))
}
