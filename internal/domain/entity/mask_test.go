package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMask_OutOfBounds(t *testing.T) {
	m := NewMask(4, 3)
	m.Set(-1, 0, true)
	m.Set(4, 0, true)
	m.Set(0, 3, true)
	require.Zero(t, m.Count())
	require.False(t, m.At(-1, -1))
	require.False(t, m.At(10, 1))
}

func TestMask_CloneIsIndependent(t *testing.T) {
	m := NewMask(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			m.Set(x, y, true)
		}
	}
	require.Equal(t, 25, m.Count())

	c := m.Clone()
	c.Set(2, 2, false)
	require.True(t, m.At(2, 2))
	require.Equal(t, 24, c.Count())
}

func TestOrientedBoundingBox_ScaleTranslate(t *testing.T) {
	b := OrientedBoundingBox{
		Center:  Point2D{X: 10, Y: 5},
		Length:  8,
		Width:   4,
		Corners: [4]Point2D{{14, 7}, {6, 7}, {6, 3}, {14, 3}},
	}

	out := b.Scale(2).Translate(1, -1)
	require.Equal(t, Point2D{X: 21, Y: 9}, out.Center)
	require.Equal(t, 16.0, out.Length)
	require.Equal(t, 8.0, out.Width)
	require.Equal(t, Point2D{X: 29, Y: 13}, out.Corners[0])
	require.Equal(t, Point2D{X: 14, Y: 7}, b.Corners[0])
}
