package entity

import (
	"image"
	"math"
)

// ConnectedComponent связная (по 4 соседям) область маски обнаружения.
type ConnectedComponent struct {
	Bounds     image.Rectangle // охватывающий прямоугольник в координатах маски
	PixelCount int             // число пикселей области
}

// Point2D точка с дробными координатами.
type Point2D struct {
	X float64
	Y float64
}

// OrientedBoundingBox прямоугольник, выровненный по главной оси области.
type OrientedBoundingBox struct {
	Center  Point2D
	Angle   float64 // угол главной оси, радианы
	Length  float64 // больший размер, пиксели
	Width   float64 // меньший размер, пиксели
	Corners [4]Point2D
}

// Scale возвращает копию прямоугольника, увеличенную в factor раз относительно начала координат.
func (b OrientedBoundingBox) Scale(factor float64) OrientedBoundingBox {
	out := b
	out.Center = Point2D{X: b.Center.X * factor, Y: b.Center.Y * factor}
	out.Length = b.Length * factor
	out.Width = b.Width * factor
	for i, c := range b.Corners {
		out.Corners[i] = Point2D{X: c.X * factor, Y: c.Y * factor}
	}
	return out
}

// Translate возвращает копию, сдвинутую на (dx, dy).
func (b OrientedBoundingBox) Translate(dx, dy float64) OrientedBoundingBox {
	out := b
	out.Center = Point2D{X: b.Center.X + dx, Y: b.Center.Y + dy}
	for i, c := range b.Corners {
		out.Corners[i] = Point2D{X: c.X + dx, Y: c.Y + dy}
	}
	return out
}

// AngleDegrees возвращает угол главной оси в градусах.
func (b OrientedBoundingBox) AngleDegrees() float64 {
	return b.Angle * 180 / math.Pi
}
