package vision

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"dough-vision/internal/domain/entity"
)

// obbCovarianceEpsilon порог, ниже которого ковариация считается диагональной.
const obbCovarianceEpsilon = 1e-9

// EstimateOrientedBox строит прямоугольник по главной оси для пикселей маски
// внутри охватывающего прямоугольника компоненты.
//
// Шаги:
//   - центроид и ковариация координат 2x2
//   - главный собственный вектор из характеристического уравнения (след/определитель)
//   - проекции точек на главную ось и перпендикуляр задают длину и ширину
//
// Каждый пиксель занимает единичный квадрат, поэтому к размаху проекций прибавляется 1.
func EstimateOrientedBox(mask *entity.Mask, comp entity.ConnectedComponent) (entity.OrientedBoundingBox, error) {
	var xs, ys []float64
	b := comp.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.At(x, y) {
				xs = append(xs, float64(x))
				ys = append(ys, float64(y))
			}
		}
	}

	if len(xs) == 0 {
		return entity.OrientedBoundingBox{}, fmt.Errorf("component %v: %w", b, entity.ErrGeometryDegenerate)
	}

	meanX := stat.Mean(xs, nil)
	meanY := stat.Mean(ys, nil)

	evX, evY := 1.0, 0.0
	if len(xs) > 1 {
		c00 := stat.Variance(xs, nil)
		c11 := stat.Variance(ys, nil)
		c01 := stat.Covariance(xs, ys, nil)
		evX, evY = principalAxis(c00, c01, c11)
	}
	angle := math.Atan2(evY, evX)

	minAlong, maxAlong := math.MaxFloat64, -math.MaxFloat64
	minPerp, maxPerp := math.MaxFloat64, -math.MaxFloat64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY

		along := dx*evX + dy*evY
		perp := -dx*evY + dy*evX

		minAlong = math.Min(minAlong, along)
		maxAlong = math.Max(maxAlong, along)
		minPerp = math.Min(minPerp, perp)
		maxPerp = math.Max(maxPerp, perp)
	}

	extentAlong := maxAlong - minAlong + 1
	extentPerp := maxPerp - minPerp + 1

	// Центр прямоугольника — середина проекций, смещённая от центроида.
	midAlong := (minAlong + maxAlong) / 2
	midPerp := (minPerp + maxPerp) / 2
	center := entity.Point2D{
		X: meanX + midAlong*evX - midPerp*evY,
		Y: meanY + midAlong*evY + midPerp*evX,
	}

	halfA, halfP := extentAlong/2, extentPerp/2
	offsets := [4][2]float64{{halfA, halfP}, {-halfA, halfP}, {-halfA, -halfP}, {halfA, -halfP}}
	var corners [4]entity.Point2D
	for i, o := range offsets {
		corners[i] = entity.Point2D{
			X: center.X + o[0]*evX - o[1]*evY,
			Y: center.Y + o[0]*evY + o[1]*evX,
		}
	}

	return entity.OrientedBoundingBox{
		Center:  center,
		Angle:   angle,
		Length:  math.Max(extentAlong, extentPerp),
		Width:   math.Min(extentAlong, extentPerp),
		Corners: corners,
	}, nil
}

// principalAxis возвращает нормированный собственный вектор симметричной матрицы
// [[c00 c01] [c01 c11]] для наибольшего собственного значения.
func principalAxis(c00, c01, c11 float64) (float64, float64) {
	if math.Abs(c01) <= obbCovarianceEpsilon {
		if c00 >= c11 {
			return 1, 0
		}
		return 0, 1
	}

	trace := c00 + c11
	det := c00*c11 - c01*c01
	disc := trace*trace/4 - det
	if disc < 0 {
		disc = 0
	}
	lambda := trace/2 + math.Sqrt(disc)

	vx, vy := c01, lambda-c00
	mag := math.Hypot(vx, vy)
	if mag <= obbCovarianceEpsilon {
		return 1, 0
	}
	return vx / mag, vy / mag
}
