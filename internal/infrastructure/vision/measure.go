package vision

import (
	"math"

	"dough-vision/internal/domain/entity"
)

// Evaluate переводит размеры прямоугольника в миллиметры и сравнивает с целью.
// Больший размер сравнивается с большей целью и большим допуском, меньший — с меньшими,
// так результат не зависит от того, в каком порядке заданы ширина и высота.
func Evaluate(obb entity.OrientedBoundingBox, cal entity.CalibrationState) entity.MeasurementResult {
	lengthPx := math.Max(obb.Length, obb.Width)
	widthPx := math.Min(obb.Length, obb.Width)

	lengthMm := lengthPx / cal.PixelsPerMm
	widthMm := widthPx / cal.PixelsPerMm

	lengthTarget := math.Max(cal.TargetWidth, cal.TargetHeight)
	widthTarget := math.Min(cal.TargetWidth, cal.TargetHeight)
	lengthTol := math.Max(cal.WidthTolerance, cal.HeightTolerance)
	widthTol := math.Min(cal.WidthTolerance, cal.HeightTolerance)

	lengthPass := math.Abs(lengthMm-lengthTarget) <= lengthTol
	widthPass := math.Abs(widthMm-widthTarget) <= widthTol

	reason := entity.FailureNone
	switch {
	case !lengthPass && !widthPass:
		reason = entity.FailureBoth
	case !lengthPass:
		// длина соответствует высоте изделия
		reason = entity.FailureHeight
	case !widthPass:
		reason = entity.FailureWidth
	}

	return entity.MeasurementResult{
		Box:           obb,
		LengthPx:      lengthPx,
		WidthPx:       widthPx,
		LengthMm:      lengthMm,
		WidthMm:       widthMm,
		Pass:          lengthPass && widthPass,
		FailureReason: reason,
	}
}
