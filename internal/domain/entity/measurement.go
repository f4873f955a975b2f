package entity

// FailureReason по какой оси изделие не прошло проверку.
type FailureReason int

const (
	FailureNone FailureReason = iota
	FailureWidth
	FailureHeight
	FailureBoth
)

// String возвращает текст причины, как его показывает оператору интерфейс.
func (f FailureReason) String() string {
	switch f {
	case FailureWidth:
		return "Width"
	case FailureHeight:
		return "Height"
	case FailureBoth:
		return "Width & Height"
	default:
		return ""
	}
}

// MeasurementResult измерение одного найденного объекта.
type MeasurementResult struct {
	Component     ConnectedComponent
	Box           OrientedBoundingBox
	LengthPx      float64
	WidthPx       float64
	LengthMm      float64
	WidthMm       float64
	Pass          bool
	FailureReason FailureReason
}
