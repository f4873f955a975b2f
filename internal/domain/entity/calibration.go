package entity

import "fmt"

// CalibrationState калибровка и целевые размеры изделия.
type CalibrationState struct {
	PixelsPerMm     float64 // масштаб, 1.0 — без калибровки
	TargetWidth     float64 // мм
	TargetHeight    float64 // мм
	WidthTolerance  float64 // допуск по ширине, ± мм
	HeightTolerance float64 // допуск по высоте, ± мм
}

// DefaultCalibration возвращает значения по умолчанию: 1 px = 1 мм, 100x100 мм, ±5 мм.
func DefaultCalibration() CalibrationState {
	return CalibrationState{
		PixelsPerMm:     1.0,
		TargetWidth:     100.0,
		TargetHeight:    100.0,
		WidthTolerance:  5.0,
		HeightTolerance: 5.0,
	}
}

// Validate проверяет, что с калибровкой можно измерять.
func (c CalibrationState) Validate() error {
	if !(c.PixelsPerMm > 0) {
		return fmt.Errorf("%w: pixels per mm must be positive, got %v", ErrInvalidCalibration, c.PixelsPerMm)
	}
	if c.TargetWidth < 0 || c.TargetHeight < 0 {
		return fmt.Errorf("%w: negative target size %vx%v", ErrInvalidCalibration, c.TargetWidth, c.TargetHeight)
	}
	if c.WidthTolerance < 0 || c.HeightTolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %v/%v", ErrInvalidCalibration, c.WidthTolerance, c.HeightTolerance)
	}
	return nil
}

// IsCalibrated сообщает, задан ли масштаб, отличный от значения по умолчанию.
func (c CalibrationState) IsCalibrated() bool {
	return c.PixelsPerMm != 1.0
}

// WithPercentTolerance переводит устаревший процентный допуск в миллиметры по каждой оси.
func (c CalibrationState) WithPercentTolerance(percent float64) CalibrationState {
	c.WidthTolerance = c.TargetWidth * percent / 100.0
	c.HeightTolerance = c.TargetHeight * percent / 100.0
	return c
}
