package entity

import "errors"

var (
	// ErrUntrainedModel таблица правил пуста, сначала нужно обучение.
	ErrUntrainedModel = errors.New("no learned rules, teach the model first")

	// ErrEmptyAnnotation нет размеченных областей или область не дала образцов.
	ErrEmptyAnnotation = errors.New("empty annotation")

	// ErrGeometryDegenerate пустое множество точек при построении прямоугольника.
	ErrGeometryDegenerate = errors.New("degenerate geometry")

	// ErrOutOfBounds область выходит за пределы изображения.
	ErrOutOfBounds = errors.New("region is out of image bounds")

	// ErrInvalidCalibration калибровка не позволяет измерять.
	ErrInvalidCalibration = errors.New("invalid calibration")
)
