package entity

import (
	"image"
	"time"
)

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	ID             string              // идентификатор прогона
	CreatedAt      time.Time           // время завершения
	ImageWidth     int                 // ширина исходного изображения
	ImageHeight    int                 // высота исходного изображения
	Scale          float64             // масштаб обработки, < 1 в быстром режиме
	Measurements   []MeasurementResult // найденные объекты
	PassCount      int
	RejectCount    int
	DetectedPixels int // пиксели маски обнаружения после очистки
	IgnoredPixels  int
	ExpectedCount  int  // 0 — количество не проверяется
	CountOK        bool // количество совпало или не проверялось
	Message        string
	Elapsed        time.Duration
}

// Total возвращает число найденных объектов.
func (r *InspectionResult) Total() int {
	return len(r.Measurements)
}

// HasRejects сообщает, есть ли забракованные объекты.
func (r *InspectionResult) HasRejects() bool {
	return r.RejectCount > 0
}

// Passed общий вердикт: все объекты в допуске и количество совпало.
func (r *InspectionResult) Passed() bool {
	return r.Total() > 0 && r.RejectCount == 0 && r.CountOK
}

// InspectionSummary краткая запись истории проверок.
type InspectionSummary struct {
	ID          string
	CreatedAt   time.Time
	Total       int
	PassCount   int
	RejectCount int
	CountOK     bool
}

// Summary сворачивает результат в запись истории.
func (r *InspectionResult) Summary() InspectionSummary {
	return InspectionSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Total:       r.Total(),
		PassCount:   r.PassCount,
		RejectCount: r.RejectCount,
		CountOK:     r.CountOK,
	}
}

// Description текстовое описание результата для оператора.
type Description struct {
	Text string
}

// KernelSizes размеры ядер морфологической очистки.
type KernelSizes struct {
	Close int
	Open  int
}

// DefaultKernels обычный режим.
func DefaultKernels() KernelSizes {
	return KernelSizes{Close: 3, Open: 2}
}

// FastKernels быстрый режим с меньшими ядрами.
func FastKernels() KernelSizes {
	return KernelSizes{Close: 2, Open: 1}
}

// InferenceOptions параметры одного прогона распознавания.
type InferenceOptions struct {
	FastMode      bool
	Kernels       KernelSizes
	FastKernels   KernelSizes
	ROI           image.Rectangle // пустой — всё изображение
	ExpectedCount int
}

// DefaultInferenceOptions возвращает параметры по умолчанию.
func DefaultInferenceOptions() InferenceOptions {
	return InferenceOptions{
		Kernels:     DefaultKernels(),
		FastKernels: FastKernels(),
	}
}

// EffectiveKernels выбирает ядра с учётом быстрого режима.
func (o InferenceOptions) EffectiveKernels() KernelSizes {
	if o.FastMode {
		return o.FastKernels
	}
	return o.Kernels
}
