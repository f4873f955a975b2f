package port

import (
	"context"

	"dough-vision/internal/domain/entity"
)

// Detector интерфейс движка обучения и проверки
type Detector interface {
	// Learn строит новую таблицу правил по размеченным областям эталонного фото
	Learn(ctx context.Context, imageData []byte, regions []entity.AnnotatedRegion) (*entity.RuleTable, *entity.TeachReport, error)

	// Inspect анализирует изображение по снимку модели и возвращает измерения
	Inspect(ctx context.Context, imageData []byte, model entity.ModelSnapshot, opts entity.InferenceOptions) (*entity.InspectionResult, error)

	// HighlightDefects создаёт изображение с подсветкой годных и забракованных объектов
	HighlightDefects(imageData []byte, result *entity.InspectionResult) ([]byte, error)
}
