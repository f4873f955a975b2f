package port

import (
	"context"

	"dough-vision/internal/domain/entity"
)

// ModelRepository интерфейс хранилища текущего состояния модели
type ModelRepository interface {
	// Snapshot возвращает согласованный снимок правил, калибровки и режима
	Snapshot(ctx context.Context) (entity.ModelSnapshot, error)

	// ReplaceRules атомарно заменяет таблицу правил целиком
	ReplaceRules(ctx context.Context, rules *entity.RuleTable) error

	// UpdateCalibration применяет apply к текущей калибровке под одной блокировкой
	// и сохраняет результат, если он корректен
	UpdateCalibration(ctx context.Context, apply func(c *entity.CalibrationState)) (entity.CalibrationState, error)

	// SetFastMode включает или выключает быстрый режим
	SetFastMode(ctx context.Context, enabled bool) error
}

// RuleStore интерфейс файла выученных правил
type RuleStore interface {
	LoadRules(ctx context.Context) (*entity.RuleTable, error)
	SaveRules(ctx context.Context, rules *entity.RuleTable) error
}

// SessionStore интерфейс файла настроек сессии
type SessionStore interface {
	LoadSession(ctx context.Context) (entity.SessionSettings, error)
	SaveSession(ctx context.Context, settings entity.SessionSettings) error
}

// ResultRepository интерфейс истории проверок
type ResultRepository interface {
	// Record сохраняет результат проверки
	Record(ctx context.Context, result *entity.InspectionResult) error

	// Recent возвращает последние проверки, новые первыми
	Recent(ctx context.Context, limit int) ([]entity.InspectionSummary, error)
}
