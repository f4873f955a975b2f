package storage

import (
	"context"
	"sync"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
)

// MemoryModelRepository in-memory хранилище текущей модели.
// Таблица правил неизменяема, обучение подменяет указатель целиком.
type MemoryModelRepository struct {
	mu          sync.RWMutex
	rules       *entity.RuleTable
	calibration entity.CalibrationState
	fastMode    bool
}

// NewMemoryModelRepository создаёт хранилище с начальными правилами и настройками сессии
func NewMemoryModelRepository(rules *entity.RuleTable, settings entity.SessionSettings) *MemoryModelRepository {
	return &MemoryModelRepository{
		rules:       rules,
		calibration: settings.Calibration,
		fastMode:    settings.FastMode,
	}
}

// Snapshot возвращает согласованный снимок модели
func (r *MemoryModelRepository) Snapshot(ctx context.Context) (entity.ModelSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return entity.ModelSnapshot{
		Rules:       r.rules,
		Calibration: r.calibration,
		FastMode:    r.fastMode,
	}, nil
}

// ReplaceRules заменяет таблицу правил
func (r *MemoryModelRepository) ReplaceRules(ctx context.Context, rules *entity.RuleTable) error {
	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()

	return nil
}

// UpdateCalibration меняет калибровку на месте. Некорректный результат отбрасывается.
func (r *MemoryModelRepository) UpdateCalibration(ctx context.Context, apply func(c *entity.CalibrationState)) (entity.CalibrationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cal := r.calibration
	apply(&cal)
	if err := cal.Validate(); err != nil {
		return entity.CalibrationState{}, err
	}
	r.calibration = cal

	return cal, nil
}

// SetFastMode переключает быстрый режим
func (r *MemoryModelRepository) SetFastMode(ctx context.Context, enabled bool) error {
	r.mu.Lock()
	r.fastMode = enabled
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.ModelRepository = (*MemoryModelRepository)(nil)
