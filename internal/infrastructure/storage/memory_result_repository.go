package storage

import (
	"context"
	"sync"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
)

// MemoryResultRepository in-memory история проверок, когда база не настроена
type MemoryResultRepository struct {
	mu      sync.RWMutex
	results []entity.InspectionSummary
}

// NewMemoryResultRepository создаёт пустую историю
func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{}
}

// Record добавляет результат в историю
func (r *MemoryResultRepository) Record(ctx context.Context, result *entity.InspectionResult) error {
	r.mu.Lock()
	r.results = append(r.results, result.Summary())
	r.mu.Unlock()

	return nil
}

// Recent возвращает последние проверки, новые первыми
func (r *MemoryResultRepository) Recent(ctx context.Context, limit int) ([]entity.InspectionSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := min(limit, len(r.results))
	out := make([]entity.InspectionSummary, 0, max(n, 0))
	for i := len(r.results) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.results[i])
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.ResultRepository = (*MemoryResultRepository)(nil)
