package port

import (
	"context"

	"dough-vision/internal/domain/entity"
)

// ResultDescriber интерфейс описателя результатов
type ResultDescriber interface {
	// Describe генерирует текстовое описание результата проверки
	Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error)

	// DescribeRules генерирует описание выученных правил
	DescribeRules(ctx context.Context, rules *entity.RuleTable) (*entity.Description, error)
}
