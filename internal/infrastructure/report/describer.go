package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/infrastructure/vision"
)

// maxListed сколько измерений перечислять в сообщении.
const maxListed = 20

// TextDescriber формирует текстовые отчёты для оператора
type TextDescriber struct{}

// NewTextDescriber создаёт описатель
func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

// Describe описывает результат проверки
func (d *TextDescriber) Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error) {
	if result == nil {
		return nil, errors.New("nil inspection result")
	}

	var sb strings.Builder

	switch {
	case result.Total() == 0:
		sb.WriteString("⚠️ Изделия не обнаружены.\n")
	case result.Passed():
		sb.WriteString("✅ Все изделия в допуске.\n")
	case !result.HasRejects():
		sb.WriteString("⚠️ Размеры в допуске, но количество не совпадает.\n")
	default:
		sb.WriteString("❌ Обнаружен брак.\n")
	}

	fmt.Fprintf(&sb, "Найдено: %d (годных: %d, брак: %d)\n", result.Total(), result.PassCount, result.RejectCount)
	if result.ExpectedCount > 0 {
		mark := "✅"
		if !result.CountOK {
			mark = "❌"
		}
		fmt.Fprintf(&sb, "Ожидалось: %d %s\n", result.ExpectedCount, mark)
	}

	for i, m := range result.Measurements {
		if i == maxListed {
			fmt.Fprintf(&sb, "… и ещё %d\n", result.Total()-maxListed)
			break
		}
		mark := "✅"
		if !m.Pass {
			mark = "❌"
		}
		fmt.Fprintf(&sb, "%d. %s %.1f × %.1f мм, %.0f°", i+1, mark, m.LengthMm, m.WidthMm, m.Box.AngleDegrees())
		if !m.Pass {
			fmt.Fprintf(&sb, " (%s)", failureText(m.FailureReason))
		}
		sb.WriteString("\n")
	}

	if result.Scale < 1 {
		fmt.Fprintf(&sb, "Быстрый режим, масштаб %.2f\n", result.Scale)
	}
	fmt.Fprintf(&sb, "Время обработки: %v", result.Elapsed.Round(time.Millisecond))

	return &entity.Description{Text: sb.String()}, nil
}

// DescribeRules перечисляет выученные правила с цветом середины диапазона
func (d *TextDescriber) DescribeRules(ctx context.Context, rules *entity.RuleTable) (*entity.Description, error) {
	if rules.Empty() {
		return &entity.Description{Text: "📭 Модель не обучена. Используйте /teach."}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 Правил: %d\n", rules.Len())
	for _, r := range rules.Rules() {
		kind := "обнаружение"
		if rules.IsIgnore(r.Label) {
			kind = "исключение"
		}
		red, green, blue := vision.HSVToRGB(r.Center())
		fmt.Fprintf(&sb, "• %s [%s] H %d–%d, S %d–%d, V %d–%d, #%02X%02X%02X",
			r.Label, kind, r.HMin, r.HMax, r.SMin, r.SMax, r.VMin, r.VMax, red, green, blue)
		if r.IsFullRange() {
			sb.WriteString(" ⚠️ полный диапазон")
		}
		sb.WriteString("\n")
	}

	return &entity.Description{Text: strings.TrimSuffix(sb.String(), "\n")}, nil
}

// DescribeTeach описывает итог обучения
func (d *TextDescriber) DescribeTeach(report *entity.TeachReport) string {
	var sb strings.Builder
	sb.WriteString("🎓 Обучение завершено.\n")
	for _, l := range report.Labels {
		kind := "обнаружение"
		if l.Ignore {
			kind = "исключение"
		}
		fmt.Fprintf(&sb, "• %s [%s]: %d пикс.\n", l.Label, kind, l.Samples)
	}
	if report.HasWarnings() {
		fmt.Fprintf(&sb, "⚠️ Нет образцов для: %s. Для них задан полный диапазон.\n", strings.Join(report.EmptyLabels, ", "))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// DescribeHistory описывает последние проверки
func (d *TextDescriber) DescribeHistory(history []entity.InspectionSummary) string {
	if len(history) == 0 {
		return "📭 История проверок пуста."
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние проверки:\n")
	for _, h := range history {
		mark := "✅"
		if h.RejectCount > 0 || !h.CountOK || h.Total == 0 {
			mark = "❌"
		}
		fmt.Fprintf(&sb, "%s %s — %d шт., брак %d\n", mark, h.CreatedAt.Format("02.01 15:04:05"), h.Total, h.RejectCount)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func failureText(reason entity.FailureReason) string {
	switch reason {
	case entity.FailureWidth:
		return "ширина"
	case entity.FailureHeight:
		return "длина"
	case entity.FailureBoth:
		return "ширина и длина"
	default:
		return reason.String()
	}
}

// Проверка реализации интерфейса
var _ port.ResultDescriber = (*TextDescriber)(nil)
