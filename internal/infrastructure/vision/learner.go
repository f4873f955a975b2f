package vision

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/monitoring"
)

// Параметры устойчивого правила: процентили отсечения и расширение диапазона по каналам.
const (
	lowPercentile  = 0.10
	highPercentile = 0.90

	hueTolerance        = 15
	saturationTolerance = 50
	valueTolerance      = 60
)

var ignoreMarkers = []string{"ignore", "background", "reject", "exclude"}

// IsIgnoreLabel сообщает, что метка обозначает фон или исключение.
func IsIgnoreLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, marker := range ignoreMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// LearnRule строит правило по образцам: 10-й и 90-й процентили каждого канала,
// расширенные на фиксированный допуск. Без образцов — правило полного диапазона.
func LearnRule(label string, samples []entity.ColorSample) entity.LabelRule {
	if len(samples) == 0 {
		return entity.FullRangeRule(label)
	}

	hs := make([]int, len(samples))
	ss := make([]int, len(samples))
	vs := make([]int, len(samples))
	for i, c := range samples {
		hs[i], ss[i], vs[i] = c.H, c.S, c.V
	}
	slices.Sort(hs)
	slices.Sort(ss)
	slices.Sort(vs)

	lo := percentileIndex(len(samples), lowPercentile)
	hi := percentileIndex(len(samples), highPercentile)

	return entity.LabelRule{
		Label: label,
		HMin:  clamp(hs[lo]-hueTolerance, 0, entity.MaxHue),
		HMax:  clamp(hs[hi]+hueTolerance, 0, entity.MaxHue),
		SMin:  clamp(ss[lo]-saturationTolerance, 0, entity.MaxSaturation),
		SMax:  clamp(ss[hi]+saturationTolerance, 0, entity.MaxSaturation),
		VMin:  clamp(vs[lo]-valueTolerance, 0, entity.MaxValue),
		VMax:  clamp(vs[hi]+valueTolerance, 0, entity.MaxValue),
	}
}

// percentileIndex возвращает floor(p*n), ограниченный [0, n-1].
func percentileIndex(n int, p float64) int {
	return clamp(int(float64(n)*p), 0, n-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BuildRuleTable собирает образцы по меткам в порядке первого появления,
// отмечает метки-исключения и обучает правило для каждой метки.
func BuildRuleTable(img image.Image, regions []entity.AnnotatedRegion) (*entity.RuleTable, *entity.TeachReport, error) {
	if len(regions) == 0 {
		return nil, nil, fmt.Errorf("teach: no regions: %w", entity.ErrEmptyAnnotation)
	}

	bounds := img.Bounds()
	for i, region := range regions {
		if region.Label == "" {
			return nil, nil, fmt.Errorf("teach: region %d has empty label", i+1)
		}
		if !region.Bounds().Overlaps(bounds) {
			return nil, nil, fmt.Errorf("teach: region %d (%s) %v outside image %v: %w",
				i+1, region.Label, region.Bounds(), bounds, entity.ErrOutOfBounds)
		}
	}

	var labels, ignore []string
	samplesByLabel := make(map[string][]entity.ColorSample)
	for _, region := range regions {
		if _, seen := samplesByLabel[region.Label]; !seen {
			labels = append(labels, region.Label)
			samplesByLabel[region.Label] = nil
			if IsIgnoreLabel(region.Label) {
				ignore = append(ignore, region.Label)
				monitoring.Logf("Marking '%s' as IGNORE label", region.Label)
			}
		}
		samples := ExtractSamples(img, region)
		samplesByLabel[region.Label] = append(samplesByLabel[region.Label], samples...)
	}

	report := &entity.TeachReport{}
	rules := make([]entity.LabelRule, 0, len(labels))
	for _, label := range labels {
		samples := samplesByLabel[label]
		rule := LearnRule(label, samples)
		rules = append(rules, rule)

		isIgnore := slices.Contains(ignore, label)
		report.Labels = append(report.Labels, entity.LabelSummary{
			Label:   label,
			Ignore:  isIgnore,
			Samples: len(samples),
			Rule:    rule,
		})
		if len(samples) == 0 {
			report.EmptyLabels = append(report.EmptyLabels, label)
			monitoring.Logf("Label '%s' yielded no samples, using full range rule", label)
			continue
		}

		kind := "DETECT"
		if isIgnore {
			kind = "IGNORE"
		}
		monitoring.Logf("Learned %s rule for '%s': HSV %v..%v (%d samples)",
			kind, label, rule.Lower(), rule.Upper(), len(samples))
	}

	table, err := entity.NewRuleTable(rules, ignore)
	if err != nil {
		return nil, nil, fmt.Errorf("teach: %w", err)
	}
	return table, report, nil
}
