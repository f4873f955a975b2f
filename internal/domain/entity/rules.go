package entity

import "fmt"

// RuleTable набор выученных правил. После создания не изменяется,
// обучение всегда строит новую таблицу целиком.
type RuleTable struct {
	rules  map[string]LabelRule
	order  []string // порядок добавления меток
	ignore []string // метки-исключения в порядке добавления
}

// NewRuleTable собирает таблицу. Каждая метка из ignoreLabels обязана иметь правило.
// Порядок rules задаёт порядок проверки при классификации.
func NewRuleTable(rules []LabelRule, ignoreLabels []string) (*RuleTable, error) {
	t := &RuleTable{
		rules: make(map[string]LabelRule, len(rules)),
		order: make([]string, 0, len(rules)),
	}
	for _, r := range rules {
		if r.Label == "" {
			return nil, fmt.Errorf("rule with empty label")
		}
		if _, dup := t.rules[r.Label]; dup {
			return nil, fmt.Errorf("duplicate rule for label %q", r.Label)
		}
		t.rules[r.Label] = r
		t.order = append(t.order, r.Label)
	}

	seen := make(map[string]bool, len(ignoreLabels))
	for _, label := range ignoreLabels {
		if _, ok := t.rules[label]; !ok {
			return nil, fmt.Errorf("ignore label %q has no rule", label)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		t.ignore = append(t.ignore, label)
	}

	return t, nil
}

// Len возвращает количество правил.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Empty модель не обучена.
func (t *RuleTable) Empty() bool {
	return t.Len() == 0
}

// Rule возвращает правило по метке.
func (t *RuleTable) Rule(label string) (LabelRule, bool) {
	if t == nil {
		return LabelRule{}, false
	}
	r, ok := t.rules[label]
	return r, ok
}

// IsIgnore сообщает, помечена ли метка как исключение.
func (t *RuleTable) IsIgnore(label string) bool {
	if t == nil {
		return false
	}
	for _, l := range t.ignore {
		if l == label {
			return true
		}
	}
	return false
}

// Labels возвращает все метки в порядке добавления.
func (t *RuleTable) Labels() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// IgnoreLabels возвращает метки-исключения.
func (t *RuleTable) IgnoreLabels() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.ignore))
	copy(out, t.ignore)
	return out
}

// IgnoreRules возвращает правила-исключения в порядке проверки.
func (t *RuleTable) IgnoreRules() []LabelRule {
	if t == nil {
		return nil
	}
	out := make([]LabelRule, 0, len(t.ignore))
	for _, label := range t.ignore {
		out = append(out, t.rules[label])
	}
	return out
}

// DetectRules возвращает правила обнаружения в порядке добавления.
func (t *RuleTable) DetectRules() []LabelRule {
	if t == nil {
		return nil
	}
	out := make([]LabelRule, 0, len(t.order))
	for _, label := range t.order {
		if t.IsIgnore(label) {
			continue
		}
		out = append(out, t.rules[label])
	}
	return out
}

// Rules возвращает все правила в порядке добавления.
func (t *RuleTable) Rules() []LabelRule {
	if t == nil {
		return nil
	}
	out := make([]LabelRule, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, t.rules[label])
	}
	return out
}
