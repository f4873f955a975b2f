package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/monitoring"
)

const (
	ruleTypeDetect = "detect"
	ruleTypeIgnore = "ignore"
)

type ruleFile struct {
	Rules        []ruleEntry `json:"rules"`
	IgnoreLabels []string    `json:"ignore_labels"`
}

type ruleEntry struct {
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
	Lower [3]int `json:"lower"`
	Upper [3]int `json:"upper"`
}

// JSONRuleStore хранит выученные правила в learned_rules.json
type JSONRuleStore struct {
	path string
}

// NewJSONRuleStore создаёт хранилище правил по пути к файлу
func NewJSONRuleStore(path string) *JSONRuleStore {
	return &JSONRuleStore{path: path}
}

// LoadRules читает таблицу правил. Если файла нет, возвращает пустую таблицу.
// Метка считается исключением, если она есть в ignore_labels или её type равен "ignore".
func (s *JSONRuleStore) LoadRules(ctx context.Context) (*entity.RuleTable, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewRuleTable(nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", s.path, err)
	}

	var file ruleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", s.path, err)
	}

	rules := make([]entity.LabelRule, 0, len(file.Rules))
	var ignore []string
	for _, e := range file.Rules {
		rules = append(rules, entity.LabelRule{
			Label: e.Label,
			HMin:  e.Lower[0],
			SMin:  e.Lower[1],
			VMin:  e.Lower[2],
			HMax:  e.Upper[0],
			SMax:  e.Upper[1],
			VMax:  e.Upper[2],
		})
		if e.Type == ruleTypeIgnore {
			ignore = append(ignore, e.Label)
		}
	}

	for _, label := range file.IgnoreLabels {
		if !slices.ContainsFunc(rules, func(r entity.LabelRule) bool { return r.Label == label }) {
			monitoring.Logf("Ignore label '%s' has no rule in %s, skipping", label, s.path)
			continue
		}
		ignore = append(ignore, label)
	}

	table, err := entity.NewRuleTable(rules, ignore)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", s.path, err)
	}

	monitoring.Logf("Loaded %d rules from: %s", table.Len(), s.path)
	return table, nil
}

// SaveRules записывает таблицу правил целиком
func (s *JSONRuleStore) SaveRules(ctx context.Context, rules *entity.RuleTable) error {
	file := ruleFile{
		Rules:        make([]ruleEntry, 0, rules.Len()),
		IgnoreLabels: rules.IgnoreLabels(),
	}
	if file.IgnoreLabels == nil {
		file.IgnoreLabels = []string{}
	}

	for _, r := range rules.Rules() {
		typ := ruleTypeDetect
		if rules.IsIgnore(r.Label) {
			typ = ruleTypeIgnore
		}
		file.Rules = append(file.Rules, ruleEntry{
			Label: r.Label,
			Type:  typ,
			Lower: r.Lower(),
			Upper: r.Upper(),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("save rules %s: %w", s.path, err)
	}

	monitoring.Logf("Saved rules to: %s", s.path)
	return nil
}

// Проверка реализации интерфейса
var _ port.RuleStore = (*JSONRuleStore)(nil)
