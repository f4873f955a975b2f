package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/monitoring"
)

// Поля указателями: отсутствующее в файле значение не затирает значение по умолчанию.
type sessionFile struct {
	Measurement *measurementSection `json:"measurement"`
	Processing  *processingSection  `json:"processing"`
}

type measurementSection struct {
	PixelsPerMm     *float64 `json:"pixels_per_mm"`
	TargetWidth     *float64 `json:"target_width"`
	TargetHeight    *float64 `json:"target_height"`
	TargetWidthMm   *float64 `json:"target_width_mm"`
	TargetHeightMm  *float64 `json:"target_height_mm"`
	WidthTolerance  *float64 `json:"width_tolerance"`
	HeightTolerance *float64 `json:"height_tolerance"`

	// Старый формат: общий допуск в процентах от цели.
	Tolerance *float64 `json:"tolerance"`
}

type processingSection struct {
	FastMode *bool `json:"fast_mode"`
}

// JSONSessionStore хранит калибровку и режим в session_config.json
type JSONSessionStore struct {
	path string
}

// NewJSONSessionStore создаёт хранилище настроек сессии
func NewJSONSessionStore(path string) *JSONSessionStore {
	return &JSONSessionStore{path: path}
}

// LoadSession читает настройки. Без файла — значения по умолчанию.
func (s *JSONSessionStore) LoadSession(ctx context.Context) (entity.SessionSettings, error) {
	settings := entity.DefaultSessionSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read session %s: %w", s.path, err)
	}

	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return settings, fmt.Errorf("parse session %s: %w", s.path, err)
	}

	if m := file.Measurement; m != nil {
		cal := &settings.Calibration
		setFloat(&cal.PixelsPerMm, m.PixelsPerMm)
		setFloat(&cal.TargetWidth, m.TargetWidthMm)
		setFloat(&cal.TargetHeight, m.TargetHeightMm)
		setFloat(&cal.TargetWidth, m.TargetWidth)
		setFloat(&cal.TargetHeight, m.TargetHeight)

		switch {
		case m.WidthTolerance != nil || m.HeightTolerance != nil:
			setFloat(&cal.WidthTolerance, m.WidthTolerance)
			setFloat(&cal.HeightTolerance, m.HeightTolerance)
		case m.Tolerance != nil:
			*cal = cal.WithPercentTolerance(*m.Tolerance)
			monitoring.Logf("Converted legacy tolerance %.1f%% to ±%.2f/±%.2f mm",
				*m.Tolerance, cal.WidthTolerance, cal.HeightTolerance)
		}
	}
	if p := file.Processing; p != nil && p.FastMode != nil {
		settings.FastMode = *p.FastMode
	}

	if err := settings.Calibration.Validate(); err != nil {
		return entity.DefaultSessionSettings(), fmt.Errorf("session %s: %w", s.path, err)
	}

	return settings, nil
}

// SaveSession обновляет в файле секции measurement и processing.
// Прочие секции и незнакомые ключи сохраняются как были.
func (s *JSONSessionStore) SaveSession(ctx context.Context, settings entity.SessionSettings) error {
	doc, err := s.readDocument()
	if err != nil {
		return err
	}

	cal := settings.Calibration
	measurement := map[string]any{
		"pixels_per_mm":    cal.PixelsPerMm,
		"target_width":     cal.TargetWidth,
		"target_height":    cal.TargetHeight,
		"width_tolerance":  cal.WidthTolerance,
		"height_tolerance": cal.HeightTolerance,
	}
	mirrored := map[string]any{
		"target_width_mm":  cal.TargetWidth,
		"target_height_mm": cal.TargetHeight,
	}
	if err := mergeSection(doc, "measurement", measurement, mirrored, "tolerance"); err != nil {
		return err
	}
	if err := mergeSection(doc, "processing", map[string]any{"fast_mode": settings.FastMode}, nil); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("save session %s: %w", s.path, err)
	}
	return nil
}

// readDocument читает файл как набор секций верхнего уровня.
// Отсутствующий или повреждённый файл даёт пустой документ.
func (s *JSONSessionStore) readDocument() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		monitoring.Logf("Session %s is not a JSON object, rewriting it: %v", s.path, err)
		return make(map[string]json.RawMessage), nil
	}
	return doc, nil
}

// mergeSection записывает values в секцию name, обновляет ключи mirrored,
// только если они уже есть, и удаляет ключи drop.
func mergeSection(doc map[string]json.RawMessage, name string, values, mirrored map[string]any, drop ...string) error {
	section := make(map[string]json.RawMessage)
	if raw, ok := doc[name]; ok {
		if err := json.Unmarshal(raw, &section); err != nil || section == nil {
			section = make(map[string]json.RawMessage)
		}
	}

	for _, key := range drop {
		delete(section, key)
	}
	for key, v := range mirrored {
		if _, ok := section[key]; ok {
			values[key] = v
		}
	}
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", name, key, err)
		}
		section[key] = raw
	}

	raw, err := json.Marshal(section)
	if err != nil {
		return err
	}
	doc[name] = raw
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Проверка реализации интерфейса
var _ port.SessionStore = (*JSONSessionStore)(nil)
