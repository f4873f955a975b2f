package entity

// ModelSnapshot неизменяемый снимок состояния модели на момент запуска проверки.
type ModelSnapshot struct {
	Rules       *RuleTable
	Calibration CalibrationState
	FastMode    bool
}

// Trained сообщает, есть ли в снимке хотя бы одно правило.
func (s ModelSnapshot) Trained() bool {
	return !s.Rules.Empty()
}

// SessionSettings то, что сохраняется между запусками: калибровка и режим.
type SessionSettings struct {
	Calibration CalibrationState
	FastMode    bool
}

// DefaultSessionSettings возвращает настройки по умолчанию.
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{Calibration: DefaultCalibration()}
}

// LabelSummary итог обучения по одной метке.
type LabelSummary struct {
	Label   string
	Ignore  bool
	Samples int
	Rule    LabelRule
}

// TeachReport отчёт об обучении.
type TeachReport struct {
	Labels      []LabelSummary
	EmptyLabels []string // метки без образцов, получили полный диапазон
}

// HasWarnings сообщает о метках, которые не дали ни одного образца.
func (r *TeachReport) HasWarnings() bool {
	return len(r.EmptyLabels) > 0
}
