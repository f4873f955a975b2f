package app

import (
	"context"
	"errors"
	"image"
	"sync"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/monitoring"
)

var errNoDetector = errors.New("detector is not configured")

type InspectionService struct {
	users     *UserService
	detector  port.Detector
	model     port.ModelRepository
	rules     port.RuleStore
	results   port.ResultRepository
	describer port.ResultDescriber

	mu      sync.Mutex
	options entity.InferenceOptions
	runs    map[int64]inspectionRun // по ID оператора
	runID   uint64
}

type inspectionRun struct {
	id     uint64
	cancel context.CancelFunc
}

// InspectionOutput содержит результат проверки, картинку с подсветкой и описание.
type InspectionOutput struct {
	Result      *entity.InspectionResult
	Highlighted []byte
	Description *entity.Description
}

// InspectionOutcome результат фоновой проверки.
type InspectionOutcome struct {
	Output *InspectionOutput
	Err    error
}

// TeachOutput новая таблица правил и отчёт об обучении.
type TeachOutput struct {
	Rules  *entity.RuleTable
	Report *entity.TeachReport
}

// NewInspectionService создаёт сервис обучения и проверки.
func NewInspectionService(
	users *UserService,
	detector port.Detector,
	model port.ModelRepository,
	rules port.RuleStore,
	results port.ResultRepository,
	describer port.ResultDescriber,
	options entity.InferenceOptions,
) *InspectionService {
	return &InspectionService{
		users:     users,
		detector:  detector,
		model:     model,
		rules:     rules,
		results:   results,
		describer: describer,
		options:   options,
		runs:      make(map[int64]inspectionRun),
	}
}

// Teach обучает модель на размеченном фото и заменяет правила целиком.
// Ошибка сохранения файла правил не отменяет обучение.
func (s *InspectionService) Teach(ctx context.Context, imageData []byte, regions []entity.AnnotatedRegion) (*TeachOutput, error) {
	if s.detector == nil {
		return nil, errNoDetector
	}

	table, report, err := s.detector.Learn(ctx, imageData, regions)
	if err != nil {
		return nil, err
	}

	if err := s.model.ReplaceRules(ctx, table); err != nil {
		return nil, err
	}

	if s.rules != nil {
		if err := s.rules.SaveRules(ctx, table); err != nil {
			monitoring.Logf("Error saving rules: %v", err)
		}
	}

	return &TeachOutput{Rules: table, Report: report}, nil
}

// CompleteTeach обучает по разметке пользователя и возвращает его в главное меню.
func (s *InspectionService) CompleteTeach(ctx context.Context, user *entity.User, imageData []byte) (*TeachOutput, error) {
	out, err := s.Teach(ctx, imageData, user.PendingRegions)
	if _, resetErr := s.users.Cancel(ctx, user.ID, user.ChatID); resetErr != nil {
		monitoring.Logf("Error resetting user %d: %v", user.ID, resetErr)
	}
	return out, err
}

// Inspect запускает проверку для оператора. Новая проверка отменяет
// незавершённую предыдущую того же оператора, чужие не затрагивает.
func (s *InspectionService) Inspect(ctx context.Context, operatorID int64, imageData []byte, roi image.Rectangle) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, errNoDetector
	}

	runCtx, done, opts := s.beginRun(ctx, operatorID)
	defer done()

	snapshot, err := s.model.Snapshot(runCtx)
	if err != nil {
		return nil, err
	}

	opts.ROI = roi
	result, err := s.detector.Inspect(runCtx, imageData, snapshot, opts)
	if err != nil {
		return nil, err
	}

	if s.results != nil {
		if err := s.results.Record(ctx, result); err != nil {
			monitoring.Logf("Error recording inspection %s: %v", result.ID, err)
		}
	}

	var highlighted []byte
	if result.Total() > 0 {
		highlighted, _ = s.detector.HighlightDefects(imageData, result)
	}

	var description *entity.Description
	if s.describer != nil {
		description, err = s.describer.Describe(ctx, result)
		if err != nil {
			monitoring.Logf("Error describing inspection %s: %v", result.ID, err)
		}
	}

	return &InspectionOutput{Result: result, Highlighted: highlighted, Description: description}, nil
}

// StartInspection запускает проверку в фоне. Канал получает ровно один результат.
func (s *InspectionService) StartInspection(ctx context.Context, operatorID int64, imageData []byte, roi image.Rectangle) <-chan InspectionOutcome {
	ch := make(chan InspectionOutcome, 1)
	go func() {
		defer close(ch)
		out, err := s.Inspect(ctx, operatorID, imageData, roi)
		ch <- InspectionOutcome{Output: out, Err: err}
	}()
	return ch
}

// CancelInspection прерывает текущую проверку оператора, если она идёт.
func (s *InspectionService) CancelInspection(operatorID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[operatorID]
	if !ok {
		return false
	}
	run.cancel()
	delete(s.runs, operatorID)
	return true
}

// SetExpectedCount задаёт ожидаемое число изделий, 0 — не проверять.
func (s *InspectionService) SetExpectedCount(n int) {
	s.mu.Lock()
	s.options.ExpectedCount = max(n, 0)
	s.mu.Unlock()
}

// Options возвращает текущие параметры проверки.
func (s *InspectionService) Options() entity.InferenceOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// Rules возвращает текущую таблицу правил.
func (s *InspectionService) Rules(ctx context.Context) (*entity.RuleTable, error) {
	snapshot, err := s.model.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Rules, nil
}

// History возвращает последние проверки.
func (s *InspectionService) History(ctx context.Context, limit int) ([]entity.InspectionSummary, error) {
	if s.results == nil {
		return nil, nil
	}
	return s.results.Recent(ctx, limit)
}

// beginRun отменяет предыдущий прогон оператора и регистрирует новый.
func (s *InspectionService) beginRun(ctx context.Context, operatorID int64) (context.Context, func(), entity.InferenceOptions) {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if prev, ok := s.runs[operatorID]; ok {
		prev.cancel()
	}
	s.runID++
	id := s.runID
	s.runs[operatorID] = inspectionRun{id: id, cancel: cancel}
	opts := s.options
	s.mu.Unlock()

	done := func() {
		s.mu.Lock()
		if run, ok := s.runs[operatorID]; ok && run.id == id {
			delete(s.runs, operatorID)
		}
		s.mu.Unlock()
		cancel()
	}
	return runCtx, done, opts
}
