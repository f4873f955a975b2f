package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/monitoring"
)

// ErrReferenceNotFound на фото эталона не найдено ни одного объекта.
var ErrReferenceNotFound = errors.New("reference object not found")

// CalibrationService управляет калибровкой и режимом обработки.
// Каждое изменение сохраняется в файл сессии.
type CalibrationService struct {
	model    port.ModelRepository
	sessions port.SessionStore
	detector port.Detector

	persistMu sync.Mutex
}

func NewCalibrationService(model port.ModelRepository, sessions port.SessionStore, detector port.Detector) *CalibrationService {
	return &CalibrationService{model: model, sessions: sessions, detector: detector}
}

// Current возвращает текущие настройки сессии.
func (s *CalibrationService) Current(ctx context.Context) (entity.SessionSettings, error) {
	snapshot, err := s.model.Snapshot(ctx)
	if err != nil {
		return entity.SessionSettings{}, err
	}
	return entity.SessionSettings{Calibration: snapshot.Calibration, FastMode: snapshot.FastMode}, nil
}

// SetPixelsPerMm задаёт масштаб.
func (s *CalibrationService) SetPixelsPerMm(ctx context.Context, pixelsPerMm float64) (entity.CalibrationState, error) {
	return s.updateCalibration(ctx, func(c *entity.CalibrationState) {
		c.PixelsPerMm = pixelsPerMm
	})
}

// SetTargetDimensions задаёт целевые размеры и допуски в мм.
func (s *CalibrationService) SetTargetDimensions(ctx context.Context, width, height, widthTol, heightTol float64) (entity.CalibrationState, error) {
	return s.updateCalibration(ctx, func(c *entity.CalibrationState) {
		c.TargetWidth = width
		c.TargetHeight = height
		c.WidthTolerance = widthTol
		c.HeightTolerance = heightTol
	})
}

// SetFastMode переключает быстрый режим.
func (s *CalibrationService) SetFastMode(ctx context.Context, enabled bool) error {
	if err := s.model.SetFastMode(ctx, enabled); err != nil {
		return err
	}
	return s.persist(ctx)
}

// CalibrateFromReference находит на фото самый крупный объект и считает,
// что его длина равна lengthMm.
func (s *CalibrationService) CalibrateFromReference(ctx context.Context, imageData []byte, lengthMm float64) (entity.CalibrationState, error) {
	if !(lengthMm > 0) {
		return entity.CalibrationState{}, fmt.Errorf("%w: reference length must be positive", entity.ErrInvalidCalibration)
	}
	if s.detector == nil {
		return entity.CalibrationState{}, errNoDetector
	}

	snapshot, err := s.model.Snapshot(ctx)
	if err != nil {
		return entity.CalibrationState{}, err
	}
	// Измеряем в пикселях.
	snapshot.Calibration.PixelsPerMm = 1

	result, err := s.detector.Inspect(ctx, imageData, snapshot, entity.DefaultInferenceOptions())
	if err != nil {
		return entity.CalibrationState{}, err
	}
	if result.Total() == 0 {
		return entity.CalibrationState{}, ErrReferenceNotFound
	}

	largest := result.Measurements[0]
	for _, m := range result.Measurements[1:] {
		if m.Component.PixelCount > largest.Component.PixelCount {
			largest = m
		}
	}

	pixelsPerMm := largest.LengthPx / lengthMm
	monitoring.Logf("Reference calibration: %.1f px over %.1f mm = %.4f px/mm", largest.LengthPx, lengthMm, pixelsPerMm)
	return s.SetPixelsPerMm(ctx, pixelsPerMm)
}

func (s *CalibrationService) updateCalibration(ctx context.Context, apply func(c *entity.CalibrationState)) (entity.CalibrationState, error) {
	cal, err := s.model.UpdateCalibration(ctx, apply)
	if err != nil {
		return entity.CalibrationState{}, err
	}

	monitoring.Logf("Calibration set: %.4f pixels/mm, target %.1fx%.1f mm ±%.1f/±%.1f",
		cal.PixelsPerMm, cal.TargetWidth, cal.TargetHeight, cal.WidthTolerance, cal.HeightTolerance)
	return cal, s.persist(ctx)
}

func (s *CalibrationService) persist(ctx context.Context) error {
	if s.sessions == nil {
		return nil
	}

	// снимок и запись под одной блокировкой
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	settings, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.sessions.SaveSession(ctx, settings); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
