package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/infrastructure/storage"
)

// scenePNG серый фон и два куска теста: 50x50 в (40,60) и 60x40 в (120,120).
func scenePNG(t *testing.T, withDough bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 128, G: 128, B: 128, A: 255}}, image.Point{}, draw.Src)
	if withDough {
		dough := &image.Uniform{C: color.RGBA{R: 200, G: 150, B: 80, A: 255}}
		draw.Draw(img, image.Rect(40, 60, 90, 110), dough, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(120, 120, 180, 160), dough, image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doughRegions() []entity.AnnotatedRegion {
	return []entity.AnnotatedRegion{entity.NewRectRegion("dough", 40, 60, 50, 50)}
}

func sceneCalibration() entity.SessionSettings {
	return entity.SessionSettings{Calibration: entity.CalibrationState{
		PixelsPerMm:     1,
		TargetWidth:     50,
		TargetHeight:    50,
		WidthTolerance:  5,
		HeightTolerance: 5,
	}}
}

func newModelRepo() *storage.MemoryModelRepository {
	return storage.NewMemoryModelRepository(nil, sceneCalibration())
}

// blockingDetector зависает на первом вызове Inspect до отмены контекста.
type blockingDetector struct {
	calls   atomic.Int32
	started chan struct{}
}

func (d *blockingDetector) Learn(ctx context.Context, imageData []byte, regions []entity.AnnotatedRegion) (*entity.RuleTable, *entity.TeachReport, error) {
	return nil, nil, nil
}

func (d *blockingDetector) Inspect(ctx context.Context, imageData []byte, model entity.ModelSnapshot, opts entity.InferenceOptions) (*entity.InspectionResult, error) {
	if d.calls.Add(1) == 1 {
		close(d.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &entity.InspectionResult{ID: "second", CountOK: true}, nil
}

func (d *blockingDetector) HighlightDefects(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	return nil, nil
}

// gateDetector держит каждую проверку до закрытия release или отмены контекста.
type gateDetector struct {
	started chan struct{}
	release chan struct{}
}

func (d *gateDetector) Learn(ctx context.Context, imageData []byte, regions []entity.AnnotatedRegion) (*entity.RuleTable, *entity.TeachReport, error) {
	return nil, nil, nil
}

func (d *gateDetector) Inspect(ctx context.Context, imageData []byte, model entity.ModelSnapshot, opts entity.InferenceOptions) (*entity.InspectionResult, error) {
	d.started <- struct{}{}
	select {
	case <-d.release:
		return &entity.InspectionResult{ID: string(imageData), CountOK: true}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *gateDetector) HighlightDefects(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	return nil, nil
}

type failingRuleStore struct{}

func (failingRuleStore) LoadRules(ctx context.Context) (*entity.RuleTable, error) {
	return nil, context.DeadlineExceeded
}

func (failingRuleStore) SaveRules(ctx context.Context, rules *entity.RuleTable) error {
	return context.DeadlineExceeded
}
