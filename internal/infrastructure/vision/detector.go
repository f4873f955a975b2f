package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/google/uuid"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/monitoring"
)

// RuleDetector движок обучения по цветовым правилам и проверки размеров.
type RuleDetector struct {
	MinComponentSide int // компоненты со стороной не больше отбрасываются
	FastMaxWidth     int // в быстром режиме изображение уменьшается до этих размеров
	FastMaxHeight    int
}

// NewRuleDetector создаёт детектор с параметрами по умолчанию.
func NewRuleDetector() *RuleDetector {
	return &RuleDetector{
		MinComponentSide: DefaultMinComponentSide,
		FastMaxWidth:     1280,
		FastMaxHeight:    960,
	}
}

// Learn декодирует эталонное фото и строит по разметке новую таблицу правил.
func (d *RuleDetector) Learn(ctx context.Context, imageData []byte, regions []entity.AnnotatedRegion) (*entity.RuleTable, *entity.TeachReport, error) {
	img, err := decodeImage(imageData)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	monitoring.Logf("Teaching model with %d annotated regions", len(regions))
	return BuildRuleTable(img, regions)
}

// Inspect декодирует фото и запускает распознавание.
func (d *RuleDetector) Inspect(ctx context.Context, imageData []byte, model entity.ModelSnapshot, opts entity.InferenceOptions) (*entity.InspectionResult, error) {
	// Ошибки состояния модели проверяем до декодирования.
	if !model.Trained() {
		return nil, entity.ErrUntrainedModel
	}

	img, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, img, model, opts)
}

// HighlightDefects рисует прямоугольники найденных объектов: годные зелёным, брак красным.
func (d *RuleDetector) HighlightDefects(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	return highlight(imageData, result)
}

// Run полный прогон: классификация, очистка маски, поиск компонент, измерение.
// Между этапами проверяется ctx, чтобы прогон можно было прервать.
func (d *RuleDetector) Run(ctx context.Context, img image.Image, model entity.ModelSnapshot, opts entity.InferenceOptions) (*entity.InspectionResult, error) {
	start := time.Now()

	if !model.Trained() {
		return nil, entity.ErrUntrainedModel
	}
	cal := model.Calibration
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	roi := opts.ROI
	if roi.Empty() {
		roi = bounds
	} else if !roi.In(bounds) {
		return nil, fmt.Errorf("roi %v in image %v: %w", roi, bounds, entity.ErrOutOfBounds)
	}

	opts.FastMode = opts.FastMode || model.FastMode
	work, scale := img, 1.0
	workROI := roi
	if opts.FastMode {
		work, scale = d.downsample(img)
		if scale < 1 {
			workROI = scaleRect(roi.Sub(bounds.Min), scale).Intersect(work.Bounds())
			monitoring.Logf("Fast mode: downsampled to %dx%d", work.Bounds().Dx(), work.Bounds().Dy())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detect, ignore, err := ClassifyRegion(work, model.Rules, workROI)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned := Cleanup(detect, opts.EffectiveKernels())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	components := extractComponents(cleaned, d.MinComponentSide)

	result := &entity.InspectionResult{
		ID:             uuid.NewString(),
		ImageWidth:     bounds.Dx(),
		ImageHeight:    bounds.Dy(),
		Scale:          scale,
		DetectedPixels: cleaned.Count(),
		IgnoredPixels:  ignore.Count(),
		ExpectedCount:  opts.ExpectedCount,
		Measurements:   make([]entity.MeasurementResult, 0, len(components)),
	}

	offX, offY := float64(bounds.Min.X), float64(bounds.Min.Y)
	for _, comp := range components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obb, err := EstimateOrientedBox(cleaned, comp)
		if err != nil {
			monitoring.Logf("Skipping component %v: %v", comp.Bounds, err)
			continue
		}

		// Из координат маски в координаты исходного изображения.
		obb = obb.Scale(1/scale).Translate(offX, offY)
		comp.Bounds = scaleRect(comp.Bounds, 1/scale).Add(bounds.Min)

		m := Evaluate(obb, cal)
		m.Component = comp
		if m.Pass {
			result.PassCount++
		} else {
			result.RejectCount++
		}
		result.Measurements = append(result.Measurements, m)
	}

	total := len(result.Measurements)
	result.CountOK = opts.ExpectedCount <= 0 || total == opts.ExpectedCount
	switch {
	case !result.CountOK:
		result.Message = fmt.Sprintf("expected %d pieces, found %d", opts.ExpectedCount, total)
	case total == 0:
		result.Message = "no objects detected"
	default:
		result.Message = "detection OK"
	}

	result.CreatedAt = time.Now()
	result.Elapsed = time.Since(start)
	monitoring.Logf("Inspection %s complete in %v: total=%d pass=%d reject=%d detected_px=%d",
		result.ID, result.Elapsed, total, result.PassCount, result.RejectCount, result.DetectedPixels)

	return result, nil
}

// downsample уменьшает изображение, если оно больше FastMaxWidth x FastMaxHeight.
func (d *RuleDetector) downsample(img image.Image) (image.Image, float64) {
	b := img.Bounds()
	if d.FastMaxWidth <= 0 || d.FastMaxHeight <= 0 {
		return img, 1
	}
	if b.Dx() <= d.FastMaxWidth && b.Dy() <= d.FastMaxHeight {
		return img, 1
	}

	scale := math.Min(float64(d.FastMaxWidth)/float64(b.Dx()), float64(d.FastMaxHeight)/float64(b.Dy()))
	newW := max(1, int(float64(b.Dx())*scale))
	newH := max(1, int(float64(b.Dy())*scale))
	return resizeNearest(img, newW, newH), scale
}

func scaleRect(r image.Rectangle, f float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*f)),
		int(math.Floor(float64(r.Min.Y)*f)),
		int(math.Ceil(float64(r.Max.X)*f)),
		int(math.Ceil(float64(r.Max.Y)*f)),
	)
}

// Проверка реализации интерфейса
var _ port.Detector = (*RuleDetector)(nil)
