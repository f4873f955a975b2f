package vision

import (
	"fmt"
	"image"

	"dough-vision/internal/domain/entity"
)

// Classify размечает все пиксели изображения по таблице правил.
func Classify(img image.Image, table *entity.RuleTable) (detect, ignore *entity.Mask, err error) {
	return ClassifyRegion(img, table, img.Bounds())
}

// ClassifyRegion размечает пиксели внутри roi; остальные остаются неклассифицированными.
// Маски имеют размер изображения, координаты отсчитываются от img.Bounds().Min.
// Сначала проверяются правила-исключения, затем правила обнаружения, первое совпадение побеждает.
func ClassifyRegion(img image.Image, table *entity.RuleTable, roi image.Rectangle) (detect, ignore *entity.Mask, err error) {
	if table.Empty() {
		return nil, nil, entity.ErrUntrainedModel
	}

	bounds := img.Bounds()
	if !roi.In(bounds) {
		return nil, nil, fmt.Errorf("roi %v in image %v: %w", roi, bounds, entity.ErrOutOfBounds)
	}

	ignoreRules := table.IgnoreRules()
	detectRules := table.DetectRules()

	detect = entity.NewMask(bounds.Dx(), bounds.Dy())
	ignore = entity.NewMask(bounds.Dx(), bounds.Dy())

	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			c := hsvAt(img, x, y)
			mx, my := x-bounds.Min.X, y-bounds.Min.Y

			if matchAny(c, ignoreRules) {
				ignore.Set(mx, my, true)
				continue
			}
			if matchAny(c, detectRules) {
				detect.Set(mx, my, true)
			}
		}
	}

	return detect, ignore, nil
}

func matchAny(c entity.ColorSample, rules []entity.LabelRule) bool {
	for _, r := range rules {
		if r.Matches(c) {
			return true
		}
	}
	return false
}
