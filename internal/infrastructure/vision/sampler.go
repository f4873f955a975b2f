package vision

import (
	"image"

	"dough-vision/internal/domain/entity"
)

// ExtractSamples собирает HSV-образцы из области. Пиксели за пределами
// изображения пропускаются, для многоугольника — и пиксели вне контура.
func ExtractSamples(img image.Image, region entity.AnnotatedRegion) []entity.ColorSample {
	area := region.Bounds().Intersect(img.Bounds())
	if area.Empty() {
		return nil
	}

	samples := make([]entity.ColorSample, 0, area.Dx()*area.Dy())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if region.IsPolygon() && !pointInPolygon(x, y, region.Polygon) {
				continue
			}
			samples = append(samples, hsvAt(img, x, y))
		}
	}
	return samples
}

// pointInPolygon чётно-нечётный тест лучом. Ребро учитывается, если y лежит
// в [нижняя вершина, верхняя вершина), так пересечение в вершине не считается дважды.
func pointInPolygon(x, y int, polygon []image.Point) bool {
	inside := false
	px, py := float64(x), float64(y)

	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > y) == (pj.Y > y) {
			continue
		}
		crossX := float64(pj.X-pi.X)*(py-float64(pi.Y))/float64(pj.Y-pi.Y) + float64(pi.X)
		if px < crossX {
			inside = !inside
		}
	}
	return inside
}
