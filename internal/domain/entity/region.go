package entity

import "image"

// AnnotatedRegion размеченная оператором область: прямоугольник или многоугольник.
type AnnotatedRegion struct {
	Label   string
	Rect    image.Rectangle // для прямоугольной области
	Polygon []image.Point   // вершины многоугольника, замыкается неявно
}

// NewRectRegion создаёт прямоугольную область по левому верхнему углу и размерам.
func NewRectRegion(label string, x, y, width, height int) AnnotatedRegion {
	return AnnotatedRegion{
		Label: label,
		Rect:  image.Rect(x, y, x+width, y+height),
	}
}

// NewPolygonRegion создаёт многоугольную область. Точки копируются.
func NewPolygonRegion(label string, points []image.Point) AnnotatedRegion {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	return AnnotatedRegion{Label: label, Polygon: pts}
}

// IsPolygon сообщает, задана ли область многоугольником.
func (r AnnotatedRegion) IsPolygon() bool {
	return len(r.Polygon) > 0
}

// Bounds возвращает охватывающий прямоугольник области.
// Для многоугольника правая и нижняя вершины входят в прямоугольник.
func (r AnnotatedRegion) Bounds() image.Rectangle {
	if !r.IsPolygon() {
		return r.Rect.Canon()
	}

	minX, minY := r.Polygon[0].X, r.Polygon[0].Y
	maxX, maxY := minX, minY
	for _, p := range r.Polygon[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
