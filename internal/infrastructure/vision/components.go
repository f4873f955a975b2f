package vision

import (
	"image"

	"dough-vision/internal/domain/entity"
)

// DefaultMinComponentSide компоненты с шириной или высотой не больше этого значения отбрасываются.
const DefaultMinComponentSide = 10

// ExtractComponents находит связные области маски с минимальной стороной по умолчанию.
func ExtractComponents(mask *entity.Mask) []entity.ConnectedComponent {
	return extractComponents(mask, DefaultMinComponentSide)
}

// extractComponents обходит маску построчно и для каждого непосещённого пикселя
// выполняет заливку в ширину по 4 соседям, запоминая границы области.
func extractComponents(mask *entity.Mask, minSide int) []entity.ConnectedComponent {
	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	var components []entity.ConnectedComponent
	var queue []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || visited[y*w+x] {
				continue
			}

			minX, maxX, minY, maxY := x, x, y, y
			count := 0
			queue = append(queue[:0], y*w+x)
			visited[y*w+x] = true

			for len(queue) > 0 {
				idx := queue[0]
				queue = queue[1:]
				px, py := idx%w, idx/w
				count++

				minX = min(minX, px)
				maxX = max(maxX, px)
				minY = min(minY, py)
				maxY = max(maxY, py)

				for _, d := range [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}} {
					nx, ny := px+d[0], py+d[1]
					if !mask.At(nx, ny) || visited[ny*w+nx] {
						continue
					}
					visited[ny*w+nx] = true
					queue = append(queue, ny*w+nx)
				}
			}

			bounds := image.Rect(minX, minY, maxX+1, maxY+1)
			if bounds.Dx() > minSide && bounds.Dy() > minSide {
				components = append(components, entity.ConnectedComponent{Bounds: bounds, PixelCount: count})
			}
		}
	}

	return components
}
