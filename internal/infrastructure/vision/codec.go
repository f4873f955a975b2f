//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"dough-vision/internal/domain/entity"
)

// decodeImage декодирует JPEG или PNG стандартными декодерами.
func decodeImage(imageData []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.New("failed to decode image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	return img, nil
}

// resizeNearest масштабирует изображение методом ближайшего соседа.
func resizeNearest(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// highlight возвращает ошибку, если сборка без тега gocv.
func highlight(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	_ = imageData
	_ = result
	return nil, errors.New("gocv build tag is not enabled")
}
