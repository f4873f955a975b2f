//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"gocv.io/x/gocv"

	"dough-vision/internal/domain/entity"
)

// decodeImage декодирует байты через OpenCV и возвращает Go-изображение.
func decodeImage(imageData []byte) (image.Image, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// resizeNearest масштабирует изображение через gocv.Resize.
func resizeNearest(img image.Image, width, height int) image.Image {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return img
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationNearestNeighbor)

	out, err := dst.ToImage()
	if err != nil {
		return img
	}
	return out
}

// highlight рисует повёрнутые прямоугольники: годные зелёным, брак красным.
func highlight(imageData []byte, result *entity.InspectionResult) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	green := color.RGBA{G: 255, A: 255}
	red := color.RGBA{R: 255, A: 255}
	for _, m := range result.Measurements {
		c := green
		if !m.Pass {
			c = red
		}
		corners := m.Box.Corners
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			gocv.Line(&mat, toPoint(a), toPoint(b), c, 3)
		}
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, errors.New("failed to decode image")
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, errors.New("failed to decode image")
	}
	return mat, nil
}

func toPoint(p entity.Point2D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
