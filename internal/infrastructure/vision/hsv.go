package vision

import (
	"image"
	"image/color"
	"math"

	"dough-vision/internal/domain/entity"
)

// RGBToHSV переводит RGB (0..255) в HSV в диапазонах OpenCV: H 0..179, S и V 0..255.
// Для оттенков серого тон равен 0.
func RGBToHSV(r, g, b uint8) entity.ColorSample {
	ri, gi, bi := int(r), int(g), int(b)
	maxC := max(ri, gi, bi)
	minC := min(ri, gi, bi)
	delta := maxC - minC

	var h float64
	if delta != 0 {
		d := float64(delta)
		switch maxC {
		case ri:
			h = 60 * math.Mod(float64(gi-bi)/d, 6)
		case gi:
			h = 60 * (float64(bi-ri)/d + 2)
		default:
			h = 60 * (float64(ri-gi)/d + 4)
		}
	}
	if h < 0 {
		h += 360
	}

	s := 0
	if maxC != 0 {
		s = delta * entity.MaxSaturation / maxC
	}

	hue := int(h / 2)
	if hue > entity.MaxHue {
		hue = entity.MaxHue
	}

	return entity.ColorSample{H: hue, S: s, V: maxC}
}

// HSVToRGB обратное преобразование, с точностью до квантования тона.
func HSVToRGB(c entity.ColorSample) (r, g, b uint8) {
	v := float64(c.V) / entity.MaxValue
	s := float64(c.S) / entity.MaxSaturation
	h := float64(c.H) * 2

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}

	return toByte(rf + m), toByte(gf + m), toByte(bf + m)
}

func toByte(f float64) uint8 {
	v := math.Round(f * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// rgbAt читает пиксель изображения. Для RGBA и NRGBA без интерфейсного вызова At.
func rgbAt(img image.Image, x, y int) (r, g, b uint8) {
	switch src := img.(type) {
	case *image.RGBA:
		i := src.PixOffset(x, y)
		return src.Pix[i], src.Pix[i+1], src.Pix[i+2]
	case *image.NRGBA:
		i := src.PixOffset(x, y)
		return src.Pix[i], src.Pix[i+1], src.Pix[i+2]
	default:
		c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
		return c.R, c.G, c.B
	}
}

// hsvAt возвращает HSV пикселя изображения.
func hsvAt(img image.Image, x, y int) entity.ColorSample {
	r, g, b := rgbAt(img, x, y)
	return RGBToHSV(r, g, b)
}
