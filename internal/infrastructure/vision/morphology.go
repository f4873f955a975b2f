package vision

import "dough-vision/internal/domain/entity"

// Dilate пиксель истинен, если истинен хотя бы один сосед в квадратном окне
// (2*(k/2)+1)². Пиксели за пределами маски считаются ложными.
func Dilate(mask *entity.Mask, k int) *entity.Mask {
	half := k / 2
	if half <= 0 {
		return mask.Clone()
	}
	out := entity.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			out.Set(x, y, anyInWindow(mask, x, y, half))
		}
	}
	return out
}

// Erode пиксель истинен, только если истинны все соседи в окне.
// Пиксели за пределами маски ложны, поэтому эрозия сжимает края.
func Erode(mask *entity.Mask, k int) *entity.Mask {
	half := k / 2
	if half <= 0 {
		return mask.Clone()
	}
	out := entity.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			out.Set(x, y, allInWindow(mask, x, y, half))
		}
	}
	return out
}

// Close дилатация, затем эрозия: заполняет мелкие разрывы.
func Close(mask *entity.Mask, k int) *entity.Mask {
	return Erode(Dilate(mask, k), k)
}

// Open эрозия, затем дилатация: убирает мелкий шум.
func Open(mask *entity.Mask, k int) *entity.Mask {
	return Dilate(Erode(mask, k), k)
}

// Cleanup применяет закрытие и открытие с заданными ядрами.
func Cleanup(mask *entity.Mask, kernels entity.KernelSizes) *entity.Mask {
	return Open(Close(mask, kernels.Close), kernels.Open)
}

func anyInWindow(mask *entity.Mask, cx, cy, half int) bool {
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if mask.At(x, y) {
				return true
			}
		}
	}
	return false
}

func allInWindow(mask *entity.Mask, cx, cy, half int) bool {
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if !mask.At(x, y) {
				return false
			}
		}
	}
	return true
}
