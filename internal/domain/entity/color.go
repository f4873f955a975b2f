package entity

// Границы каналов HSV в диапазонах OpenCV.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// ColorSample один пиксель в пространстве HSV.
type ColorSample struct {
	H int // тон, 0..179
	S int // насыщенность, 0..255
	V int // яркость, 0..255
}

// LabelRule выученный диапазон HSV для метки. Границы включительные.
type LabelRule struct {
	Label string
	HMin  int
	HMax  int
	SMin  int
	SMax  int
	VMin  int
	VMax  int
}

// FullRangeRule возвращает правило, пропускающее любой цвет.
// Используется, когда для метки не удалось собрать ни одного образца.
func FullRangeRule(label string) LabelRule {
	return LabelRule{
		Label: label,
		HMax:  MaxHue,
		SMax:  MaxSaturation,
		VMax:  MaxValue,
	}
}

// Matches проверяет, попадает ли образец в диапазон правила.
func (r LabelRule) Matches(c ColorSample) bool {
	return c.H >= r.HMin && c.H <= r.HMax &&
		c.S >= r.SMin && c.S <= r.SMax &&
		c.V >= r.VMin && c.V <= r.VMax
}

// IsFullRange сообщает, что правило вырожденное и покрывает всё пространство.
func (r LabelRule) IsFullRange() bool {
	full := FullRangeRule(r.Label)
	return r == full
}

// Lower возвращает нижнюю границу [h, s, v].
func (r LabelRule) Lower() [3]int {
	return [3]int{r.HMin, r.SMin, r.VMin}
}

// Upper возвращает верхнюю границу [h, s, v].
func (r LabelRule) Upper() [3]int {
	return [3]int{r.HMax, r.SMax, r.VMax}
}

// Center возвращает середину диапазона, удобно для отображения цвета правила.
func (r LabelRule) Center() ColorSample {
	return ColorSample{
		H: (r.HMin + r.HMax) / 2,
		S: (r.SMin + r.SMax) / 2,
		V: (r.VMin + r.VMax) / 2,
	}
}
