package entity

// Mask плотная булева сетка размером с обрабатываемое изображение.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask создаёт пустую маску.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// At возвращает значение пикселя, за пределами маски — false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set устанавливает значение пикселя. Координаты за пределами игнорируются.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.bits[y*m.Width+x] = v
}

// Count возвращает число установленных пикселей.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Clone возвращает независимую копию маски.
func (m *Mask) Clone() *Mask {
	bits := make([]bool, len(m.bits))
	copy(bits, m.bits)
	return &Mask{Width: m.Width, Height: m.Height, bits: bits}
}
