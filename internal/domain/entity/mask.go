package entity

import "image"

// Mask — бинарный растр эскиза: 255 означает «чернила», 0 — фон.
// Каждая стадия конвейера владеет своей маской и передаёт её дальше
// без последующих изменений.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8 // построчно, длина Width*Height
}

// NewMask создаёт пустую маску заданного размера.
func NewMask(w, h int) Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Mask{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// At сообщает, закрашен ли пиксель (x, y). Вне границ — фон.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set закрашивает или очищает пиксель (x, y).
func (m *Mask) Set(x, y int, ink bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if ink {
		m.Pix[y*m.Width+x] = 255
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// InkCount возвращает число закрашенных пикселей.
func (m Mask) InkCount() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Empty сообщает, что в маске нет чернил.
func (m Mask) Empty() bool {
	return m.InkCount() == 0
}

// Clone возвращает независимую копию маски.
func (m Mask) Clone() Mask {
	c := Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// GrayImage переводит маску в стандартное серое изображение
// (чернила — 255, фон — 0), например для отладочных дампов.
func (m Mask) GrayImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+m.Width], m.Pix[y*m.Width:(y+1)*m.Width])
	}
	return img
}
