package port

import (
	"image"

	"sketch2cad/internal/domain/entity"
)

// Segmenter разделяет бинарную маску на внешние области и отверстия.
type Segmenter interface {
	// Clean убирает мелкие шумовые области, сохраняя отверстия.
	Clean(bin entity.Mask) (entity.Mask, error)

	// SplitOuterHoles возвращает маску внешних областей и маску отверстий
	// одинакового с входом размера. gray может быть nil — тогда используется
	// только иерархия контуров, без яркостной эвристики.
	SplitOuterHoles(bin entity.Mask, gray *image.Gray) (outer, holes entity.Mask, err error)
}
