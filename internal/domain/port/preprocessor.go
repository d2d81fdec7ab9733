package port

import (
	"image"

	"sketch2cad/internal/domain/entity"
)

// Preprocessor читает исходный эскиз и превращает его в бинарную маску чернил.
type Preprocessor interface {
	// LoadBinary возвращает маску чернил и серую копию оригинала.
	// Серая копия нужна сегментатору для яркостной эвристики отверстий.
	LoadBinary(path string, params entity.PreprocessParams) (entity.Mask, *image.Gray, error)
}
