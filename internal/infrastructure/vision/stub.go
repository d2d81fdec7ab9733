//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"

	"sketch2cad/internal/domain/entity"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVPreprocessor — заглушка для сборки без OpenCV.
type GoCVPreprocessor struct{}

// NewGoCVPreprocessor создаёт препроцессор-заглушку (без OpenCV).
func NewGoCVPreprocessor() *GoCVPreprocessor {
	return &GoCVPreprocessor{}
}

// LoadBinary возвращает ошибку, если сборка без тега gocv.
func (p *GoCVPreprocessor) LoadBinary(path string, params entity.PreprocessParams) (entity.Mask, *image.Gray, error) {
	_ = path
	_ = params
	return entity.Mask{}, nil, errNoGoCV
}

// GoCVSegmenter — заглушка для сборки без OpenCV.
type GoCVSegmenter struct {
	MinArea      int
	HoleMinArea  int
	BrightCutoff uint8
}

// NewGoCVSegmenter создаёт сегментатор-заглушку (без OpenCV).
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{MinArea: 50, HoleMinArea: 120, BrightCutoff: 200}
}

// Clean возвращает ошибку, если сборка без тега gocv.
func (s *GoCVSegmenter) Clean(bin entity.Mask) (entity.Mask, error) {
	_ = bin
	return entity.Mask{}, errNoGoCV
}

// SplitOuterHoles возвращает ошибку, если сборка без тега gocv.
func (s *GoCVSegmenter) SplitOuterHoles(bin entity.Mask, gray *image.Gray) (entity.Mask, entity.Mask, error) {
	_ = bin
	_ = gray
	return entity.Mask{}, entity.Mask{}, errNoGoCV
}
