//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"sketch2cad/internal/domain/entity"
)

// GoCVPreprocessor бинаризует исходный эскиз через OpenCV.
type GoCVPreprocessor struct{}

// NewGoCVPreprocessor создаёт препроцессор.
func NewGoCVPreprocessor() *GoCVPreprocessor {
	return &GoCVPreprocessor{}
}

// LoadBinary читает изображение и строит маску чернил: серый -> гауссово
// размытие -> инвертированный адаптивный порог -> морфологическое закрытие.
// Вторым значением возвращается серая копия оригинала до размытия.
func (p *GoCVPreprocessor) LoadBinary(path string, params entity.PreprocessParams) (entity.Mask, *image.Gray, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return entity.Mask{}, nil, fmt.Errorf("%w: cannot read image %s", entity.ErrInput, path)
	}
	defer mat.Close()

	blurK := params.BlurKsize
	if blurK%2 == 0 {
		blurK++
	}
	if blurK < 1 {
		blurK = 1
	}
	block := params.BlockSize
	if block%2 == 0 {
		block++
	}
	if block < 3 {
		block = 3
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurK, blurK), 0, 0, gocv.BorderDefault)

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.AdaptiveThreshold(blurred, &bin, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinaryInv, block, float32(params.AdaptiveC))

	if params.MorphIters > 0 && params.MorphKernel > 1 {
		k := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(params.MorphKernel, params.MorphKernel))
		defer k.Close()
		closed := gocv.NewMat()
		defer closed.Close()
		gocv.MorphologyExWithParams(bin, &closed, gocv.MorphClose, k, params.MorphIters, gocv.BorderConstant)
		closed.CopyTo(&bin)
	}

	return matToMask(bin), matToGray(gray), nil
}
