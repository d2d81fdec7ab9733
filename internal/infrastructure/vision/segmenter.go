//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"sketch2cad/internal/domain/entity"
)

// minInsideSamples — минимум кандидатных пикселей внутри внешних областей,
// при котором прямая разность масок принимается за отверстия.
const minInsideSamples = 50

// GoCVSegmenter классифицирует области маски по иерархии контуров CCOMP:
// контуры без родителя — внешние, их дети — отверстия. Если иерархия
// отверстий не дала, а серая копия оригинала доступна, включается
// яркостная эвристика: отверстия — светлые пиксели внутри внешних областей.
type GoCVSegmenter struct {
	MinArea      int   // порог шума внешних контуров, px²
	HoleMinArea  int   // порог шума отверстий, px²
	BrightCutoff uint8 // аварийный порог яркости для отверстий
}

// NewGoCVSegmenter создаёт сегментатор с порогами по умолчанию.
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{MinArea: 50, HoleMinArea: 120, BrightCutoff: 200}
}

// Clean убирает области меньше MinArea. Отверстия сохраняются:
// внешние контуры заполняются, затем отверстия вычитаются обратно.
func (s *GoCVSegmenter) Clean(bin entity.Mask) (entity.Mask, error) {
	if bin.Empty() {
		return bin.Clone(), nil
	}
	src := maskToMat(bin)
	defer src.Close()

	outer, holes := splitByHierarchy(src, float64(s.MinArea))
	defer outer.Close()
	defer holes.Close()

	notHoles := gocv.NewMat()
	defer notHoles.Close()
	gocv.BitwiseNot(holes, &notHoles)

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.BitwiseAnd(outer, notHoles, &cleaned)

	return matToMask(cleaned), nil
}

// SplitOuterHoles разделяет маску на внешние области и отверстия.
// Пустой вход даёт пустые выходы без ошибки.
func (s *GoCVSegmenter) SplitOuterHoles(bin entity.Mask, gray *image.Gray) (entity.Mask, entity.Mask, error) {
	if bin.Empty() {
		return entity.NewMask(bin.Width, bin.Height), entity.NewMask(bin.Width, bin.Height), nil
	}

	src := maskToMat(bin)
	defer src.Close()

	outer, holes := splitByHierarchy(src, float64(s.HoleMinArea))
	defer outer.Close()
	defer holes.Close()

	if gocv.CountNonZero(holes) == 0 && gray != nil {
		fb := s.holesFromBrightness(src, outer, gray)
		defer fb.Close()
		fb.CopyTo(&holes)
	}

	return matToMask(outer), matToMask(holes), nil
}

// splitByHierarchy раскладывает контуры CCOMP на две заполненные маски.
// Контуры меньше minArea отбрасываются и не рисуются.
func splitByHierarchy(src gocv.Mat, minArea float64) (gocv.Mat, gocv.Mat) {
	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	outer := gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
	holes := gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) < minArea {
			continue
		}
		parent := int(hierarchy.GetVeciAt(0, i)[3])
		if parent == -1 {
			gocv.DrawContours(&outer, contours, i, white, -1)
		} else {
			gocv.DrawContours(&holes, contours, i, white, -1)
		}
	}
	return outer, holes
}

// holesFromBrightness выводит отверстия по яркости внутри внешних областей.
// Порядок попыток: разность масок, порог Оцу по внутренним пикселям,
// фиксированный порог яркости. Каждый кандидат фильтруется по площади.
func (s *GoCVSegmenter) holesFromBrightness(bin, outer gocv.Mat, gray *image.Gray) gocv.Mat {
	grayMat := grayToMat(gray)
	defer grayMat.Close()

	// Попытка 1: не-чернильные пиксели внутри внешних областей.
	notInk := gocv.NewMat()
	defer notInk.Close()
	gocv.BitwiseNot(bin, &notInk)

	cand := gocv.NewMat()
	defer cand.Close()
	gocv.BitwiseAnd(outer, notInk, &cand)

	if gocv.CountNonZero(cand) >= minInsideSamples {
		return filterByArea(cand, float64(s.HoleMinArea))
	}

	// Попытка 2: порог Оцу по яркостям внутри внешней маски, светлый кластер.
	if samples := collectInside(grayMat, outer); len(samples) > 0 {
		smat, err := gocv.NewMatFromBytes(len(samples), 1, gocv.MatTypeCV8UC1, samples)
		if err == nil {
			scratch := gocv.NewMat()
			thresh := gocv.Threshold(smat, &scratch, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
			scratch.Close()
			smat.Close()

			bright := thresholdInside(grayMat, outer, thresh)
			filtered := filterByArea(bright, float64(s.HoleMinArea))
			bright.Close()
			if gocv.CountNonZero(filtered) > 0 {
				return filtered
			}
			filtered.Close()
		}
	}

	// Попытка 3: фиксированный порог яркости.
	bright := thresholdInside(grayMat, outer, float32(s.BrightCutoff)-1)
	defer bright.Close()
	return filterByArea(bright, float64(s.HoleMinArea))
}

// thresholdInside оставляет пиксели ярче порога внутри маски region.
func thresholdInside(gray, region gocv.Mat, thresh float32) gocv.Mat {
	bright := gocv.NewMat()
	gocv.Threshold(gray, &bright, thresh, 255, gocv.ThresholdBinary)

	out := gocv.NewMat()
	gocv.BitwiseAnd(bright, region, &out)
	bright.Close()
	return out
}

// collectInside собирает значения серого внутри маски.
func collectInside(gray, mask gocv.Mat) []byte {
	var out []byte
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			if mask.GetUCharAt(y, x) != 0 {
				out = append(out, gray.GetUCharAt(y, x))
			}
		}
	}
	return out
}

// filterByArea оставляет в маске только области площадью не меньше minArea.
func filterByArea(src gocv.Mat, minArea float64) gocv.Mat {
	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) >= minArea {
			gocv.DrawContours(&out, contours, i, white, -1)
		}
	}
	return out
}
