//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"sketch2cad/internal/domain/entity"
)

// maskToMat переводит маску в одноканальный Mat (чернила — 255).
func maskToMat(m entity.Mask) gocv.Mat {
	mat := gocv.NewMatWithSize(m.Height, m.Width, gocv.MatTypeCV8UC1)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				mat.SetUCharAt(y, x, 255)
			}
		}
	}
	return mat
}

// matToMask переводит одноканальный Mat в маску: всё ненулевое — чернила.
func matToMask(mat gocv.Mat) entity.Mask {
	m := entity.NewMask(mat.Cols(), mat.Rows())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if mat.GetUCharAt(y, x) != 0 {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
	return m
}

// grayToMat переводит серое изображение в одноканальный Mat.
func grayToMat(g *image.Gray) gocv.Mat {
	b := g.Bounds()
	mat := gocv.NewMatWithSize(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			mat.SetUCharAt(y, x, g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return mat
}

// matToGray переводит одноканальный Mat в стандартное серое изображение.
func matToGray(mat gocv.Mat) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			img.Pix[y*img.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return img
}
