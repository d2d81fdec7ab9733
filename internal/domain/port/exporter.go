package port

import "sketch2cad/internal/domain/entity"

// Exporter записывает векторные пути в файл чертежа.
// scale — выходные единицы на пиксель исходного растра, строго больше нуля.
type Exporter interface {
	Export(paths []entity.VectorPath, outPath string, scale float64) error
}
