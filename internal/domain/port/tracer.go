package port

import (
	"context"

	"sketch2cad/internal/domain/entity"
)

// Tracer обводит бинарную маску и возвращает векторные пути.
// Реализация может вызывать внешний инструмент; тесты подставляют заглушку.
type Tracer interface {
	Trace(ctx context.Context, mask entity.Mask) ([]entity.VectorPath, error)
}
