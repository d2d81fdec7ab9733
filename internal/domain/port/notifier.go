package port

import (
	"context"

	"sketch2cad/internal/domain/entity"
)

// Notifier доставляет итог прогона внешнему получателю.
type Notifier interface {
	NotifyResult(ctx context.Context, report entity.Report) error
}
