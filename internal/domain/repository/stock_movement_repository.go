package repository

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el diario de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error)
}
