package inventory

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Items       repository.ItemRepository
	Movements   repository.StockMovementRepository
	Productions repository.ProductionRepository
	Purchases   repository.PurchaseRepository
	Sales       repository.SaleRepository
	Orders      repository.OrderRepository
	Customers   repository.CustomerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Todo cambio de stock ocurre dentro de un Run: si fn devuelve error no se persiste nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// MovementPublisher publica los movimientos confirmados (Kafka o no-op).
type MovementPublisher interface {
	Publish(ctx context.Context, movements []*entity.StockMovement) error
}

// NopPublisher descarta los movimientos.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, []*entity.StockMovement) error { return nil }
