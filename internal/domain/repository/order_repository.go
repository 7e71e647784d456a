package repository

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// OrderFilter filtros para listar pedidos.
type OrderFilter struct {
	DateFilter
	Statuses   []string
	CustomerID string
}

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	LineStore
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila del pedido (SELECT FOR UPDATE) y devuelve sus líneas.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste los campos de cabecera, incluido el estado. El total no se toca.
	Update(ctx context.Context, o *entity.Order) error
	Delete(ctx context.Context, id string) error
	DeleteLines(ctx context.Context, orderID string) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
