package repository

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// ItemFilter filtros para listar items.
type ItemFilter struct {
	Category    string // vacío = todas
	InStockOnly bool
	StockBelow  int // > 0: solo items con stock menor a este umbral
	Search      string
	Limit       int
	Offset      int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// CreateIfAbsent inserta el item si no existe otro con el mismo nombre y devuelve el persistido.
	CreateIfAbsent(ctx context.Context, item *entity.Item) (*entity.Item, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByName(ctx context.Context, name string) (*entity.Item, error)
	// Update modifica datos de catálogo; nunca el stock.
	Update(ctx context.Context, item *entity.Item) error
	// AdjustStock aplica stock = stock + delta solo si el resultado es >= 0.
	// ok=false cuando la fila no existe o el stock quedaría negativo.
	AdjustStock(ctx context.Context, id string, delta int) (balance int, ok bool, err error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
