package ports

import (
	"context"
	"io"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// OrderNotifier avisa al administrador de la tienda de un pedido nuevo.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *entity.Order, customer *entity.Customer) error
}

// NopNotifier no envía nada.
type NopNotifier struct{}

// OrderPlaced no hace nada.
func (NopNotifier) OrderPlaced(context.Context, *entity.Order, *entity.Customer) error { return nil }

// FileStore almacena archivos subidos (comprobantes de pago) y devuelve su referencia.
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
