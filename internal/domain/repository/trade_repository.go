package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// LineStore operaciones sobre las líneas de una cabecera (compra, venta o pedido).
type LineStore interface {
	CreateLine(ctx context.Context, line *entity.TradeLine) error
	GetLine(ctx context.Context, id string) (*entity.TradeLine, error)
	UpdateLine(ctx context.Context, line *entity.TradeLine) error
	DeleteLine(ctx context.Context, id string) error
	// SumSubtotals devuelve la suma de subtotales de las líneas actuales de la cabecera.
	SumSubtotals(ctx context.Context, headerID string) (decimal.Decimal, error)
	SetTotal(ctx context.Context, headerID string, total decimal.Decimal) error
}

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	LineStore
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	Update(ctx context.Context, p *entity.Purchase) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DateFilter) ([]*entity.Purchase, error)
}

// SaleRepository define el puerto de persistencia para ventas directas.
type SaleRepository interface {
	LineStore
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, s *entity.Sale) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DateFilter) ([]*entity.Sale, error)
}
