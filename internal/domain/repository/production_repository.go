package repository

import (
	"context"
	"time"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// DateFilter rango de fechas y paginación común a los listados.
type DateFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ProductionRepository define el puerto de persistencia para eventos de producción y sus líneas.
type ProductionRepository interface {
	Create(ctx context.Context, p *entity.Production) error
	// GetByID devuelve el evento con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Production, error)
	Update(ctx context.Context, p *entity.Production) error
	// Delete elimina el evento y sus líneas.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DateFilter) ([]*entity.Production, error)

	CreateLine(ctx context.Context, line *entity.ProductionLine) error
	GetLine(ctx context.Context, id string) (*entity.ProductionLine, error)
	UpdateLine(ctx context.Context, line *entity.ProductionLine) error
	DeleteLine(ctx context.Context, id string) error
}
