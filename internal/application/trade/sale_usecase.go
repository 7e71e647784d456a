package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// SaleUseCase ventas directas de producto terminado: cada línea descuenta stock de su item.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.SaleRepository
	lines    lineEngine
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		repo:     repo,
		lines:    lineEngine{ledger: ledger, kind: saleLines},
		now:      time.Now,
	}
}

// Create registra la venta con sus líneas y recalcula el total.
func (uc *SaleUseCase) Create(ctx context.Context, employeeID string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	now := uc.now()
	p := &entity.Sale{
		ID:           uuid.New().String(),
		Date:         dateOr(in.Date, now),
		CustomerID:   in.CustomerID,
		Notes:        in.Notes,
		EmployeeID:   employeeID,
		Total:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		moves = nil
		if err := r.Sales.Create(ctx, p); err != nil {
			return err
		}
		for _, li := range in.Lines {
			li.ID = ""
			line, err := uc.lines.build(ctx, r, p.ID, li)
			if err != nil {
				return err
			}
			m, err := uc.lines.add(ctx, r, r.Sales, line, employeeID)
			if err != nil {
				return err
			}
			moves = append(moves, m...)
		}
		_, err := RecomputeTotal(ctx, r.Sales, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, p.ID)
}

// Update modifica la cabecera y reemplaza el conjunto de líneas aplicando solo la diferencia de stock.
func (uc *SaleUseCase) Update(ctx context.Context, actorID, id string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		next, err := uc.lines.buildAll(ctx, r, id, old.Lines, in.Lines)
		if err != nil {
			return err
		}
		moves, err = uc.lines.replace(ctx, r, r.Sales, id, old.Lines, next, actorID)
		if err != nil {
			return err
		}
		old.Date = dateOr(in.Date, old.Date)
		old.CustomerID = in.CustomerID
		old.Notes = in.Notes
		old.UpdatedAt = uc.now()
		if err := r.Sales.Update(ctx, old); err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Sales, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, id)
}

// Delete elimina la venta y devuelve al stock lo vendido.
func (uc *SaleUseCase) Delete(ctx context.Context, actorID, id string) error {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		moves, err = uc.lines.replace(ctx, r, r.Sales, id, old.Lines, nil, actorID)
		if err != nil {
			return err
		}
		return r.Sales.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.ledger.Publish(ctx, moves)
	return nil
}

// AddLine agrega una línea a una venta existente.
func (uc *SaleUseCase) AddLine(ctx context.Context, actorID, saleID string, in dto.TradeLineInput) (*dto.SaleResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		p, err := r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		in.ID = ""
		line, err := uc.lines.build(ctx, r, saleID, in)
		if err != nil {
			return err
		}
		moves, err = uc.lines.add(ctx, r, r.Sales, line, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Sales, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, saleID)
}

// UpdateLine cambia una línea; el stock se ajusta por la diferencia.
func (uc *SaleUseCase) UpdateLine(ctx context.Context, actorID, saleID, lineID string, in dto.TradeLineInput) (*dto.SaleResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Sales.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.HeaderID != saleID {
			return domain.ErrNotFound
		}
		in.ID = lineID
		line, err := uc.lines.build(ctx, r, saleID, in)
		if err != nil {
			return err
		}
		moves, err = uc.lines.replace(ctx, r, r.Sales, saleID, []*entity.TradeLine{old}, []*entity.TradeLine{line}, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Sales, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, saleID)
}

// DeleteLine elimina una línea y devuelve su cantidad al stock.
func (uc *SaleUseCase) DeleteLine(ctx context.Context, actorID, saleID, lineID string) (*dto.SaleResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Sales.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.HeaderID != saleID {
			return domain.ErrNotFound
		}
		moves, err = uc.lines.remove(ctx, r, r.Sales, old, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Sales, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, saleID)
}

// RecomputeTotal recalcula y persiste el total de la venta.
func (uc *SaleUseCase) RecomputeTotal(ctx context.Context, id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		total, err = RecomputeTotal(ctx, r.Sales, id)
		return err
	})
	return total, err
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(p), nil
}

// List lista ventas por rango de fechas.
func (uc *SaleUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.DateFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toSaleResponse(p))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:         s.ID,
		Date:       s.Date,
		CustomerID: s.CustomerID,
		Notes:      s.Notes,
		EmployeeID: s.EmployeeID,
		Total:      s.Total,
		Lines:      ToLineResponses(s.Lines),
	}
}
