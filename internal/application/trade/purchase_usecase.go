package trade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// PurchaseUseCase compras de materia prima: cada línea suma stock a su item.
type PurchaseUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.PurchaseRepository
	lines    lineEngine
	now      func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		repo:     repo,
		lines:    lineEngine{ledger: ledger, kind: purchaseLines},
		now:      time.Now,
	}
}

// Create registra la compra con sus líneas y recalcula el total.
func (uc *PurchaseUseCase) Create(ctx context.Context, employeeID string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, domain.NewValidationError("supplier_name", "el proveedor es requerido")
	}
	now := uc.now()
	p := &entity.Purchase{
		ID:           uuid.New().String(),
		Date:         dateOr(in.Date, now),
		SupplierName: strings.TrimSpace(in.SupplierName),
		Notes:        in.Notes,
		EmployeeID:   employeeID,
		Total:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		moves = nil
		if err := r.Purchases.Create(ctx, p); err != nil {
			return err
		}
		for _, li := range in.Lines {
			li.ID = ""
			line, err := uc.lines.build(ctx, r, p.ID, li)
			if err != nil {
				return err
			}
			m, err := uc.lines.add(ctx, r, r.Purchases, line, employeeID)
			if err != nil {
				return err
			}
			moves = append(moves, m...)
		}
		_, err := RecomputeTotal(ctx, r.Purchases, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, p.ID)
}

// Update modifica la cabecera y reemplaza el conjunto de líneas aplicando solo la diferencia de stock.
func (uc *PurchaseUseCase) Update(ctx context.Context, actorID, id string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, domain.NewValidationError("supplier_name", "el proveedor es requerido")
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Purchases.GetByID(ctx, id)
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
		moves, err = uc.lines.replace(ctx, r, r.Purchases, id, old.Lines, next, actorID)
		if err != nil {
			return err
		}
		old.Date = dateOr(in.Date, old.Date)
		old.SupplierName = strings.TrimSpace(in.SupplierName)
		old.Notes = in.Notes
		old.UpdatedAt = uc.now()
		if err := r.Purchases.Update(ctx, old); err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Purchases, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, id)
}

// Delete elimina la compra y descuenta lo que había ingresado.
func (uc *PurchaseUseCase) Delete(ctx context.Context, actorID, id string) error {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Purchases.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		moves, err = uc.lines.replace(ctx, r, r.Purchases, id, old.Lines, nil, actorID)
		if err != nil {
			return err
		}
		return r.Purchases.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.ledger.Publish(ctx, moves)
	return nil
}

// AddLine agrega una línea a una compra existente.
func (uc *PurchaseUseCase) AddLine(ctx context.Context, actorID, purchaseID string, in dto.TradeLineInput) (*dto.PurchaseResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		p, err := r.Purchases.GetByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		in.ID = ""
		line, err := uc.lines.build(ctx, r, purchaseID, in)
		if err != nil {
			return err
		}
		moves, err = uc.lines.add(ctx, r, r.Purchases, line, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Purchases, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, purchaseID)
}

// UpdateLine cambia una línea; el stock se ajusta por la diferencia.
func (uc *PurchaseUseCase) UpdateLine(ctx context.Context, actorID, purchaseID, lineID string, in dto.TradeLineInput) (*dto.PurchaseResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Purchases.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.HeaderID != purchaseID {
			return domain.ErrNotFound
		}
		in.ID = lineID
		line, err := uc.lines.build(ctx, r, purchaseID, in)
		if err != nil {
			return err
		}
		moves, err = uc.lines.replace(ctx, r, r.Purchases, purchaseID, []*entity.TradeLine{old}, []*entity.TradeLine{line}, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Purchases, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, purchaseID)
}

// DeleteLine elimina una línea y descuenta su ingreso.
func (uc *PurchaseUseCase) DeleteLine(ctx context.Context, actorID, purchaseID, lineID string) (*dto.PurchaseResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Purchases.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.HeaderID != purchaseID {
			return domain.ErrNotFound
		}
		moves, err = uc.lines.remove(ctx, r, r.Purchases, old, actorID)
		if err != nil {
			return err
		}
		_, err = RecomputeTotal(ctx, r.Purchases, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, purchaseID)
}

// RecomputeTotal recalcula y persiste el total de la compra.
func (uc *PurchaseUseCase) RecomputeTotal(ctx context.Context, id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		total, err = RecomputeTotal(ctx, r.Purchases, id)
		return err
	})
	return total, err
}

// GetByID obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// List lista compras por rango de fechas.
func (uc *PurchaseUseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]*dto.PurchaseResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.DateFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:           p.ID,
		Date:         p.Date,
		SupplierName: p.SupplierName,
		Notes:        p.Notes,
		EmployeeID:   p.EmployeeID,
		Total:        p.Total,
		Lines:        ToLineResponses(p.Lines),
	}
}

func dateOr(d *time.Time, def time.Time) time.Time {
	if d == nil || d.IsZero() {
		return def
	}
	return *d
}
