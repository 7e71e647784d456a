// Package production registra eventos de producción: cada evento suma producto terminado
// y cada línea consume materia prima, todo dentro de una misma transacción.
package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	domaininv "github.com/jhoicas/produksi-api/internal/domain/inventory"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// UseCase casos de uso de producción.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.ProductionRepository
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.ProductionRepository) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, repo: repo, now: time.Now}
}

// Record crea el evento y sus líneas. Si alguna materia prima no alcanza no se guarda nada.
func (uc *UseCase) Record(ctx context.Context, employeeID string, in dto.ProductionRequest) (*dto.ProductionResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Production{
		ID:         uuid.New().String(),
		Date:       dateOr(in.Date, now),
		ResultType: domaininv.NormalizeResultType(in.ResultType),
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		Notes:      in.Notes,
		EmployeeID: employeeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		moves = nil
		item, err := uc.ledger.EnsureFinishedGood(ctx, r, p.ResultType)
		if err != nil {
			return err
		}
		p.ItemID = item.ID
		if p.Unit == "" {
			p.Unit = item.Unit
		}
		if err := r.Productions.Create(ctx, p); err != nil {
			return err
		}
		mov, err := uc.ledger.Adjust(ctx, r, inventory.AdjustInput{
			ItemID:    item.ID,
			Delta:     p.Quantity,
			Category:  entity.CategoryFinishedGood,
			Source:    entity.MovementSourceProduction,
			Reference: p.ID,
			ActorID:   employeeID,
		})
		if err != nil {
			return err
		}
		if mov != nil {
			moves = append(moves, mov)
		}
		p.Lines = nil
		for _, li := range in.Lines {
			line := &entity.ProductionLine{ID: uuid.New().String(), ProductionID: p.ID, ItemID: li.ItemID, Quantity: li.Quantity}
			lineMoves, err := uc.addLine(ctx, r, line, employeeID)
			if err != nil {
				return err
			}
			moves = append(moves, lineMoves...)
			p.Lines = append(p.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return toResponse(p), nil
}

// Update edita cabecera y líneas. El producto terminado se ajusta por (nuevo − anterior)
// y cada materia prima por la diferencia neta de consumo.
func (uc *UseCase) Update(ctx context.Context, actorID, id string, in dto.ProductionRequest) (*dto.ProductionResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	var out *entity.Production
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		moves = nil
		old, err := r.Productions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		item, err := uc.ledger.EnsureFinishedGood(ctx, r, in.ResultType)
		if err != nil {
			return err
		}

		headerEffects := domaininv.Reconcile(
			[]domaininv.Effect{{ItemID: old.ItemID, Delta: old.Quantity}},
			[]domaininv.Effect{{ItemID: item.ID, Delta: in.Quantity}},
		)
		m, err := uc.ledger.ApplyEffects(ctx, r, headerEffects, entity.CategoryFinishedGood, entity.MovementSourceProduction, id, actorID)
		if err != nil {
			return err
		}
		moves = append(moves, m...)

		oldLines := map[string]*entity.ProductionLine{}
		for _, l := range old.Lines {
			oldLines[l.ID] = l
		}
		var next []*entity.ProductionLine
		seen := map[string]bool{}
		for _, li := range in.Lines {
			if li.ID != "" {
				if _, ok := oldLines[li.ID]; !ok {
					return domain.ErrNotFound
				}
				if seen[li.ID] {
					return domain.NewValidationError("lines", "la línea "+li.ID+" está repetida")
				}
				seen[li.ID] = true
			}
			if err := requireRawMaterial(ctx, r, li.ItemID); err != nil {
				return err
			}
			lineID := li.ID
			if lineID == "" {
				lineID = uuid.New().String()
			}
			next = append(next, &entity.ProductionLine{ID: lineID, ProductionID: id, ItemID: li.ItemID, Quantity: li.Quantity})
		}
		m, err = uc.ledger.ApplyEffects(ctx, r, domaininv.Reconcile(consumption(old.Lines), consumption(next)),
			entity.CategoryRawMaterial, entity.MovementSourceProductionLine, id, actorID)
		if err != nil {
			return err
		}
		moves = append(moves, m...)

		kept := map[string]bool{}
		for _, l := range next {
			if _, ok := oldLines[l.ID]; ok {
				kept[l.ID] = true
				if err := r.Productions.UpdateLine(ctx, l); err != nil {
					return err
				}
				continue
			}
			if err := r.Productions.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		for lid := range oldLines {
			if !kept[lid] {
				if err := r.Productions.DeleteLine(ctx, lid); err != nil {
					return err
				}
			}
		}

		old.Date = dateOr(in.Date, old.Date)
		old.ResultType = domaininv.NormalizeResultType(in.ResultType)
		old.ItemID = item.ID
		old.Quantity = in.Quantity
		if in.Unit != "" {
			old.Unit = in.Unit
		}
		old.Notes = in.Notes
		old.UpdatedAt = uc.now()
		if err := r.Productions.Update(ctx, old); err != nil {
			return err
		}
		old.Lines = next
		out = old
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return toResponse(out), nil
}

// Delete revierte el evento: descuenta lo producido y devuelve las materias primas.
func (uc *UseCase) Delete(ctx context.Context, actorID, id string) error {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		moves = nil
		old, err := r.Productions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.ErrNotFound
		}
		m, err := uc.ledger.ApplyEffects(ctx, r,
			[]domaininv.Effect{{ItemID: old.ItemID, Delta: -old.Quantity}},
			entity.CategoryFinishedGood, entity.MovementSourceProduction, id, actorID)
		if err != nil {
			return err
		}
		moves = append(moves, m...)
		m, err = uc.ledger.ApplyEffects(ctx, r, domaininv.Negate(consumption(old.Lines)),
			entity.CategoryRawMaterial, entity.MovementSourceProductionLine, id, actorID)
		if err != nil {
			return err
		}
		moves = append(moves, m...)
		return r.Productions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.ledger.Publish(ctx, moves)
	return nil
}

// AddLine agrega una materia prima consumida a un evento existente.
func (uc *UseCase) AddLine(ctx context.Context, actorID, productionID string, in dto.ProductionLineInput) (*dto.ProductionLineResponse, error) {
	if err := validateLine(in); err != nil {
		return nil, err
	}
	line := &entity.ProductionLine{ID: uuid.New().String(), ProductionID: productionID, ItemID: in.ItemID, Quantity: in.Quantity}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		p, err := r.Productions.GetByID(ctx, productionID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		moves, err = uc.addLine(ctx, r, line, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return &dto.ProductionLineResponse{ID: line.ID, ItemID: line.ItemID, Quantity: line.Quantity}, nil
}

// UpdateLine cambia item o cantidad de una línea; el stock se ajusta por la diferencia.
func (uc *UseCase) UpdateLine(ctx context.Context, actorID, productionID, lineID string, in dto.ProductionLineInput) (*dto.ProductionLineResponse, error) {
	if err := validateLine(in); err != nil {
		return nil, err
	}
	var moves []*entity.StockMovement
	line := &entity.ProductionLine{ID: lineID, ProductionID: productionID, ItemID: in.ItemID, Quantity: in.Quantity}
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Productions.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.ProductionID != productionID {
			return domain.ErrNotFound
		}
		if err := requireRawMaterial(ctx, r, in.ItemID); err != nil {
			return err
		}
		effects := domaininv.Reconcile(consumption([]*entity.ProductionLine{old}), consumption([]*entity.ProductionLine{line}))
		moves, err = uc.ledger.ApplyEffects(ctx, r, effects, entity.CategoryRawMaterial, entity.MovementSourceProductionLine, lineID, actorID)
		if err != nil {
			return err
		}
		return r.Productions.UpdateLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return &dto.ProductionLineResponse{ID: line.ID, ItemID: line.ItemID, Quantity: line.Quantity}, nil
}

// DeleteLine elimina la línea y devuelve su consumo al stock.
func (uc *UseCase) DeleteLine(ctx context.Context, actorID, productionID, lineID string) error {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		old, err := r.Productions.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if old == nil || old.ProductionID != productionID {
			return domain.ErrNotFound
		}
		moves, err = uc.ledger.ApplyEffects(ctx, r, domaininv.Negate(consumption([]*entity.ProductionLine{old})),
			entity.CategoryRawMaterial, entity.MovementSourceProductionLine, lineID, actorID)
		if err != nil {
			return err
		}
		return r.Productions.DeleteLine(ctx, lineID)
	})
	if err != nil {
		return err
	}
	uc.ledger.Publish(ctx, moves)
	return nil
}

// GetByID obtiene un evento con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(p), nil
}

// List lista eventos por rango de fechas.
func (uc *UseCase) List(ctx context.Context, from, to *time.Time, page dto.PageRequest) ([]*dto.ProductionResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.DateFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out, nil
}

// addLine valida la materia prima, persiste la línea y descuenta el consumo.
func (uc *UseCase) addLine(ctx context.Context, r inventory.Repos, line *entity.ProductionLine, actorID string) ([]*entity.StockMovement, error) {
	if err := requireRawMaterial(ctx, r, line.ItemID); err != nil {
		return nil, err
	}
	if err := r.Productions.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	return uc.ledger.ApplyEffects(ctx, r, consumption([]*entity.ProductionLine{line}),
		entity.CategoryRawMaterial, entity.MovementSourceProductionLine, line.ID, actorID)
}

func requireRawMaterial(ctx context.Context, r inventory.Repos, itemID string) error {
	item, err := r.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.IsRawMaterial() {
		return domain.NewValidationError("item_id", item.Name+" no es materia prima")
	}
	return nil
}

// consumption convierte líneas en efectos negativos sobre cada materia prima.
func consumption(lines []*entity.ProductionLine) []domaininv.Effect {
	out := make([]domaininv.Effect, 0, len(lines))
	for _, l := range lines {
		out = append(out, domaininv.Effect{ItemID: l.ItemID, Delta: -l.Quantity})
	}
	return out
}

func validateRequest(in dto.ProductionRequest) error {
	if _, ok := domaininv.LookupFinishedGood(in.ResultType); !ok {
		return domain.NewValidationError("result_type", "tipo de producción desconocido")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad producida debe ser mayor a cero")
	}
	for _, l := range in.Lines {
		if err := validateLine(l); err != nil {
			return err
		}
	}
	return nil
}

func validateLine(l dto.ProductionLineInput) error {
	if l.ItemID == "" {
		return domain.NewValidationError("item_id", "la materia prima es requerida")
	}
	if l.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad consumida debe ser mayor a cero")
	}
	return nil
}

func dateOr(d *time.Time, def time.Time) time.Time {
	if d == nil || d.IsZero() {
		return def
	}
	return *d
}

func toResponse(p *entity.Production) *dto.ProductionResponse {
	out := &dto.ProductionResponse{
		ID:         p.ID,
		Date:       p.Date,
		ResultType: p.ResultType,
		ItemID:     p.ItemID,
		Quantity:   p.Quantity,
		Unit:       p.Unit,
		Notes:      p.Notes,
		EmployeeID: p.EmployeeID,
		Lines:      make([]dto.ProductionLineResponse, 0, len(p.Lines)),
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.ProductionLineResponse{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}
