// Package trade registra compras de materia prima y ventas directas de producto terminado.
// Las líneas mueven stock al guardarse; el total de cabecera siempre se recalcula desde las líneas.
package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	domaininv "github.com/jhoicas/produksi-api/internal/domain/inventory"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// lineKind describe el efecto de stock de un tipo de línea.
type lineKind struct {
	sign     int    // +1 entrada (compra), -1 salida (venta)
	category string // solo items de esta categoría mueven stock
	source   string
}

var (
	purchaseLines = lineKind{sign: 1, category: entity.CategoryRawMaterial, source: entity.MovementSourcePurchase}
	saleLines     = lineKind{sign: -1, category: entity.CategoryFinishedGood, source: entity.MovementSourceSale}
)

func (k lineKind) effects(lines []*entity.TradeLine) []domaininv.Effect {
	out := make([]domaininv.Effect, 0, len(lines))
	for _, l := range lines {
		out = append(out, domaininv.Effect{ItemID: l.ItemID, Delta: k.sign * l.Quantity})
	}
	return out
}

// lineEngine aplica el ciclo de vida de líneas sobre un LineStore dentro de una tx.
type lineEngine struct {
	ledger *inventory.Ledger
	kind   lineKind
}

// build valida la entrada y resuelve precio y subtotal.
func (e lineEngine) build(ctx context.Context, r inventory.Repos, headerID string, in dto.TradeLineInput) (*entity.TradeLine, error) {
	if err := ValidateLine(in); err != nil {
		return nil, err
	}
	item, err := r.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	price := in.UnitPrice
	if !price.IsPositive() {
		price = item.Price
	}
	line := &entity.TradeLine{
		ID:        id,
		HeaderID:  headerID,
		ItemID:    item.ID,
		Quantity:  in.Quantity,
		UnitPrice: price,
		Subtotal:  in.Subtotal,
	}
	line.ComputeSubtotal()
	return line, nil
}

// add persiste una línea nueva y aplica su efecto.
func (e lineEngine) add(ctx context.Context, r inventory.Repos, store repository.LineStore, line *entity.TradeLine, actorID string) ([]*entity.StockMovement, error) {
	if err := store.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	return e.ledger.ApplyEffects(ctx, r, e.kind.effects([]*entity.TradeLine{line}), e.kind.category, e.kind.source, line.ID, actorID)
}

// replace reemplaza old por next (misma cabecera) y aplica solo la diferencia neta por item.
func (e lineEngine) replace(ctx context.Context, r inventory.Repos, store repository.LineStore, headerID string, old, next []*entity.TradeLine, actorID string) ([]*entity.StockMovement, error) {
	moves, err := e.ledger.ApplyEffects(ctx, r, domaininv.Reconcile(e.kind.effects(old), e.kind.effects(next)),
		e.kind.category, e.kind.source, headerID, actorID)
	if err != nil {
		return nil, err
	}
	oldByID := map[string]bool{}
	for _, l := range old {
		oldByID[l.ID] = true
	}
	kept := map[string]bool{}
	for _, l := range next {
		if oldByID[l.ID] {
			kept[l.ID] = true
			if err := store.UpdateLine(ctx, l); err != nil {
				return nil, err
			}
			continue
		}
		if err := store.CreateLine(ctx, l); err != nil {
			return nil, err
		}
	}
	for _, l := range old {
		if !kept[l.ID] {
			if err := store.DeleteLine(ctx, l.ID); err != nil {
				return nil, err
			}
		}
	}
	return moves, nil
}

// remove elimina una línea y revierte su efecto.
func (e lineEngine) remove(ctx context.Context, r inventory.Repos, store repository.LineStore, line *entity.TradeLine, actorID string) ([]*entity.StockMovement, error) {
	moves, err := e.ledger.ApplyEffects(ctx, r, domaininv.Negate(e.kind.effects([]*entity.TradeLine{line})),
		e.kind.category, e.kind.source, line.ID, actorID)
	if err != nil {
		return nil, err
	}
	return moves, store.DeleteLine(ctx, line.ID)
}

// buildAll construye el conjunto completo de líneas; las que traen ID deben pertenecer a old y no repetirse.
func (e lineEngine) buildAll(ctx context.Context, r inventory.Repos, headerID string, old []*entity.TradeLine, inputs []dto.TradeLineInput) ([]*entity.TradeLine, error) {
	known := map[string]bool{}
	for _, l := range old {
		known[l.ID] = true
	}
	seen := map[string]bool{}
	next := make([]*entity.TradeLine, 0, len(inputs))
	for _, in := range inputs {
		if in.ID != "" {
			if !known[in.ID] {
				return nil, domain.ErrNotFound
			}
			if seen[in.ID] {
				return nil, domain.NewValidationError("lines", "la línea "+in.ID+" está repetida")
			}
			seen[in.ID] = true
		}
		l, err := e.build(ctx, r, headerID, in)
		if err != nil {
			return nil, err
		}
		next = append(next, l)
	}
	return next, nil
}

// RecomputeTotal fija el total de la cabecera como la suma de los subtotales de sus líneas actuales.
func RecomputeTotal(ctx context.Context, store repository.LineStore, headerID string) (decimal.Decimal, error) {
	total, err := store.SumSubtotals(ctx, headerID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := store.SetTotal(ctx, headerID, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ValidateLine reglas comunes de una línea de compra, venta o pedido.
func ValidateLine(in dto.TradeLineInput) error {
	if in.ItemID == "" {
		return domain.NewValidationError("item_id", "el item es requerido")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser mayor a cero")
	}
	if in.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "el precio no puede ser negativo")
	}
	if in.Subtotal.IsNegative() {
		return domain.NewValidationError("subtotal", "el subtotal no puede ser negativo")
	}
	return nil
}

// BuildLine expone la construcción de líneas para pedidos (sin efecto de stock).
func BuildLine(ctx context.Context, r inventory.Repos, headerID string, in dto.TradeLineInput) (*entity.TradeLine, error) {
	return lineEngine{}.build(ctx, r, headerID, in)
}

// ToLineResponses mapea líneas a DTO.
func ToLineResponses(lines []*entity.TradeLine) []dto.TradeLineResponse {
	out := make([]dto.TradeLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.TradeLineResponse{
			ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return out
}
