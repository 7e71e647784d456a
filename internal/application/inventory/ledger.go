package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	domaininv "github.com/jhoicas/produksi-api/internal/domain/inventory"
)

// AdjustInput ajuste de stock sobre un item.
// Category vacío aplica siempre; si no coincide con la del item el ajuste se omite.
type AdjustInput struct {
	ItemID    string
	Delta     int
	Category  string
	Source    string
	Reference string
	ActorID   string
}

// Ledger único punto de escritura del stock. Cada ajuste es un UPDATE condicional
// (stock + delta >= 0) dentro de la transacción del caller y deja un StockMovement.
type Ledger struct {
	publisher MovementPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewLedger construye el ledger. publisher puede ser nil (no-op).
func NewLedger(publisher MovementPublisher, log zerolog.Logger) *Ledger {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Ledger{publisher: publisher, log: log, now: time.Now}
}

// Adjust aplica el delta. Devuelve nil, nil cuando no hay nada que aplicar
// (delta cero o categoría distinta a la esperada).
func (l *Ledger) Adjust(ctx context.Context, r Repos, in AdjustInput) (*entity.StockMovement, error) {
	if in.Delta == 0 {
		return nil, nil
	}
	item, err := r.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Category != "" && item.Category != in.Category {
		return nil, nil
	}
	balance, ok, err := r.Items.AdjustStock(ctx, in.ItemID, in.Delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := r.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewInsufficientStockError(item.ID, item.Name, current.Stock, -in.Delta)
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ItemID:    in.ItemID,
		Delta:     in.Delta,
		Balance:   balance,
		Source:    in.Source,
		Reference: in.Reference,
		CreatedBy: in.ActorID,
		CreatedAt: l.now(),
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyEffects aplica una lista de efectos de línea con la misma categoría, origen y referencia.
// Corta en el primer error; el caller descarta la transacción.
func (l *Ledger) ApplyEffects(ctx context.Context, r Repos, effects []domaininv.Effect, category, source, reference, actorID string) ([]*entity.StockMovement, error) {
	var moves []*entity.StockMovement
	for _, e := range effects {
		mov, err := l.Adjust(ctx, r, AdjustInput{
			ItemID:    e.ItemID,
			Delta:     e.Delta,
			Category:  category,
			Source:    source,
			Reference: reference,
			ActorID:   actorID,
		})
		if err != nil {
			return nil, err
		}
		if mov != nil {
			moves = append(moves, mov)
		}
	}
	return moves, nil
}

// EnsureFinishedGood devuelve el producto terminado del tipo indicado y lo crea con los
// valores por defecto del catálogo si aún no existe.
func (l *Ledger) EnsureFinishedGood(ctx context.Context, r Repos, resultType string) (*entity.Item, error) {
	defaults, ok := domaininv.LookupFinishedGood(resultType)
	if !ok {
		return nil, domain.NewValidationError("result_type", "tipo de producción desconocido")
	}
	item, err := r.Items.GetByName(ctx, defaults.Name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		now := l.now()
		item, err = r.Items.CreateIfAbsent(ctx, &entity.Item{
			ID:        uuid.New().String(),
			Name:      defaults.Name,
			Category:  entity.CategoryFinishedGood,
			Price:     defaults.Price,
			Unit:      defaults.Unit,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
	}
	if !item.IsFinishedGood() {
		return nil, domain.NewValidationError("result_type", "el item "+item.Name+" no es producto terminado")
	}
	return item, nil
}

// Publish envía los movimientos ya confirmados. Los errores se registran y no se propagan:
// la transacción ya fue confirmada.
func (l *Ledger) Publish(ctx context.Context, moves []*entity.StockMovement) {
	if len(moves) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, moves); err != nil && !errors.Is(err, context.Canceled) {
		l.log.Warn().Err(err).Int("movements", len(moves)).Msg("publicar movimientos de stock")
	}
}
