package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// ItemUseCase catálogo de items y ajustes manuales de stock.
type ItemUseCase struct {
	txRunner  TxRunner
	ledger    *Ledger
	itemRepo  repository.ItemRepository
	movements repository.StockMovementRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, ledger *Ledger, itemRepo repository.ItemRepository, movements repository.StockMovementRepository) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, ledger: ledger, itemRepo: itemRepo, movements: movements}
}

// Create da de alta el item y, si hay stock inicial, lo registra como ajuste en la misma tx.
func (uc *ItemUseCase) Create(ctx context.Context, actorID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := entity.NormalizeItemName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es requerido")
	}
	if !entity.ValidCategory(in.Category) {
		return nil, domain.NewValidationError("category", "categoría inválida")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "el precio no puede ser negativo")
	}
	if in.InitialStock < 0 {
		return nil, domain.NewValidationError("initial_stock", "el stock inicial no puede ser negativo")
	}
	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  in.Category,
		Price:     in.Price,
		Unit:      strings.TrimSpace(in.Unit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if err := r.Items.Create(ctx, item); err != nil {
			return err
		}
		mov, err := uc.ledger.Adjust(ctx, r, AdjustInput{
			ItemID:    item.ID,
			Delta:     in.InitialStock,
			Source:    entity.MovementSourceAdjustment,
			Reference: item.ID,
			ActorID:   actorID,
		})
		if err != nil {
			return err
		}
		if mov != nil {
			item.Stock = mov.Balance
			moves = append(moves, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return ToItemResponse(item), nil
}

// Update modifica nombre, precio y unidad. El stock no cambia.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	name := entity.NormalizeItemName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "el precio no puede ser negativo")
	}
	item.Name = name
	item.Price = in.Price
	item.Unit = strings.TrimSpace(in.Unit)
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// AdjustStock aplica un ajuste manual (conteo físico, merma) a través del ledger.
func (uc *ItemUseCase) AdjustStock(ctx context.Context, actorID, id string, in dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	if in.Delta == 0 {
		return nil, domain.NewValidationError("delta", "el ajuste no puede ser cero")
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		mov, err = uc.ledger.Adjust(ctx, r, AdjustInput{
			ItemID:    id,
			Delta:     in.Delta,
			Source:    entity.MovementSourceAdjustment,
			Reference: in.Notes,
			ActorID:   actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if mov != nil {
		uc.ledger.Publish(ctx, []*entity.StockMovement{mov})
	}
	return uc.GetByID(ctx, id)
}

// GetByID obtiene un item.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return ToItemResponse(item), nil
}

// List lista items con filtro de categoría.
func (uc *ItemUseCase) List(ctx context.Context, category string, page dto.PageRequest) ([]*dto.ItemResponse, error) {
	page.DefaultPage()
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{Category: category, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

// ListAvailable catálogo de la tienda: productos terminados con stock > 0.
func (uc *ItemUseCase) ListAvailable(ctx context.Context, search string, page dto.PageRequest) ([]*dto.ItemResponse, error) {
	page.DefaultPage()
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{
		Category:    entity.CategoryFinishedGood,
		InStockOnly: true,
		Search:      search,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

// Movements diario de stock de un item.
func (uc *ItemUseCase) Movements(ctx context.Context, id string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	list, err := uc.movements.ListByItem(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID: m.ID, ItemID: m.ItemID, Delta: m.Delta, Balance: m.Balance,
			Source: m.Source, Reference: m.Reference, CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// Delete elimina un item sin referencias.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.Delete(ctx, id)
}

// ToItemResponse mapea la entidad a su DTO.
func ToItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Category:  i.Category,
		Price:     i.Price,
		Stock:     i.Stock,
		Unit:      i.Unit,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toItemResponses(items []*entity.Item) []*dto.ItemResponse {
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemResponse(i))
	}
	return out
}

