package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository          = (*ItemRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
}

// NewItemRepository construye el repositorio.
func NewItemRepository(s *Store) *ItemRepo { return &ItemRepo{s: s} }

func findItemByName(st *state, name string) *entity.Item {
	for _, it := range st.items {
		if strings.EqualFold(it.Name, name) {
			return it
		}
	}
	return nil
}

// Create persiste un item; nombre duplicado devuelve ErrDuplicate.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	var err error
	r.s.write(func(st *state) {
		if findItemByName(st, item.Name) != nil {
			err = domain.ErrDuplicate
			return
		}
		cp := *item
		st.items[item.ID] = &cp
	})
	return err
}

// CreateIfAbsent inserta si no existe el nombre y devuelve el item persistido.
func (r *ItemRepo) CreateIfAbsent(_ context.Context, item *entity.Item) (*entity.Item, error) {
	var out entity.Item
	r.s.write(func(st *state) {
		if existing := findItemByName(st, item.Name); existing != nil {
			out = *existing
			return
		}
		cp := *item
		st.items[item.ID] = &cp
		out = cp
	})
	return &out, nil
}

// GetByID obtiene un item; nil si no existe.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	r.s.read(func(st *state) {
		if it, ok := st.items[id]; ok {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

// GetByName obtiene un item por nombre sin distinguir mayúsculas.
func (r *ItemRepo) GetByName(_ context.Context, name string) (*entity.Item, error) {
	var out *entity.Item
	r.s.read(func(st *state) {
		if it := findItemByName(st, name); it != nil {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

// Update modifica datos de catálogo sin tocar el stock.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.items[item.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if other := findItemByName(st, item.Name); other != nil && other.ID != item.ID {
			err = domain.ErrDuplicate
			return
		}
		cur.Name = item.Name
		cur.Price = item.Price
		cur.Unit = item.Unit
		cur.UpdatedAt = item.UpdatedAt
	})
	return err
}

// AdjustStock equivalente al UPDATE condicional: aplica el delta solo si el resultado es >= 0.
func (r *ItemRepo) AdjustStock(_ context.Context, id string, delta int) (int, bool, error) {
	var balance int
	var ok bool
	r.s.write(func(st *state) {
		it, found := st.items[id]
		if !found || it.Stock+delta < 0 {
			return
		}
		it.Stock += delta
		it.UpdatedAt = time.Now()
		balance, ok = it.Stock, true
	})
	return balance, ok, nil
}

// List lista items ordenados por nombre.
func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	r.s.read(func(st *state) {
		for _, it := range st.items {
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if f.InStockOnly && it.Stock <= 0 {
				continue
			}
			if f.StockBelow > 0 && it.Stock >= f.StockBelow {
				continue
			}
			if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
				continue
			}
			cp := *it
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

// Delete elimina el item; si alguna línea lo referencia devuelve ErrConflict.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	var err error
	r.s.write(func(st *state) {
		for _, l := range st.productionLines {
			if l.ItemID == id {
				err = domain.ErrConflict
				return
			}
		}
		for _, p := range st.productions {
			if p.ItemID == id {
				err = domain.ErrConflict
				return
			}
		}
		for _, lines := range st.lines {
			for _, l := range lines {
				if l.ItemID == id {
					err = domain.ErrConflict
					return
				}
			}
		}
		delete(st.items, id)
	})
	return err
}

// StockMovementRepo diario de stock en memoria.
type StockMovementRepo struct {
	s *Store
}

// NewStockMovementRepository construye el repositorio.
func NewStockMovementRepository(s *Store) *StockMovementRepo { return &StockMovementRepo{s: s} }

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.write(func(st *state) {
		cp := *m
		st.movements = append(st.movements, &cp)
	})
	return nil
}

// ListByItem movimientos del item, más recientes primero.
func (r *StockMovementRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.s.read(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].ItemID == itemID {
				cp := *st.movements[i]
				out = append(out, &cp)
			}
		}
	})
	return paginate(out, limit, offset), nil
}

// paginate aplica limit/offset; limit <= 0 devuelve todo desde offset.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
