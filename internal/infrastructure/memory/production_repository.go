package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

// ProductionRepo implementación en memoria de ProductionRepository.
type ProductionRepo struct {
	s *Store
}

// NewProductionRepository construye el repositorio.
func NewProductionRepository(s *Store) *ProductionRepo { return &ProductionRepo{s: s} }

// Create persiste la cabecera (las líneas se crean con CreateLine).
func (r *ProductionRepo) Create(_ context.Context, p *entity.Production) error {
	r.s.write(func(st *state) {
		cp := *p
		cp.Lines = nil
		st.productions[p.ID] = &cp
	})
	return nil
}

func productionWithLines(st *state, p *entity.Production) *entity.Production {
	cp := *p
	cp.Lines = nil
	for _, l := range st.productionLines {
		if l.ProductionID == p.ID {
			lc := *l
			cp.Lines = append(cp.Lines, &lc)
		}
	}
	sort.Slice(cp.Lines, func(i, j int) bool { return cp.Lines[i].ID < cp.Lines[j].ID })
	return &cp
}

// GetByID devuelve el evento con sus líneas; nil si no existe.
func (r *ProductionRepo) GetByID(_ context.Context, id string) (*entity.Production, error) {
	var out *entity.Production
	r.s.read(func(st *state) {
		if p, ok := st.productions[id]; ok {
			out = productionWithLines(st, p)
		}
	})
	return out, nil
}

// Update persiste los campos de cabecera.
func (r *ProductionRepo) Update(_ context.Context, p *entity.Production) error {
	var err error
	r.s.write(func(st *state) {
		if _, ok := st.productions[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *p
		cp.Lines = nil
		st.productions[p.ID] = &cp
	})
	return err
}

// Delete elimina el evento y sus líneas.
func (r *ProductionRepo) Delete(_ context.Context, id string) error {
	r.s.write(func(st *state) {
		for lid, l := range st.productionLines {
			if l.ProductionID == id {
				delete(st.productionLines, lid)
			}
		}
		delete(st.productions, id)
	})
	return nil
}

// List eventos en el rango, más recientes primero.
func (r *ProductionRepo) List(_ context.Context, f repository.DateFilter) ([]*entity.Production, error) {
	var out []*entity.Production
	r.s.read(func(st *state) {
		for _, p := range st.productions {
			if inRange(p.Date, f.From, f.To) {
				out = append(out, productionWithLines(st, p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, f.Limit, f.Offset), nil
}

// CreateLine persiste una línea; el evento debe existir.
func (r *ProductionRepo) CreateLine(_ context.Context, l *entity.ProductionLine) error {
	var err error
	r.s.write(func(st *state) {
		if _, ok := st.productions[l.ProductionID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *l
		st.productionLines[l.ID] = &cp
	})
	return err
}

// GetLine obtiene una línea; nil si no existe.
func (r *ProductionRepo) GetLine(_ context.Context, id string) (*entity.ProductionLine, error) {
	var out *entity.ProductionLine
	r.s.read(func(st *state) {
		if l, ok := st.productionLines[id]; ok {
			cp := *l
			out = &cp
		}
	})
	return out, nil
}

// UpdateLine persiste item y cantidad de la línea.
func (r *ProductionRepo) UpdateLine(_ context.Context, l *entity.ProductionLine) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.productionLines[l.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.ItemID = l.ItemID
		cur.Quantity = l.Quantity
	})
	return err
}

// DeleteLine elimina la línea.
func (r *ProductionRepo) DeleteLine(_ context.Context, id string) error {
	r.s.write(func(st *state) { delete(st.productionLines, id) })
	return nil
}
