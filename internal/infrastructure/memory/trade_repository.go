package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
)

// lineStore operaciones de líneas comunes a compras, ventas y pedidos.
type lineStore struct {
	s        *Store
	kind     string
	exists   func(st *state, headerID string) bool
	setTotal func(st *state, headerID string, total decimal.Decimal)
}

func (ls lineStore) CreateLine(_ context.Context, l *entity.TradeLine) error {
	var err error
	ls.s.write(func(st *state) {
		if !ls.exists(st, l.HeaderID) {
			err = domain.ErrNotFound
			return
		}
		cp := *l
		st.lines[ls.kind][l.ID] = &cp
	})
	return err
}

func (ls lineStore) GetLine(_ context.Context, id string) (*entity.TradeLine, error) {
	var out *entity.TradeLine
	ls.s.read(func(st *state) {
		if l, ok := st.lines[ls.kind][id]; ok {
			cp := *l
			out = &cp
		}
	})
	return out, nil
}

func (ls lineStore) UpdateLine(_ context.Context, l *entity.TradeLine) error {
	var err error
	ls.s.write(func(st *state) {
		cur, ok := st.lines[ls.kind][l.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.ItemID = l.ItemID
		cur.Quantity = l.Quantity
		cur.UnitPrice = l.UnitPrice
		cur.Subtotal = l.Subtotal
	})
	return err
}

func (ls lineStore) DeleteLine(_ context.Context, id string) error {
	ls.s.write(func(st *state) { delete(st.lines[ls.kind], id) })
	return nil
}

func (ls lineStore) SumSubtotals(_ context.Context, headerID string) (decimal.Decimal, error) {
	total := decimal.Zero
	ls.s.read(func(st *state) {
		for _, l := range st.lines[ls.kind] {
			if l.HeaderID == headerID {
				total = total.Add(l.Subtotal)
			}
		}
	})
	return total, nil
}

func (ls lineStore) SetTotal(_ context.Context, headerID string, total decimal.Decimal) error {
	var err error
	ls.s.write(func(st *state) {
		if !ls.exists(st, headerID) {
			err = domain.ErrNotFound
			return
		}
		ls.setTotal(st, headerID, total)
	})
	return err
}

func linesOf(st *state, kind, headerID string) []*entity.TradeLine {
	var out []*entity.TradeLine
	for _, l := range st.lines[kind] {
		if l.HeaderID == headerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func deleteLinesOf(st *state, kind, headerID string) {
	for id, l := range st.lines[kind] {
		if l.HeaderID == headerID {
			delete(st.lines[kind], id)
		}
	}
}

// ── Compras ──────────────────────────────────────────────────────────────────

// PurchaseRepo implementación en memoria de PurchaseRepository.
type PurchaseRepo struct {
	lineStore
}

// NewPurchaseRepository construye el repositorio.
func NewPurchaseRepository(s *Store) *PurchaseRepo {
	return &PurchaseRepo{lineStore{
		s:    s,
		kind: kindPurchase,
		exists: func(st *state, id string) bool {
			_, ok := st.purchases[id]
			return ok
		},
		setTotal: func(st *state, id string, total decimal.Decimal) { st.purchases[id].Total = total },
	}}
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.s.write(func(st *state) {
		cp := *p
		cp.Lines = nil
		st.purchases[p.ID] = &cp
	})
	return nil
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	r.s.read(func(st *state) {
		if p, ok := st.purchases[id]; ok {
			cp := *p
			cp.Lines = linesOf(st, kindPurchase, id)
			out = &cp
		}
	})
	return out, nil
}

func (r *PurchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.purchases[p.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Date = p.Date
		cur.SupplierName = p.SupplierName
		cur.Notes = p.Notes
		cur.UpdatedAt = p.UpdatedAt
	})
	return err
}

func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	r.s.write(func(st *state) {
		deleteLinesOf(st, kindPurchase, id)
		delete(st.purchases, id)
	})
	return nil
}

func (r *PurchaseRepo) List(_ context.Context, f repository.DateFilter) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	r.s.read(func(st *state) {
		for _, p := range st.purchases {
			if inRange(p.Date, f.From, f.To) {
				cp := *p
				cp.Lines = linesOf(st, kindPurchase, p.ID)
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, f.Limit, f.Offset), nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct {
	lineStore
}

// NewSaleRepository construye el repositorio.
func NewSaleRepository(s *Store) *SaleRepo {
	return &SaleRepo{lineStore{
		s:    s,
		kind: kindSale,
		exists: func(st *state, id string) bool {
			_, ok := st.sales[id]
			return ok
		},
		setTotal: func(st *state, id string, total decimal.Decimal) { st.sales[id].Total = total },
	}}
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.s.write(func(st *state) {
		cp := *s
		cp.Lines = nil
		st.sales[s.ID] = &cp
	})
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			cp := *s
			cp.Lines = linesOf(st, kindSale, id)
			out = &cp
		}
	})
	return out, nil
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.sales[s.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Date = s.Date
		cur.CustomerID = s.CustomerID
		cur.Notes = s.Notes
		cur.UpdatedAt = s.UpdatedAt
	})
	return err
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	r.s.write(func(st *state) {
		deleteLinesOf(st, kindSale, id)
		delete(st.sales, id)
	})
	return nil
}

func (r *SaleRepo) List(_ context.Context, f repository.DateFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.s.read(func(st *state) {
		for _, s := range st.sales {
			if inRange(s.Date, f.From, f.To) {
				cp := *s
				cp.Lines = linesOf(st, kindSale, s.ID)
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, f.Limit, f.Offset), nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	lineStore
}

// NewOrderRepository construye el repositorio.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{lineStore{
		s:    s,
		kind: kindOrder,
		exists: func(st *state, id string) bool {
			_, ok := st.orders[id]
			return ok
		},
		setTotal: func(st *state, id string, total decimal.Decimal) { st.orders[id].Total = total },
	}}
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.write(func(st *state) {
		cp := *o
		cp.Lines = nil
		st.orders[o.ID] = &cp
	})
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.s.read(func(st *state) {
		if o, ok := st.orders[id]; ok {
			cp := *o
			cp.Lines = linesOf(st, kindOrder, id)
			out = &cp
		}
	})
	return out, nil
}

// GetByIDForUpdate en memoria equivale a GetByID: el TxRunner ya serializa.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.orders[o.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Status = o.Status
		cur.ShippingCost = o.ShippingCost
		cur.ShippingAddress = o.ShippingAddress
		cur.PaymentProof = o.PaymentProof
		cur.Notes = o.Notes
		cur.UpdatedAt = o.UpdatedAt
	})
	return err
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.write(func(st *state) {
		deleteLinesOf(st, kindOrder, id)
		delete(st.orders, id)
	})
	return nil
}

func (r *OrderRepo) DeleteLines(_ context.Context, orderID string) error {
	r.s.write(func(st *state) { deleteLinesOf(st, kindOrder, orderID) })
	return nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if matchOrder(o, f) {
				cp := *o
				cp.Lines = linesOf(st, kindOrder, o.ID)
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func matchOrder(o *entity.Order, f repository.OrderFilter) bool {
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return inRange(o.Date, f.From, f.To)
}
