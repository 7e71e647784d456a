// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y en desarrollo (STORAGE_DRIVER=memory). Las transacciones se
// serializan con un mutex y el rollback restaura una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

const (
	kindPurchase = "purchase"
	kindSale     = "sale"
	kindOrder    = "order"
)

type state struct {
	items           map[string]*entity.Item
	movements       []*entity.StockMovement
	productions     map[string]*entity.Production
	productionLines map[string]*entity.ProductionLine
	purchases       map[string]*entity.Purchase
	sales           map[string]*entity.Sale
	orders          map[string]*entity.Order
	lines           map[string]map[string]*entity.TradeLine // kind -> id -> línea
	employees       map[string]*entity.Employee
	customers       map[string]*entity.Customer
}

func newState() *state {
	return &state{
		items:           map[string]*entity.Item{},
		productions:     map[string]*entity.Production{},
		productionLines: map[string]*entity.ProductionLine{},
		purchases:       map[string]*entity.Purchase{},
		sales:           map[string]*entity.Sale{},
		orders:          map[string]*entity.Order{},
		lines: map[string]map[string]*entity.TradeLine{
			kindPurchase: {},
			kindSale:     {},
			kindOrder:    {},
		},
		employees: map[string]*entity.Employee{},
		customers: map[string]*entity.Customer{},
	}
}

// clone copia profunda del estado (las entidades se guardan sin Lines).
func (st *state) clone() *state {
	c := newState()
	for k, v := range st.items {
		cp := *v
		c.items[k] = &cp
	}
	for _, m := range st.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	for k, v := range st.productions {
		cp := *v
		c.productions[k] = &cp
	}
	for k, v := range st.productionLines {
		cp := *v
		c.productionLines[k] = &cp
	}
	for k, v := range st.purchases {
		cp := *v
		c.purchases[k] = &cp
	}
	for k, v := range st.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, v := range st.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for kind, lines := range st.lines {
		for k, v := range lines {
			cp := *v
			c.lines[kind][k] = &cp
		}
	}
	for k, v := range st.employees {
		cp := *v
		c.employees[k] = &cp
	}
	for k, v := range st.customers {
		cp := *v
		c.customers[k] = &cp
	}
	return c
}

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu   sync.RWMutex // protege st
	txMu sync.Mutex   // serializa transacciones completas
	st   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios sobre este store (fuera de transacción).
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Items:       NewItemRepository(s),
		Movements:   NewStockMovementRepository(s),
		Productions: NewProductionRepository(s),
		Purchases:   NewPurchaseRepository(s),
		Sales:       NewSaleRepository(s),
		Orders:      NewOrderRepository(s),
		Customers:   NewCustomerRepository(s),
	}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn de forma exclusiva; si fn falla se restaura el estado previo.
// Escrituras fuera de transacción concurrentes con un Run fallido se pierden en el rollback.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn dentro de una "transacción" en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	var snapshot *state
	r.s.read(func(st *state) { snapshot = st.clone() })

	if err := fn(r.s.Repos()); err != nil {
		r.s.write(func(st *state) { r.s.st = snapshot })
		return err
	}
	return nil
}
