package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

type spyPublisher struct {
	mu    sync.Mutex
	moves []*entity.StockMovement
	err   error
}

func (p *spyPublisher) Publish(_ context.Context, moves []*entity.StockMovement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moves = append(p.moves, moves...)
	return p.err
}

type ledgerFixture struct {
	store  *memory.Store
	tx     *memory.TxRunner
	ledger *inventory.Ledger
	pub    *spyPublisher
	items  *memory.ItemRepo
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	pub := &spyPublisher{}
	f := &ledgerFixture{
		store:  store,
		tx:     memory.NewTxRunner(store),
		ledger: inventory.NewLedger(pub, zerolog.Nop()),
		pub:    pub,
		items:  memory.NewItemRepository(store),
	}
	ctx := context.Background()
	require.NoError(t, f.items.Create(ctx, &entity.Item{ID: "kedelai", Name: "Kedelai", Category: entity.CategoryRawMaterial, Stock: 10}))
	require.NoError(t, f.items.Create(ctx, &entity.Item{ID: "tahu", Name: "Tahu", Category: entity.CategoryFinishedGood, Stock: 0}))
	return f
}

func (f *ledgerFixture) adjust(in inventory.AdjustInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := f.tx.Run(context.Background(), func(r inventory.Repos) error {
		var err error
		mov, err = f.ledger.Adjust(context.Background(), r, in)
		return err
	})
	return mov, err
}

func (f *ledgerFixture) stock(t *testing.T, id string) int {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return it.Stock
}

// ──── Adjust ─────────────────────────────────────────────────────────────────

func TestAdjust_RegistraMovimientoConSaldo(t *testing.T) {
	f := newLedgerFixture(t)

	mov, err := f.adjust(inventory.AdjustInput{ItemID: "kedelai", Delta: -4, Source: entity.MovementSourceProductionLine, Reference: "pl-1", ActorID: "emp"})
	require.NoError(t, err)
	require.NotNil(t, mov)

	assert.Equal(t, -4, mov.Delta)
	assert.Equal(t, 6, mov.Balance)
	assert.Equal(t, "pl-1", mov.Reference)
	assert.Equal(t, 6, f.stock(t, "kedelai"))

	list, err := memory.NewStockMovementRepository(f.store).ListByItem(context.Background(), "kedelai", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdjust_NoOps(t *testing.T) {
	f := newLedgerFixture(t)

	mov, err := f.adjust(inventory.AdjustInput{ItemID: "kedelai", Delta: 0})
	require.NoError(t, err)
	assert.Nil(t, mov, "delta cero no genera movimiento")

	mov, err = f.adjust(inventory.AdjustInput{ItemID: "kedelai", Delta: -5, Category: entity.CategoryFinishedGood})
	require.NoError(t, err)
	assert.Nil(t, mov, "la categoría no coincide con el efecto esperado")
	assert.Equal(t, 10, f.stock(t, "kedelai"))
}

func TestAdjust_ItemInexistente(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.adjust(inventory.AdjustInput{ItemID: "nope", Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_StockInsuficiente(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.adjust(inventory.AdjustInput{ItemID: "kedelai", Delta: -15})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Kedelai", stockErr.ItemName)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 15, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Shortfall)
	assert.Contains(t, err.Error(), "Kedelai")
	assert.Equal(t, 10, f.stock(t, "kedelai"))
}

// Ajustes concurrentes de +5 y -3 conmutan: el resultado no depende del orden.
func TestAdjust_ConcurrentesConmutan(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	_, ok, err := f.items.AdjustStock(ctx, "tahu", 200)
	require.NoError(t, err)
	require.True(t, ok)

	const rounds = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.adjust(inventory.AdjustInput{ItemID: "tahu", Delta: 5})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.adjust(inventory.AdjustInput{ItemID: "tahu", Delta: -3})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 200+rounds*5-rounds*3, f.stock(t, "tahu"))
}

// ──── EnsureFinishedGood ─────────────────────────────────────────────────────

func TestEnsureFinishedGood_CreaConValoresDeCatalogo(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	var created *entity.Item
	require.NoError(t, f.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		created, err = f.ledger.EnsureFinishedGood(ctx, r, "tempe")
		return err
	}))
	assert.Equal(t, "Tempe", created.Name)
	assert.Equal(t, entity.CategoryFinishedGood, created.Category)
	assert.True(t, decimal.NewFromInt(2500).Equal(created.Price))
	assert.Equal(t, "buah", created.Unit)

	// un precio editado a mano se conserva
	created.Price = decimal.NewFromInt(3000)
	require.NoError(t, f.items.Update(ctx, created))

	var again *entity.Item
	require.NoError(t, f.tx.Run(ctx, func(r inventory.Repos) error {
		var err error
		again, err = f.ledger.EnsureFinishedGood(ctx, r, "TEMPE")
		return err
	}))
	assert.Equal(t, created.ID, again.ID)
	assert.True(t, decimal.NewFromInt(3000).Equal(again.Price))
}

func TestEnsureFinishedGood_NombreOcupadoPorMateriaPrima(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.items.Create(ctx, &entity.Item{ID: "x", Name: "tempe", Category: entity.CategoryRawMaterial}))

	err := f.tx.Run(ctx, func(r inventory.Repos) error {
		_, err := f.ledger.EnsureFinishedGood(ctx, r, "TEMPE")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──── Publish ────────────────────────────────────────────────────────────────

func TestPublish_ErrorNoSePropaga(t *testing.T) {
	f := newLedgerFixture(t)
	f.pub.err = errors.New("broker caído")
	mov, err := f.adjust(inventory.AdjustInput{ItemID: "kedelai", Delta: 1})
	require.NoError(t, err)

	assert.NotPanics(t, func() { f.ledger.Publish(context.Background(), []*entity.StockMovement{mov}) })
	assert.Len(t, f.pub.moves, 1)

	f.ledger.Publish(context.Background(), nil)
	assert.Len(t, f.pub.moves, 1, "sin movimientos no se publica")
}
