package trade_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/trade"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

const actor = "emp-1"

type fixture struct {
	purchases *trade.PurchaseUseCase
	sales     *trade.SaleUseCase
	items     *memory.ItemRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ledger := inventory.NewLedger(nil, zerolog.Nop())
	f := &fixture{
		purchases: trade.NewPurchaseUseCase(tx, ledger, memory.NewPurchaseRepository(store)),
		sales:     trade.NewSaleUseCase(tx, ledger, memory.NewSaleRepository(store)),
		items:     memory.NewItemRepository(store),
	}
	f.seed(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 10, 9000)
	f.seed(t, "ragi", "Ragi", entity.CategoryRawMaterial, 5, 15000)
	f.seed(t, "tahu", "Tahu", entity.CategoryFinishedGood, 20, 2000)
	return f
}

func (f *fixture) seed(t *testing.T, id, name, category string, stock, price int64) {
	t.Helper()
	require.NoError(t, f.items.Create(context.Background(), &entity.Item{
		ID: id, Name: name, Category: category, Stock: int(stock), Price: decimal.NewFromInt(price), Unit: "kg",
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

// ──── Compras ────────────────────────────────────────────────────────────────

func TestPurchase_Create_SumaStockYCalculaTotal(t *testing.T) {
	f := newFixture(t)

	out, err := f.purchases.Create(context.Background(), actor, dto.PurchaseRequest{
		SupplierName: "CV Sumber Kedelai",
		Lines: []dto.TradeLineInput{
			{ItemID: "kedelai", Quantity: 30, UnitPrice: decimal.NewFromInt(8500)},
			{ItemID: "ragi", Quantity: 2}, // precio del item
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 40, f.stock(t, "kedelai"))
	assert.Equal(t, 7, f.stock(t, "ragi"))
	assert.True(t, decimal.NewFromInt(30*8500+2*15000).Equal(out.Total), "total=%s", out.Total)
	assert.Len(t, out.Lines, 2)
}

func TestPurchase_LineaDeProductoTerminado_NoMueveStock(t *testing.T) {
	f := newFixture(t)

	out, err := f.purchases.Create(context.Background(), actor, dto.PurchaseRequest{
		SupplierName: "Pasar",
		Lines:        []dto.TradeLineInput{{ItemID: "tahu", Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 20, f.stock(t, "tahu"), "una compra solo mueve materia prima")
	assert.True(t, decimal.NewFromInt(6000).Equal(out.Total))
}

func TestPurchase_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.purchases.Create(ctx, actor, dto.PurchaseRequest{SupplierName: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "X",
		Lines:        []dto.TradeLineInput{{ItemID: "kedelai", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "X",
		Lines:        []dto.TradeLineInput{{ItemID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, "kedelai"))
}

// El total de cabecera siempre es la suma de los subtotales tras cualquier cambio de líneas.
func TestPurchase_TotalSeRecalculaTrasCadaCambioDeLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "CV",
		Lines:        []dto.TradeLineInput{{ItemID: "kedelai", Quantity: 10, UnitPrice: decimal.NewFromInt(1000)}},
	})
	require.NoError(t, err)
	assertTotalMatchesLines(t, p)

	p, err = f.purchases.AddLine(ctx, actor, p.ID, dto.TradeLineInput{ItemID: "ragi", Quantity: 1, UnitPrice: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assertTotalMatchesLines(t, p)
	assert.True(t, decimal.NewFromInt(10500).Equal(p.Total))

	var kedelaiLine string
	for _, l := range p.Lines {
		if l.ItemID == "kedelai" {
			kedelaiLine = l.ID
		}
	}
	p, err = f.purchases.UpdateLine(ctx, actor, p.ID, kedelaiLine, dto.TradeLineInput{
		ItemID: "kedelai", Quantity: 4, UnitPrice: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assertTotalMatchesLines(t, p)
	assert.Equal(t, 14, f.stock(t, "kedelai"), "10 + 4: el ajuste aplica solo la diferencia")

	p, err = f.purchases.DeleteLine(ctx, actor, p.ID, kedelaiLine)
	require.NoError(t, err)
	assertTotalMatchesLines(t, p)
	assert.True(t, decimal.NewFromInt(500).Equal(p.Total))
	assert.Equal(t, 10, f.stock(t, "kedelai"))

	total, err := f.purchases.RecomputeTotal(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(p.Total))
}

func TestPurchase_Update_ReemplazaLineasPorDiferencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "CV",
		Lines: []dto.TradeLineInput{
			{ItemID: "kedelai", Quantity: 10},
			{ItemID: "ragi", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 20, f.stock(t, "kedelai"))
	require.Equal(t, 8, f.stock(t, "ragi"))

	// se conserva la línea de kedelai con otra cantidad y desaparece la de ragi
	var keep string
	for _, l := range p.Lines {
		if l.ItemID == "kedelai" {
			keep = l.ID
		}
	}
	p, err = f.purchases.Update(ctx, actor, p.ID, dto.PurchaseRequest{
		SupplierName: "CV Baru",
		Lines:        []dto.TradeLineInput{{ID: keep, ItemID: "kedelai", Quantity: 6}},
	})
	require.NoError(t, err)

	assert.Equal(t, "CV Baru", p.SupplierName)
	assert.Equal(t, 16, f.stock(t, "kedelai"))
	assert.Equal(t, 5, f.stock(t, "ragi"))
	require.Len(t, p.Lines, 1)
	assert.Equal(t, keep, p.Lines[0].ID)
	assertTotalMatchesLines(t, p)
}

func TestPurchase_Update_LineaRepetida_Rechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "CV",
		Lines:        []dto.TradeLineInput{{ItemID: "kedelai", Quantity: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, 15, f.stock(t, "kedelai"))
	lineID := p.Lines[0].ID

	_, err = f.purchases.Update(ctx, actor, p.ID, dto.PurchaseRequest{
		SupplierName: "CV",
		Lines: []dto.TradeLineInput{
			{ID: lineID, ItemID: "kedelai", Quantity: 5},
			{ID: lineID, ItemID: "kedelai", Quantity: 7},
		},
	})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "lines", vErr.Field)
	assert.Equal(t, 15, f.stock(t, "kedelai"))

	got, err := f.purchases.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 5, got.Lines[0].Quantity)

	require.NoError(t, f.purchases.Delete(ctx, actor, p.ID))
	assert.Equal(t, 10, f.stock(t, "kedelai"))
}

func TestPurchase_Delete_ConStockYaConsumido_Rechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.purchases.Create(ctx, actor, dto.PurchaseRequest{
		SupplierName: "CV",
		Lines:        []dto.TradeLineInput{{ItemID: "ragi", Quantity: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 15, f.stock(t, "ragi"))

	// se consume casi todo el ragi por fuera de la compra
	_, ok, err := f.items.AdjustStock(ctx, "ragi", -12)
	require.NoError(t, err)
	require.True(t, ok)

	err = f.purchases.Delete(ctx, actor, p.ID)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 7, stockErr.Shortfall)

	got, err := f.purchases.GetByID(ctx, p.ID)
	require.NoError(t, err, "la compra sigue existiendo tras el rollback")
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, 3, f.stock(t, "ragi"))
}

// ──── Ventas ─────────────────────────────────────────────────────────────────

func TestSale_Create_DescuentaProductoTerminado(t *testing.T) {
	f := newFixture(t)

	out, err := f.sales.Create(context.Background(), actor, dto.SaleRequest{
		Lines: []dto.TradeLineInput{{ItemID: "tahu", Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, 15, f.stock(t, "tahu"))
	assert.True(t, decimal.NewFromInt(10000).Equal(out.Total))
}

func TestSale_StockInsuficiente_RollbackCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Create(ctx, actor, dto.SaleRequest{
		Lines: []dto.TradeLineInput{
			{ItemID: "tahu", Quantity: 5},
			{ItemID: "tahu", Quantity: 30},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 20, f.stock(t, "tahu"), "la primera línea también se revierte")
	list, err := f.sales.List(ctx, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "no queda cabecera huérfana")
}

func TestSale_DeleteLine_DevuelveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.sales.Create(ctx, actor, dto.SaleRequest{
		Lines: []dto.TradeLineInput{{ItemID: "tahu", Quantity: 8}},
	})
	require.NoError(t, err)
	require.Equal(t, 12, f.stock(t, "tahu"))

	s, err = f.sales.DeleteLine(ctx, actor, s.ID, s.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 20, f.stock(t, "tahu"))
	assert.True(t, s.Total.IsZero())

	_, err = f.sales.DeleteLine(ctx, actor, s.ID, "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSale_Update_LineaAjena_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.sales.Create(ctx, actor, dto.SaleRequest{Lines: []dto.TradeLineInput{{ItemID: "tahu", Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.sales.Update(ctx, actor, s.ID, dto.SaleRequest{
		Lines: []dto.TradeLineInput{{ID: "de-otra-venta", ItemID: "tahu", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 19, f.stock(t, "tahu"))
}

func TestSale_Update_LineaRepetida_Rechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.sales.Create(ctx, actor, dto.SaleRequest{Lines: []dto.TradeLineInput{{ItemID: "tahu", Quantity: 3}}})
	require.NoError(t, err)
	lineID := s.Lines[0].ID

	_, err = f.sales.Update(ctx, actor, s.ID, dto.SaleRequest{
		Lines: []dto.TradeLineInput{
			{ID: lineID, ItemID: "tahu", Quantity: 3},
			{ID: lineID, ItemID: "tahu", Quantity: 4},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 17, f.stock(t, "tahu"))

	require.NoError(t, f.sales.Delete(ctx, actor, s.ID))
	assert.Equal(t, 20, f.stock(t, "tahu"))
}

// ── helper ────────────────────────────────────────────────────────────────────

type totalled interface {
	*dto.PurchaseResponse | *dto.SaleResponse
}

func assertTotalMatchesLines[T totalled](t *testing.T, resp T) {
	t.Helper()
	var total decimal.Decimal
	var lines []dto.TradeLineResponse
	switch v := any(resp).(type) {
	case *dto.PurchaseResponse:
		total, lines = v.Total, v.Lines
	case *dto.SaleResponse:
		total, lines = v.Total, v.Lines
	}
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal)
	}
	assert.True(t, sum.Equal(total), "total %s != suma de líneas %s", total, sum)
}
