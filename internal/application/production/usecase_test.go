package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/production"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

const testEmployee = "emp-1"

type fixture struct {
	uc    *production.UseCase
	items *memory.ItemRepo
	repo  *memory.ProductionRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedger(nil, zerolog.Nop())
	repo := memory.NewProductionRepository(store)
	return &fixture{
		uc:    production.NewUseCase(memory.NewTxRunner(store), ledger, repo),
		items: memory.NewItemRepository(store),
		repo:  repo,
	}
}

func (f *fixture) seedItem(t *testing.T, id, name, category string, stock int) {
	t.Helper()
	require.NoError(t, f.items.Create(context.Background(), &entity.Item{
		ID: id, Name: name, Category: category, Price: decimal.NewFromInt(1000), Stock: stock, Unit: "kg",
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

func (f *fixture) stockByName(t *testing.T, name string) int {
	t.Helper()
	it, err := f.items.GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, it, "el item %s debe existir", name)
	return it.Stock
}

func TestRecord_CreaProductoTerminadoYConsumeMateriaPrima(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)

	out, err := f.uc.Record(context.Background(), testEmployee, dto.ProductionRequest{
		ResultType: "tahu",
		Quantity:   50,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 20}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ResultTahu, out.ResultType)
	assert.Equal(t, "buah", out.Unit, "la unidad por defecto viene del catálogo")
	assert.Len(t, out.Lines, 1)
	assert.Equal(t, 50, f.stockByName(t, "Tahu"))
	assert.Equal(t, 80, f.stock(t, "kedelai"))

	tahu, _ := f.items.GetByName(context.Background(), "Tahu")
	assert.Equal(t, "2000", tahu.Price.String())
	assert.Equal(t, entity.CategoryFinishedGood, tahu.Category)
}

func TestRecord_MateriaPrimaInsuficienteNoGuardaNada(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 10)
	f.seedItem(t, "tahu", "Tahu", entity.CategoryFinishedGood, 5)

	_, err := f.uc.Record(context.Background(), testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   30,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 25}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Kedelai", stockErr.ItemName)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 25, stockErr.Requested)
	assert.Equal(t, 15, stockErr.Shortfall)

	assert.Equal(t, 5, f.stock(t, "tahu"), "el ajuste de cabecera se descarta con el rollback")
	assert.Equal(t, 10, f.stock(t, "kedelai"))
	list, err := f.repo.List(context.Background(), repository.DateFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecord_LineaConProductoTerminadoEsInvalida(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tempe", "Tempe", entity.CategoryFinishedGood, 0)

	_, err := f.uc.Record(context.Background(), testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   1,
		Lines:      []dto.ProductionLineInput{{ItemID: "tempe", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecord_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Record(context.Background(), testEmployee, dto.ProductionRequest{ResultType: "oncom", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUpdate_AjustaPorDiferencia(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	f.seedItem(t, "ragi", "Ragi", entity.CategoryRawMaterial, 10)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTempe,
		Quantity:   50,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 20}},
	})
	require.NoError(t, err)
	lineID := out.Lines[0].ID

	// 50 → 60 producidos, consumo 20 → 25 y se agrega ragi
	_, err = f.uc.Update(ctx, testEmployee, out.ID, dto.ProductionRequest{
		ResultType: entity.ResultTempe,
		Quantity:   60,
		Lines: []dto.ProductionLineInput{
			{ID: lineID, ItemID: "kedelai", Quantity: 25},
			{ItemID: "ragi", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 60, f.stockByName(t, "Tempe"))
	assert.Equal(t, 75, f.stock(t, "kedelai"))
	assert.Equal(t, 8, f.stock(t, "ragi"))

	// quitar la línea de kedelai devuelve su consumo
	_, err = f.uc.Update(ctx, testEmployee, out.ID, dto.ProductionRequest{
		ResultType: entity.ResultTempe,
		Quantity:   60,
		Lines:      []dto.ProductionLineInput{},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, f.stock(t, "kedelai"))
	assert.Equal(t, 10, f.stock(t, "ragi"))

	got, err := f.uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestUpdate_LineaQueDejariaNegativoSeRechazaSinMutar(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 30)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   10,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 20}},
	})
	require.NoError(t, err)

	_, err = f.uc.UpdateLine(ctx, testEmployee, out.ID, out.Lines[0].ID, dto.ProductionLineInput{ItemID: "kedelai", Quantity: 45})
	require.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, f.stock(t, "kedelai"))

	line, err := f.repo.GetLine(ctx, out.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 20, line.Quantity)
}

func TestUpdate_LineaRepetidaSeRechazaSinMutar(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   10,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 5}},
	})
	require.NoError(t, err)
	lineID := out.Lines[0].ID

	_, err = f.uc.Update(ctx, testEmployee, out.ID, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   12,
		Lines: []dto.ProductionLineInput{
			{ID: lineID, ItemID: "kedelai", Quantity: 5},
			{ID: lineID, ItemID: "kedelai", Quantity: 7},
		},
	})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "lines", vErr.Field)

	assert.Equal(t, 95, f.stock(t, "kedelai"))
	assert.Equal(t, 10, f.stockByName(t, "Tahu"))
	got, err := f.uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 5, got.Lines[0].Quantity)

	// el stock sigue cuadrando con las líneas guardadas
	require.NoError(t, f.uc.Delete(ctx, testEmployee, out.ID))
	assert.Equal(t, 100, f.stock(t, "kedelai"))
}

func TestUpdate_LineaDeOtraProduccion_NotFound(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	ctx := context.Background()

	a, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu, Quantity: 10,
		Lines: []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 5}},
	})
	require.NoError(t, err)
	b, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu, Quantity: 10,
		Lines: []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, testEmployee, a.ID, dto.ProductionRequest{
		ResultType: entity.ResultTahu, Quantity: 10,
		Lines: []dto.ProductionLineInput{{ID: b.Lines[0].ID, ItemID: "kedelai", Quantity: 9}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 92, f.stock(t, "kedelai"))

	line, err := f.repo.GetLine(ctx, b.Lines[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
}

func TestUpdate_CambioDeTipoMueveProductoTerminado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		ResultType: entity.ResultTahu,
		Quantity:   10,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 10, f.stockByName(t, "Tahu"))

	got, err := f.uc.Update(ctx, testEmployee, out.ID, dto.ProductionRequest{
		ResultType: entity.ResultTempe,
		Quantity:   12,
		Lines:      []dto.ProductionLineInput{{ID: out.Lines[0].ID, ItemID: "kedelai", Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ResultTempe, got.ResultType)
	assert.Equal(t, 0, f.stockByName(t, "Tahu"), "se revierte lo acreditado al tipo anterior")
	assert.Equal(t, 12, f.stockByName(t, "Tempe"))
	assert.Equal(t, 96, f.stock(t, "kedelai"))

	require.NoError(t, f.uc.Delete(ctx, testEmployee, out.ID))
	assert.Equal(t, 0, f.stockByName(t, "Tempe"))
	assert.Equal(t, 100, f.stock(t, "kedelai"))
}

func TestLineas_AgregarEditarEliminar(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{ResultType: entity.ResultTahu, Quantity: 10})
	require.NoError(t, err)

	line, err := f.uc.AddLine(ctx, testEmployee, out.ID, dto.ProductionLineInput{ItemID: "kedelai", Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 80, f.stock(t, "kedelai"))

	_, err = f.uc.UpdateLine(ctx, testEmployee, out.ID, line.ID, dto.ProductionLineInput{ItemID: "kedelai", Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, 85, f.stock(t, "kedelai"))

	require.NoError(t, f.uc.DeleteLine(ctx, testEmployee, out.ID, line.ID))
	assert.Equal(t, 100, f.stock(t, "kedelai"))

	assert.True(t, errors.Is(f.uc.DeleteLine(ctx, testEmployee, out.ID, line.ID), domain.ErrNotFound))
}

func TestDelete_RevierteEvento(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "kedelai", "Kedelai", entity.CategoryRawMaterial, 100)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{
		Date:       ptrTime(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		ResultType: entity.ResultTahu,
		Quantity:   50,
		Lines:      []dto.ProductionLineInput{{ItemID: "kedelai", Quantity: 20}},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, testEmployee, out.ID))
	assert.Equal(t, 0, f.stockByName(t, "Tahu"))
	assert.Equal(t, 100, f.stock(t, "kedelai"))

	_, err = f.uc.GetByID(ctx, out.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_ProductoYaVendidoNoPuedeRevertirse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.Record(ctx, testEmployee, dto.ProductionRequest{ResultType: entity.ResultTahu, Quantity: 10})
	require.NoError(t, err)
	tahu, _ := f.items.GetByName(ctx, "Tahu")
	_, ok, err := f.items.AdjustStock(ctx, tahu.ID, -8)
	require.NoError(t, err)
	require.True(t, ok)

	err = f.uc.Delete(ctx, testEmployee, out.ID)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 2, f.stock(t, tahu.ID))
}

func ptrTime(t time.Time) *time.Time { return &t }
