package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/report"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

type fakeExporter struct{ got *dto.Report }

func (e *fakeExporter) Export(_ context.Context, r *dto.Report) ([]byte, error) {
	e.got = r
	return []byte("%PDF-fake"), nil
}

func newReportFixture(t *testing.T) (*report.UseCase, *fakeExporter) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	items := memory.NewItemRepository(store)
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "tahu", Name: "Tahu", Category: entity.CategoryFinishedGood, Stock: 50, Price: decimal.NewFromInt(2000), Unit: "buah"}))
	require.NoError(t, items.Create(ctx, &entity.Item{ID: "kedelai", Name: "Kedelai", Category: entity.CategoryRawMaterial, Stock: 100, Price: decimal.NewFromInt(12500), Unit: "kg"}))
	require.NoError(t, memory.NewCustomerRepository(store).Create(ctx, &entity.Customer{ID: "c1", Name: "Wati", Username: "wati"}))

	orders := order.NewUseCase(memory.NewTxRunner(store), inventory.NewLedger(nil, zerolog.Nop()), memory.NewOrderRepository(store), nil)
	for _, st := range []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled, ""} {
		_, err := orders.Create(ctx, "emp", dto.CreateOrderRequest{
			CustomerID: "c1", Status: st,
			Lines: []dto.TradeLineInput{{ItemID: "tahu", Quantity: 10}},
		})
		require.NoError(t, err)
	}
	pdf := &fakeExporter{}
	return report.NewUseCase(memory.NewAnalyticsRepository(store), items, pdf, nil), pdf
}

func TestBuild_ReportePedidosFiltrado(t *testing.T) {
	uc, _ := newReportFixture(t)

	r, err := uc.Build(context.Background(), dto.ReportRequest{Kind: report.KindOrders, Status: "COMPLETED"})
	require.NoError(t, err)

	require.Len(t, r.Rows, 1)
	assert.Equal(t, "Wati", r.Rows[0][3])
	assert.Equal(t, "Rp 20.000", r.Rows[0][5])
	assert.Contains(t, r.Footer, "Rp 20.000")
	assert.Equal(t, len(r.Headers), len(r.Rows[0]))
}

func TestBuild_ReporteItemsPorCategoria(t *testing.T) {
	uc, _ := newReportFixture(t)

	r, err := uc.Build(context.Background(), dto.ReportRequest{Kind: report.KindItems, Category: entity.CategoryRawMaterial})
	require.NoError(t, err)
	require.Len(t, r.Rows, 1)
	assert.Equal(t, "Kedelai", r.Rows[0][1])
	assert.Equal(t, "Rp 12.500", r.Rows[0][4])

	_, err = uc.Build(context.Background(), dto.ReportRequest{Kind: report.KindItems, Category: "OTRO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_TipoDesconocido(t *testing.T) {
	uc, _ := newReportFixture(t)
	_, err := uc.Build(context.Background(), dto.ReportRequest{Kind: "ventas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_FormatoYNombre(t *testing.T) {
	uc, pdf := newReportFixture(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	data, ct, name, err := uc.Export(context.Background(), dto.ReportRequest{Kind: report.KindOrders, From: &from}, report.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)
	assert.Contains(t, name, "laporan-orders-")
	assert.NotEmpty(t, data)
	require.NotNil(t, pdf.got)
	assert.Equal(t, "Desde 01/01/2026", pdf.got.Subtitle)

	_, _, _, err = uc.Export(context.Background(), dto.ReportRequest{Kind: report.KindOrders}, report.FormatXLSX)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin exportador xlsx configurado")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "Rp 0", report.FormatMoney(decimal.Zero))
	assert.Equal(t, "Rp 999", report.FormatMoney(decimal.NewFromInt(999)))
	assert.Equal(t, "Rp 1.000.000", report.FormatMoney(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "-Rp 2.500", report.FormatMoney(decimal.NewFromInt(-2500)))
}
