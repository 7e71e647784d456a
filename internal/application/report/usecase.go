// Package report arma reportes filtrados de pedidos, items y producción.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// Tipos de reporte.
const (
	KindOrders      = "orders"
	KindItems       = "items"
	KindProductions = "productions"
)

var contentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// UseCase construye reportes y los exporta.
type UseCase struct {
	analytics repository.AnalyticsRepository
	items     repository.ItemRepository
	exporters map[string]Exporter
	now       func() time.Time
}

// NewUseCase construye el caso de uso. pdf y xlsx pueden ser nil si el formato no está disponible.
func NewUseCase(analytics repository.AnalyticsRepository, items repository.ItemRepository, pdf, xlsx Exporter) *UseCase {
	exporters := map[string]Exporter{}
	if pdf != nil {
		exporters[FormatPDF] = pdf
	}
	if xlsx != nil {
		exporters[FormatXLSX] = xlsx
	}
	return &UseCase{analytics: analytics, items: items, exporters: exporters, now: time.Now}
}

// Build arma el reporte tabular según el tipo pedido.
func (uc *UseCase) Build(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	var (
		r   *dto.Report
		err error
	)
	switch req.Kind {
	case KindOrders:
		r, err = uc.orders(ctx, req)
	case KindItems:
		r, err = uc.itemList(ctx, req)
	case KindProductions:
		r, err = uc.productions(ctx, req)
	default:
		return nil, domain.NewValidationError("kind", "tipo de reporte desconocido: "+req.Kind)
	}
	if err != nil {
		return nil, err
	}
	r.Subtitle = periodLabel(req.From, req.To)
	r.GeneratedAt = uc.now()
	return r, nil
}

// Export arma el reporte y lo convierte al formato indicado.
func (uc *UseCase) Export(ctx context.Context, req dto.ReportRequest, format string) (data []byte, contentType, filename string, err error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, "", "", domain.NewValidationError("format", "formato no soportado: "+format)
	}
	r, err := uc.Build(ctx, req)
	if err != nil {
		return nil, "", "", err
	}
	data, err = exp.Export(ctx, r)
	if err != nil {
		return nil, "", "", fmt.Errorf("report: exportar %s: %w", format, err)
	}
	filename = fmt.Sprintf("laporan-%s-%s.%s", req.Kind, r.GeneratedAt.Format("20060102"), format)
	return data, contentTypes[format], filename, nil
}

func (uc *UseCase) orders(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	statuses, err := order.ParseStatuses(req.Status)
	if err != nil {
		return nil, err
	}
	rows, err := uc.analytics.OrderReport(ctx, repository.OrderFilter{
		DateFilter: repository.DateFilter{From: req.From, To: req.To},
		Statuses:   statuses,
	})
	if err != nil {
		return nil, fmt.Errorf("report: pedidos: %w", err)
	}
	r := &dto.Report{
		Title:   "Laporan Pemesanan",
		Headers: []string{"No.", "Pedido", "Fecha", "Cliente", "Estado", "Total"},
		Rows:    make([][]string, 0, len(rows)),
	}
	total := decimal.Zero
	for i, row := range rows {
		r.Rows = append(r.Rows, []string{
			strconv.Itoa(i + 1),
			row.Number,
			row.Date.Format("02/01/2006"),
			row.CustomerName,
			row.Status,
			FormatMoney(row.Total),
		})
		total = total.Add(row.Total)
	}
	r.Footer = fmt.Sprintf("%d pedidos | Total %s", len(rows), FormatMoney(total))
	return r, nil
}

func (uc *UseCase) itemList(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	if req.Category != "" && !entity.ValidCategory(req.Category) {
		return nil, domain.NewValidationError("category", "categoría inválida")
	}
	items, err := uc.items.List(ctx, repository.ItemFilter{Category: req.Category})
	if err != nil {
		return nil, fmt.Errorf("report: items: %w", err)
	}
	r := &dto.Report{
		Title:   "Laporan Stok Barang",
		Headers: []string{"No.", "Nombre", "Categoría", "Unidad", "Precio", "Stock"},
		Rows:    make([][]string, 0, len(items)),
	}
	for i, it := range items {
		r.Rows = append(r.Rows, []string{
			strconv.Itoa(i + 1),
			it.Name,
			it.Category,
			it.Unit,
			FormatMoney(it.Price),
			strconv.Itoa(it.Stock),
		})
	}
	r.Footer = fmt.Sprintf("%d items", len(items))
	return r, nil
}

func (uc *UseCase) productions(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	rows, err := uc.analytics.ProductionReport(ctx, repository.DateFilter{From: req.From, To: req.To})
	if err != nil {
		return nil, fmt.Errorf("report: producción: %w", err)
	}
	r := &dto.Report{
		Title:   "Laporan Produksi",
		Headers: []string{"No.", "Fecha", "Tipo", "Cantidad", "Unidad", "Empleado", "Notas"},
		Rows:    make([][]string, 0, len(rows)),
	}
	perType := map[string]int{}
	var types []string
	for i, row := range rows {
		r.Rows = append(r.Rows, []string{
			strconv.Itoa(i + 1),
			row.Date.Format("02/01/2006"),
			row.ResultType,
			strconv.Itoa(row.Quantity),
			row.Unit,
			row.EmployeeName,
			row.Notes,
		})
		if _, ok := perType[row.ResultType]; !ok {
			types = append(types, row.ResultType)
		}
		perType[row.ResultType] += row.Quantity
	}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s: %d", t, perType[t]))
	}
	r.Footer = strings.Join(parts, " | ")
	return r, nil
}

func periodLabel(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return "Periodo " + from.Format("02/01/2006") + " - " + to.Format("02/01/2006")
	case from != nil:
		return "Desde " + from.Format("02/01/2006")
	case to != nil:
		return "Hasta " + to.Format("02/01/2006")
	}
	return "Todos los registros"
}

// FormatMoney formatea un monto en rupias con puntos de miles. Ej: 25000 → "Rp 25.000".
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	n := len(s)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if d.IsNegative() {
		return "-Rp " + string(buf)
	}
	return "Rp " + string(buf)
}
