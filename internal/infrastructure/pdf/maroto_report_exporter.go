// Package pdf genera los reportes de la tienda en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Título + periodo           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: encabezados con fondo + una fila por registro       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: totales + fecha de generación                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/report"
)

var _ report.Exporter = (*MarotoReportExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 84, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 245, Green: 240, Blue: 230}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// MarotoReportExporter implementa report.Exporter usando Maroto v2.
type MarotoReportExporter struct {
	shopName string
}

// NewMarotoReportExporter construye el exportador con el nombre de la tienda para el encabezado.
func NewMarotoReportExporter(shopName string) *MarotoReportExporter {
	return &MarotoReportExporter{shopName: nonEmpty(shopName, "Produksi")}
}

// Export genera el PDF y devuelve sus bytes.
func (g *MarotoReportExporter) Export(_ context.Context, r *dto.Report) ([]byte, error) {
	if len(r.Headers) == 0 {
		return nil, fmt.Errorf("pdf: reporte sin columnas")
	}
	widths := columnWidths(len(r.Headers))
	grid := 0
	for _, w := range widths {
		grid += w
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(grid).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(r.Title, true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.shopName, r, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(3))

	m.AddRows(tableHeaderRow(r.Headers, widths))
	m.AddRows(tableRows(r.Rows, widths)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(r, grid))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y título + periodo (der).
func headerRow(shop string, r *dto.Report, grid int) core.Row {
	left := grid / 2
	return row.New(16).Add(
		col.New(left).Add(
			text.New(shop, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(grid-left).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(r.Subtitle, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: encabezados en blanco sobre el color primario.
func tableHeaderRow(headers []string, widths []int) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, col.New(widths[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por registro, con franjas alternas.
func tableRows(rows [][]string, widths []int) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for i, values := range rows {
		cols := make([]core.Col, 0, len(widths))
		for j := range widths {
			v := ""
			if j < len(values) {
				v = values[j]
			}
			cols = append(cols, col.New(widths[j]).Add(text.New(v, props.Text{
				Size: 8, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(6).Add(cols...)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, r)
	}
	return out
}

// footerRow: resumen del reporte y fecha de generación.
func footerRow(r *dto.Report, grid int) core.Row {
	left := grid * 2 / 3
	return row.New(10).Add(
		col.New(left).Add(text.New(r.Footer, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Color: colorPrimary,
		})),
		col.New(grid-left).Add(text.New("Dicetak "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 7, Align: align.Right, Top: 3, Color: colorGray,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnWidths: la primera columna (No.) es angosta, el resto comparte el ancho.
func columnWidths(n int) []int {
	widths := make([]int, n)
	for i := range widths {
		widths[i] = 3
	}
	widths[0] = 1
	return widths
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
