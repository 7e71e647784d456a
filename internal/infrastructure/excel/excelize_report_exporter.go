// Package excel exporta reportes tabulares a XLSX con excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/report"
)

const sheetName = "Laporan"

var _ report.Exporter = (*ExcelizeReportExporter)(nil)

// ExcelizeReportExporter implementa report.Exporter.
type ExcelizeReportExporter struct{}

// NewExcelizeReportExporter construye el exportador.
func NewExcelizeReportExporter() *ExcelizeReportExporter { return &ExcelizeReportExporter{} }

// Export escribe título y subtítulo en las filas 1-2, encabezados en la 4 y los datos desde la 5.
func (e *ExcelizeReportExporter) Export(_ context.Context, r *dto.Report) ([]byte, error) {
	if len(r.Headers) == 0 {
		return nil, fmt.Errorf("excel: reporte sin columnas")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo título: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"785414"}},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo encabezado: %w", err)
	}

	f.SetCellValue(sheetName, "A1", r.Title)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", r.Subtitle)

	const headerRow = 4
	for i, h := range r.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(r.Headers), headerRow)
	f.SetCellStyle(sheetName, first, last, headerStyle)

	for i, values := range r.Rows {
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	if r.Footer != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", headerRow+len(r.Rows)+2), r.Footer)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(r.Headers))
	f.SetColWidth(sheetName, "B", lastCol, 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
