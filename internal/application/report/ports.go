package report

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/application/dto"
)

// Formatos de salida soportados.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

// Exporter convierte un reporte tabular a un formato binario (PDF con Maroto, XLSX con excelize).
type Exporter interface {
	Export(ctx context.Context, r *dto.Report) ([]byte, error)
}
