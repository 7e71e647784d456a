package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/infrastructure/pdf"
)

func TestExport_GeneraPDF(t *testing.T) {
	exp := pdf.NewMarotoReportExporter("Tahu Tempe Makmur")

	data, err := exp.Export(context.Background(), &dto.Report{
		Title:    "Laporan Produksi",
		Subtitle: "Todos los registros",
		Headers:  []string{"No.", "Fecha", "Tipo", "Cantidad"},
		Rows: [][]string{
			{"1", "01/02/2026", "TAHU", "50"},
			{"2", "02/02/2026", "TEMPE", "30"},
		},
		Footer:      "TAHU: 50 | TEMPE: 30",
		GeneratedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestExport_SinColumnas(t *testing.T) {
	_, err := pdf.NewMarotoReportExporter("").Export(context.Background(), &dto.Report{Title: "x"})
	assert.Error(t, err)
}
