// seed_items importa el catálogo de materias primas y productos desde una exportación CSV
// de la hoja de cálculo heredada (separador ';', codificación Windows-1252).
//
// Uso: go run ./cmd/seed_items [ruta/items.csv]
// Por defecto busca items.csv en el directorio actual. Columnas: nombre;categoría;unidad;precio;stock.
// El stock inicial entra por el ledger como ajuste; los nombres ya existentes se omiten.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/produksi-api/pkg/config"
)

func main() {
	csvPath := "items.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	items, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	ledger := inventory.NewLedger(nil, zerolog.Nop())
	repos := postgres.NewRepos(pool)
	uc := inventory.NewItemUseCase(postgres.NewTxRunner(pool), ledger, repos.Items, repos.Movements)

	var created, skipped int
	for _, in := range items {
		_, err := uc.Create(ctx, "", in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			fmt.Fprintf(os.Stderr, "Item %q: %v\n", in.Name, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Importado %s: %d items nuevos, %d ya existían\n", csvPath, created, skipped)
}

// parseCatalog decodifica Windows-1252 y convierte cada fila en una solicitud de alta.
// La primera fila es encabezado; las filas vacías se ignoran.
func parseCatalog(r io.Reader) ([]dto.CreateItemRequest, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreateItemRequest
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 || len(rec) == 0 || strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban 5 columnas, hay %d", line, len(rec))
		}
		category, err := parseCategory(rec[1])
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		price, err := parseRupiah(rec[3])
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[3], err)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock %q inválido", line, rec[4])
		}
		out = append(out, dto.CreateItemRequest{
			Name:         strings.TrimSpace(rec[0]),
			Category:     category,
			Unit:         strings.TrimSpace(rec[2]),
			Price:        price,
			InitialStock: stock,
		})
	}
	return out, nil
}

func parseCategory(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BAHAN BAKU", entity.CategoryRawMaterial:
		return entity.CategoryRawMaterial, nil
	case "PRODUK", "BARANG JADI", entity.CategoryFinishedGood:
		return entity.CategoryFinishedGood, nil
	}
	return "", fmt.Errorf("categoría %q desconocida", s)
}

// parseRupiah acepta "Rp 12.500", "12500" o "12.500,50".
func parseRupiah(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), ".")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
