package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de Item.
const (
	CategoryRawMaterial  = "RAW_MATERIAL"  // bahan baku
	CategoryFinishedGood = "FINISHED_GOOD" // produk jadi
)

// Item representa una materia prima o un producto terminado con su contador de stock.
// Stock solo lo modifica el ledger de inventario; los updates de catálogo no lo tocan.
type Item struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal // precio unitario
	Stock     int
	Unit      string // unidad de medida (kg, buah, ...)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRawMaterial indica si el item es materia prima.
func (i *Item) IsRawMaterial() bool { return i.Category == CategoryRawMaterial }

// IsFinishedGood indica si el item es producto terminado.
func (i *Item) IsFinishedGood() bool { return i.Category == CategoryFinishedGood }

// ValidCategory verifica que la categoría sea una de las conocidas.
func ValidCategory(c string) bool {
	return c == CategoryRawMaterial || c == CategoryFinishedGood
}

// NormalizeItemName recorta espacios; la comparación de nombres es sin distinguir mayúsculas.
func NormalizeItemName(name string) string {
	return strings.TrimSpace(name)
}
