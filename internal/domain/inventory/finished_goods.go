package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// FinishedGoodDefaults valores con los que se crea un producto terminado la primera vez que se produce.
type FinishedGoodDefaults struct {
	Name  string
	Price decimal.Decimal
	Unit  string
}

var finishedGoodCatalog = map[string]FinishedGoodDefaults{
	entity.ResultTahu:  {Name: "Tahu", Price: decimal.NewFromInt(2000), Unit: "buah"},
	entity.ResultTempe: {Name: "Tempe", Price: decimal.NewFromInt(2500), Unit: "buah"},
}

// LookupFinishedGood devuelve los valores por defecto del tipo de resultado (sin distinguir mayúsculas).
func LookupFinishedGood(resultType string) (FinishedGoodDefaults, bool) {
	d, ok := finishedGoodCatalog[strings.ToUpper(strings.TrimSpace(resultType))]
	return d, ok
}

// NormalizeResultType normaliza el tipo de resultado a mayúsculas.
func NormalizeResultType(resultType string) string {
	return strings.ToUpper(strings.TrimSpace(resultType))
}
