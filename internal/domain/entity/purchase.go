package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase compra de materias primas a un proveedor. Total siempre se deriva de las líneas.
type Purchase struct {
	ID           string
	Date         time.Time
	SupplierName string
	Notes        string
	EmployeeID   string
	Total        decimal.Decimal
	Lines        []*TradeLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sale venta directa registrada por personal. Total siempre se deriva de las líneas.
type Sale struct {
	ID         string
	Date       time.Time
	CustomerID string
	Notes      string
	EmployeeID string
	Total      decimal.Decimal
	Lines      []*TradeLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TradeLine línea de compra, venta o pedido (item, cantidad, precio, subtotal).
type TradeLine struct {
	ID        string
	HeaderID  string
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ComputeSubtotal fija Subtotal = UnitPrice × Quantity cuando no viene informado.
func (l *TradeLine) ComputeSubtotal() {
	if l.Subtotal.IsZero() {
		l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	}
}

// SumSubtotals suma los subtotales de un conjunto de líneas.
func SumSubtotals(lines []*TradeLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}
