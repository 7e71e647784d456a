package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de sujeto de una sesión.
const (
	SubjectEmployee = "employee"
	SubjectCustomer = "customer"
)

// Session sesión de servidor asociada al token; guarda el carrito del cliente.
type Session struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Kind      string    `json:"kind"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CartLine línea del carrito con snapshot de nombre, precio y stock al momento de agregar.
type CartLine struct {
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	StockSnapshot int             `json:"stock_snapshot"`
}

// Subtotal precio snapshot × cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito de una sesión, indexado por ItemID.
type Cart struct {
	Lines map[string]*CartLine `json:"lines"`
}

// NewCart construye un carrito vacío.
func NewCart() *Cart {
	return &Cart{Lines: map[string]*CartLine{}}
}

// IsEmpty indica si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool { return c == nil || len(c.Lines) == 0 }
