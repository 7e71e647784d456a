package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusAwaitingPayment = "AWAITING_PAYMENT"
	OrderStatusProcessing      = "PROCESSING"
	OrderStatusShipped         = "SHIPPED"
	OrderStatusCompleted       = "COMPLETED"
	OrderStatusCancelled       = "CANCELLED"
)

// Order pedido de un cliente (pemesanan). El stock lo mueven solo las transiciones de estado.
type Order struct {
	ID              string
	Number          string
	Date            time.Time
	CustomerID      string
	Status          string
	Total           decimal.Decimal
	ShippingCost    decimal.Decimal
	ShippingAddress string
	PaymentProof    string // referencia al archivo almacenado
	Notes           string
	Lines           []*TradeLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidOrderStatus verifica que el estado exista.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
