package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest alta de pedido por personal.
type CreateOrderRequest struct {
	CustomerID      string           `json:"customer_id" validate:"required"`
	Status          string           `json:"status" validate:"omitempty,oneof=AWAITING_PAYMENT PROCESSING SHIPPED COMPLETED CANCELLED"`
	ShippingAddress string           `json:"shipping_address"`
	ShippingCost    decimal.Decimal  `json:"shipping_cost"`
	Notes           string           `json:"notes"`
	Lines           []TradeLineInput `json:"lines" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest cambio de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AWAITING_PAYMENT PROCESSING SHIPPED COMPLETED CANCELLED"`
}

// SetShippingCostRequest costo de envío fijado por el administrador.
type SetShippingCostRequest struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// UpdateOrderLinesRequest reemplazo del conjunto de líneas de un pedido no activo.
type UpdateOrderLinesRequest struct {
	Lines []TradeLineInput `json:"lines" validate:"required,min=1,dive"`
}

// OrderListRequest filtros de listado de pedidos.
type OrderListRequest struct {
	Status     string     `query:"status"`
	CustomerID string     `query:"customer_id"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"number"`
	Date            time.Time           `json:"date"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	ShippingAddress string              `json:"shipping_address"`
	PaymentProof    string              `json:"payment_proof,omitempty"`
	Notes           string              `json:"notes"`
	Lines           []TradeLineResponse `json:"lines"`
}
