package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeLineInput línea de compra, venta o pedido. ID vacío = línea nueva.
// UnitPrice cero toma el precio del item; Subtotal cero se calcula como precio × cantidad.
type TradeLineInput struct {
	ID        string          `json:"id,omitempty"`
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseRequest alta o edición de compra.
type PurchaseRequest struct {
	Date         *time.Time       `json:"date,omitempty"`
	SupplierName string           `json:"supplier_name" validate:"required,max=100"`
	Notes        string           `json:"notes"`
	Lines        []TradeLineInput `json:"lines" validate:"dive"`
}

// SaleRequest alta o edición de venta directa.
type SaleRequest struct {
	Date       *time.Time       `json:"date,omitempty"`
	CustomerID string           `json:"customer_id"`
	Notes      string           `json:"notes"`
	Lines      []TradeLineInput `json:"lines" validate:"dive"`
}

// TradeLineResponse salida de una línea.
type TradeLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string              `json:"id"`
	Date         time.Time           `json:"date"`
	SupplierName string              `json:"supplier_name"`
	Notes        string              `json:"notes"`
	EmployeeID   string              `json:"employee_id"`
	Total        decimal.Decimal     `json:"total"`
	Lines        []TradeLineResponse `json:"lines"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID         string              `json:"id"`
	Date       time.Time           `json:"date"`
	CustomerID string              `json:"customer_id"`
	Notes      string              `json:"notes"`
	EmployeeID string              `json:"employee_id"`
	Total      decimal.Decimal     `json:"total"`
	Lines      []TradeLineResponse `json:"lines"`
}
