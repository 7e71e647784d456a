package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de item. InitialStock entra por el ledger como ajuste.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Category     string          `json:"category" validate:"required,oneof=RAW_MATERIAL FINISHED_GOOD"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	InitialStock int             `json:"initial_stock" validate:"min=0"`
}

// UpdateItemRequest actualización de catálogo (el stock no se modifica aquí).
type UpdateItemRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit" validate:"required,max=20"`
}

// AdjustStockRequest ajuste manual de stock (delta con signo).
type AdjustStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Notes string `json:"notes"`
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockMovementResponse entrada del diario de stock.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Delta     int       `json:"delta"`
	Balance   int       `json:"balance"`
	Source    string    `json:"source"`
	Reference string    `json:"reference"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
