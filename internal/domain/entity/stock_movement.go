package entity

import "time"

// Orígenes de un movimiento de stock.
const (
	MovementSourceProduction     = "PRODUCTION"
	MovementSourceProductionLine = "PRODUCTION_LINE"
	MovementSourcePurchase       = "PURCHASE"
	MovementSourceSale           = "SALE"
	MovementSourceOrder          = "ORDER"
	MovementSourceCheckout       = "CHECKOUT"
	MovementSourceAdjustment     = "ADJUSTMENT"
)

// StockMovement registro del diario de inventario: un ajuste no nulo aplicado por el ledger.
type StockMovement struct {
	ID        string
	ItemID    string
	Delta     int // positivo entrada, negativo salida
	Balance   int // stock resultante
	Source    string
	Reference string // ID de cabecera o línea que originó el ajuste
	CreatedBy string
	CreatedAt time.Time
}
