package dto

import "github.com/shopspring/decimal"

// AddToCartRequest agregar item al carrito.
type AddToCartRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// UpdateCartRequest nueva cantidad de una línea; <= 0 elimina la línea.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse línea del carrito con subtotal.
type CartLineResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse vista del carrito.
type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// CheckoutRequest datos de checkout. PaymentProof es la referencia del archivo ya almacenado.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" form:"shipping_address"`
	PaymentProof    string `json:"-" form:"-"`
}
