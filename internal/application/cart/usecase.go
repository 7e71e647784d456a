// Package cart implementa el carrito de sesión del cliente y el checkout.
package cart

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// UseCase operaciones del carrito.
type UseCase struct {
	carts    ports.CartStore
	items    repository.ItemRepository
	txRunner inventory.TxRunner
	orders   *order.UseCase
	notifier ports.OrderNotifier
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. notifier nil no envía avisos.
func NewUseCase(carts ports.CartStore, items repository.ItemRepository, txRunner inventory.TxRunner,
	orders *order.UseCase, notifier ports.OrderNotifier, log zerolog.Logger) *UseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &UseCase{carts: carts, items: items, txRunner: txRunner, orders: orders, notifier: notifier, log: log}
}

// Add agrega qty unidades de un producto terminado; al combinar se revalida contra el stock.
func (uc *UseCase) Add(ctx context.Context, sessionID string, in dto.AddToCartRequest) (*dto.CartResponse, error) {
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser al menos 1")
	}
	item, err := uc.finishedGood(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	c, err := uc.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	want := in.Quantity
	if existing, ok := c.Lines[item.ID]; ok {
		want += existing.Quantity
	}
	if want > item.Stock {
		return nil, domain.NewInsufficientStockError(item.ID, item.Name, item.Stock, want)
	}
	line, ok := c.Lines[item.ID]
	if !ok {
		line = &entity.CartLine{ItemID: item.ID, Name: item.Name, UnitPrice: item.Price}
		c.Lines[item.ID] = line
	}
	line.Quantity = want
	line.StockSnapshot = item.Stock
	if err := uc.carts.SaveCart(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Update fija la cantidad de una línea existente; qty <= 0 la elimina.
func (uc *UseCase) Update(ctx context.Context, sessionID, itemID string, qty int) (*dto.CartResponse, error) {
	c, err := uc.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	line, ok := c.Lines[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if qty <= 0 {
		delete(c.Lines, itemID)
	} else {
		item, err := uc.items.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if qty > item.Stock {
			return nil, domain.NewInsufficientStockError(item.ID, item.Name, item.Stock, qty)
		}
		line.Quantity = qty
		line.StockSnapshot = item.Stock
	}
	if err := uc.carts.SaveCart(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Remove quita una línea del carrito.
func (uc *UseCase) Remove(ctx context.Context, sessionID, itemID string) (*dto.CartResponse, error) {
	c, err := uc.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Lines[itemID]; !ok {
		return nil, domain.ErrNotFound
	}
	delete(c.Lines, itemID)
	if err := uc.carts.SaveCart(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// View devuelve el carrito descartando líneas cuyo item ya no existe.
func (uc *UseCase) View(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	c, err := uc.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	dirty := false
	for id, line := range c.Lines {
		item, err := uc.items.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			delete(c.Lines, id)
			dirty = true
			continue
		}
		line.StockSnapshot = item.Stock
	}
	if dirty {
		if err := uc.carts.SaveCart(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}
	return toResponse(c), nil
}

// Checkout crea el pedido en una sola transacción. Con comprobante de pago el pedido
// nace en PROCESSING y la máquina de estados descuenta el stock; cualquier faltante
// aborta sin crear pedido. El carrito se vacía solo tras el commit.
func (uc *UseCase) Checkout(ctx context.Context, sessionID, customerID string, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	c, err := uc.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domain.NewValidationError("cart", "el carrito está vacío")
	}
	status := entity.OrderStatusAwaitingPayment
	if in.PaymentProof != "" {
		status = entity.OrderStatusProcessing
	}
	lines := sortedLines(c)
	inputs := make([]dto.TradeLineInput, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, dto.TradeLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	var (
		placed   *entity.Order
		customer *entity.Customer
		moves    []*entity.StockMovement
	)
	err = uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		// stock vivo: un carrito desactualizado no genera pedido aunque aún no se descuente
		for _, l := range lines {
			item, err := r.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.NewValidationError("cart", "el producto "+l.Name+" ya no existe")
			}
			if l.Quantity > item.Stock {
				return domain.NewInsufficientStockError(item.ID, item.Name, item.Stock, l.Quantity)
			}
		}
		var err error
		placed, moves, err = uc.orders.Place(ctx, r, customerID, order.Draft{
			CustomerID:      customerID,
			Status:          status,
			ShippingAddress: in.ShippingAddress,
			PaymentProof:    in.PaymentProof,
			Lines:           inputs,
			Source:          entity.MovementSourceCheckout,
		})
		if err != nil {
			return err
		}
		customer, err = r.Customers.GetByID(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.orders.Ledger().Publish(ctx, moves)
	if err := uc.carts.ClearCart(ctx, sessionID); err != nil {
		uc.log.Warn().Err(err).Str("session", sessionID).Msg("vaciar carrito tras checkout")
	}
	if err := uc.notifier.OrderPlaced(ctx, placed, customer); err != nil {
		uc.log.Warn().Err(err).Str("order", placed.Number).Msg("notificar pedido nuevo")
	}
	return order.ToResponse(placed), nil
}

func (uc *UseCase) finishedGood(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.IsFinishedGood() {
		return nil, domain.NewValidationError("item_id", "solo se pueden pedir productos terminados")
	}
	return item, nil
}

func sortedLines(c *entity.Cart) []*entity.CartLine {
	out := make([]*entity.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toResponse(c *entity.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{Lines: []dto.CartLineResponse{}, Total: decimal.Zero}
	for _, l := range sortedLines(c) {
		sub := l.Subtotal()
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Stock:     l.StockSnapshot,
			Subtotal:  sub,
		})
		resp.Total = resp.Total.Add(sub)
	}
	return resp
}
