package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/cart"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

const (
	sessionID  = "sess-1"
	customerID = "cus-1"
)

// spyNotifier registra los pedidos notificados.
type spyNotifier struct {
	placed []*entity.Order
	err    error
}

func (s *spyNotifier) OrderPlaced(_ context.Context, o *entity.Order, _ *entity.Customer) error {
	s.placed = append(s.placed, o)
	return s.err
}

type fixture struct {
	uc       *cart.UseCase
	orders   *order.UseCase
	items    *memory.ItemRepo
	sessions *memory.SessionStore
	notifier *spyNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ledger := inventory.NewLedger(nil, zerolog.Nop())
	orders := order.NewUseCase(tx, ledger, memory.NewOrderRepository(store), nil)
	items := memory.NewItemRepository(store)
	sessions := memory.NewSessionStore()
	notifier := &spyNotifier{}
	f := &fixture{
		uc:       cart.NewUseCase(sessions, items, tx, orders, notifier, zerolog.Nop()),
		orders:   orders,
		items:    items,
		sessions: sessions,
		notifier: notifier,
	}
	ctx := context.Background()
	require.NoError(t, memory.NewCustomerRepository(store).Create(ctx, &entity.Customer{
		ID: customerID, Name: "Sari", Address: "Jl. Kenanga 7", Username: "sari",
	}))
	require.NoError(t, items.Create(ctx, &entity.Item{
		ID: "tahu", Name: "Tahu", Category: entity.CategoryFinishedGood, Stock: 10, Price: decimal.NewFromInt(2000),
	}))
	require.NoError(t, items.Create(ctx, &entity.Item{
		ID: "tempe", Name: "Tempe", Category: entity.CategoryFinishedGood, Stock: 5, Price: decimal.NewFromInt(2500),
	}))
	require.NoError(t, items.Create(ctx, &entity.Item{
		ID: "kedelai", Name: "Kedelai", Category: entity.CategoryRawMaterial, Stock: 100, Price: decimal.NewFromInt(9000),
	}))
	return f
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return it.Stock
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	list, err := f.orders.List(context.Background(), dto.OrderListRequest{})
	require.NoError(t, err)
	return len(list)
}

// ──── Add / Update / Remove ──────────────────────────────────────────────────

func TestAdd_CombinaYValidaContraStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 6})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)

	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 5})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "6 + 5 supera el stock de 10")
	assert.Equal(t, 11, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Shortfall)

	out, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(20000).Equal(out.Total))
}

func TestAdd_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "kedelai", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la materia prima no se vende en tienda")

	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CantidadYEliminacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tempe", Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, sessionID, "tempe", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err := f.uc.Update(ctx, sessionID, "tempe", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Lines[0].Quantity)

	out, err = f.uc.Update(ctx, sessionID, "tempe", 0)
	require.NoError(t, err)
	assert.Empty(t, out.Lines)

	_, err = f.uc.Update(ctx, sessionID, "tempe", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Remove(ctx, sessionID, "tempe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestView_DescartaItemsEliminados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tempe", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, "tempe"))

	out, err := f.uc.View(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "tahu", out.Lines[0].ItemID)
	assert.True(t, decimal.NewFromInt(4000).Equal(out.Total))

	stored, err := f.sessions.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1, "el carrito limpio se guarda")
}

// ──── Checkout ───────────────────────────────────────────────────────────────

func TestCheckout_ConComprobante_DescuentaUnaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 3})
	require.NoError(t, err)
	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tempe", Quantity: 2})
	require.NoError(t, err)

	out, err := f.uc.Checkout(ctx, sessionID, customerID, dto.CheckoutRequest{
		ShippingAddress: "Jl. Mawar 3", PaymentProof: "bukti.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusProcessing, out.Status)
	assert.True(t, decimal.NewFromInt(3*2000+2*2500).Equal(out.Total))
	assert.Equal(t, 7, f.stock(t, "tahu"))
	assert.Equal(t, 3, f.stock(t, "tempe"))

	// un cambio posterior a un estado activo no vuelve a descontar
	_, err = f.orders.UpdateStatus(ctx, "emp-1", out.ID, entity.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, "tahu"))

	view, err := f.uc.View(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "el carrito se vacía tras el commit")
	assert.Len(t, f.notifier.placed, 1)
}

func TestCheckout_SinComprobante_EsperaPago(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 3})
	require.NoError(t, err)

	out, err := f.uc.Checkout(ctx, sessionID, customerID, dto.CheckoutRequest{ShippingAddress: "Jl. Mawar 3"})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusAwaitingPayment, out.Status)
	assert.Equal(t, 10, f.stock(t, "tahu"))
}

// Los pedidos sin comprobante no reservan stock: el segundo que paga sobre unidades ya
// tomadas se rechaza y sigue esperando pago.
func TestCheckout_SinComprobante_NoReservaYNoSobrevende(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for _, sess := range []string{"sess-a", "sess-b"} {
		_, err := f.uc.Add(ctx, sess, dto.AddToCartRequest{ItemID: "tahu", Quantity: 6})
		require.NoError(t, err)
		out, err := f.uc.Checkout(ctx, sess, customerID, dto.CheckoutRequest{ShippingAddress: "Jl. Mawar 3"})
		require.NoError(t, err)
		require.Equal(t, entity.OrderStatusAwaitingPayment, out.Status)
		ids = append(ids, out.ID)
	}
	assert.Equal(t, 10, f.stock(t, "tahu"))

	paid, err := f.orders.AttachPaymentProof(ctx, customerID, ids[0], "bukti-a.jpg")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, paid.Status)
	assert.Equal(t, 4, f.stock(t, "tahu"))

	_, err = f.orders.AttachPaymentProof(ctx, customerID, ids[1], "bukti-b.jpg")
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Shortfall)
	assert.Equal(t, 4, f.stock(t, "tahu"))

	second, err := f.orders.GetByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAwaitingPayment, second.Status)
	assert.Empty(t, second.PaymentProof)
}

// Un carrito desactualizado aborta el checkout completo: cero pedidos, stock intacto.
func TestCheckout_CarritoDesactualizado_CeroPedidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tempe", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 8})
	require.NoError(t, err)

	// otra venta deja el tahu en 5
	_, ok, err := f.items.AdjustStock(ctx, "tahu", -5)
	require.NoError(t, err)
	require.True(t, ok)

	for _, proof := range []string{"bukti.jpg", ""} {
		_, err = f.uc.Checkout(ctx, sessionID, customerID, dto.CheckoutRequest{
			ShippingAddress: "Jl. Mawar 3", PaymentProof: proof,
		})
		var stockErr *domain.InsufficientStockError
		require.True(t, errors.As(err, &stockErr), "comprobante=%q", proof)
		assert.Equal(t, "tahu", stockErr.ItemID)
		assert.Equal(t, 3, stockErr.Shortfall)
	}

	assert.Zero(t, f.orderCount(t))
	assert.Equal(t, 5, f.stock(t, "tahu"))
	assert.Equal(t, 5, f.stock(t, "tempe"), "la línea de tempe tampoco se descuenta")
	assert.Empty(t, f.notifier.placed)

	view, err := f.uc.View(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2, "el carrito se conserva si el checkout falla")
}

func TestCheckout_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Checkout(context.Background(), sessionID, customerID, dto.CheckoutRequest{ShippingAddress: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.orderCount(t))
}

func TestCheckout_FalloDeNotificacionNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp caído")
	ctx := context.Background()
	_, err := f.uc.Add(ctx, sessionID, dto.AddToCartRequest{ItemID: "tahu", Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, sessionID, customerID, dto.CheckoutRequest{ShippingAddress: "x", PaymentProof: "p.png"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.orderCount(t))
	assert.Equal(t, 9, f.stock(t, "tahu"))
}
