// Package order gestiona pedidos de clientes. El stock de un pedido solo se mueve
// a través de applyOrderStockEffect, al entrar o salir del conjunto de estados activos.
package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/trade"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	domaininv "github.com/jhoicas/produksi-api/internal/domain/inventory"
	orderstatus "github.com/jhoicas/produksi-api/internal/domain/order"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
	"github.com/jhoicas/produksi-api/pkg/idgen"
)

// Draft datos para crear un pedido dentro de una transacción existente.
type Draft struct {
	CustomerID      string
	Status          string
	ShippingAddress string
	ShippingCost    decimal.Decimal
	PaymentProof    string
	Notes           string
	Lines           []dto.TradeLineInput
	Source          string // origen de los movimientos: ORDER o CHECKOUT
}

// UseCase casos de uso de pedidos.
type UseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	repo     repository.OrderRepository
	ids      *idgen.Generator
	now      func() time.Time
}

// NewUseCase construye el caso de uso. ids nil usa el nodo 1.
func NewUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, repo repository.OrderRepository, ids *idgen.Generator) *UseCase {
	if ids == nil {
		ids = idgen.MustNew(1)
	}
	return &UseCase{txRunner: txRunner, ledger: ledger, repo: repo, ids: ids, now: time.Now}
}

// Ledger expone el ledger para publicar movimientos tras el commit de una tx externa.
func (uc *UseCase) Ledger() *inventory.Ledger { return uc.ledger }

// Create alta de pedido por personal. Un pedido creado ya activo descuenta stock.
func (uc *UseCase) Create(ctx context.Context, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var (
		o     *entity.Order
		moves []*entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		o, moves, err = uc.Place(ctx, r, actorID, Draft{
			CustomerID:      in.CustomerID,
			Status:          in.Status,
			ShippingAddress: in.ShippingAddress,
			ShippingCost:    in.ShippingCost,
			Notes:           in.Notes,
			Lines:           in.Lines,
			Source:          entity.MovementSourceOrder,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, o.ID)
}

// Place crea cabecera y líneas, recalcula el total y aplica el efecto de stock del estado inicial.
// Debe llamarse dentro de TxRunner.Run; los movimientos se publican tras el commit.
func (uc *UseCase) Place(ctx context.Context, r inventory.Repos, actorID string, d Draft) (*entity.Order, []*entity.StockMovement, error) {
	if d.Status == "" {
		d.Status = entity.OrderStatusAwaitingPayment
	}
	if !entity.ValidOrderStatus(d.Status) {
		return nil, nil, domain.NewValidationError("status", "estado de pedido desconocido")
	}
	if d.ShippingCost.IsNegative() {
		return nil, nil, domain.NewValidationError("shipping_cost", "el costo de envío no puede ser negativo")
	}
	if len(d.Lines) == 0 {
		return nil, nil, domain.NewValidationError("lines", "el pedido debe tener al menos una línea")
	}
	if d.Source == "" {
		d.Source = entity.MovementSourceOrder
	}
	customer, err := r.Customers.GetByID(ctx, d.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, domain.NewValidationError("customer_id", "cliente no encontrado")
	}

	now := uc.now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		Number:          uc.ids.OrderNumber(),
		Date:            now,
		CustomerID:      customer.ID,
		Status:          d.Status,
		Total:           decimal.Zero,
		ShippingCost:    d.ShippingCost,
		ShippingAddress: strings.TrimSpace(d.ShippingAddress),
		PaymentProof:    d.PaymentProof,
		Notes:           d.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if o.ShippingAddress == "" {
		o.ShippingAddress = customer.Address
	}
	if err := r.Orders.Create(ctx, o); err != nil {
		return nil, nil, err
	}
	lines, err := uc.createLines(ctx, r, o.ID, d.Lines)
	if err != nil {
		return nil, nil, err
	}
	o.Lines = lines
	if o.Total, err = trade.RecomputeTotal(ctx, r.Orders, o.ID); err != nil {
		return nil, nil, err
	}
	moves, err := uc.applyOrderStockEffect(ctx, r, o, "", o.Status, true, d.Source, actorID)
	if err != nil {
		return nil, nil, err
	}
	return o, moves, nil
}

// UpdateStatus cambia el estado comparando contra la fila bloqueada.
func (uc *UseCase) UpdateStatus(ctx context.Context, actorID, id, status string) (*dto.OrderResponse, error) {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		o, err := uc.lock(ctx, r, id)
		if err != nil {
			return err
		}
		moves, err = uc.transition(ctx, r, o, status, entity.MovementSourceOrder, actorID)
		if err != nil {
			return err
		}
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, id)
}

// SetShippingCost fija el costo de envío (administrador).
func (uc *UseCase) SetShippingCost(ctx context.Context, id string, cost decimal.Decimal) (*dto.OrderResponse, error) {
	if cost.IsNegative() {
		return nil, domain.NewValidationError("shipping_cost", "el costo de envío no puede ser negativo")
	}
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		o, err := uc.lock(ctx, r, id)
		if err != nil {
			return err
		}
		o.ShippingCost = cost
		o.UpdatedAt = uc.now()
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// UpdateLines reemplaza las líneas de un pedido que aún no está activo.
func (uc *UseCase) UpdateLines(ctx context.Context, id string, in dto.UpdateOrderLinesRequest) (*dto.OrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "el pedido debe tener al menos una línea")
	}
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		o, err := uc.lock(ctx, r, id)
		if err != nil {
			return err
		}
		if orderstatus.IsActive(o.Status) {
			return domain.NewValidationError("status", "no se pueden editar las líneas de un pedido "+o.Status)
		}
		if err := r.Orders.DeleteLines(ctx, id); err != nil {
			return err
		}
		if _, err := uc.createLines(ctx, r, id, in.Lines); err != nil {
			return err
		}
		_, err = trade.RecomputeTotal(ctx, r.Orders, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el pedido; si estaba activo devuelve su stock.
func (uc *UseCase) Delete(ctx context.Context, actorID, id string) error {
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		o, err := uc.lock(ctx, r, id)
		if err != nil {
			return err
		}
		moves, err = uc.applyOrderStockEffect(ctx, r, o, o.Status, entity.OrderStatusCancelled, false, entity.MovementSourceOrder, actorID)
		if err != nil {
			return err
		}
		if err := r.Orders.DeleteLines(ctx, id); err != nil {
			return err
		}
		return r.Orders.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.ledger.Publish(ctx, moves)
	return nil
}

// RecomputeTotal recalcula y persiste el total del pedido.
func (uc *UseCase) RecomputeTotal(ctx context.Context, id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var err error
		total, err = trade.RecomputeTotal(ctx, r.Orders, id)
		return err
	})
	return total, err
}

// AttachPaymentProof registra el comprobante de un pedido propio en AWAITING_PAYMENT
// y lo pasa a PROCESSING (descuenta stock).
func (uc *UseCase) AttachPaymentProof(ctx context.Context, customerID, id, proofRef string) (*dto.OrderResponse, error) {
	if proofRef == "" {
		return nil, domain.NewValidationError("payment_proof", "el comprobante es requerido")
	}
	var moves []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		o, err := uc.lock(ctx, r, id)
		if err != nil {
			return err
		}
		if o.CustomerID != customerID {
			return domain.ErrNotFound
		}
		if o.Status != entity.OrderStatusAwaitingPayment {
			return domain.NewValidationError("status", "el pedido no está esperando pago")
		}
		o.PaymentProof = proofRef
		moves, err = uc.transition(ctx, r, o, entity.OrderStatusProcessing, entity.MovementSourceOrder, customerID)
		if err != nil {
			return err
		}
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Publish(ctx, moves)
	return uc.GetByID(ctx, id)
}

// GetByID obtiene un pedido con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return ToResponse(o), nil
}

// GetForCustomer obtiene un pedido solo si pertenece al cliente.
func (uc *UseCase) GetForCustomer(ctx context.Context, customerID, id string) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return ToResponse(o), nil
}

// List lista pedidos. Status admite varios valores separados por coma.
func (uc *UseCase) List(ctx context.Context, in dto.OrderListRequest) ([]*dto.OrderResponse, error) {
	in.DefaultPage()
	filter := repository.OrderFilter{
		DateFilter: repository.DateFilter{From: in.From, To: in.To, Limit: in.Limit, Offset: in.Offset},
		CustomerID: in.CustomerID,
	}
	statuses, err := ParseStatuses(in.Status)
	if err != nil {
		return nil, err
	}
	filter.Statuses = statuses
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToResponse(o))
	}
	return out, nil
}

// ParseStatuses convierte "PROCESSING,SHIPPED" en una lista validada.
func ParseStatuses(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !entity.ValidOrderStatus(s) {
			return nil, domain.NewValidationError("status", "estado de pedido desconocido: "+s)
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *UseCase) lock(ctx context.Context, r inventory.Repos, id string) (*entity.Order, error) {
	o, err := r.Orders.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// transition valida y aplica el cambio de estado sobre o (sin persistir la cabecera).
func (uc *UseCase) transition(ctx context.Context, r inventory.Repos, o *entity.Order, status, source, actorID string) ([]*entity.StockMovement, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !orderstatus.CanTransition(o.Status, status) {
		return nil, domain.NewValidationError("status", "transición no permitida: "+o.Status+" → "+status)
	}
	moves, err := uc.applyOrderStockEffect(ctx, r, o, o.Status, status, false, source, actorID)
	if err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = uc.now()
	return moves, nil
}

// applyOrderStockEffect único punto donde un pedido mueve stock.
func (uc *UseCase) applyOrderStockEffect(ctx context.Context, r inventory.Repos, o *entity.Order, oldStatus, newStatus string, isNew bool, source, actorID string) ([]*entity.StockMovement, error) {
	sign := 0
	switch orderstatus.StockEffect(oldStatus, newStatus, isNew) {
	case orderstatus.EffectDeduct:
		sign = -1
	case orderstatus.EffectRestock:
		sign = 1
	default:
		return nil, nil
	}
	effects := make([]domaininv.Effect, 0, len(o.Lines))
	for _, l := range o.Lines {
		effects = append(effects, domaininv.Effect{ItemID: l.ItemID, Delta: sign * l.Quantity})
	}
	return uc.ledger.ApplyEffects(ctx, r, domaininv.Reconcile(nil, effects),
		entity.CategoryFinishedGood, source, o.ID, actorID)
}

func (uc *UseCase) createLines(ctx context.Context, r inventory.Repos, orderID string, inputs []dto.TradeLineInput) ([]*entity.TradeLine, error) {
	lines := make([]*entity.TradeLine, 0, len(inputs))
	for _, in := range inputs {
		in.ID = ""
		// en pedidos el subtotal siempre es precio × cantidad
		in.Subtotal = decimal.Zero
		l, err := trade.BuildLine(ctx, r, orderID, in)
		if err != nil {
			return nil, err
		}
		if err := r.Orders.CreateLine(ctx, l); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// ToResponse mapea un pedido a DTO.
func ToResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		Date:            o.Date,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		Total:           o.Total,
		ShippingCost:    o.ShippingCost,
		ShippingAddress: o.ShippingAddress,
		PaymentProof:    o.PaymentProof,
		Notes:           o.Notes,
		Lines:           trade.ToLineResponses(o.Lines),
	}
}
