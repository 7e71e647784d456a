package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

// CustomerUseCase cuenta del cliente: perfil, historial de pedidos, gasto y avisos.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	analytics repository.AnalyticsRepository
	orders    *order.UseCase
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customers repository.CustomerRepository, analytics repository.AnalyticsRepository, orders *order.UseCase) *CustomerUseCase {
	return &CustomerUseCase{customers: customers, analytics: analytics, orders: orders}
}

// Profile devuelve los datos del cliente con su gasto total (pedidos COMPLETED).
func (uc *CustomerUseCase) Profile(ctx context.Context, customerID string) (*dto.CustomerResponse, error) {
	c, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := auth.ToCustomerResponse(c)
	if out.TotalSpent, err = uc.analytics.GetCustomerSpending(ctx, customerID); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile modifica nombre, dirección y teléfono. La contraseña no se toca aquí.
func (uc *CustomerUseCase) UpdateProfile(ctx context.Context, customerID string, in dto.CustomerUpdateRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "el nombre es requerido")
	}
	c, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Address = in.Address
	c.Phone = in.Phone
	c.UpdatedAt = time.Now()
	if err := uc.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.Profile(ctx, customerID)
}

// Orders historial de pedidos del cliente.
func (uc *CustomerUseCase) Orders(ctx context.Context, customerID string, page dto.PageRequest) ([]*dto.OrderResponse, error) {
	return uc.orders.List(ctx, dto.OrderListRequest{CustomerID: customerID, PageRequest: page})
}

// Order detalle de un pedido propio.
func (uc *CustomerUseCase) Order(ctx context.Context, customerID, orderID string) (*dto.OrderResponse, error) {
	return uc.orders.GetForCustomer(ctx, customerID, orderID)
}

// Notifications pedidos propios con costo de envío asignado que aún requieren acción o están en curso.
func (uc *CustomerUseCase) Notifications(ctx context.Context, customerID string) ([]dto.NotificationDTO, error) {
	list, err := uc.orders.List(ctx, dto.OrderListRequest{
		CustomerID:  customerID,
		Status:      entity.OrderStatusAwaitingPayment + "," + entity.OrderStatusProcessing,
		PageRequest: dto.PageRequest{Limit: 100},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationDTO, 0, len(list))
	for _, o := range list {
		if !o.ShippingCost.IsPositive() {
			continue
		}
		msg := "Pedido " + o.Number + ": costo de envío " + o.ShippingCost.StringFixed(0)
		if o.Status == entity.OrderStatusAwaitingPayment {
			msg += ", pendiente de pago"
		} else {
			msg += ", en proceso"
		}
		out = append(out, dto.NotificationDTO{
			OrderID:      o.ID,
			Number:       o.Number,
			Status:       o.Status,
			ShippingCost: o.ShippingCost,
			Message:      msg,
		})
	}
	return out, nil
}

// List lista clientes (personal).
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.customers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, auth.ToCustomerResponse(c))
	}
	return out, nil
}
