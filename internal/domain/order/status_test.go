package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/order"
)

func TestStockEffect_Transiciones(t *testing.T) {
	cases := []struct {
		name     string
		old, new string
		isNew    bool
		want     order.Effect
	}{
		{"nuevo directo en proceso descuenta", "", entity.OrderStatusProcessing, true, order.EffectDeduct},
		{"nuevo esperando pago no mueve", "", entity.OrderStatusAwaitingPayment, true, order.EffectNone},
		{"nuevo completado descuenta", "", entity.OrderStatusCompleted, true, order.EffectDeduct},
		{"pago confirmado descuenta", entity.OrderStatusAwaitingPayment, entity.OrderStatusProcessing, false, order.EffectDeduct},
		{"proceso a enviado no mueve", entity.OrderStatusProcessing, entity.OrderStatusShipped, false, order.EffectNone},
		{"enviado a completado no mueve", entity.OrderStatusShipped, entity.OrderStatusCompleted, false, order.EffectNone},
		{"activo a cancelado devuelve", entity.OrderStatusShipped, entity.OrderStatusCancelled, false, order.EffectRestock},
		{"esperando pago a cancelado no mueve", entity.OrderStatusAwaitingPayment, entity.OrderStatusCancelled, false, order.EffectNone},
		{"cancelado reactivado descuenta", entity.OrderStatusCancelled, entity.OrderStatusProcessing, false, order.EffectDeduct},
		{"mismo estado activo no mueve", entity.OrderStatusProcessing, entity.OrderStatusProcessing, false, order.EffectNone},
		{"mismo estado cancelado no mueve", entity.OrderStatusCancelled, entity.OrderStatusCancelled, false, order.EffectNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, order.StockEffect(tc.old, tc.new, tc.isNew))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, order.CanTransition(entity.OrderStatusAwaitingPayment, entity.OrderStatusProcessing))
	assert.True(t, order.CanTransition(entity.OrderStatusCancelled, entity.OrderStatusAwaitingPayment))
	assert.False(t, order.CanTransition(entity.OrderStatusCompleted, entity.OrderStatusAwaitingPayment),
		"un pedido activo no vuelve a esperar pago")
	assert.False(t, order.CanTransition(entity.OrderStatusProcessing, "DESCONOCIDO"))
}
