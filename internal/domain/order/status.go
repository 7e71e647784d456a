// Package order contiene la máquina de estados del pedido y su efecto sobre el stock
// (servicio de dominio puro, sin dependencias de persistencia).
package order

import "github.com/jhoicas/produksi-api/internal/domain/entity"

// Effect efecto de una transición de estado sobre el stock de productos terminados.
type Effect int

const (
	EffectNone    Effect = iota // sin movimiento
	EffectDeduct                // descontar cada línea de producto terminado
	EffectRestock               // devolver cada línea al stock
)

// IsActive indica si el estado pertenece al conjunto activo (el stock ya fue descontado).
func IsActive(status string) bool {
	switch status {
	case entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusCompleted:
		return true
	}
	return false
}

// StockEffect devuelve el efecto de pasar de oldStatus a newStatus.
// Para un pedido nuevo (isNew) el estado anterior se trata como no activo.
func StockEffect(oldStatus, newStatus string, isNew bool) Effect {
	wasActive := !isNew && IsActive(oldStatus)
	if !isNew && oldStatus == newStatus {
		return EffectNone
	}
	if !wasActive && IsActive(newStatus) {
		return EffectDeduct
	}
	if wasActive && newStatus == entity.OrderStatusCancelled {
		return EffectRestock
	}
	return EffectNone
}

// CanTransition valida la transición. Un pedido activo no puede volver a
// AWAITING_PAYMENT sin pasar por cancelación.
func CanTransition(oldStatus, newStatus string) bool {
	if !entity.ValidOrderStatus(newStatus) {
		return false
	}
	if IsActive(oldStatus) && newStatus == entity.OrderStatusAwaitingPayment {
		return false
	}
	return true
}
