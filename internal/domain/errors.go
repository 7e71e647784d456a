package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrDuplicateCredential = errors.New("el usuario ya está registrado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
)

// ValidationError error de validación con el campo afectado. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError rechazo del ledger: el ajuste dejaría el stock en negativo.
// errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int
	Requested int // unidades que se intentó descontar
	Shortfall int
}

// NewInsufficientStockError calcula el faltante a partir de lo disponible y lo solicitado.
func NewInsufficientStockError(itemID, itemName string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ItemID:    itemID,
		ItemName:  itemName,
		Available: available,
		Requested: requested,
		Shortfall: requested - available,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock de %s insuficiente: disponible %d, requerido %d (faltan %d)",
		e.ItemName, e.Available, e.Requested, e.Shortfall)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
