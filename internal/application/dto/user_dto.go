package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest entrada para login de empleados y clientes.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y datos de la sesión.
type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerRegisterRequest registro de cliente (pelanggan).
type CustomerRegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Address         string `json:"address" validate:"required"`
	Phone           string `json:"phone" validate:"required,max=20"`
	Username        string `json:"username" validate:"required,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// CustomerUpdateRequest actualización de perfil del cliente (sin contraseña).
type CustomerUpdateRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required,max=20"`
}

// ChangePasswordRequest cambio de contraseña con verificación de la actual.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SetPasswordRequest fijación administrativa de contraseña.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// CustomerResponse salida de un cliente (sin hash).
type CustomerResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Phone      string          `json:"phone"`
	Username   string          `json:"username"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateEmployeeRequest alta de empleado (la contraseña se hashea en el use case).
type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin karyawan"`
}

// EmployeeResponse salida de un empleado (sin hash).
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
