package entity

import "time"

// Roles de sesión.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "karyawan"
	RoleCustomer = "pelanggan"
)

// Employee empleado (karyawan) que registra producción, compras y ventas.
type Employee struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string // bcrypt; solo lo cambia SetPassword
	Role         string // admin, karyawan
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
