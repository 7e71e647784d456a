package entity

import "time"

// Customer cliente (pelanggan) con credenciales para la tienda.
type Customer struct {
	ID           string
	Name         string
	Address      string
	Phone        string
	Username     string
	PasswordHash string // bcrypt; solo lo cambia SetPassword
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
