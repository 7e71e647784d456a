package repository

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByUsername(ctx context.Context, username string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	// Update modifica datos de perfil; nunca el hash de contraseña.
	Update(ctx context.Context, c *entity.Customer) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
