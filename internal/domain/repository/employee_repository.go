package repository

import (
	"context"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para empleados.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetByUsername(ctx context.Context, username string) (*entity.Employee, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	// Update modifica datos de perfil; nunca el hash de contraseña.
	Update(ctx context.Context, e *entity.Employee) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
