package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// SeedAdmin crea un empleado administrador para el modo de desarrollo en memoria.
func SeedAdmin(ctx context.Context, s *Store, username, password string) (*entity.Employee, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &entity.Employee{
		ID:           uuid.New().String(),
		Name:         "Administrator",
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := NewEmployeeRepository(s).Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
