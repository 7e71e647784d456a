package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
)

func TestEmployeeCreate(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewEmployeeRepository(store)
	uc := usecase.NewEmployeeUseCase(repo)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateEmployeeRequest{Name: "Agus", Username: "agus", Password: "secret6"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, out.Role, "rol por defecto karyawan")

	stored, err := repo.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "secret6"))

	_, err = uc.Create(ctx, dto.CreateEmployeeRequest{Name: "Otro", Username: "AGUS", Password: "secret6"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCredential)

	_, err = uc.Create(ctx, dto.CreateEmployeeRequest{Name: "X", Username: "x", Password: "secret6", Role: "pelanggan"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
