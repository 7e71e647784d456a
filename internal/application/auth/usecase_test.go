package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
	"github.com/jhoicas/produksi-api/pkg/jwt"
)

const testSecret = "test-secret"

type fixture struct {
	uc        *auth.AuthUseCase
	store     *memory.Store
	customers *memory.CustomerRepo
	sessions  *memory.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	customers := memory.NewCustomerRepository(store)
	f := &fixture{
		uc: auth.NewAuthUseCase(memory.NewEmployeeRepository(store), customers, sessions, sessions,
			auth.JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "produksi-api"}),
		store:     store,
		customers: customers,
		sessions:  sessions,
	}
	_, err := memory.SeedAdmin(context.Background(), store, "admin", "rahasia123")
	require.NoError(t, err)
	return f
}

func (f *fixture) register(t *testing.T, username, password string) *dto.CustomerResponse {
	t.Helper()
	out, err := f.uc.RegisterCustomer(context.Background(), dto.CustomerRegisterRequest{
		Name: "Dewi", Address: "Jl. Anggrek 2", Phone: "0812", Username: username,
		Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return out
}

// ──── Registro ───────────────────────────────────────────────────────────────

func TestRegisterCustomer_HasheaYNoExponeHash(t *testing.T) {
	f := newFixture(t)
	out := f.register(t, "dewi", "secret6")

	stored, err := f.customers.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret6", stored.PasswordHash)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "secret6"))
}

func TestRegisterCustomer_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dewi", "secret6")
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CustomerRegisterRequest
		want error
	}{
		{"confirmación distinta", dto.CustomerRegisterRequest{Name: "A", Username: "a", Password: "secret6", ConfirmPassword: "secret7"}, domain.ErrInvalidInput},
		{"contraseña corta", dto.CustomerRegisterRequest{Name: "A", Username: "a", Password: "123", ConfirmPassword: "123"}, domain.ErrInvalidInput},
		{"usuario vacío", dto.CustomerRegisterRequest{Name: "A", Username: " ", Password: "secret6", ConfirmPassword: "secret6"}, domain.ErrInvalidInput},
		{"usuario repetido", dto.CustomerRegisterRequest{Name: "A", Username: "dewi", Password: "secret6", ConfirmPassword: "secret6"}, domain.ErrDuplicateCredential},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RegisterCustomer(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──── Login / logout ─────────────────────────────────────────────────────────

func TestLoginEmployee_TokenConSesion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.LoginEmployee(ctx, dto.LoginRequest{Username: "admin", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	sub, sess, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, sub)
	assert.Equal(t, out.SessionID, sess)
	assert.Equal(t, entity.RoleAdmin, role)

	s, err := f.uc.Session(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, entity.SubjectEmployee, s.Kind)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dewi", "secret6")
	ctx := context.Background()

	_, err := f.uc.LoginEmployee(ctx, dto.LoginRequest{Username: "admin", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.LoginEmployee(ctx, dto.LoginRequest{Username: "dewi", Password: "secret6"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un cliente no entra como empleado")
	_, err = f.uc.LoginCustomer(ctx, dto.LoginRequest{Username: "nadie", Password: "secret6"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_BorraSesionYCarrito(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dewi", "secret6")
	ctx := context.Background()

	out, err := f.uc.LoginCustomer(ctx, dto.LoginRequest{Username: "dewi", Password: "secret6"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, out.Role)

	cart := entity.NewCart()
	cart.Lines["tahu"] = &entity.CartLine{ItemID: "tahu", Quantity: 2}
	require.NoError(t, f.sessions.SaveCart(ctx, out.SessionID, cart))

	require.NoError(t, f.uc.Logout(ctx, out.SessionID))

	_, err = f.uc.Session(ctx, out.SessionID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	got, err := f.sessions.GetCart(ctx, out.SessionID)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

// ──── Contraseñas ────────────────────────────────────────────────────────────

func TestChangeCustomerPassword(t *testing.T) {
	f := newFixture(t)
	c := f.register(t, "dewi", "secret6")
	ctx := context.Background()

	err := f.uc.ChangeCustomerPassword(ctx, c.ID, dto.ChangePasswordRequest{OldPassword: "mal", NewPassword: "nuevo123", ConfirmPassword: "nuevo123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.ChangeCustomerPassword(ctx, c.ID, dto.ChangePasswordRequest{OldPassword: "secret6", NewPassword: "nuevo123", ConfirmPassword: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.uc.ChangeCustomerPassword(ctx, c.ID, dto.ChangePasswordRequest{OldPassword: "secret6", NewPassword: "nuevo123", ConfirmPassword: "nuevo123"}))

	_, err = f.uc.LoginCustomer(ctx, dto.LoginRequest{Username: "dewi", Password: "secret6"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.LoginCustomer(ctx, dto.LoginRequest{Username: "dewi", Password: "nuevo123"})
	assert.NoError(t, err)
}

// Un guardado de perfil nunca re-hashea ni altera la contraseña.
func TestPerfil_NoTocaHash(t *testing.T) {
	f := newFixture(t)
	c := f.register(t, "dewi", "secret6")
	ctx := context.Background()

	stored, err := f.customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	before := stored.PasswordHash

	stored.Name = "Dewi Lestari"
	stored.PasswordHash = "texto-plano"
	require.NoError(t, f.customers.Update(ctx, stored))

	after, err := f.customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", after.Name)
	assert.Equal(t, before, after.PasswordHash)
}

func TestSetEmployeePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, err := memory.NewEmployeeRepository(f.store).GetByUsername(ctx, "admin")
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.SetEmployeePassword(ctx, admin.ID, "123"), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.uc.SetEmployeePassword(ctx, "nadie", "secret6"), domain.ErrNotFound)

	require.NoError(t, f.uc.SetEmployeePassword(ctx, admin.ID, "baru1234"))
	_, err = f.uc.LoginEmployee(ctx, dto.LoginRequest{Username: "admin", Password: "baru1234"})
	assert.NoError(t, err)
}
