package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
	"github.com/jhoicas/produksi-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro de clientes, login, logout y contraseñas.
type AuthUseCase struct {
	employees repository.EmployeeRepository
	customers repository.CustomerRepository
	sessions  ports.SessionStore
	carts     ports.CartStore
	jwtCfg    JWTConfig
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employees repository.EmployeeRepository, customers repository.CustomerRepository,
	sessions ports.SessionStore, carts ports.CartStore, jwtCfg JWTConfig) *AuthUseCase {
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = 60
	}
	return &AuthUseCase{
		employees: employees,
		customers: customers,
		sessions:  sessions,
		carts:     carts,
		jwtCfg:    jwtCfg,
		now:       time.Now,
	}
}

// LoginEmployee verifica usuario/contraseña de un empleado y abre una sesión.
func (uc *AuthUseCase) LoginEmployee(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := uc.employees.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := CheckPassword(emp.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	return uc.openSession(ctx, emp.ID, entity.SubjectEmployee, emp.Role, emp.Name)
}

// LoginCustomer verifica usuario/contraseña de un cliente y abre una sesión.
func (uc *AuthUseCase) LoginCustomer(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	c, err := uc.customers.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := CheckPassword(c.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	return uc.openSession(ctx, c.ID, entity.SubjectCustomer, entity.RoleCustomer, c.Name)
}

// RegisterCustomer crea un cliente: valida confirmación, hashea con bcrypt y persiste.
// Devuelve ErrDuplicateCredential si el usuario ya existe.
func (uc *AuthUseCase) RegisterCustomer(ctx context.Context, in dto.CustomerRegisterRequest) (*dto.CustomerResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.NewValidationError("username", "el usuario es requerido")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "el nombre es requerido")
	}
	if err := confirmMatches(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	existing, err := uc.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCredential
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Address:      in.Address,
		Phone:        in.Phone,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// Logout elimina la sesión y el carrito asociado.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.carts.ClearCart(ctx, sessionID); err != nil {
		return err
	}
	return uc.sessions.DeleteSession(ctx, sessionID)
}

// Session devuelve la sesión vigente o ErrUnauthorized.
func (uc *AuthUseCase) Session(ctx context.Context, sessionID string) (*entity.Session, error) {
	s, err := uc.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.ExpiresAt.After(uc.now()) {
		return nil, domain.ErrUnauthorized
	}
	return s, nil
}

// SetEmployeePassword fija una contraseña nueva (operación de administrador).
func (uc *AuthUseCase) SetEmployeePassword(ctx context.Context, employeeID, plain string) error {
	emp, err := uc.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp == nil {
		return domain.ErrNotFound
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	return uc.employees.UpdatePasswordHash(ctx, employeeID, hash)
}

// SetCustomerPassword fija una contraseña nueva para un cliente.
func (uc *AuthUseCase) SetCustomerPassword(ctx context.Context, customerID, plain string) error {
	c, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	return uc.customers.UpdatePasswordHash(ctx, customerID, hash)
}

// ChangeCustomerPassword cambia la contraseña verificando la actual.
func (uc *AuthUseCase) ChangeCustomerPassword(ctx context.Context, customerID string, in dto.ChangePasswordRequest) error {
	c, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := CheckPassword(c.PasswordHash, in.OldPassword); err != nil {
		return domain.NewValidationError("old_password", "la contraseña actual no es correcta")
	}
	if err := confirmMatches(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return uc.customers.UpdatePasswordHash(ctx, customerID, hash)
}

func (uc *AuthUseCase) openSession(ctx context.Context, subjectID, kind, role, name string) (*dto.LoginResponse, error) {
	now := uc.now()
	ttl := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	s := &entity.Session{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Kind:      kind,
		Role:      role,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.SaveSession(ctx, s, ttl); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, subjectID, s.ID, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		SessionID: s.ID,
		Role:      role,
		Name:      name,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

// ToCustomerResponse mapea un cliente a DTO (sin hash).
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
