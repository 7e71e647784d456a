package ports

import (
	"context"
	"time"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

// SessionStore persistencia de sesiones de servidor (Redis o memoria).
type SessionStore interface {
	SaveSession(ctx context.Context, s *entity.Session, ttl time.Duration) error
	// GetSession devuelve nil, nil si la sesión no existe o expiró.
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// CartStore persistencia del carrito ligado a una sesión.
type CartStore interface {
	// GetCart devuelve un carrito vacío si no hay nada guardado.
	GetCart(ctx context.Context, sessionID string) (*entity.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *entity.Cart) error
	ClearCart(ctx context.Context, sessionID string) error
}
