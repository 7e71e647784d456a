// Package redisstore guarda sesiones y carritos en Redis con expiración nativa (TTL).
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

var (
	_ ports.SessionStore = (*SessionStore)(nil)
	_ ports.CartStore    = (*SessionStore)(nil)
)

const (
	sessionPrefix = "produksi:session:"
	cartPrefix    = "produksi:cart:"
)

// Connect abre el cliente desde una URL redis:// y verifica la conexión.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	opt.MaxRetries = 3

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionStore sesiones y carritos serializados en JSON.
type SessionStore struct {
	client  *redis.Client
	cartTTL time.Duration
}

// NewSessionStore construye el store. cartTTL debería coincidir con la vida de la sesión.
func NewSessionStore(client *redis.Client, cartTTL time.Duration) *SessionStore {
	return &SessionStore{client: client, cartTTL: cartTTL}
}

func (s *SessionStore) SaveSession(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	cp := *sess
	if ttl > 0 {
		cp.ExpiresAt = time.Now().Add(ttl)
	}
	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession devuelve nil, nil si la clave expiró o no existe.
func (s *SessionStore) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess entity.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// DeleteSession elimina la sesión y su carrito.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionPrefix+id, cartPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	data, err := s.client.Get(ctx, cartPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.NewCart(), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return decodeCart(data)
}

func (s *SessionStore) SaveCart(ctx context.Context, sessionID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartPrefix+sessionID, data, s.cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *SessionStore) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// decodeCart garantiza un mapa de líneas no nil aunque el JSON venga vacío.
func decodeCart(data []byte) (*entity.Cart, error) {
	cart := entity.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = map[string]*entity.CartLine{}
	}
	return cart, nil
}
