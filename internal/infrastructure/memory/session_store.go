package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

var (
	_ ports.SessionStore = (*SessionStore)(nil)
	_ ports.CartStore    = (*SessionStore)(nil)
)

// SessionStore sesiones y carritos en memoria (un solo proceso).
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	carts    map[string]*entity.Cart
	now      func() time.Time
}

// NewSessionStore construye el store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]*entity.Session{},
		carts:    map[string]*entity.Cart{},
		now:      time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, sess *entity.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	if ttl > 0 {
		cp.ExpiresAt = s.now().Add(ttl)
	}
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !sess.ExpiresAt.IsZero() && s.now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		delete(s.carts, id)
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.carts, id)
	return nil
}

func (s *SessionStore) GetCart(_ context.Context, sessionID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := entity.NewCart()
	if stored, ok := s.carts[sessionID]; ok {
		for id, l := range stored.Lines {
			cp := *l
			cart.Lines[id] = &cp
		}
	}
	return cart, nil
}

func (s *SessionStore) SaveCart(_ context.Context, sessionID string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := entity.NewCart()
	for id, l := range cart.Lines {
		lc := *l
		cp.Lines[id] = &lc
	}
	s.carts[sessionID] = cp
	return nil
}

func (s *SessionStore) ClearCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
