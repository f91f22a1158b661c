package repository

import (
	"context"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"
)

// SessionStore owns issued session tokens. Same lazy-expiry contract as the
// challenge store: a read past expires_at is a not-found and evicts the entry.
type SessionStore interface {
	Put(ctx context.Context, sess *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Put(_ context.Context, sess *domain.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Token] = *sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, token)
		return nil, xerrors.ErrNotFound
	}
	out := sess
	return &out, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
