package repository

import (
	"context"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"
)

type UserRepo interface {
	// GetOrCreateByEmail resolves the user for an email, creating one on first login.
	GetOrCreateByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type MemoryUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepo) GetOrCreateByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uid, ok := r.byEmail[email]; ok {
		u := r.byID[uid]
		return &u, nil
	}

	u := domain.User{
		ID:        id.New("usr"),
		Email:     email,
		CreatedAt: time.Now(),
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &u, nil
}
