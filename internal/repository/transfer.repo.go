package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"
)

type TransferRepo interface {
	Create(ctx context.Context, t *domain.Transfer) error
	GetByID(ctx context.Context, transferID string) (*domain.Transfer, error)
	// ListByUser returns the user's transfers, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Transfer, error)
	// UpdateStatus moves the transfer forward only from the expected status.
	UpdateStatus(ctx context.Context, transferID string, from, to domain.TransferStatus) (*domain.Transfer, error)
	// ListByStatus feeds the settlement worker.
	ListByStatus(ctx context.Context, status domain.TransferStatus, limit int) ([]*domain.Transfer, error)
}

type MemoryTransferRepo struct {
	mu        sync.Mutex
	transfers map[string]domain.Transfer
	now       func() time.Time
}

func NewMemoryTransferRepo() *MemoryTransferRepo {
	return &MemoryTransferRepo{
		transfers: make(map[string]domain.Transfer),
		now:       time.Now,
	}
}

func (r *MemoryTransferRepo) Create(_ context.Context, t *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transfers[t.ID] = *t
	return nil
}

func (r *MemoryTransferRepo) GetByID(_ context.Context, transferID string) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transfers[transferID]
	if !ok {
		return nil, xerrors.ErrTransferNotFound
	}
	out := t
	return &out, nil
}

func (r *MemoryTransferRepo) ListByUser(_ context.Context, userID string) ([]*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var transfers []*domain.Transfer
	for _, t := range r.transfers {
		if t.UserID != userID {
			continue
		}
		out := t
		transfers = append(transfers, &out)
	}
	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].ID > transfers[j].ID
		}
		return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
	})
	return transfers, nil
}

func (r *MemoryTransferRepo) UpdateStatus(_ context.Context, transferID string, from, to domain.TransferStatus) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transfers[transferID]
	if !ok {
		return nil, xerrors.ErrTransferNotFound
	}
	if t.Status != from {
		return nil, xerrors.ErrInvalidTransition
	}
	t.Status = to
	t.UpdatedAt = r.now()
	r.transfers[transferID] = t

	out := t
	return &out, nil
}

func (r *MemoryTransferRepo) ListByStatus(_ context.Context, status domain.TransferStatus, limit int) ([]*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var transfers []*domain.Transfer
	for _, t := range r.transfers {
		if t.Status != status {
			continue
		}
		out := t
		transfers = append(transfers, &out)
	}
	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.Before(transfers[j].CreatedAt)
	})
	if limit > 0 && len(transfers) > limit {
		transfers = transfers[:limit]
	}
	return transfers, nil
}
