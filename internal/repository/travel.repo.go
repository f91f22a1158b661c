package repository

import (
	"context"
	"sort"
	"sync"

	"issuing-service/internal/domain"
)

type TravelRepo interface {
	Create(ctx context.Context, notice *domain.TravelNotice) error
	ListByUser(ctx context.Context, userID string) ([]*domain.TravelNotice, error)
}

type MemoryTravelRepo struct {
	mu      sync.Mutex
	notices map[string]domain.TravelNotice
}

func NewMemoryTravelRepo() *MemoryTravelRepo {
	return &MemoryTravelRepo{notices: make(map[string]domain.TravelNotice)}
}

func (r *MemoryTravelRepo) Create(_ context.Context, notice *domain.TravelNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notices[notice.ID] = *notice
	return nil
}

func (r *MemoryTravelRepo) ListByUser(_ context.Context, userID string) ([]*domain.TravelNotice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var notices []*domain.TravelNotice
	for _, n := range r.notices {
		if n.UserID != userID {
			continue
		}
		out := n
		notices = append(notices, &out)
	}
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].StartDate.Before(notices[j].StartDate)
	})
	return notices, nil
}
