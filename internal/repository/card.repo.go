package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"
)

// CardRepo owns card records. Conditional transitions are atomic: when two
// callers race on the same card id, exactly one observes the pre-transition
// state and the other sees the result (or ErrInvalidTransition).
type CardRepo interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, cardID string) (*domain.Card, error)
	// ListByUser returns the user's cards in creation order; closed cards are
	// retained for audit and only included on request.
	ListByUser(ctx context.Context, userID string, includeClosed bool) ([]*domain.Card, error)
	// UpdateStatus moves the card to the target status only if its current
	// status is one of from; otherwise ErrInvalidTransition.
	UpdateStatus(ctx context.Context, cardID string, from []domain.CardStatus, to domain.CardStatus) (*domain.Card, error)
	UpdateControls(ctx context.Context, cardID string, controls domain.CardControls) (*domain.Card, error)
	// Reissue atomically closes the old card and creates its successor.
	Reissue(ctx context.Context, oldID string, from []domain.CardStatus, successor *domain.Card) (old *domain.Card, created *domain.Card, err error)
}

type MemoryCardRepo struct {
	mu    sync.Mutex
	cards map[string]domain.Card
	now   func() time.Time
}

func NewMemoryCardRepo() *MemoryCardRepo {
	return &MemoryCardRepo{
		cards: make(map[string]domain.Card),
		now:   time.Now,
	}
}

func (r *MemoryCardRepo) Create(_ context.Context, card *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cards[card.ID] = *card
	return nil
}

func (r *MemoryCardRepo) GetByID(_ context.Context, cardID string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[cardID]
	if !ok {
		return nil, xerrors.ErrCardNotFound
	}
	out := c
	return &out, nil
}

func (r *MemoryCardRepo) ListByUser(_ context.Context, userID string, includeClosed bool) ([]*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cards []*domain.Card
	for _, c := range r.cards {
		if c.UserID != userID {
			continue
		}
		if c.Status == domain.CardClosed && !includeClosed {
			continue
		}
		out := c
		cards = append(cards, &out)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID < cards[j].ID
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

func statusIn(s domain.CardStatus, set []domain.CardStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (r *MemoryCardRepo) UpdateStatus(_ context.Context, cardID string, from []domain.CardStatus, to domain.CardStatus) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[cardID]
	if !ok {
		return nil, xerrors.ErrCardNotFound
	}
	if !statusIn(c.Status, from) {
		return nil, xerrors.ErrInvalidTransition
	}
	c.Status = to
	c.UpdatedAt = r.now()
	r.cards[cardID] = c

	out := c
	return &out, nil
}

func (r *MemoryCardRepo) UpdateControls(_ context.Context, cardID string, controls domain.CardControls) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[cardID]
	if !ok {
		return nil, xerrors.ErrCardNotFound
	}
	c.Controls = controls
	c.UpdatedAt = r.now()
	r.cards[cardID] = c

	out := c
	return &out, nil
}

func (r *MemoryCardRepo) Reissue(_ context.Context, oldID string, from []domain.CardStatus, successor *domain.Card) (*domain.Card, *domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[oldID]
	if !ok {
		return nil, nil, xerrors.ErrCardNotFound
	}
	if !statusIn(c.Status, from) {
		return nil, nil, xerrors.ErrInvalidTransition
	}

	c.Status = domain.CardClosed
	c.UpdatedAt = r.now()
	r.cards[oldID] = c
	r.cards[successor.ID] = *successor

	old := c
	created := *successor
	return &old, &created, nil
}
