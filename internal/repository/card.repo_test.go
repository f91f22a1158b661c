package repository

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/stretchr/testify/require"
)

func seedCard(t *testing.T, r *MemoryCardRepo, id, userID string, status domain.CardStatus, createdAt time.Time) *domain.Card {
	t.Helper()
	c := &domain.Card{
		ID:        id,
		UserID:    userID,
		Label:     "Groceries",
		Type:      domain.CardTypeVirtual,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, r.Create(context.Background(), c))
	return c
}

func TestCardRepo_UpdateStatusConditional(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryCardRepo()
	seedCard(t, r, "crd_1", "usr_1", domain.CardActive, time.Now())

	c, err := r.UpdateStatus(ctx, "crd_1", []domain.CardStatus{domain.CardActive}, domain.CardFrozen)
	require.NoError(t, err)
	require.Equal(t, domain.CardFrozen, c.Status)

	// second transition from the same pre-state must fail
	_, err = r.UpdateStatus(ctx, "crd_1", []domain.CardStatus{domain.CardActive}, domain.CardFrozen)
	require.ErrorIs(t, err, xerrors.ErrInvalidTransition)

	_, err = r.UpdateStatus(ctx, "crd_missing", []domain.CardStatus{domain.CardActive}, domain.CardFrozen)
	require.ErrorIs(t, err, xerrors.ErrCardNotFound)
}

func TestCardRepo_ListByUserOrderAndClosed(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryCardRepo()
	base := time.Now()
	seedCard(t, r, "crd_b", "usr_1", domain.CardActive, base.Add(2*time.Second))
	seedCard(t, r, "crd_a", "usr_1", domain.CardActive, base.Add(time.Second))
	seedCard(t, r, "crd_c", "usr_1", domain.CardClosed, base)
	seedCard(t, r, "crd_x", "usr_2", domain.CardActive, base)

	cards, err := r.ListByUser(ctx, "usr_1", false)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, "crd_a", cards[0].ID)
	require.Equal(t, "crd_b", cards[1].ID)

	all, err := r.ListByUser(ctx, "usr_1", true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "crd_c", all[0].ID)
}

func TestCardRepo_ReissueAtomic(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryCardRepo()
	seedCard(t, r, "crd_old", "usr_1", domain.CardFrozen, time.Now())

	succ := &domain.Card{
		ID:     "crd_new",
		UserID: "usr_1",
		Label:  "Groceries",
		Type:   domain.CardTypeVirtual,
		Status: domain.CardActive,
	}
	old, created, err := r.Reissue(ctx, "crd_old", []domain.CardStatus{domain.CardActive, domain.CardFrozen}, succ)
	require.NoError(t, err)
	require.Equal(t, domain.CardClosed, old.Status)
	require.Equal(t, domain.CardActive, created.Status)

	// the old card cannot be reissued twice
	_, _, err = r.Reissue(ctx, "crd_old", []domain.CardStatus{domain.CardActive, domain.CardFrozen}, succ)
	require.ErrorIs(t, err, xerrors.ErrInvalidTransition)
}
