package repository

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/stretchr/testify/require"
)

func newChallenge(email, code string, expiresAt time.Time) *domain.OtpChallenge {
	return &domain.OtpChallenge{
		Email:             email,
		Code:              code,
		IssuedAt:          expiresAt.Add(-5 * time.Minute),
		ExpiresAt:         expiresAt,
		AttemptsRemaining: 5,
	}
}

func TestChallengeStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryChallengeStore()
	exp := time.Now().Add(5 * time.Minute)

	require.NoError(t, s.Put(ctx, newChallenge("a@b.com", "111111", exp), 5*time.Minute))
	require.NoError(t, s.Put(ctx, newChallenge("a@b.com", "222222", exp), 5*time.Minute))

	ch, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "222222", ch.Code)
}

func TestChallengeStore_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryChallengeStore()

	clock := time.Now()
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, newChallenge("a@b.com", "111111", clock.Add(time.Minute)), time.Minute))

	_, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)

	_, err = s.Get(ctx, "a@b.com")
	require.ErrorIs(t, err, xerrors.ErrNotFound)

	// expired entry was evicted on read, consume misses too
	_, err = s.Consume(ctx, "a@b.com")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestChallengeStore_ConsumeRemoves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryChallengeStore()
	exp := time.Now().Add(5 * time.Minute)

	require.NoError(t, s.Put(ctx, newChallenge("a@b.com", "111111", exp), 5*time.Minute))

	ch, err := s.Consume(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "111111", ch.Code)

	_, err = s.Consume(ctx, "a@b.com")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestChallengeStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryChallengeStore()

	err := s.Update(ctx, newChallenge("ghost@b.com", "111111", time.Now().Add(time.Minute)))
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSessionStore_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	clock := time.Now()
	s.now = func() time.Time { return clock }

	sess := &domain.Session{
		Token:     "tok",
		UserID:    "usr_1",
		IssuedAt:  clock,
		ExpiresAt: clock.Add(time.Hour),
	}
	require.NoError(t, s.Put(ctx, sess, time.Hour))

	got, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "usr_1", got.UserID)

	clock = clock.Add(2 * time.Hour)

	_, err = s.Get(ctx, "tok")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSessionStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	require.NoError(t, s.Delete(ctx, "missing"))
}
