package travel

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/repository"
	"issuing-service/pkg/xerrors"

	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryTravelRepo())

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)

	n, err := svc.Create(ctx, "usr_1", []string{" FR ", "", "IT"}, start, end)
	require.NoError(t, err)
	require.Equal(t, []string{"FR", "IT"}, n.Countries)

	_, err = svc.Create(ctx, "usr_1", []string{"", "  "}, start, end)
	require.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = svc.Create(ctx, "usr_1", []string{"FR"}, end, start)
	require.ErrorIs(t, err, xerrors.ErrInvalidWindow)
	_, err = svc.Create(ctx, "usr_1", []string{"FR"}, start, start)
	require.ErrorIs(t, err, xerrors.ErrInvalidWindow)
}

func TestList_ScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryTravelRepo())

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	later, err := svc.Create(ctx, "usr_1", []string{"JP"}, base.AddDate(0, 1, 0), base.AddDate(0, 1, 7))
	require.NoError(t, err)
	sooner, err := svc.Create(ctx, "usr_1", []string{"FR"}, base, base.AddDate(0, 0, 7))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "usr_2", []string{"KE"}, base, base.AddDate(0, 0, 7))
	require.NoError(t, err)

	notices, err := svc.List(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, notices, 2)
	require.Equal(t, sooner.ID, notices[0].ID)
	require.Equal(t, later.ID, notices[1].ID)
}
