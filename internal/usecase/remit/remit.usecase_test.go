package remit

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/fxrate"
	"issuing-service/internal/repository"
	"issuing-service/internal/usecase/quote"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	quotes := quote.New(fxrate.NewStaticSource(), quote.Config{
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "KES"},
		Fee:                 decimal.RequireFromString("2.50"),
		QuoteTTL:            90 * time.Second,
		RateTimeout:         time.Second,
	})
	return New(repository.NewMemoryTransferRepo(), quotes)
}

func beneficiary() Beneficiary {
	return Beneficiary{Name: "Jane Doe", IBAN: "DE89370400440532013000"}
}

func TestCreateTransfer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tr, err := svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "EUR", beneficiary())
	require.NoError(t, err)
	require.Equal(t, domain.TransferCreated, tr.Status)
	require.Equal(t, "90.00", tr.ReceiveAmount.StringFixed(2))
	require.Equal(t, "2.50", tr.Fee.StringFixed(2))
	require.NotEmpty(t, tr.Reference)
	require.NotNil(t, tr.BeneficiaryIBAN)
	require.Nil(t, tr.BeneficiaryMobile)
}

func TestCreateTransfer_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "EUR", Beneficiary{IBAN: "DE89"})
	require.ErrorIs(t, err, xerrors.ErrValidation)

	// a payout destination is required: IBAN or mobile wallet
	_, err = svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "EUR", Beneficiary{Name: "Jane Doe"})
	require.ErrorIs(t, err, xerrors.ErrBeneficiaryRequired)

	_, err = svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(-5), "USD", "EUR", beneficiary())
	require.ErrorIs(t, err, xerrors.ErrInvalidAmount)

	_, err = svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "XXX", beneficiary())
	require.ErrorIs(t, err, xerrors.ErrUnsupportedCurrency)
}

func TestCreateTransfer_MobileOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tr, err := svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(50), "USD", "KES",
		Beneficiary{Name: "Jane Doe", Mobile: "+254700000000"})
	require.NoError(t, err)
	require.Nil(t, tr.BeneficiaryIBAN)
	require.NotNil(t, tr.BeneficiaryMobile)
	require.Equal(t, "+254700000000", *tr.BeneficiaryMobile)
}

func TestListTransfers_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "EUR", beneficiary())
	require.NoError(t, err)
	_, err = svc.CreateTransfer(ctx, "usr_2", decimal.NewFromInt(100), "USD", "EUR", beneficiary())
	require.NoError(t, err)

	mine, err := svc.ListTransfers(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "usr_1", mine[0].UserID)
}

func TestAdvancePending_StepsThroughLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tr, err := svc.CreateTransfer(ctx, "usr_1", decimal.NewFromInt(100), "USD", "EUR", beneficiary())
	require.NoError(t, err)

	status := func() domain.TransferStatus {
		list, err := svc.ListTransfers(ctx, "usr_1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, tr.ID, list[0].ID)
		return list[0].Status
	}

	svc.AdvancePending(ctx, 10)
	require.Equal(t, domain.TransferProcessing, status())

	svc.AdvancePending(ctx, 10)
	require.Equal(t, domain.TransferSettled, status())

	// settled is terminal
	svc.AdvancePending(ctx, 10)
	require.Equal(t, domain.TransferSettled, status())
}
