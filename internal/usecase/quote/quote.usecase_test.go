package quote

import (
	"context"
	"testing"
	"time"

	"issuing-service/internal/fxrate"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		SupportedCurrencies: []string{"USD", "EUR", "GBP", "KES", "JPY"},
		Fee:                 decimal.RequireFromString("2.50"),
		QuoteTTL:            90 * time.Second,
		RateTimeout:         time.Second,
	}
}

type fixedSource struct {
	rate decimal.Decimal
}

func (s fixedSource) Rate(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return s.rate, nil
}

type hangingSource struct{}

func (hangingSource) Rate(ctx context.Context, _, _ string) (decimal.Decimal, error) {
	<-ctx.Done()
	return decimal.Zero, ctx.Err()
}

func TestQuote_ReceiveIsSendTimesRate(t *testing.T) {
	svc := New(fixedSource{rate: decimal.RequireFromString("0.9")}, testConfig())

	q, err := svc.Quote(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, "90.00", q.ReceiveAmount.StringFixed(2))
	require.Equal(t, "0.9", q.Rate.String())
	require.Equal(t, "2.50", q.Fee.StringFixed(2))
	require.Equal(t, "USD", q.SendCurrency)
	require.Equal(t, "EUR", q.ReceiveCurrency)
	require.False(t, q.ExpiresAt.IsZero())
}

func TestQuote_RoundsToMinorUnits(t *testing.T) {
	svc := New(fixedSource{rate: decimal.RequireFromString("0.333333")}, testConfig())

	q, err := svc.Quote(context.Background(), decimal.NewFromInt(10), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, "3.33", q.ReceiveAmount.StringFixed(2))

	// yen has no minor unit
	q, err = svc.Quote(context.Background(), decimal.NewFromInt(10), "USD", "JPY")
	require.NoError(t, err)
	require.True(t, q.ReceiveAmount.Equal(decimal.NewFromInt(3)))
}

func TestQuote_InvalidAmount(t *testing.T) {
	svc := New(fixedSource{rate: decimal.NewFromInt(1)}, testConfig())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Quote(context.Background(), amount, "USD", "EUR")
		require.ErrorIs(t, err, xerrors.ErrInvalidAmount)
	}
}

func TestQuote_UnsupportedCurrency(t *testing.T) {
	svc := New(fixedSource{rate: decimal.NewFromInt(1)}, testConfig())

	_, err := svc.Quote(context.Background(), decimal.NewFromInt(100), "USD", "XXX")
	require.ErrorIs(t, err, xerrors.ErrUnsupportedCurrency)

	_, err = svc.Quote(context.Background(), decimal.NewFromInt(100), "XXX", "EUR")
	require.ErrorIs(t, err, xerrors.ErrUnsupportedCurrency)
}

func TestQuote_CurrencyCaseInsensitive(t *testing.T) {
	svc := New(fixedSource{rate: decimal.RequireFromString("0.9")}, testConfig())

	q, err := svc.Quote(context.Background(), decimal.NewFromInt(100), " usd ", "eur")
	require.NoError(t, err)
	require.Equal(t, "USD", q.SendCurrency)
	require.Equal(t, "EUR", q.ReceiveCurrency)
}

func TestQuote_RateTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RateTimeout = 10 * time.Millisecond
	svc := New(hangingSource{}, cfg)

	_, err := svc.Quote(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	require.ErrorIs(t, err, xerrors.ErrRateUnavailable)
}

func TestStaticSource_CrossRates(t *testing.T) {
	src := fxrate.NewStaticSource()
	ctx := context.Background()

	same, err := src.Rate(ctx, "USD", "USD")
	require.NoError(t, err)
	require.True(t, same.Equal(decimal.NewFromInt(1)))

	usdEur, err := src.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, "0.9", usdEur.String())

	// cross rate through the base currency
	eurGbp, err := src.Rate(ctx, "EUR", "GBP")
	require.NoError(t, err)
	gbpEur, err := src.Rate(ctx, "GBP", "EUR")
	require.NoError(t, err)
	require.True(t, eurGbp.Mul(gbpEur).Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.RequireFromString("0.0001")))

	_, err = src.Rate(ctx, "USD", "XXX")
	require.ErrorIs(t, err, xerrors.ErrRateUnavailable)
}
