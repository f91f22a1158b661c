package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/fxrate"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

type Config struct {
	SupportedCurrencies []string
	// Fee is charged on the send side, on top of the sent amount; it never
	// reduces the receive amount.
	Fee         decimal.Decimal
	QuoteTTL    time.Duration
	RateTimeout time.Duration
}

// Service computes remittance quotes. It holds no state: every call is an
// independent recomputation from current rates, and quotes are never locked
// or reserved.
type Service struct {
	source    fxrate.Source
	supported map[string]struct{}
	cfg       Config
	now       func() time.Time
}

func New(source fxrate.Source, cfg Config) *Service {
	supported := make(map[string]struct{}, len(cfg.SupportedCurrencies))
	for _, c := range cfg.SupportedCurrencies {
		supported[strings.ToUpper(c)] = struct{}{}
	}
	return &Service{source: source, supported: supported, cfg: cfg, now: time.Now}
}

func (s *Service) Quote(ctx context.Context, sendAmount decimal.Decimal, sendCurrency, receiveCurrency string) (*domain.Quote, error) {
	if sendAmount.LessThanOrEqual(decimal.Zero) {
		return nil, xerrors.ErrInvalidAmount
	}

	sendCurrency = strings.ToUpper(strings.TrimSpace(sendCurrency))
	receiveCurrency = strings.ToUpper(strings.TrimSpace(receiveCurrency))
	if _, ok := s.supported[sendCurrency]; !ok {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrUnsupportedCurrency, sendCurrency)
	}
	if _, ok := s.supported[receiveCurrency]; !ok {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrUnsupportedCurrency, receiveCurrency)
	}

	// The rate source is the one network call in the quoting path; cap it
	rateCtx, cancel := context.WithTimeout(ctx, s.cfg.RateTimeout)
	defer cancel()

	rate, err := s.source.Rate(rateCtx, sendCurrency, receiveCurrency)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, xerrors.ErrRateUnavailable
		}
		return nil, err
	}

	receive := sendAmount.Mul(rate).Round(minorUnits(receiveCurrency))

	return &domain.Quote{
		SendAmount:      sendAmount,
		SendCurrency:    sendCurrency,
		ReceiveCurrency: receiveCurrency,
		ReceiveAmount:   receive,
		Rate:            rate,
		Fee:             s.cfg.Fee,
		ExpiresAt:       s.now().Add(s.cfg.QuoteTTL),
	}, nil
}

// minorUnits is the decimal precision of a currency's smallest denomination.
func minorUnits(currency string) int32 {
	switch currency {
	case "JPY", "KRW", "VND":
		return 0
	case "BHD", "KWD", "OMR":
		return 3
	default:
		return 2
	}
}
