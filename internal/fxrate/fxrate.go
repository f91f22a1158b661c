package fxrate

import (
	"context"
	"fmt"

	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// Source supplies the conversion rate for a currency pair. The real liquidity
// feed sits behind this interface; the quote engine treats it as a collaborator
// and wraps calls in a timeout.
type Source interface {
	Rate(ctx context.Context, sendCurrency, receiveCurrency string) (decimal.Decimal, error)
}

// StaticSource quotes off a fixed per-USD table. Cross rates are derived
// through USD, so any listed pair can be quoted in either direction.
type StaticSource struct {
	perUSD map[string]decimal.Decimal
}

func NewStaticSource() *StaticSource {
	table := map[string]string{
		"USD": "1",
		"EUR": "0.90",
		"GBP": "0.78",
		"KES": "129.5",
		"NGN": "1530",
		"ZAR": "17.8",
		"XAF": "590",
		"INR": "83.2",
		"PHP": "56.4",
		"JPY": "147.2",
	}

	perUSD := make(map[string]decimal.Decimal, len(table))
	for ccy, rate := range table {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			panic(fmt.Sprintf("bad static rate for %s: %v", ccy, err))
		}
		perUSD[ccy] = d
	}
	return &StaticSource{perUSD: perUSD}
}

func (s *StaticSource) Rate(ctx context.Context, sendCurrency, receiveCurrency string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	send, ok := s.perUSD[sendCurrency]
	if !ok {
		return decimal.Zero, xerrors.ErrRateUnavailable
	}
	recv, ok := s.perUSD[receiveCurrency]
	if !ok {
		return decimal.Zero, xerrors.ErrRateUnavailable
	}

	// rate = units of receive currency per one unit of send currency
	return recv.DivRound(send, 12), nil
}
