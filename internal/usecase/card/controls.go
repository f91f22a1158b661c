package card

import (
	"fmt"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// ControlsPatch carries partial spend-control updates: nil fields are left
// untouched, supplied fields replace the current value.
type ControlsPatch struct {
	MCCAllow           *[]string                 `json:"mcc_allow,omitempty"`
	MerchantAllow      *[]string                 `json:"merchant_allow,omitempty"`
	GeoAllowCountries  *[]string                 `json:"geo_allow_countries,omitempty"`
	PresentmentModes   *[]domain.PresentmentMode `json:"presentment_modes,omitempty"`
	SpendLimitAmount   *decimal.Decimal          `json:"spend_limit_amount,omitempty"`
	SpendLimitInterval *domain.SpendInterval     `json:"spend_limit_interval,omitempty"`
}

func (p ControlsPatch) apply(current domain.CardControls) (domain.CardControls, error) {
	out := current

	if p.MCCAllow != nil {
		out.MCCAllow = *p.MCCAllow
	}
	if p.MerchantAllow != nil {
		out.MerchantAllow = *p.MerchantAllow
	}
	if p.GeoAllowCountries != nil {
		out.GeoAllowCountries = *p.GeoAllowCountries
	}
	if p.PresentmentModes != nil {
		for _, m := range *p.PresentmentModes {
			if m != domain.PresentmentOnline && m != domain.PresentmentCardPresent {
				return out, fmt.Errorf("%w: presentment mode %q", xerrors.ErrValidation, m)
			}
		}
		out.PresentmentModes = *p.PresentmentModes
	}
	if p.SpendLimitAmount != nil {
		if p.SpendLimitAmount.LessThanOrEqual(decimal.Zero) {
			return out, fmt.Errorf("%w: spend limit must be positive", xerrors.ErrValidation)
		}
		amount := *p.SpendLimitAmount
		out.SpendLimitAmount = &amount
	}
	if p.SpendLimitInterval != nil {
		switch *p.SpendLimitInterval {
		case domain.SpendDaily, domain.SpendWeekly, domain.SpendMonthly, domain.SpendRolling30:
		default:
			return out, fmt.Errorf("%w: spend interval %q", xerrors.ErrValidation, *p.SpendLimitInterval)
		}
		interval := *p.SpendLimitInterval
		out.SpendLimitInterval = &interval
	}

	return out, nil
}
