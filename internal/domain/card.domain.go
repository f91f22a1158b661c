package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardStatus string

const (
	CardActive CardStatus = "active"
	CardFrozen CardStatus = "frozen"
	CardClosed CardStatus = "closed" // terminal
)

// Card types are a configuration enum, not a closed set; these are the defaults.
const (
	CardTypeVirtual      = "virtual"
	CardTypeOneTime      = "one-time"
	CardTypeSubscription = "subscription"
)

type PresentmentMode string

const (
	PresentmentOnline      PresentmentMode = "online"
	PresentmentCardPresent PresentmentMode = "card_present"
)

type SpendInterval string

const (
	SpendDaily     SpendInterval = "daily"
	SpendWeekly    SpendInterval = "weekly"
	SpendMonthly   SpendInterval = "monthly"
	SpendRolling30 SpendInterval = "rolling_30d"
)

type Card struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Label        string     `json:"label"`
	Type         string     `json:"type"`
	Status       CardStatus `json:"status"`
	ReissueCount int        `json:"reissue_count"`
	// ReplacesCardID points at the predecessor when this card was minted by a
	// reissue. The link is immutable and only ever points backwards, so the
	// old->new chain cannot form a cycle.
	ReplacesCardID *string      `json:"replaces_card_id,omitempty"`
	Controls       CardControls `json:"controls"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CardControls are optional authorization-time restrictions. A nil allow-list
// means "no restriction"; an empty one blocks everything.
type CardControls struct {
	MCCAllow           []string          `json:"mcc_allow,omitempty"`
	MerchantAllow      []string          `json:"merchant_allow,omitempty"`
	GeoAllowCountries  []string          `json:"geo_allow_countries,omitempty"`
	PresentmentModes   []PresentmentMode `json:"presentment_modes,omitempty"`
	SpendLimitAmount   *decimal.Decimal  `json:"spend_limit_amount,omitempty"`
	SpendLimitInterval *SpendInterval    `json:"spend_limit_interval,omitempty"`
}
