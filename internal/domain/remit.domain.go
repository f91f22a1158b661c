package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is ephemeral: computed on demand, returned to the caller, never stored.
// Re-quoting always recomputes from current rates.
type Quote struct {
	SendAmount      decimal.Decimal `json:"send_amount"`
	SendCurrency    string          `json:"send_currency"`
	ReceiveCurrency string          `json:"receive_currency"`
	ReceiveAmount   decimal.Decimal `json:"receive_amount"`
	Rate            decimal.Decimal `json:"rate"`
	Fee             decimal.Decimal `json:"fee"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

type TransferStatus string

const (
	TransferCreated    TransferStatus = "created"
	TransferProcessing TransferStatus = "processing"
	TransferSettled    TransferStatus = "settled"
	TransferFailed     TransferStatus = "failed"
)

type Transfer struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Reference         string          `json:"reference"`
	SendAmount        decimal.Decimal `json:"send_amount"`
	SendCurrency      string          `json:"send_currency"`
	ReceiveAmount     decimal.Decimal `json:"receive_amount"`
	ReceiveCurrency   string          `json:"receive_currency"`
	Rate              decimal.Decimal `json:"rate"`
	Fee               decimal.Decimal `json:"fee"`
	BeneficiaryName   string          `json:"beneficiary_name"`
	BeneficiaryIBAN   *string         `json:"beneficiary_iban,omitempty"`
	BeneficiaryMobile *string         `json:"beneficiary_mobile,omitempty"`
	Status            TransferStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
