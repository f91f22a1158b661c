package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxnType string

const (
	TxnPreauth TxnType = "preauth"
	TxnCapture TxnType = "capture"
	TxnRefund  TxnType = "refund"
)

type TxnStatus string

const (
	TxnPending TxnStatus = "pending"
	TxnPosted  TxnStatus = "posted"
)

type Transaction struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	CardID       string           `json:"card_id"`
	MerchantName string           `json:"merchant_name"`
	MerchantID   *string          `json:"merchant_id,omitempty"`
	MCC          string           `json:"mcc,omitempty"`
	Country      string           `json:"country,omitempty"`
	Presentment  PresentmentMode  `json:"presentment_mode,omitempty"`
	Currency     string           `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         TxnType          `json:"type"`
	Status       TxnStatus        `json:"status"`
	HoldAmount   *decimal.Decimal `json:"auth_hold_amount,omitempty"`
	PostedAmount *decimal.Decimal `json:"posted_amount,omitempty"`
	RefTxnID     *string          `json:"ref_txn_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
