package xerrors

import "errors"

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("invalid input provided")
)

// OTP / login
var (
	ErrCodeMismatch       = errors.New("invalid otp code")
	ErrOTPExhausted       = errors.New("otp attempts exhausted")
	ErrTooManyOTPRequests = errors.New("too many otp requests")
)

// Sessions
var (
	ErrSessionExpired = errors.New("session expired")
)

// Cards
var (
	ErrCardNotFound      = errors.New("card not found")
	ErrInvalidCardType   = errors.New("invalid card type")
	ErrInvalidTransition = errors.New("invalid card state transition")
	ErrCardNotActive     = errors.New("card not active")
	ErrLabelRequired     = errors.New("card label required")
	ErrLabelTooLong      = errors.New("card label too long")
)

// Transactions / controls
var (
	ErrTxnNotFound        = errors.New("transaction not found")
	ErrPresentmentBlocked = errors.New("presentment mode blocked")
	ErrMerchantBlocked    = errors.New("merchant not allowed")
	ErrMCCBlocked         = errors.New("merchant category blocked")
	ErrCountryBlocked     = errors.New("country blocked")
	ErrSpendLimitExceeded = errors.New("spend limit exceeded")
)

// Quoting / remittance
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRateUnavailable     = errors.New("exchange rate unavailable")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrBeneficiaryRequired = errors.New("beneficiary iban or mobile required")
)

// Travel
var (
	ErrNoticeNotFound = errors.New("travel notice not found")
	ErrInvalidWindow  = errors.New("invalid travel window")
)
