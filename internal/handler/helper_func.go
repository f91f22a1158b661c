package handler

import (
	"errors"
	"log"
	"net/http"

	"issuing-service/pkg/response"
	"issuing-service/pkg/xerrors"
)

// writeError maps the core error taxonomy onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without leaking detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, xerrors.ErrCardNotFound),
		errors.Is(err, xerrors.ErrTxnNotFound),
		errors.Is(err, xerrors.ErrTransferNotFound),
		errors.Is(err, xerrors.ErrNoticeNotFound),
		errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, xerrors.ErrTooManyOTPRequests):
		response.Error(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, xerrors.ErrOTPExhausted),
		errors.Is(err, xerrors.ErrCardNotActive),
		errors.Is(err, xerrors.ErrPresentmentBlocked),
		errors.Is(err, xerrors.ErrMerchantBlocked),
		errors.Is(err, xerrors.ErrMCCBlocked),
		errors.Is(err, xerrors.ErrCountryBlocked),
		errors.Is(err, xerrors.ErrForbidden):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, xerrors.ErrSpendLimitExceeded):
		response.Error(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, xerrors.ErrRateUnavailable):
		response.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, xerrors.ErrCodeMismatch),
		errors.Is(err, xerrors.ErrValidation),
		errors.Is(err, xerrors.ErrInvalidAmount),
		errors.Is(err, xerrors.ErrUnsupportedCurrency),
		errors.Is(err, xerrors.ErrInvalidCardType),
		errors.Is(err, xerrors.ErrLabelRequired),
		errors.Is(err, xerrors.ErrLabelTooLong),
		errors.Is(err, xerrors.ErrBeneficiaryRequired),
		errors.Is(err, xerrors.ErrInvalidWindow),
		errors.Is(err, xerrors.ErrInvalidRequest):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Unhandled error: %v", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
