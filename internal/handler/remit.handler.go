package handler

import (
	"encoding/json"
	"net/http"

	"issuing-service/internal/domain"
	"issuing-service/internal/middleware"
	"issuing-service/internal/usecase/remit"
	"issuing-service/pkg/response"

	"github.com/shopspring/decimal"
)

type RemitHandler struct {
	uc *remit.Service
}

func NewRemitHandler(uc *remit.Service) *RemitHandler {
	return &RemitHandler{uc: uc}
}

type quoteReq struct {
	SendAmount      decimal.Decimal `json:"send_amount"`
	SendCurrency    string          `json:"send_currency"`
	ReceiveCurrency string          `json:"receive_currency"`
}

func (h *RemitHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserID(r.Context()); !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req quoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	q, err := h.uc.Quote(r.Context(), req.SendAmount, req.SendCurrency, req.ReceiveCurrency)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, q)
}

type transferReq struct {
	SendAmount        decimal.Decimal `json:"send_amount"`
	SendCurrency      string          `json:"send_currency"`
	ReceiveCurrency   string          `json:"receive_currency"`
	BeneficiaryName   string          `json:"beneficiary_name"`
	BeneficiaryIBAN   string          `json:"beneficiary_iban"`
	BeneficiaryMobile string          `json:"beneficiary_mobile"`
}

func (h *RemitHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req transferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.uc.CreateTransfer(r.Context(), userID, req.SendAmount,
		req.SendCurrency, req.ReceiveCurrency, remit.Beneficiary{
			Name:   req.BeneficiaryName,
			IBAN:   req.BeneficiaryIBAN,
			Mobile: req.BeneficiaryMobile,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

func (h *RemitHandler) HandleListTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transfers, err := h.uc.ListTransfers(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if transfers == nil {
		transfers = []*domain.Transfer{}
	}
	response.JSON(w, http.StatusOK, transfers)
}
