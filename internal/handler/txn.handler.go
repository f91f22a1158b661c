package handler

import (
	"encoding/json"
	"net/http"

	"issuing-service/internal/domain"
	"issuing-service/internal/middleware"
	"issuing-service/internal/usecase/txn"
	"issuing-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type TxnHandler struct {
	uc *txn.Service
}

func NewTxnHandler(uc *txn.Service) *TxnHandler {
	return &TxnHandler{uc: uc}
}

type simulateAuthReq struct {
	CardID       string                 `json:"card_id"`
	Amount       decimal.Decimal        `json:"amount"`
	Currency     string                 `json:"currency"`
	MerchantName string                 `json:"merchant_name"`
	MerchantID   string                 `json:"merchant_id"`
	MCC          string                 `json:"mcc"`
	Country      string                 `json:"country"`
	Presentment  domain.PresentmentMode `json:"presentment_mode"`
}

func (h *TxnHandler) HandleSimulateAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req simulateAuthReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CardID == "" {
		response.Error(w, http.StatusBadRequest, "card_id required")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.MerchantName == "" {
		req.MerchantName = "Merchant"
	}

	t, err := h.uc.Authorize(r.Context(), userID, txn.AuthRequest{
		CardID:       req.CardID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		MerchantName: req.MerchantName,
		MerchantID:   req.MerchantID,
		MCC:          req.MCC,
		Country:      req.Country,
		Presentment:  req.Presentment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

type captureReq struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (h *TxnHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	txnID := chi.URLParam(r, "id")

	var req captureReq
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	t, err := h.uc.Capture(r.Context(), userID, txnID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

type refundReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *TxnHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	txnID := chi.URLParam(r, "id")

	var req refundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.uc.Refund(r.Context(), userID, txnID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

func (h *TxnHandler) HandleListByCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	cardID := chi.URLParam(r, "id")

	txns, err := h.uc.ListByCard(r.Context(), userID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	if txns == nil {
		txns = []*domain.Transaction{}
	}
	response.JSON(w, http.StatusOK, txns)
}
