package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"issuing-service/internal/domain"
	"issuing-service/internal/middleware"
	"issuing-service/internal/usecase/card"
	"issuing-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	uc *card.Service
}

func NewCardHandler(uc *card.Service) *CardHandler {
	return &CardHandler{uc: uc}
}

type createCardReq struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = domain.CardTypeVirtual
	}

	c, err := h.uc.Create(r.Context(), userID, req.Label, req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, c)
}

func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cards, err := h.uc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cards == nil {
		cards = []*domain.Card{}
	}
	response.JSON(w, http.StatusOK, cards)
}

func (h *CardHandler) HandleFreeze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Freeze)
}

func (h *CardHandler) HandleUnfreeze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Unfreeze)
}

func (h *CardHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.Close)
}

func (h *CardHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, cardID string) (*domain.Card, error),
) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	cardID := chi.URLParam(r, "id")

	c, err := op(r.Context(), userID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

func (h *CardHandler) HandleReissue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	cardID := chi.URLParam(r, "id")

	old, created, err := h.uc.Reissue(r.Context(), userID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]*domain.Card{
		"old": old,
		"new": created,
	})
}

func (h *CardHandler) HandleUpdateControls(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	cardID := chi.URLParam(r, "id")

	var patch card.ControlsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.uc.UpdateControls(r.Context(), userID, cardID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}
