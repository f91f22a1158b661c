package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/middleware"
	"issuing-service/internal/usecase/travel"
	"issuing-service/pkg/response"
)

type TravelHandler struct {
	uc *travel.Service
}

func NewTravelHandler(uc *travel.Service) *TravelHandler {
	return &TravelHandler{uc: uc}
}

type createTravelReq struct {
	Countries []string  `json:"countries"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h *TravelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createTravelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.uc.Create(r.Context(), userID, req.Countries, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, n)
}

func (h *TravelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notices, err := h.uc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notices == nil {
		notices = []*domain.TravelNotice{}
	}
	response.JSON(w, http.StatusOK, notices)
}
