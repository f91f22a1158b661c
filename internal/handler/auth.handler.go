package handler

import (
	"encoding/json"
	"net/http"

	"issuing-service/internal/middleware"
	"issuing-service/internal/usecase/auth"
	"issuing-service/pkg/response"
)

type AuthHandler struct {
	uc *auth.Service
}

func NewAuthHandler(uc *auth.Service) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type requestOTPReq struct {
	Email string `json:"email"`
}

type verifyOTPReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	code, err := h.uc.RequestOTP(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]string{"message": "OTP sent"}
	if code != "" {
		// demo echo only; empty in any production posture
		data["demo_code"] = code
	}
	response.JSON(w, http.StatusOK, data)
}

func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Code == "" {
		response.Error(w, http.StatusBadRequest, "email and code required")
		return
	}

	sess, user, err := h.uc.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"token":   sess.Token,
		"user_id": user.ID,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
		return
	}

	if err := h.uc.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
