package middleware

import (
	"context"
	"net/http"
	"strings"

	"issuing-service/internal/usecase/auth"
	"issuing-service/pkg/response"
)

type contextKey string

// ContextUserID carries the identity resolved from the bearer token. Handlers
// only ever read the user id from here; callers can never supply it.
const ContextUserID contextKey = "user_id"

type AuthMiddleware struct {
	auth *auth.Service
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{auth: authSvc}
}

// Require rejects requests without a valid session token and injects the
// resolved user id into the request context.
func (am *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearer(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
			return
		}

		userID, err := am.auth.VerifySession(r.Context(), token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserID reads the authenticated user id set by Require.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextUserID).(string)
	return v, ok && v != ""
}

// BearerToken re-extracts the raw token, for handlers that act on the session
// itself (logout).
func BearerToken(r *http.Request) (string, bool) {
	return extractBearer(r)
}
