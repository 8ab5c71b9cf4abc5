package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Terence890/Nebula-Stream/internal/auth"
	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/profiles"
	"github.com/Terence890/Nebula-Stream/services/sessions"
)

// Re-export from auth package so handlers only import api.
var (
	GetAccountID = auth.GetAccountID
	GetProfileID = auth.GetProfileID
)

// SessionValidator resolves a bearer token to its session.
type SessionValidator interface {
	Validate(token string) (models.Session, error)
}

// ProfileOwnershipChecker reports whether a profile belongs to an account.
type ProfileOwnershipChecker interface {
	BelongsToAccount(profileID, accountID string) bool
}

var (
	_ SessionValidator        = (*sessions.Service)(nil)
	_ ProfileOwnershipChecker = (*profiles.Service)(nil)
)

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// AccountAuthMiddleware creates middleware that validates bearer tokens and
// injects the session's account into the request context.
func AccountAuthMiddleware(validator SessionValidator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Always allow OPTIONS for CORS
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if validator == nil {
				writeError(w, http.StatusInternalServerError, "session service unavailable")
				return
			}

			session, err := validator.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid authentication token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session, token)))
		})
	}
}

// ProfileOwnershipMiddleware verifies that the profile_id query parameter
// names a profile owned by the authenticated account.
func ProfileOwnershipMiddleware(checker ProfileOwnershipChecker) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			profileID := strings.TrimSpace(r.URL.Query().Get("profile_id"))
			if profileID == "" {
				writeError(w, http.StatusBadRequest, "profile_id is required")
				return
			}

			accountID := GetAccountID(r)
			if accountID == "" || !checker.BelongsToAccount(profileID, accountID) {
				writeError(w, http.StatusNotFound, "profile not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithProfileID(r.Context(), profileID)))
		})
	}
}

// ExtractBearerToken returns the token from an "Authorization: Bearer" header.
func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
