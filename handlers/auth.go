package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Terence890/Nebula-Stream/api"
	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/accounts"
	"github.com/Terence890/Nebula-Stream/services/sessions"
)

type accountsService interface {
	Register(email, password string) (models.Account, error)
	Authenticate(email, password string) (models.Account, error)
	Get(id string) (models.Account, error)
}

type sessionsService interface {
	Create(accountID, userAgent, ipAddress string) (models.Session, string, error)
	Revoke(token string) error
	Refresh(token string) (models.Session, string, error)
}

var (
	_ accountsService = (*accounts.Service)(nil)
	_ sessionsService = (*sessions.Service)(nil)
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	accounts accountsService
	sessions sessionsService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountsSvc accountsService, sessionsSvc sessionsService) *AuthHandler {
	return &AuthHandler{
		accounts: accountsSvc,
		sessions: sessionsSvc,
	}
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailExists):
			writeError(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, accounts.ErrEmailRequired),
			errors.Is(err, accounts.ErrInvalidEmail),
			errors.Is(err, accounts.ErrPasswordRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[auth] register failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	log.Printf("[auth] registered account %s", account.ID)
	h.issueToken(w, r, account)
}

// Login authenticates an account and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, accounts.ErrInvalidCredentials) {
			log.Printf("[auth] login failed: %v", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.issueToken(w, r, account)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, account models.Account) {
	_, token, err := h.sessions.Create(account.ID, r.Header.Get("User-Agent"), api.ClientIP(r))
	if err != nil {
		log.Printf("[auth] create session for %s: %v", account.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: sessions.TokenType})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(api.GetAccountID(r))
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, account.ToMe())
}

// Logout revokes the session behind the bearer token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := api.ExtractBearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "no session token")
		return
	}

	if err := h.sessions.Revoke(token); err != nil {
		// Session not found is OK - might already be expired
		if !errors.Is(err, sessions.ErrSessionNotFound) && !errors.Is(err, sessions.ErrSessionExpired) {
			writeError(w, http.StatusInternalServerError, "failed to revoke session")
			return
		}
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Logged out"})
}

// Refresh extends the current session and returns a fresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	_, token, err := h.sessions.Refresh(api.ExtractBearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: sessions.TokenType})
}
