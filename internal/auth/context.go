package auth

import (
	"context"
	"net/http"

	"github.com/Terence890/Nebula-Stream/models"
)

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyAccountID is the key for the account ID in the context
	ContextKeyAccountID ContextKey = "accountID"
	// ContextKeySession is the key for the session in the context
	ContextKeySession ContextKey = "session"
	// ContextKeyProfileID is the key for the verified profile ID in the context
	ContextKeyProfileID ContextKey = "profileID"
	// ContextKeyToken is the key for the raw bearer token in the context
	ContextKeyToken ContextKey = "token"
)

// WithSession returns a context carrying the authenticated session and its token.
func WithSession(ctx context.Context, session models.Session, token string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyAccountID, session.AccountID)
	ctx = context.WithValue(ctx, ContextKeySession, session)
	return context.WithValue(ctx, ContextKeyToken, token)
}

// WithProfileID returns a context carrying a profile ID already checked for ownership.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ContextKeyProfileID, profileID)
}

// GetAccountID retrieves the authenticated account ID from the request context.
func GetAccountID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyAccountID).(string); ok {
		return id
	}
	return ""
}

// GetSession retrieves the authenticated session from the request context.
func GetSession(r *http.Request) (models.Session, bool) {
	session, ok := r.Context().Value(ContextKeySession).(models.Session)
	return session, ok
}

// GetToken retrieves the bearer token the request authenticated with.
func GetToken(r *http.Request) string {
	if token, ok := r.Context().Value(ContextKeyToken).(string); ok {
		return token
	}
	return ""
}

// GetProfileID retrieves the ownership-checked profile ID from the request context.
func GetProfileID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyProfileID).(string); ok {
		return id
	}
	return ""
}
