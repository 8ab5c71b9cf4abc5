package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Terence890/Nebula-Stream/internal/database"
	"github.com/Terence890/Nebula-Stream/models"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSecretRequired   = errors.New("signing secret not provided")
	ErrStoreRequired    = errors.New("session store not provided")
	ErrAccountIDMissing = errors.New("account id is required")
)

const (
	// DefaultSessionDuration is the default lifetime of a session.
	DefaultSessionDuration = 7 * 24 * time.Hour

	// TokenType is reported alongside every issued access token.
	TokenType = "bearer"

	issuer = "nebulastream"
)

// Store is the persistence the sessions service needs.
type Store interface {
	Create(s *models.Session) error
	Get(id string) (*models.Session, error)
	UpdateExpiry(id string, expiresAt time.Time) error
	Delete(id string) error
	DeleteForAccount(accountID string) error
	DeleteExpired(now time.Time) (int64, error)
}

var _ Store = (*database.SessionRepository)(nil)

// claims is the payload of an access token. sid points at the server-side
// session so logout can revoke a token before it expires.
type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Service issues and validates signed access tokens for authenticated accounts.
type Service struct {
	store           Store
	secret          []byte
	sessionDuration time.Duration
	now             func() time.Time
}

// NewService creates a sessions service signing tokens with secret.
func NewService(store Store, secret string, sessionDuration time.Duration) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	if sessionDuration <= 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &Service{
		store:           store,
		secret:          []byte(secret),
		sessionDuration: sessionDuration,
		now:             time.Now,
	}, nil
}

// Create starts a session for the account and returns it with its signed token.
func (s *Service) Create(accountID, userAgent, ipAddress string) (models.Session, string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return models.Session{}, "", ErrAccountIDMissing
	}

	now := s.now().UTC()
	session := models.Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := s.store.Create(&session); err != nil {
		return models.Session{}, "", err
	}

	token, err := s.sign(session)
	if err != nil {
		_ = s.store.Delete(session.ID)
		return models.Session{}, "", err
	}
	return session, token, nil
}

func (s *Service) sign(session models.Session) (string, error) {
	c := claims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   session.AccountID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse verifies the signature and standard claims of a token.
func (s *Service) parse(token string) (*claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return &c, ErrSessionExpired
	}
	if err != nil {
		return nil, ErrInvalidToken
	}
	if c.SessionID == "" || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &c, nil
}

// Validate checks a token and returns the session it refers to.
func (s *Service) Validate(token string) (models.Session, error) {
	c, err := s.parse(token)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) && c != nil && c.SessionID != "" {
			_ = s.store.Delete(c.SessionID)
		}
		return models.Session{}, err
	}

	session, err := s.store.Get(c.SessionID)
	if err != nil {
		return models.Session{}, err
	}
	if session == nil {
		return models.Session{}, ErrSessionNotFound
	}
	if session.AccountID != c.Subject {
		return models.Session{}, ErrInvalidToken
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.store.Delete(session.ID)
		return models.Session{}, ErrSessionExpired
	}
	return *session, nil
}

// Revoke invalidates the session a token refers to.
func (s *Service) Revoke(token string) error {
	c, err := s.parse(token)
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	session, err := s.store.Get(c.SessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	return s.store.Delete(session.ID)
}

// RevokeAllForAccount invalidates every session for an account.
func (s *Service) RevokeAllForAccount(accountID string) error {
	return s.store.DeleteForAccount(accountID)
}

// Refresh extends a session and returns a token carrying the new expiry.
func (s *Service) Refresh(token string) (models.Session, string, error) {
	session, err := s.Validate(token)
	if err != nil {
		return models.Session{}, "", err
	}

	session.ExpiresAt = s.now().UTC().Add(s.sessionDuration)
	if err := s.store.UpdateExpiry(session.ID, session.ExpiresAt); err != nil {
		return models.Session{}, "", err
	}
	refreshed, err := s.sign(session)
	if err != nil {
		return models.Session{}, "", err
	}
	return session, refreshed, nil
}

// Cleanup removes all expired sessions.
func (s *Service) Cleanup() int64 {
	n, err := s.store.DeleteExpired(s.now())
	if err != nil {
		log.Printf("[sessions] cleanup failed: %v", err)
		return 0
	}
	return n
}

// RunCleanup periodically removes expired sessions until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Printf("[sessions] removed %d expired sessions", n)
			}
		}
	}
}
