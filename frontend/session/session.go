// Package session holds the signed-in account and its access token.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/store"
	"github.com/Terence890/Nebula-Stream/models"
)

const authFailedMessage = "Authentication failed"

var ErrCredentialsRequired = errors.New("email and password are required")

// API is the slice of the backend client the session needs.
type API interface {
	Register(ctx context.Context, email, password string) (models.Token, error)
	Login(ctx context.Context, email, password string) (models.Token, error)
	Me(ctx context.Context) (models.Me, error)
	Logout(ctx context.Context) error
	SetToken(token string)
	ClearToken()
}

var _ API = (*client.Client)(nil)

type Session struct {
	mu     sync.RWMutex
	api    API
	store  *store.Store
	notify notify.Notifier
	user   *models.Me
}

func New(api API, st *store.Store, n notify.Notifier) *Session {
	return &Session{api: api, store: st, notify: n}
}

// Restore signs back in with a persisted token. A token the server rejects is
// discarded.
func (s *Session) Restore(ctx context.Context) error {
	token, ok := s.store.Get(store.KeyToken)
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}
	s.api.SetToken(token)
	if err := s.fetchUser(ctx); err != nil {
		log.Printf("[session] failed to fetch user: %v", err)
		s.clearLocal()
		return err
	}
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, email, password, s.api.Login)
}

func (s *Session) Register(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, email, password, s.api.Register)
}

type authFunc func(ctx context.Context, email, password string) (models.Token, error)

func (s *Session) authenticate(ctx context.Context, email, password string, call authFunc) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.notify.Error(ErrCredentialsRequired.Error())
		return ErrCredentialsRequired
	}

	token, err := call(ctx, email, password)
	if err != nil {
		s.notify.Error(client.Message(err, authFailedMessage))
		return err
	}
	if err := s.store.Set(store.KeyToken, token.AccessToken); err != nil {
		log.Printf("[session] failed to persist token: %v", err)
	}
	s.api.SetToken(token.AccessToken)

	if err := s.fetchUser(ctx); err != nil {
		s.clearLocal()
		s.notify.Error(client.Message(err, authFailedMessage))
		return err
	}
	return nil
}

func (s *Session) fetchUser(ctx context.Context) error {
	me, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = &me
	s.mu.Unlock()
	return nil
}

// Logout revokes the server session when possible, then forgets the token and
// the selected profile.
func (s *Session) Logout(ctx context.Context) {
	if s.Authenticated() {
		if err := s.api.Logout(ctx); err != nil {
			log.Printf("[session] server logout failed: %v", err)
		}
	}
	s.clearLocal()
}

func (s *Session) clearLocal() {
	if err := s.store.Delete(store.KeyToken, store.KeySelectedProfile); err != nil {
		log.Printf("[session] failed to clear stored state: %v", err)
	}
	s.api.ClearToken()
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// User returns the signed-in account.
func (s *Session) User() (models.Me, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.Me{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}
