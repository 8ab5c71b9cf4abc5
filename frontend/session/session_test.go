package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/session"
	"github.com/Terence890/Nebula-Stream/frontend/store"
	"github.com/Terence890/Nebula-Stream/models"
)

type fakeBackend struct {
	*httptest.Server
	calls   atomic.Int32
	revoked atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			var creds models.Credentials
			json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Invalid credentials"}`))
				return
			}
			json.NewEncoder(w).Encode(models.Token{AccessToken: "tok-1", TokenType: "bearer"})
		case "/api/auth/register":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Invalid authentication token"}`))
				return
			}
			json.NewEncoder(w).Encode(models.Me{ID: "acc-1", Email: "viewer@example.com", SubscriptionPlan: "free"})
		case "/api/auth/logout":
			fb.revoked.Add(1)
			w.Write([]byte(`{"message":"Logged out"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.Close)
	return fb
}

func setup(t *testing.T) (*session.Session, *client.Client, *store.Store, *notify.Recorder, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend(t)
	api := client.New(fb.URL, fb.Client())
	st := store.NewMemory()
	rec := &notify.Recorder{}
	return session.New(api, st, rec), api, st, rec, fb
}

func TestLoginPersistsTokenAndFetchesUser(t *testing.T) {
	s, api, st, _, _ := setup(t)

	require.NoError(t, s.Login(context.Background(), "viewer@example.com", "secret"))

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "acc-1", user.ID)
	token, _ := st.Get(store.KeyToken)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "tok-1", api.Token())
}

func TestLoginFailureUsesServerMessage(t *testing.T) {
	s, _, st, rec, _ := setup(t)

	err := s.Login(context.Background(), "viewer@example.com", "wrong")
	require.Error(t, err)
	last, _ := rec.Last()
	assert.Equal(t, notify.Toast{Level: notify.LevelError, Message: "Invalid credentials"}, last)
	assert.False(t, s.Authenticated())
	_, ok := st.Get(store.KeyToken)
	assert.False(t, ok)
}

func TestRegisterFailureFallsBackToGenericMessage(t *testing.T) {
	s, _, _, rec, _ := setup(t)

	require.Error(t, s.Register(context.Background(), "viewer@example.com", "secret"))
	last, _ := rec.Last()
	assert.Equal(t, "Authentication failed", last.Message)

	require.ErrorIs(t, s.Register(context.Background(), " ", "secret"), session.ErrCredentialsRequired)
}

func TestLogoutClearsStateAndBlocksAuthenticatedCalls(t *testing.T) {
	s, api, st, _, fb := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "viewer@example.com", "secret"))
	require.NoError(t, st.Set(store.KeySelectedProfile, "profile-1"))

	s.Logout(ctx)
	assert.EqualValues(t, 1, fb.revoked.Load())

	_, ok := st.Get(store.KeyToken)
	assert.False(t, ok)
	_, ok = st.Get(store.KeySelectedProfile)
	assert.False(t, ok)
	assert.False(t, s.Authenticated())

	before := fb.calls.Load()
	_, err := api.Profiles(ctx)
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)
	_, err = api.Me(ctx)
	assert.ErrorIs(t, err, client.ErrNotAuthenticated)
	assert.Equal(t, before, fb.calls.Load(), "no request should reach the backend after logout")
}

func TestRestore(t *testing.T) {
	s, api, st, _, _ := setup(t)
	require.NoError(t, st.Set(store.KeyToken, "tok-1"))

	require.NoError(t, s.Restore(context.Background()))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-1", api.Token())
}

func TestRestoreDiscardsRejectedToken(t *testing.T) {
	s, api, st, _, fb := setup(t)
	require.NoError(t, st.Set(store.KeyToken, "stale"))
	require.NoError(t, st.Set(store.KeySelectedProfile, "profile-1"))

	require.Error(t, s.Restore(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Empty(t, api.Token())
	_, ok := st.Get(store.KeySelectedProfile)
	assert.False(t, ok)
	assert.Zero(t, fb.revoked.Load())
}

func TestRestoreWithoutTokenIsNoop(t *testing.T) {
	s, _, _, _, fb := setup(t)
	require.NoError(t, s.Restore(context.Background()))
	assert.Zero(t, fb.calls.Load())
}
