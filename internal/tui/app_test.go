package tui

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/browse"
	"github.com/Terence890/Nebula-Stream/frontend/details"
	"github.com/Terence890/Nebula-Stream/frontend/listing"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/profiles"
	"github.com/Terence890/Nebula-Stream/frontend/session"
	"github.com/Terence890/Nebula-Stream/frontend/store"
	"github.com/Terence890/Nebula-Stream/frontend/trailer"
	"github.com/Terence890/Nebula-Stream/handlers"
	"github.com/Terence890/Nebula-Stream/internal/database"
	"github.com/Terence890/Nebula-Stream/services/accounts"
	"github.com/Terence890/Nebula-Stream/services/history"
	"github.com/Terence890/Nebula-Stream/services/metadata"
	servprofiles "github.com/Terence890/Nebula-Stream/services/profiles"
	"github.com/Terence890/Nebula-Stream/services/sessions"
	"github.com/Terence890/Nebula-Stream/services/watchlist"
	"github.com/Terence890/Nebula-Stream/utils"
)

type stubPlayer struct{ mounted []string }

func (p *stubPlayer) Mount(videoID string) error {
	p.mounted = append(p.mounted, videoID)
	return nil
}

func (p *stubPlayer) Destroy() {}

// newBackend serves the real API over the demo catalog.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "tui.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accountsSvc, err := accounts.NewService(db.Accounts)
	require.NoError(t, err)
	sessionsSvc, err := sessions.NewService(db.Sessions, "test-secret", time.Hour)
	require.NoError(t, err)
	profilesSvc, err := servprofiles.NewService(db.Profiles)
	require.NoError(t, err)
	watchlistSvc, err := watchlist.NewService(db.Watchlist)
	require.NoError(t, err)
	historySvc, err := history.NewService(db.WatchHistory)
	require.NoError(t, err)

	router := utils.NewRouter([]string{"*"})
	handlers.Register(router, handlers.Routes{
		Auth:      handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		Profiles:  handlers.NewProfilesHandler(profilesSvc),
		Titles:    handlers.NewTitlesHandler(metadata.NewService(metadata.Config{Demo: true, Fs: afero.NewMemMapFs()})),
		Watchlist: handlers.NewWatchlistHandler(watchlistSvc),
		History:   handlers.NewHistoryHandler(historySvc),
		Version:   handlers.NewVersionHandler(),
		Sessions:  sessionsSvc,
		Ownership: profilesSvc,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newTestModel(t *testing.T) (*Model, Deps) {
	t.Helper()
	srv := newBackend(t)

	api := client.New(srv.URL, srv.Client())
	st := store.NewMemory()
	toasts := notify.NewCenter(time.Minute)
	holder := profiles.NewHolder(api, st, toasts)
	player := &stubPlayer{}

	deps := Deps{
		Titles:   api,
		Session:  session.New(api, st, toasts),
		Profiles: holder,
		Browse:   browse.New(api, holder, toasts, nil),
		Listing:  listing.New(api, toasts),
		Details:  details.NewDialog(api, toasts),
		Trailer:  trailer.NewOverlay(func(func(int)) trailer.Player { return player }, toasts),
		Toasts:   toasts,
	}
	return New(context.Background(), deps), deps
}

// awaitErr feeds the operation results produced by cmd back into the model
// until the operation want completes, and returns its error. Timer driven
// messages are dropped.
func awaitErr(t *testing.T, m *Model, cmd tea.Cmd, want op) error {
	t.Helper()

	msgs := make(chan tea.Msg, 64)
	launch := func(c tea.Cmd) {
		if c != nil {
			go func() { msgs <- c() }()
		}
	}
	launch(cmd)

	deadline := time.After(10 * time.Second)
	for {
		select {
		case msg := <-msgs:
			switch msg := msg.(type) {
			case tea.BatchMsg:
				for _, c := range msg {
					launch(c)
				}
			case doneMsg:
				_, next := m.Update(msg)
				if msg.op == want {
					return msg.err
				}
				launch(next)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func await(t *testing.T, m *Model, cmd tea.Cmd, want op) {
	t.Helper()
	require.NoError(t, awaitErr(t, m, cmd, want), "operation %s", want)
}

func press(m *Model, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestRegisterCreateProfileAndBrowse(t *testing.T) {
	m, deps := newTestModel(t)
	assert.Equal(t, screenLogin, m.screen)

	m.email.SetValue("viewer@example.com")
	m.password.SetValue("hunter22")
	await(t, m, press(m, "ctrl+r"), opProfiles)
	require.True(t, deps.Session.Authenticated())
	assert.Equal(t, screenProfiles, m.screen, "a new account has no profiles")

	press(m, "n")
	require.True(t, m.creating)
	m.profileName.SetValue("Main")
	await(t, m, press(m, "enter"), opBrowse)

	assert.Equal(t, screenBrowse, m.screen)
	view := m.View()
	assert.Contains(t, view, "Trending Now")
	assert.Contains(t, view, "Popular Movies")
	assert.Contains(t, view, "Popular TV Shows")
	assert.Contains(t, view, "profile: Main")

	await(t, m, press(m, "w"), opWatchlist)
	assert.Contains(t, m.toastView(), "Added to watchlist")
}

func TestListDetailsAndTrailer(t *testing.T) {
	m, deps := newTestModel(t)
	m.email.SetValue("viewer@example.com")
	m.password.SetValue("hunter22")
	await(t, m, press(m, "ctrl+r"), opProfiles)
	press(m, "n")
	m.profileName.SetValue("Main")
	await(t, m, press(m, "enter"), opBrowse)

	await(t, m, press(m, "2"), opList)
	require.Equal(t, screenList, m.screen)
	state := deps.Listing.State()
	assert.Equal(t, "All Movies", state.Heading)
	require.NotEmpty(t, state.Items)
	assert.Contains(t, m.View(), state.Items[0].DisplayName())

	await(t, m, press(m, "enter"), opDetails)
	require.True(t, deps.Details.Visible())
	full, ok := deps.Details.Details()
	require.True(t, ok)
	assert.Contains(t, m.View(), full.DisplayName())

	press(m, "t")
	trailerState := deps.Trailer.State()
	require.True(t, trailerState.Visible)
	assert.False(t, deps.Details.Visible(), "opening the trailer closes the dialog")
	assert.Contains(t, m.View(), "Trailer")

	press(m, "esc")
	assert.False(t, deps.Trailer.State().Visible)

	press(m, "esc")
	assert.Equal(t, screenBrowse, m.screen)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m, deps := newTestModel(t)
	m.email.SetValue("viewer@example.com")
	m.password.SetValue("hunter22")
	await(t, m, press(m, "ctrl+r"), opProfiles)

	await(t, m, press(m, "L"), opLogout)
	assert.Equal(t, screenLogin, m.screen)
	assert.False(t, deps.Session.Authenticated())
	_, selected := deps.Profiles.Selected()
	assert.False(t, selected)
}

func TestSearchFromBrowse(t *testing.T) {
	m, _ := newTestModel(t)
	m.email.SetValue("viewer@example.com")
	m.password.SetValue("hunter22")
	await(t, m, press(m, "ctrl+r"), opProfiles)
	press(m, "n")
	m.profileName.SetValue("Main")
	await(t, m, press(m, "enter"), opBrowse)

	press(m, "/")
	require.True(t, m.search.Focused())
	m.search.SetValue("detour")
	await(t, m, press(m, "enter"), opSearch)

	shelves := m.deps.Browse.Shelves()
	require.Len(t, shelves, 1)
	assert.Equal(t, "Search Results", shelves[0].Heading)

	press(m, "esc")
	assert.Len(t, m.deps.Browse.Shelves(), 3)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Nigh…", truncate("Night of the Living Dead", 5))
	assert.Equal(t, "…", truncate("abc", 1))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m, deps := newTestModel(t)
	m.email.SetValue("nobody@example.com")
	m.password.SetValue("wrong")
	m.email.Blur()
	_ = m.password.Focus()

	require.Error(t, awaitErr(t, m, press(m, "enter"), opLogin))
	assert.False(t, deps.Session.Authenticated())
	assert.Equal(t, screenLogin, m.screen)
}

func TestViewRendersWithoutSize(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.True(t, strings.Contains(out, "NebulaStream"))
	assert.Contains(t, out, "Sign in")
}
