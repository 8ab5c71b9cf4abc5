// Package tui renders the browsing front end in the terminal. The frontend
// view models hold all state; the bubbletea model only routes keys to them and
// redraws.
package tui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Terence890/Nebula-Stream/frontend/browse"
	"github.com/Terence890/Nebula-Stream/frontend/details"
	"github.com/Terence890/Nebula-Stream/frontend/listing"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/profiles"
	"github.com/Terence890/Nebula-Stream/frontend/session"
	"github.com/Terence890/Nebula-Stream/frontend/trailer"
	"github.com/Terence890/Nebula-Stream/models"
)

const refreshInterval = time.Second

// Deps are the view models the terminal UI drives.
type Deps struct {
	Titles   trailer.DetailsFetcher
	Session  *session.Session
	Profiles *profiles.Holder
	Browse   *browse.View
	Listing  *listing.Paginator
	Details  *details.Dialog
	Trailer  *trailer.Overlay
	Toasts   *notify.Center
	// OpenURL opens an external trailer link; nil disables the key.
	OpenURL func(url string) error
}

type screen int

const (
	screenLogin screen = iota
	screenProfiles
	screenBrowse
	screenList
)

type op string

const (
	opRestore       op = "restore"
	opLogin         op = "login"
	opRegister      op = "register"
	opProfiles      op = "profiles"
	opCreateProfile op = "create-profile"
	opBrowse        op = "browse"
	opSearch        op = "search"
	opList          op = "list"
	opMore          op = "more"
	opDetails       op = "details"
	opPlay          op = "play"
	opWatchlist     op = "watchlist"
	opLogout        op = "logout"
)

// doneMsg reports the end of a background operation against a view model.
type doneMsg struct {
	op  op
	err error
}

type refreshMsg time.Time

type Model struct {
	ctx  context.Context
	deps Deps
	keys keyMap
	help help.Model

	screen   screen
	width    int
	height   int
	inFlight int
	spinner  spinner.Model

	email       textinput.Model
	password    textinput.Model
	profileName textinput.Model
	search      textinput.Model

	creating      bool
	kids          bool
	profileCursor int
	shelfCursor   int
	itemCursor    int
	listCursor    int
}

func New(ctx context.Context, deps Deps) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	name := textinput.New()
	name.Placeholder = "profile name"
	name.CharLimit = 50
	name.Width = 30

	search := textinput.New()
	search.Placeholder = "Search movies and TV shows..."
	search.CharLimit = 156
	search.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctx:         ctx,
		deps:        deps,
		keys:        defaultKeys(),
		help:        help.New(),
		spinner:     s,
		email:       email,
		password:    password,
		profileName: name,
		search:      search,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tick(), m.run(opRestore, m.deps.Session.Restore))
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// run executes fn off the event loop and reports back with a doneMsg.
func (m *Model) run(o op, fn func(ctx context.Context) error) tea.Cmd {
	m.inFlight++
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: o, err: fn(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		// prunes expired toasts and picks up hero rotation
		m.deps.Toasts.Active()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case doneMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		return m, m.handleDone(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *Model) handleDone(msg doneMsg) tea.Cmd {
	if msg.err != nil {
		log.Printf("[tui] %s: %v", msg.op, msg.err)
	}

	switch msg.op {
	case opRestore, opLogin, opRegister:
		if !m.deps.Session.Authenticated() {
			m.screen = screenLogin
			return nil
		}
		m.email.Blur()
		m.password.Blur()
		m.password.Reset()
		return m.run(opProfiles, m.deps.Profiles.Fetch)

	case opProfiles:
		if _, ok := m.deps.Profiles.Selected(); ok && msg.err == nil {
			return m.enterBrowse()
		}
		m.screen = screenProfiles
		m.clampProfileCursor()

	case opCreateProfile:
		if msg.err == nil {
			m.creating = false
			m.kids = false
			m.profileName.Reset()
			m.profileName.Blur()
			return m.enterBrowse()
		}

	case opBrowse:
		if errors.Is(msg.err, browse.ErrNoProfile) {
			m.screen = screenProfiles
			return nil
		}
		m.clampBrowseCursor()

	case opSearch:
		m.shelfCursor, m.itemCursor = 0, 0

	case opList:
		m.listCursor = 0

	case opLogout:
		m.screen = screenLogin
		m.email.Focus()
		m.password.Blur()
	}
	return nil
}

func (m *Model) enterBrowse() tea.Cmd {
	m.screen = screenBrowse
	m.shelfCursor, m.itemCursor = 0, 0
	return m.run(opBrowse, m.deps.Browse.Load)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// overlays capture keys first, trailer above details
	if m.deps.Trailer.State().Visible {
		return m.handleTrailerKeys(msg)
	}
	if m.deps.Details.Visible() {
		return m.handleDetailsKeys(msg)
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKeys(msg)
	case screenProfiles:
		return m.handleProfileKeys(msg)
	case screenBrowse:
		return m.handleBrowseKeys(msg)
	case screenList:
		return m.handleListKeys(msg)
	}
	return nil
}

func (m *Model) handleTrailerKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.deps.Trailer.Close()
	case key.Matches(msg, m.keys.External):
		state := m.deps.Trailer.State()
		if m.deps.OpenURL != nil && state.ExternalURL != "" {
			if err := m.deps.OpenURL(state.ExternalURL); err != nil {
				log.Printf("[tui] open %s: %v", state.ExternalURL, err)
				m.deps.Toasts.Error("Could not open link")
			}
		}
	}
	return nil
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.deps.Details.Close()
	case key.Matches(msg, m.keys.Trailer):
		if _, ok := m.deps.Details.Details(); ok {
			m.deps.Details.Play(m.deps.Trailer)
		}
	case key.Matches(msg, m.keys.Watchlist):
		if title, ok := m.deps.Details.Selected(); ok {
			return m.addToWatchlist(title)
		}
	}
	return nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Tab), msg.String() == "up", msg.String() == "down":
		if m.email.Focused() {
			m.email.Blur()
			return m.password.Focus()
		}
		m.password.Blur()
		return m.email.Focus()
	case key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Register):
		if m.email.Focused() && key.Matches(msg, m.keys.Open) {
			m.email.Blur()
			return m.password.Focus()
		}
		email, password := m.email.Value(), m.password.Value()
		if key.Matches(msg, m.keys.Register) {
			return m.run(opRegister, func(ctx context.Context) error {
				return m.deps.Session.Register(ctx, email, password)
			})
		}
		return m.run(opLogin, func(ctx context.Context) error {
			return m.deps.Session.Login(ctx, email, password)
		})
	case msg.String() == "esc":
		return tea.Quit
	}
	return m.updateInputs(msg)
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) tea.Cmd {
	if m.creating {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.creating = false
			m.profileName.Blur()
			return nil
		case key.Matches(msg, m.keys.Kids):
			m.kids = !m.kids
			return nil
		case key.Matches(msg, m.keys.Open):
			name, kids := m.profileName.Value(), m.kids
			return m.run(opCreateProfile, func(ctx context.Context) error {
				_, err := m.deps.Profiles.Create(ctx, name, kids)
				return err
			})
		}
		return m.updateInputs(msg)
	}

	list := m.deps.Profiles.Profiles()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.profileCursor < len(list)-1 {
			m.profileCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.profileCursor < len(list) {
			m.deps.Profiles.Select(list[m.profileCursor])
			return m.enterBrowse()
		}
	case key.Matches(msg, m.keys.NewProf):
		m.creating = true
		return m.profileName.Focus()
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	if m.search.Focused() {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.search.Blur()
			m.search.Reset()
			m.deps.Browse.ClearSearch()
			m.shelfCursor, m.itemCursor = 0, 0
			return nil
		case key.Matches(msg, m.keys.Open):
			m.search.Blur()
			query := m.search.Value()
			return m.run(opSearch, func(ctx context.Context) error {
				return m.deps.Browse.Search(ctx, query)
			})
		}
		return m.updateInputs(msg)
	}

	shelves := m.deps.Browse.Shelves()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.shelfCursor > 0 {
			m.shelfCursor--
			m.itemCursor = 0
		}
	case key.Matches(msg, m.keys.Down):
		if m.shelfCursor < len(shelves)-1 {
			m.shelfCursor++
			m.itemCursor = 0
		}
	case key.Matches(msg, m.keys.Left):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.shelfCursor < len(shelves) && m.itemCursor < len(shelves[m.shelfCursor].Items)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if title, ok := m.browseSelection(shelves); ok {
			return m.openDetails(title)
		}
	case key.Matches(msg, m.keys.Trailer):
		if title, ok := m.browseSelection(shelves); ok {
			return m.playTrailer(title)
		}
	case key.Matches(msg, m.keys.Watchlist):
		if title, ok := m.browseSelection(shelves); ok {
			return m.addToWatchlist(title)
		}
	case key.Matches(msg, m.keys.Search):
		return m.search.Focus()
	case key.Matches(msg, m.keys.Back):
		m.search.Reset()
		m.deps.Browse.ClearSearch()
		m.shelfCursor, m.itemCursor = 0, 0
	case key.Matches(msg, m.keys.Trending):
		return m.openList(listing.CategoryTrending)
	case key.Matches(msg, m.keys.Movies):
		return m.openList(listing.CategoryMovie)
	case key.Matches(msg, m.keys.Shows):
		return m.openList(listing.CategoryTV)
	case key.Matches(msg, m.keys.Profiles):
		m.screen = screenProfiles
		return m.run(opProfiles, func(ctx context.Context) error {
			m.deps.Profiles.Clear()
			return m.deps.Profiles.Fetch(ctx)
		})
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	state := m.deps.Listing.State()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.listCursor > 0 {
			m.listCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.listCursor < len(state.Items)-1 {
			m.listCursor++
		}
		// the last few rows act as the scroll sentinel
		if m.listCursor >= len(state.Items)-3 && state.HasMore && !state.Loading {
			return m.run(opMore, func(ctx context.Context) error {
				_, err := m.deps.Listing.Intersect(ctx)
				return err
			})
		}
	case key.Matches(msg, m.keys.Open):
		if m.listCursor < len(state.Items) {
			return m.openDetails(state.Items[m.listCursor])
		}
	case key.Matches(msg, m.keys.Trailer):
		if m.listCursor < len(state.Items) {
			return m.playTrailer(state.Items[m.listCursor])
		}
	case key.Matches(msg, m.keys.Watchlist):
		if m.listCursor < len(state.Items) {
			return m.addToWatchlist(state.Items[m.listCursor])
		}
	case key.Matches(msg, m.keys.Trending):
		return m.openList(listing.CategoryTrending)
	case key.Matches(msg, m.keys.Movies):
		return m.openList(listing.CategoryMovie)
	case key.Matches(msg, m.keys.Shows):
		return m.openList(listing.CategoryTV)
	case key.Matches(msg, m.keys.Back):
		m.screen = screenBrowse
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) openList(category string) tea.Cmd {
	m.screen = screenList
	m.listCursor = 0
	return m.run(opList, func(ctx context.Context) error {
		return m.deps.Listing.SetCategory(ctx, category)
	})
}

func (m *Model) openDetails(title models.Title) tea.Cmd {
	return m.run(opDetails, func(ctx context.Context) error {
		return m.deps.Details.Open(ctx, title)
	})
}

func (m *Model) playTrailer(title models.Title) tea.Cmd {
	return m.run(opPlay, func(ctx context.Context) error {
		m.deps.Trailer.Play(ctx, m.deps.Titles, title)
		return nil
	})
}

func (m *Model) addToWatchlist(title models.Title) tea.Cmd {
	return m.run(opWatchlist, func(ctx context.Context) error {
		return m.deps.Browse.AddToWatchlist(ctx, title)
	})
}

func (m *Model) logout() tea.Cmd {
	return m.run(opLogout, func(ctx context.Context) error {
		m.deps.Session.Logout(ctx)
		m.deps.Profiles.Clear()
		return nil
	})
}

func (m *Model) browseSelection(shelves []browse.Shelf) (models.Title, bool) {
	if m.shelfCursor >= len(shelves) {
		return models.Title{}, false
	}
	items := shelves[m.shelfCursor].Items
	if m.itemCursor >= len(items) {
		return models.Title{}, false
	}
	return items[m.itemCursor], true
}

func (m *Model) clampBrowseCursor() {
	shelves := m.deps.Browse.Shelves()
	if m.shelfCursor >= len(shelves) {
		m.shelfCursor, m.itemCursor = 0, 0
		return
	}
	if m.itemCursor >= len(shelves[m.shelfCursor].Items) {
		m.itemCursor = 0
	}
}

func (m *Model) clampProfileCursor() {
	if n := len(m.deps.Profiles.Profiles()); m.profileCursor >= n {
		m.profileCursor = max(n-1, 0)
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range []*textinput.Model{&m.email, &m.password, &m.profileName, &m.search} {
		if !in.Focused() {
			continue
		}
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
