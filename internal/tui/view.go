package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Terence890/Nebula-Stream/frontend/browse"
	"github.com/Terence890/Nebula-Stream/models"
)

const (
	defaultWidth = 100
	cardWidth    = 22
	maxCastShown = 5
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch {
	case m.deps.Trailer.State().Visible:
		b.WriteString(m.trailerView())
	case m.deps.Details.Visible():
		b.WriteString(m.detailsView())
	default:
		switch m.screen {
		case screenLogin:
			b.WriteString(m.loginView())
		case screenProfiles:
			b.WriteString(m.profilesView())
		case screenBrowse:
			b.WriteString(m.browseView())
		case screenList:
			b.WriteString(m.listView())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.toastView())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.bindings()))
	return b.String()
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m *Model) headerView() string {
	parts := []string{brandStyle.Render("NebulaStream")}
	if user, ok := m.deps.Session.User(); ok {
		parts = append(parts, headerStyle.Render(user.Email))
	}
	if p, ok := m.deps.Profiles.Selected(); ok {
		parts = append(parts, headerStyle.Render("profile: "+p.Name))
	}
	if m.inFlight > 0 {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}

func (m *Model) loginView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Sign in"),
		m.email.View(),
		m.password.View(),
		dimStyle.Render("enter to sign in, ctrl+r to create an account"),
	)
}

func (m *Model) profilesView() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Who's watching?"))
	b.WriteString("\n")

	list := m.deps.Profiles.Profiles()
	if len(list) == 0 && !m.deps.Profiles.Loading() {
		b.WriteString(dimStyle.Render("No profiles yet. Press n to create one."))
		b.WriteString("\n")
	}
	for i, p := range list {
		label := p.Name
		if p.IsKids {
			label += " (kids)"
		}
		if i == m.profileCursor && !m.creating {
			b.WriteString(selectedStyle.Render(label))
		} else {
			b.WriteString(cardStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.creating {
		kids := "[ ]"
		if m.kids {
			kids = "[x]"
		}
		b.WriteString("\n")
		b.WriteString(m.profileName.View())
		b.WriteString("  " + kids + " kids profile (ctrl+k)\n")
	}
	return b.String()
}

func (m *Model) browseView() string {
	var b strings.Builder
	if hero, ok := m.deps.Browse.Hero(); ok {
		b.WriteString(m.heroView(hero))
		b.WriteString("\n")
	}

	b.WriteString(m.search.View())
	b.WriteString("\n")

	shelves := m.deps.Browse.Shelves()
	if len(shelves) == 0 && !m.deps.Browse.Loading() {
		b.WriteString(dimStyle.Render("Nothing to show yet."))
	}
	for i, shelf := range shelves {
		b.WriteString(m.shelfView(shelf, i == m.shelfCursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) heroView(t models.Title) string {
	width := m.viewWidth() - 4
	overview := truncate(t.Overview, width*2)
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(t.DisplayName()),
		dimStyle.Render(fmt.Sprintf("%s  ★ %s", t.Year(), t.RatingLabel())),
		lipgloss.NewStyle().Width(width).Render(overview),
	)
	return heroStyle.Render(body)
}

func (m *Model) shelfView(shelf browse.Shelf, active bool) string {
	perRow := max(m.viewWidth()/(cardWidth+2), 1)
	start := 0
	if active && m.itemCursor >= perRow {
		start = m.itemCursor - perRow + 1
	}
	end := min(start+perRow, len(shelf.Items))

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		label := truncate(shelf.Items[i].DisplayName(), cardWidth)
		if active && i == m.itemCursor {
			cards = append(cards, selectedStyle.Render(label))
		} else {
			cards = append(cards, cardStyle.Render(label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(shelf.Heading),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

func (m *Model) listView() string {
	state := m.deps.Listing.State()

	var b strings.Builder
	b.WriteString(headingStyle.Render(state.Heading))
	b.WriteString("\n")

	visible := max(m.height-8, 5)
	start := 0
	if m.listCursor >= visible {
		start = m.listCursor - visible + 1
	}
	end := min(start+visible, len(state.Items))
	for i := start; i < end; i++ {
		t := state.Items[i]
		line := fmt.Sprintf("%-40s %s  ★ %s", truncate(t.DisplayName(), 40), t.Year(), t.RatingLabel())
		if i == m.listCursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(cardStyle.Render(line))
		}
		b.WriteString("\n")
	}

	switch {
	case state.Loading:
		b.WriteString(dimStyle.Render("Loading..."))
	case !state.HasMore && len(state.Items) > 0:
		b.WriteString(dimStyle.Render("No more titles"))
	case len(state.Items) == 0:
		b.WriteString(dimStyle.Render("Nothing found"))
	}
	return b.String()
}

func (m *Model) detailsView() string {
	full, loaded := m.deps.Details.Details()
	if !loaded {
		selected, _ := m.deps.Details.Selected()
		return overlayStyle.Render(selected.DisplayName() + "\n\n" + dimStyle.Render("Loading details..."))
	}

	width := min(m.viewWidth()-8, 100)
	meta := []string{full.Year(), "★ " + full.RatingLabel()}
	if full.Runtime > 0 {
		meta = append(meta, fmt.Sprintf("%dm", full.Runtime))
	}
	genres := make([]string, 0, len(full.Genres))
	for _, g := range full.Genres {
		genres = append(genres, g.Name)
	}
	if len(genres) > 0 {
		meta = append(meta, strings.Join(genres, ", "))
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(full.DisplayName()),
		dimStyle.Render(strings.Join(meta, "  ·  ")),
		"",
		lipgloss.NewStyle().Width(width).Render(full.Overview),
	}
	if full.Credits != nil && len(full.Credits.Cast) > 0 {
		names := make([]string, 0, maxCastShown)
		for _, c := range full.Credits.Cast {
			if len(names) == maxCastShown {
				break
			}
			names = append(names, c.Name)
		}
		lines = append(lines, "", dimStyle.Render("Cast: "+strings.Join(names, ", ")))
	}
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) trailerView() string {
	state := m.deps.Trailer.State()
	lines := []string{lipgloss.NewStyle().Bold(true).Render(state.Title + " - Trailer"), ""}
	switch {
	case state.EmbedFailed:
		lines = append(lines, "The player could not show this trailer.")
	case state.YouTube:
		lines = append(lines, "Playing in the external player.")
	default:
		lines = append(lines, "Trailer: "+state.VideoURL)
	}
	if state.ExternalURL != "" {
		lines = append(lines, "", dimStyle.Render("Watch on YouTube: "+state.ExternalURL))
	}
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) toastView() string {
	toasts := m.deps.Toasts.Active()
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style, ok := toastStyles[t.Level.String()]
		if !ok {
			style = toastStyles["info"]
		}
		lines = append(lines, style.Render(t.Message))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) bindings() []key.Binding {
	k := m.keys
	switch {
	case m.deps.Trailer.State().Visible:
		return []key.Binding{k.External, k.Back}
	case m.deps.Details.Visible():
		return []key.Binding{k.Trailer, k.Watchlist, k.Back}
	}
	switch m.screen {
	case screenLogin:
		return []key.Binding{k.Tab, k.Open, k.Register}
	case screenProfiles:
		if m.creating {
			return []key.Binding{k.Open, k.Kids, k.Back}
		}
		return []key.Binding{k.Up, k.Down, k.Open, k.NewProf, k.Logout, k.Quit}
	case screenBrowse:
		return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Open, k.Trailer, k.Watchlist, k.Search, k.Trending, k.Movies, k.Shows, k.Profiles, k.Logout, k.Quit}
	case screenList:
		return []key.Binding{k.Up, k.Down, k.Open, k.Trailer, k.Watchlist, k.Back, k.Quit}
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
