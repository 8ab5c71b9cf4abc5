// Package browse drives the home screen: a rotating hero, the trending and
// popular shelves, and an inline search shelf.
package browse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/hero"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/models"
)

const (
	ShelfSearch   = "search"
	ShelfTrending = "trending"
	ShelfMovies   = "movies"
	ShelfTV       = "tv"

	// MaxShelfItems caps how many titles a single shelf shows.
	MaxShelfItems = 20
)

var ErrNoProfile = errors.New("no profile selected")

type API interface {
	Trending(ctx context.Context, page int) (*models.PagedTitles, error)
	Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error)
	Search(ctx context.Context, query string, page int) (*models.PagedTitles, error)
	AddToWatchlist(ctx context.Context, profileID string, item models.WatchlistAdd) (models.Message, error)
}

var _ API = (*client.Client)(nil)

// ProfileSource reports the currently selected profile.
type ProfileSource interface {
	Selected() (models.Profile, bool)
}

// Shelf is one horizontal row of titles.
type Shelf struct {
	ID      string
	Heading string
	Items   []models.Title
}

// View holds everything the browse screen renders.
type View struct {
	api      API
	profiles ProfileSource
	notify   notify.Notifier
	rotator  *hero.Rotator

	mu        sync.RWMutex
	trending  []models.Title
	movies    []models.Title
	tv        []models.Title
	results   []models.Title
	query     string
	loading   bool
	searching bool
}

// New builds a view. rotator may be nil, in which case the hero stays on the
// first trending title.
func New(api API, profiles ProfileSource, n notify.Notifier, rotator *hero.Rotator) *View {
	return &View{api: api, profiles: profiles, notify: n, rotator: rotator}
}

// Load fetches trending, popular movies and popular TV in parallel and
// publishes them together. A failed fetch leaves the previous shelves intact.
func (v *View) Load(ctx context.Context) error {
	if _, ok := v.profiles.Selected(); !ok {
		return ErrNoProfile
	}

	v.setLoading(true)
	defer v.setLoading(false)

	var trending, movies, tv *models.PagedTitles
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		trending, err = v.api.Trending(ctx, 1)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		movies, err = v.api.Popular(ctx, models.MediaTypeMovie, 1)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		tv, err = v.api.Popular(ctx, models.MediaTypeTV, 1)
		return err
	})
	if err := p.Wait(); err != nil {
		log.Printf("[browse] failed to load content: %v", err)
		v.notify.Error("Failed to load content")
		return fmt.Errorf("load browse content: %w", err)
	}

	v.mu.Lock()
	v.trending = resultsOf(trending)
	v.movies = resultsOf(movies)
	v.tv = resultsOf(tv)
	count := len(v.trending)
	v.mu.Unlock()

	if v.rotator != nil {
		v.rotator.Reset(count)
	}
	return nil
}

// Search replaces the search shelf with the first page of results for q. A
// blank query clears the shelf without a request.
func (v *View) Search(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		v.ClearSearch()
		return nil
	}

	v.mu.Lock()
	v.searching = true
	v.mu.Unlock()

	res, err := v.api.Search(ctx, q, 1)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.searching = false
	if err != nil {
		log.Printf("[browse] search %q failed: %v", q, err)
		v.notify.Error("Search failed")
		return fmt.Errorf("search %q: %w", q, err)
	}
	v.query = q
	v.results = resultsOf(res)
	return nil
}

func (v *View) ClearSearch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = ""
	v.results = nil
}

// Shelves lists the rows to render. Non-empty search results replace every
// other shelf; empty shelves are omitted.
func (v *View) Shelves() []Shelf {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var candidates []Shelf
	if len(v.results) > 0 {
		candidates = []Shelf{{ID: ShelfSearch, Heading: "Search Results", Items: v.results}}
	} else {
		candidates = []Shelf{
			{ID: ShelfTrending, Heading: "Trending Now", Items: v.trending},
			{ID: ShelfMovies, Heading: "Popular Movies", Items: v.movies},
			{ID: ShelfTV, Heading: "Popular TV Shows", Items: v.tv},
		}
	}

	shelves := make([]Shelf, 0, len(candidates))
	for _, s := range candidates {
		if len(s.Items) == 0 {
			continue
		}
		n := min(len(s.Items), MaxShelfItems)
		s.Items = append([]models.Title(nil), s.Items[:n]...)
		shelves = append(shelves, s)
	}
	return shelves
}

// Hero returns the featured title: the trending entry at the rotator's index.
func (v *View) Hero() (models.Title, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.trending) == 0 {
		return models.Title{}, false
	}
	i := 0
	if v.rotator != nil {
		i = v.rotator.Index()
	}
	if i < 0 || i >= len(v.trending) {
		i = 0
	}
	return v.trending[i], true
}

// AddToWatchlist saves title to the selected profile's watchlist.
func (v *View) AddToWatchlist(ctx context.Context, title models.Title) error {
	profile, ok := v.profiles.Selected()
	if !ok {
		return ErrNoProfile
	}
	_, err := v.api.AddToWatchlist(ctx, profile.ID, models.WatchlistAdd{
		TMDBID:    title.ID,
		MediaType: title.ResolvedMediaType(),
	})
	if err != nil {
		log.Printf("[browse] add %d to watchlist for profile %s failed: %v", title.ID, profile.ID, err)
		v.notify.Error("Failed to add to watchlist")
		return err
	}
	v.notify.Success("Added to watchlist")
	return nil
}

func (v *View) Query() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.query
}

// Loading reports whether a Load or Search is in flight.
func (v *View) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading || v.searching
}

// Dispose stops the hero timer.
func (v *View) Dispose() {
	if v.rotator != nil {
		v.rotator.Stop()
	}
}

func (v *View) setLoading(loading bool) {
	v.mu.Lock()
	v.loading = loading
	v.mu.Unlock()
}

func resultsOf(page *models.PagedTitles) []models.Title {
	if page == nil {
		return nil
	}
	return page.Results
}
