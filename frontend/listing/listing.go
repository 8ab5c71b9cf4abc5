// Package listing implements the paginated title list with infinite scroll.
package listing

import (
	"context"
	"log"
	"sync"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/models"
)

const (
	CategoryTrending = "trending"
	CategoryMovie    = models.MediaTypeMovie
	CategoryTV       = models.MediaTypeTV

	msgLoadFailed = "Failed to load list"
)

type API interface {
	Trending(ctx context.Context, page int) (*models.PagedTitles, error)
	Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error)
	Search(ctx context.Context, query string, page int) (*models.PagedTitles, error)
}

var _ API = (*client.Client)(nil)

// Heading is the list title shown for a category.
func Heading(category string) string {
	switch category {
	case CategoryMovie:
		return "All Movies"
	case CategoryTV:
		return "All TV Shows"
	case CategoryTrending:
		return "Trending"
	default:
		return "Results"
	}
}

// State is a snapshot of the list.
type State struct {
	Category   string
	Heading    string
	Items      []models.Title
	Page       int
	TotalPages int
	HasMore    bool
	Loading    bool
}

// Paginator accumulates pages of one category, de-duplicated by title id.
// Any category that is not trending, movie or tv is treated as a search query.
type Paginator struct {
	mu     sync.Mutex
	api    API
	notify notify.Notifier

	category   string
	gen        uint64
	page       int
	totalPages int
	items      []models.Title
	seen       map[int64]struct{}
	hasMore    bool
	loading    bool
}

func New(api API, n notify.Notifier) *Paginator {
	return &Paginator{api: api, notify: n, seen: make(map[int64]struct{})}
}

// SetCategory resets the list and loads the first page of category.
func (p *Paginator) SetCategory(ctx context.Context, category string) error {
	p.mu.Lock()
	p.gen++
	p.category = category
	p.page = 1
	p.totalPages = 1
	p.items = nil
	p.seen = make(map[int64]struct{})
	p.hasMore = true
	p.loading = true
	gen := p.gen
	p.mu.Unlock()

	return p.load(ctx, gen, category, 1)
}

// Intersect is called when the end-of-list sentinel scrolls into view. It
// advances to the next page unless a fetch is in flight or the list is
// exhausted, and reports whether a fetch was issued.
func (p *Paginator) Intersect(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.category == "" || !p.hasMore || p.loading {
		p.mu.Unlock()
		return false, nil
	}
	p.page++
	p.loading = true
	gen, category, page := p.gen, p.category, p.page
	p.mu.Unlock()

	return true, p.load(ctx, gen, category, page)
}

func (p *Paginator) fetch(ctx context.Context, category string, page int) (*models.PagedTitles, error) {
	switch category {
	case CategoryTrending:
		return p.api.Trending(ctx, page)
	case CategoryMovie, CategoryTV:
		return p.api.Popular(ctx, category, page)
	default:
		return p.api.Search(ctx, category, page)
	}
}

func (p *Paginator) load(ctx context.Context, gen uint64, category string, page int) error {
	res, err := p.fetch(ctx, category, page)

	p.mu.Lock()
	if gen != p.gen {
		// the category changed while this page was in flight
		p.mu.Unlock()
		return nil
	}
	p.loading = false

	if err != nil {
		// roll back so the next crossing retries this page, page 1 included
		p.page = page - 1
		p.mu.Unlock()
		log.Printf("[listing] failed to fetch %s page %d: %v", category, page, err)
		p.notify.Error(msgLoadFailed)
		return err
	}
	defer p.mu.Unlock()

	var results []models.Title
	if res != nil {
		results = res.Results
	}
	for _, title := range results {
		if _, dup := p.seen[title.ID]; dup {
			continue
		}
		p.seen[title.ID] = struct{}{}
		p.items = append(p.items, title)
	}

	p.totalPages = 1
	if res != nil && res.TotalPages > 0 {
		p.totalPages = res.TotalPages
	}

	switch {
	case page > 1 && len(results) == 0:
		p.hasMore = false
	case res != nil && res.Page > 0 && res.TotalPages > 0:
		p.hasMore = res.Page < res.TotalPages
	default:
		p.hasMore = len(results) > 0
	}
	return nil
}

func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Category:   p.category,
		Heading:    Heading(p.category),
		Items:      append([]models.Title(nil), p.items...),
		Page:       p.page,
		TotalPages: p.totalPages,
		HasMore:    p.hasMore,
		Loading:    p.loading,
	}
}
