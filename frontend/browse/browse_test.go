package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Terence890/Nebula-Stream/frontend/hero"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	trending []models.Title
	movies   []models.Title
	tv       []models.Title
	search   []models.Title

	failPopularTV bool
	failSearch    bool
	failAdd       bool

	added   []models.WatchlistAdd
	addedTo []string
	queries []string
}

func (f *fakeAPI) Trending(ctx context.Context, page int) (*models.PagedTitles, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.PagedTitles{Page: page, Results: f.trending}, nil
}

func (f *fakeAPI) Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch mediaType {
	case models.MediaTypeMovie:
		return &models.PagedTitles{Page: page, Results: f.movies}, nil
	case models.MediaTypeTV:
		if f.failPopularTV {
			return nil, errors.New("upstream down")
		}
		return &models.PagedTitles{Page: page, Results: f.tv}, nil
	}
	return nil, fmt.Errorf("unexpected media type %q", mediaType)
}

func (f *fakeAPI) Search(ctx context.Context, query string, page int) (*models.PagedTitles, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.failSearch {
		return nil, errors.New("upstream down")
	}
	return &models.PagedTitles{Page: page, Results: f.search}, nil
}

func (f *fakeAPI) AddToWatchlist(ctx context.Context, profileID string, item models.WatchlistAdd) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd {
		return models.Message{}, errors.New("boom")
	}
	f.addedTo = append(f.addedTo, profileID)
	f.added = append(f.added, item)
	return models.Message{Message: "Added to watchlist"}, nil
}

type fixedProfile struct {
	profile *models.Profile
}

func (p fixedProfile) Selected() (models.Profile, bool) {
	if p.profile == nil {
		return models.Profile{}, false
	}
	return *p.profile, true
}

func titles(prefix string, n int, start int64) []models.Title {
	out := make([]models.Title, n)
	for i := range out {
		out[i] = models.Title{ID: start + int64(i), Title: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

func newView(api *fakeAPI) (*View, *notify.Recorder) {
	rec := &notify.Recorder{}
	v := New(api, fixedProfile{profile: &models.Profile{ID: "p1", Name: "Main"}}, rec, nil)
	return v, rec
}

func TestLoadRequiresProfile(t *testing.T) {
	api := &fakeAPI{trending: titles("t", 1, 1)}
	v := New(api, fixedProfile{}, &notify.Recorder{}, nil)

	err := v.Load(context.Background())
	require.ErrorIs(t, err, ErrNoProfile)
	assert.Empty(t, v.Shelves())
}

func TestLoadPublishesAllShelves(t *testing.T) {
	api := &fakeAPI{
		trending: titles("trend", 3, 1),
		movies:   titles("movie", 2, 100),
		tv:       titles("show", 1, 200),
	}
	v, rec := newView(api)

	require.NoError(t, v.Load(context.Background()))
	assert.Empty(t, rec.Toasts())

	shelves := v.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, "Trending Now", shelves[0].Heading)
	assert.Equal(t, "Popular Movies", shelves[1].Heading)
	assert.Equal(t, "Popular TV Shows", shelves[2].Heading)
	assert.Len(t, shelves[0].Items, 3)

	h, ok := v.Hero()
	require.True(t, ok)
	assert.Equal(t, int64(1), h.ID)
	assert.False(t, v.Loading())
}

func TestShelvesAreCappedAndEmptyOnesHidden(t *testing.T) {
	api := &fakeAPI{
		trending: titles("trend", 35, 1),
		movies:   nil,
		tv:       titles("show", 4, 200),
	}
	v, _ := newView(api)
	require.NoError(t, v.Load(context.Background()))

	shelves := v.Shelves()
	require.Len(t, shelves, 2)
	assert.Equal(t, ShelfTrending, shelves[0].ID)
	assert.Len(t, shelves[0].Items, MaxShelfItems)
	assert.Equal(t, ShelfTV, shelves[1].ID)
	for _, s := range shelves {
		assert.NotEmpty(t, s.Items, "shelf %s should not render empty", s.ID)
	}
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	api := &fakeAPI{
		trending: titles("trend", 2, 1),
		movies:   titles("movie", 2, 100),
		tv:       titles("show", 2, 200),
	}
	v, rec := newView(api)
	require.NoError(t, v.Load(context.Background()))

	api.mu.Lock()
	api.trending = titles("fresh", 5, 900)
	api.failPopularTV = true
	api.mu.Unlock()

	require.Error(t, v.Load(context.Background()))
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "Failed to load content", last.Message)

	shelves := v.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, int64(1), shelves[0].Items[0].ID, "a partial failure must not publish any shelf")
}

func TestSearchReplacesShelves(t *testing.T) {
	api := &fakeAPI{
		trending: titles("trend", 2, 1),
		movies:   titles("movie", 2, 100),
		search:   titles("hit", 3, 500),
	}
	v, _ := newView(api)
	require.NoError(t, v.Load(context.Background()))

	require.NoError(t, v.Search(context.Background(), "  hit "))
	assert.Equal(t, []string{"hit"}, api.queries)
	assert.Equal(t, "hit", v.Query())

	shelves := v.Shelves()
	require.Len(t, shelves, 1)
	assert.Equal(t, "Search Results", shelves[0].Heading)

	v.ClearSearch()
	assert.Len(t, v.Shelves(), 2)
}

func TestSearchWithNoResultsFallsBackToShelves(t *testing.T) {
	api := &fakeAPI{trending: titles("trend", 2, 1)}
	v, _ := newView(api)
	require.NoError(t, v.Load(context.Background()))

	require.NoError(t, v.Search(context.Background(), "nothing"))
	shelves := v.Shelves()
	require.Len(t, shelves, 1)
	assert.Equal(t, ShelfTrending, shelves[0].ID)
}

func TestBlankSearchSkipsRequest(t *testing.T) {
	api := &fakeAPI{}
	v, _ := newView(api)
	require.NoError(t, v.Search(context.Background(), "   "))
	assert.Empty(t, api.queries)
}

func TestSearchFailureNotifies(t *testing.T) {
	api := &fakeAPI{failSearch: true}
	v, rec := newView(api)

	require.Error(t, v.Search(context.Background(), "heat"))
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Search failed", last.Message)
	assert.False(t, v.Loading())
}

func TestAddToWatchlist(t *testing.T) {
	api := &fakeAPI{}
	v, rec := newView(api)

	require.NoError(t, v.AddToWatchlist(context.Background(), models.Title{ID: 42, Name: "Dark"}))
	require.Len(t, api.added, 1)
	assert.Equal(t, "p1", api.addedTo[0])
	assert.Equal(t, models.WatchlistAdd{TMDBID: 42, MediaType: models.MediaTypeTV}, api.added[0])
	last, _ := rec.Last()
	assert.Equal(t, notify.LevelSuccess, last.Level)
	assert.Equal(t, "Added to watchlist", last.Message)

	api.failAdd = true
	require.Error(t, v.AddToWatchlist(context.Background(), models.Title{ID: 7, Title: "Heat"}))
	last, _ = rec.Last()
	assert.Equal(t, "Failed to add to watchlist", last.Message)
}

func TestAddToWatchlistWithoutProfile(t *testing.T) {
	api := &fakeAPI{}
	v := New(api, fixedProfile{}, &notify.Recorder{}, nil)
	require.ErrorIs(t, v.AddToWatchlist(context.Background(), models.Title{ID: 1}), ErrNoProfile)
	assert.Empty(t, api.added)
}

func TestHeroFollowsRotator(t *testing.T) {
	api := &fakeAPI{trending: titles("trend", 3, 1)}
	ticks := make(chan int, 8)
	rotator := hero.New(10*time.Millisecond, func(i int) { ticks <- i })
	v := New(api, fixedProfile{profile: &models.Profile{ID: "p1"}}, &notify.Recorder{}, rotator)
	defer v.Dispose()

	require.NoError(t, v.Load(context.Background()))

	select {
	case i := <-ticks:
		require.Equal(t, 1, i)
	case <-time.After(2 * time.Second):
		t.Fatal("hero did not rotate")
	}
	v.Dispose()

	h, ok := v.Hero()
	require.True(t, ok)
	assert.Equal(t, api.trending[rotator.Index()].ID, h.ID)
}

func TestHeroEmpty(t *testing.T) {
	v, _ := newView(&fakeAPI{})
	_, ok := v.Hero()
	assert.False(t, ok)
}
