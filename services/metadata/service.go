package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/Terence890/Nebula-Stream/models"
)

var (
	ErrInvalidMediaType = errors.New("media type must be movie or tv")
	ErrQueryRequired    = errors.New("query is required")
	ErrInvalidID        = errors.New("title id must be positive")
	ErrNotFound         = errors.New("title not found")
	ErrUpstream         = errors.New("metadata provider unavailable")
)

const (
	// maxPage is the highest page TMDB will serve for list endpoints.
	maxPage = 500

	memoryCacheSize = 512

	// upstreamTimeout bounds a shared TMDB call, which outlives the caller
	// that started it.
	upstreamTimeout = 45 * time.Second
)

// Config configures the metadata service.
type Config struct {
	APIKey        string
	BaseURL       string
	Language      string
	CacheDir      string
	CacheTTLHours int
	Demo          bool
	HTTPClient    *http.Client
	// Fs backs the on-disk cache; nil uses the OS filesystem.
	Fs afero.Fs
}

// Service proxies the TMDB catalog. Responses are cached in memory in front
// of a file cache, and identical concurrent upstream calls are collapsed.
type Service struct {
	tmdb   *tmdbClient
	cache  *fileCache
	memory *expirable.LRU[string, []byte]
	group  singleflight.Group
	demo   bool
}

func NewService(cfg Config) *Service {
	ttlHours := cfg.CacheTTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	memoryTTL := time.Duration(ttlHours) * time.Hour
	if memoryTTL > time.Hour {
		memoryTTL = time.Hour
	}
	if cfg.Demo {
		log.Printf("[metadata] demo mode: serving the built-in catalog")
	}
	return &Service{
		tmdb:   newTMDBClient(cfg.APIKey, cfg.BaseURL, cfg.Language, cfg.HTTPClient),
		cache:  newFileCache(cfg.Fs, filepath.Join(cfg.CacheDir, "metadata"), ttlHours),
		memory: expirable.NewLRU[string, []byte](memoryCacheSize, nil, memoryTTL),
		demo:   cfg.Demo,
	}
}

// ClearCache drops every cached response.
func (s *Service) ClearCache() error {
	s.memory.Purge()
	removed, err := s.cache.clear()
	if err != nil {
		return err
	}
	log.Printf("[metadata] cleared %d cached responses", removed)
	return nil
}

// Trending returns this week's trending titles. mediaType is all, movie or tv.
func (s *Service) Trending(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	switch mediaType {
	case "", models.MediaTypeAll:
		mediaType = models.MediaTypeAll
	default:
		normalized, ok := models.NormalizeMediaType(mediaType)
		if !ok {
			return nil, ErrInvalidMediaType
		}
		mediaType = normalized
	}
	page = clampPage(page)

	if s.demo {
		return demoPage(demoCatalog(mediaType), page), nil
	}

	q := url.Values{"page": {strconv.Itoa(page)}}
	var out models.PagedTitles
	if err := s.fetch(ctx, "trending/"+mediaType+"/week", q, &out); err != nil {
		return nil, err
	}
	if mediaType != models.MediaTypeAll {
		fillMediaType(out.Results, mediaType)
	}
	return &out, nil
}

// Popular returns popular movies or series.
func (s *Service) Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error) {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = models.MediaTypeMovie
	}
	normalized, ok := models.NormalizeMediaType(mediaType)
	if !ok {
		return nil, ErrInvalidMediaType
	}
	page = clampPage(page)

	if s.demo {
		return demoPage(demoCatalog(normalized), page), nil
	}

	q := url.Values{"page": {strconv.Itoa(page)}}
	var out models.PagedTitles
	if err := s.fetch(ctx, normalized+"/popular", q, &out); err != nil {
		return nil, err
	}
	fillMediaType(out.Results, normalized)
	return &out, nil
}

// Search runs a multi search and drops results that are not movies or series.
func (s *Service) Search(ctx context.Context, query string, page int) (*models.PagedTitles, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	page = clampPage(page)

	if s.demo {
		return demoPage(searchDemo(query), page), nil
	}

	q := url.Values{
		"query":         {query},
		"page":          {strconv.Itoa(page)},
		"include_adult": {"false"},
	}
	var out models.PagedTitles
	if err := s.fetch(ctx, "search/multi", q, &out); err != nil {
		return nil, err
	}
	filtered := out.Results[:0]
	for _, title := range out.Results {
		switch title.MediaType {
		case models.MediaTypeMovie, models.MediaTypeTV:
			filtered = append(filtered, title)
		}
	}
	out.Results = filtered
	return &out, nil
}

// Details returns a title with its videos and credits attached.
func (s *Service) Details(ctx context.Context, mediaType string, id int64) (*models.Title, error) {
	normalized, ok := models.NormalizeMediaType(mediaType)
	if !ok {
		return nil, ErrInvalidMediaType
	}
	if id <= 0 {
		return nil, ErrInvalidID
	}

	if s.demo {
		title, ok := findDemo(normalized, id)
		if !ok {
			return nil, ErrNotFound
		}
		normalizeVideos(&title)
		return &title, nil
	}

	q := url.Values{"append_to_response": {"videos,credits"}}
	var out models.Title
	if err := s.fetch(ctx, normalized+"/"+strconv.FormatInt(id, 10), q, &out); err != nil {
		return nil, err
	}
	out.MediaType = normalized
	normalizeVideos(&out)
	return &out, nil
}

// fetch serves path from the memory cache, then the file cache, then TMDB.
func (s *Service) fetch(ctx context.Context, path string, q url.Values, out any) error {
	key := cacheKey("tmdb", s.tmdb.language, path, q.Encode())

	if raw, ok := s.memory.Get(key); ok {
		return json.Unmarshal(raw, out)
	}

	var cached json.RawMessage
	if ok, _ := s.cache.get(key, &cached); ok {
		s.memory.Add(key, cached)
		return json.Unmarshal(cached, out)
	}

	ch := s.group.DoChan(key, func() (any, error) {
		upstreamCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), upstreamTimeout)
		defer cancel()

		var body json.RawMessage
		if err := s.tmdb.get(upstreamCtx, path, cloneValues(q), &body); err != nil {
			return nil, err
		}
		if err := s.cache.set(key, body); err != nil {
			log.Printf("[metadata] failed to cache %s: %v", path, err)
		}
		s.memory.Add(key, body)
		return []byte(body), nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return upstreamError(path, res.Err)
		}
		if res.Shared {
			log.Printf("[metadata] shared in-flight response for %s", path)
		}
		return json.Unmarshal(res.Val.([]byte), out)
	}
}

func upstreamError(path string, err error) error {
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, path, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

func fillMediaType(titles []models.Title, mediaType string) {
	for i := range titles {
		if titles[i].MediaType == "" {
			titles[i].MediaType = mediaType
		}
	}
}
