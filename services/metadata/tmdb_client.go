package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

const defaultTMDBBaseURL = "https://api.themoviedb.org/3"

// statusError is a non-2xx answer from TMDB.
type statusError struct {
	Status     int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb responded %d", e.Status)
	}
	return fmt.Sprintf("tmdb responded %d: %s", e.Status, e.Body)
}

// retryable reports whether a failed request is worth repeating: transport
// errors, rate limiting and server errors.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode tmdb response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

type tmdbClient struct {
	apiKey   string
	baseURL  string
	language string
	httpc    *http.Client
	attempts uint
	delay    time.Duration

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey, baseURL, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     baseURL,
		language:    language,
		httpc:       httpc,
		attempts:    3,
		delay:       300 * time.Millisecond,
		minInterval: 25 * time.Millisecond,
	}
}

func (c *tmdbClient) throttle() {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()
	if since := time.Since(c.lastRequest); since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
}

// get fetches path relative to the API root and decodes the JSON body into v.
func (c *tmdbClient) get(ctx context.Context, path string, q url.Values, v any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	if c.language != "" && q.Get("language") == "" {
		q.Set("language", c.language)
	}
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()

	return retry.Do(
		func() error {
			c.throttle()
			return c.do(ctx, endpoint, path, v)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			var se *statusError
			if errors.As(err, &se) && se.RetryAfter > 0 {
				return se.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[tmdb] retrying %s (attempt %d): %v", path, n+1, err)
		}),
	)
}

func (c *tmdbClient) do(ctx context.Context, endpoint, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Unrecoverable(redactURL(err, path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return redactURL(err, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		se := &statusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 && secs <= 30 {
				se.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		log.Printf("[tmdb] GET %s failed: %d", path, resp.StatusCode)
		return se
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

// redactURL replaces the request URL in transport errors with the bare path;
// the full URL carries the api key.
func redactURL(err error, path string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s: %w", ue.Op, path, ue.Err)
	}
	return err
}
