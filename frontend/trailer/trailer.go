// Package trailer resolves a playable trailer for a title and manages the
// playback overlay, including the lifetime of the embedded player.
package trailer

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/models"
)

const (
	MsgNoTrailer        = "No trailer available for this title."
	MsgEmbedDisallowed  = "This video cannot be embedded. Opening on YouTube."
	MsgPlaybackError    = "Playback error (YouTube). Opening on YouTube."
	MsgPlayFailed       = "Failed to play trailer"
	siteYouTube         = "youtube"
	youTubeWatchURLBase = "https://www.youtube.com/watch?v="
)

// Resolve picks the first Trailer, else the first Teaser.
func Resolve(videos []models.Video) (models.Video, bool) {
	for _, want := range []string{models.VideoTypeTrailer, models.VideoTypeTeaser} {
		for _, v := range videos {
			if v.Type == want {
				return v, true
			}
		}
	}
	return models.Video{}, false
}

// IsEmbedDisallowed reports whether a YouTube player error code means the
// owner disabled embedding.
func IsEmbedDisallowed(code int) bool {
	return code == 101 || code == 150
}

// WatchURL is the external YouTube page for key.
func WatchURL(key string) string {
	return youTubeWatchURLBase + url.QueryEscape(key)
}

// Player is an embedded video player instance.
type Player interface {
	Mount(videoID string) error
	Destroy()
}

// PlayerFactory builds a fresh player. The player reports provider error codes
// through onError.
type PlayerFactory func(onError func(code int)) Player

// State is a snapshot of the overlay.
type State struct {
	Visible bool
	Title   string
	// YouTube is set when the embedded player hosts the trailer.
	YouTube bool
	VideoID string
	// VideoURL is the generic embeddable URL for non YouTube trailers.
	VideoURL    string
	ExternalURL string
	// EmbedFailed is set once the embedded player reported an error or could
	// not be mounted; the UI should steer the viewer to ExternalURL.
	EmbedFailed bool
}

type Overlay struct {
	mu      sync.Mutex
	factory PlayerFactory
	notify  notify.Notifier
	state   State
	player  Player
	// gen invalidates callbacks from players that were already torn down.
	gen uint64
}

func NewOverlay(factory PlayerFactory, n notify.Notifier) *Overlay {
	return &Overlay{factory: factory, notify: n}
}

// Open shows the best trailer of details. It returns false, after notifying,
// when there is nothing to play.
func (o *Overlay) Open(details models.Title) bool {
	candidate, ok := Resolve(details.VideoResults())
	if !ok {
		o.notify.Info(MsgNoTrailer)
		return false
	}

	if strings.EqualFold(strings.TrimSpace(candidate.Site), siteYouTube) && candidate.Key != "" {
		o.openYouTube(details.DisplayName(), candidate.Key)
		return true
	}

	if strings.TrimSpace(candidate.URL) == "" {
		o.notify.Info(MsgNoTrailer)
		return false
	}

	o.mu.Lock()
	o.teardownLocked()
	o.state = State{
		Visible:     true,
		Title:       details.DisplayName(),
		VideoURL:    candidate.URL,
		ExternalURL: candidate.URL,
	}
	o.mu.Unlock()
	return true
}

func (o *Overlay) openYouTube(title, key string) {
	o.mu.Lock()
	o.teardownLocked()
	o.state = State{
		Visible:     true,
		Title:       title,
		YouTube:     true,
		VideoID:     key,
		ExternalURL: WatchURL(key),
	}
	gen := o.gen
	if o.factory == nil {
		o.state.EmbedFailed = true
		o.mu.Unlock()
		return
	}
	player := o.factory(func(code int) { o.handlePlayerError(gen, code) })
	o.player = player
	o.mu.Unlock()

	// Mount outside the lock; players may report errors synchronously.
	if err := player.Mount(key); err != nil {
		log.Printf("[trailer] player init failed: %v", err)
		o.mu.Lock()
		if o.gen == gen {
			o.state.EmbedFailed = true
			o.state.ExternalURL = WatchURL(key)
		}
		o.mu.Unlock()
	}
}

func (o *Overlay) handlePlayerError(gen uint64, code int) {
	o.mu.Lock()
	if gen != o.gen || !o.state.YouTube {
		o.mu.Unlock()
		return
	}
	o.state.EmbedFailed = true
	o.state.ExternalURL = WatchURL(o.state.VideoID)
	o.mu.Unlock()

	if IsEmbedDisallowed(code) {
		o.notify.Error(MsgEmbedDisallowed)
		return
	}
	o.notify.Error(MsgPlaybackError)
}

// Close hides the overlay and releases the embedded player.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teardownLocked()
	o.state = State{}
}

// Dispose releases the player when the owning view goes away.
func (o *Overlay) Dispose() {
	o.Close()
}

func (o *Overlay) teardownLocked() {
	o.gen++
	if o.player != nil {
		o.player.Destroy()
		o.player = nil
	}
}

func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// DetailsFetcher loads the full record of a title.
type DetailsFetcher interface {
	Details(ctx context.Context, mediaType string, id int64) (*models.Title, error)
}

// Play fetches details for title and opens its trailer, as the play button on
// a title card does.
func (o *Overlay) Play(ctx context.Context, api DetailsFetcher, title models.Title) bool {
	details, err := api.Details(ctx, title.ResolvedMediaType(), title.ID)
	if err != nil {
		log.Printf("[trailer] failed to fetch details for play: %v", err)
		o.notify.Error(MsgPlayFailed)
		return false
	}
	return o.Open(*details)
}
