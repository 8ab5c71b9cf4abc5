package models

import (
	"strconv"
	"time"
)

// WatchlistItem is a title saved by a profile for quick access.
type WatchlistItem struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	TMDBID    int64     `json:"tmdb_id"`
	MediaType string    `json:"media_type"` // movie | tv
	AddedAt   time.Time `json:"added_at"`
}

// WatchlistAdd captures the data required to add a watchlist entry.
type WatchlistAdd struct {
	TMDBID    int64  `json:"tmdb_id"`
	MediaType string `json:"media_type"`
}

// Key returns a stable identifier combining media type and TMDB ID.
func (w WatchlistItem) Key() string {
	return w.MediaType + ":" + strconv.FormatInt(w.TMDBID, 10)
}

// WatchHistoryItem records how far a profile got through a title.
type WatchHistoryItem struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	TMDBID      int64     `json:"tmdb_id"`
	MediaType   string    `json:"media_type"`
	Position    int       `json:"position"`
	Duration    int       `json:"duration"`
	LastWatched time.Time `json:"last_watched"`
}

// WatchHistoryUpdate is the body of a watch history upsert.
type WatchHistoryUpdate struct {
	TMDBID    int64  `json:"tmdb_id"`
	MediaType string `json:"media_type"`
	Position  int    `json:"position"`
	Duration  int    `json:"duration"`
}

// Message is the generic acknowledgement body used by the watchlist endpoints.
type Message struct {
	Message string `json:"message"`
}
