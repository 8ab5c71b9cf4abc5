package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Terence890/Nebula-Stream/models"
)

// WatchlistRepository persists per-profile watchlists.
type WatchlistRepository struct {
	db *DB
}

// NewWatchlistRepository creates a new watchlist repository.
func NewWatchlistRepository(db *DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add inserts an entry. Returns ErrConflict when the title is already saved.
func (r *WatchlistRepository) Add(item *models.WatchlistItem) error {
	_, err := r.db.exec(`
		INSERT INTO watchlist (id, profile_id, tmdb_id, media_type, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.ProfileID, item.TMDBID, item.MediaType, item.AddedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}
	return nil
}

// Get returns a profile's entry for a title, or nil.
func (r *WatchlistRepository) Get(profileID string, tmdbID int64) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	err := r.db.queryRow(`
		SELECT id, profile_id, tmdb_id, media_type, added_at
		FROM watchlist WHERE profile_id = ? AND tmdb_id = ?`, profileID, tmdbID,
	).Scan(&item.ID, &item.ProfileID, &item.TMDBID, &item.MediaType, &item.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan watchlist item: %w", err)
	}
	return &item, nil
}

// List returns a profile's watchlist, newest first.
func (r *WatchlistRepository) List(profileID string) ([]models.WatchlistItem, error) {
	rows, err := r.db.query(`
		SELECT id, profile_id, tmdb_id, media_type, added_at
		FROM watchlist WHERE profile_id = ?
		ORDER BY added_at DESC, id ASC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchlistItem, 0)
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.ID, &item.ProfileID, &item.TMDBID, &item.MediaType, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes an entry and reports whether one existed.
func (r *WatchlistRepository) Remove(profileID string, tmdbID int64) (bool, error) {
	res, err := r.db.exec(`DELETE FROM watchlist WHERE profile_id = ? AND tmdb_id = ?`, profileID, tmdbID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// WatchHistoryRepository persists playback progress.
type WatchHistoryRepository struct {
	db *DB
}

// NewWatchHistoryRepository creates a new watch history repository.
func NewWatchHistoryRepository(db *DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Upsert records progress, replacing any earlier entry for the same title.
func (r *WatchHistoryRepository) Upsert(item *models.WatchHistoryItem) error {
	_, err := r.db.exec(`
		INSERT INTO watch_history (id, profile_id, tmdb_id, media_type, position, duration, last_watched)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (profile_id, tmdb_id) DO UPDATE SET
			media_type = excluded.media_type,
			position = excluded.position,
			duration = excluded.duration,
			last_watched = excluded.last_watched`,
		item.ID, item.ProfileID, item.TMDBID, item.MediaType, item.Position, item.Duration, item.LastWatched.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert watch history: %w", err)
	}
	return nil
}

// List returns the most recently watched entries for a profile.
func (r *WatchHistoryRepository) List(profileID string, limit int) ([]models.WatchHistoryItem, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.query(`
		SELECT id, profile_id, tmdb_id, media_type, position, duration, last_watched
		FROM watch_history WHERE profile_id = ?
		ORDER BY last_watched DESC, id ASC
		LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchHistoryItem, 0)
	for rows.Next() {
		var item models.WatchHistoryItem
		if err := rows.Scan(&item.ID, &item.ProfileID, &item.TMDBID, &item.MediaType, &item.Position, &item.Duration, &item.LastWatched); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
