package watchlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Terence890/Nebula-Stream/internal/database"
	"github.com/Terence890/Nebula-Stream/models"
)

var (
	ErrStoreRequired   = errors.New("watchlist store not provided")
	ErrProfileRequired = errors.New("profile id is required")
	ErrInvalidTitle    = errors.New("tmdb id must be positive")
	ErrInvalidMedia    = errors.New("media type must be movie or tv")
)

// Store is the persistence the watchlist service needs.
type Store interface {
	Add(item *models.WatchlistItem) error
	Get(profileID string, tmdbID int64) (*models.WatchlistItem, error)
	List(profileID string) ([]models.WatchlistItem, error)
	Remove(profileID string, tmdbID int64) (bool, error)
}

var _ Store = (*database.WatchlistRepository)(nil)

// Service manages per-profile watchlists.
type Service struct {
	store Store
}

// NewService creates a watchlist service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Service{store: store}, nil
}

// Add saves a title for the profile. added is false when it was already saved.
func (s *Service) Add(profileID string, req models.WatchlistAdd) (item models.WatchlistItem, added bool, err error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return models.WatchlistItem{}, false, ErrProfileRequired
	}
	if req.TMDBID <= 0 {
		return models.WatchlistItem{}, false, ErrInvalidTitle
	}
	mediaType, ok := models.NormalizeMediaType(req.MediaType)
	if !ok {
		return models.WatchlistItem{}, false, ErrInvalidMedia
	}

	existing, err := s.store.Get(profileID, req.TMDBID)
	if err != nil {
		return models.WatchlistItem{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	item = models.WatchlistItem{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		TMDBID:    req.TMDBID,
		MediaType: mediaType,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.store.Add(&item); err != nil {
		if errors.Is(err, database.ErrConflict) {
			// lost a race with a concurrent add
			existing, getErr := s.store.Get(profileID, req.TMDBID)
			if getErr == nil && existing != nil {
				return *existing, false, nil
			}
		}
		return models.WatchlistItem{}, false, fmt.Errorf("add watchlist item: %w", err)
	}
	return item, true, nil
}

// List returns the profile's watchlist, newest first.
func (s *Service) List(profileID string) ([]models.WatchlistItem, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, ErrProfileRequired
	}
	return s.store.List(profileID)
}

// Remove deletes a title from the profile's watchlist and reports whether it was present.
func (s *Service) Remove(profileID string, tmdbID int64) (bool, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return false, ErrProfileRequired
	}
	return s.store.Remove(profileID, tmdbID)
}
