package history

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
	ErrStoreRequired   = errors.New("history store not provided")
	ErrProfileRequired = errors.New("profile id is required")
	ErrInvalidTitle    = errors.New("tmdb id must be positive")
	ErrInvalidMedia    = errors.New("media type must be movie or tv")
	ErrInvalidProgress = errors.New("position and duration must not be negative")
)

// MaxEntries caps how many history rows List returns.
const MaxEntries = 100

// Store is the persistence the history service needs.
type Store interface {
	Upsert(item *models.WatchHistoryItem) error
	List(profileID string, limit int) ([]models.WatchHistoryItem, error)
}

var _ Store = (*database.WatchHistoryRepository)(nil)

// Service records playback progress per profile.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a watch history service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Service{store: store, now: time.Now}, nil
}

// Record stores the latest position for a title, replacing any earlier entry.
func (s *Service) Record(profileID string, update models.WatchHistoryUpdate) (models.WatchHistoryItem, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return models.WatchHistoryItem{}, ErrProfileRequired
	}
	if update.TMDBID <= 0 {
		return models.WatchHistoryItem{}, ErrInvalidTitle
	}
	mediaType, ok := models.NormalizeMediaType(update.MediaType)
	if !ok {
		return models.WatchHistoryItem{}, ErrInvalidMedia
	}
	if update.Position < 0 || update.Duration < 0 {
		return models.WatchHistoryItem{}, ErrInvalidProgress
	}

	item := models.WatchHistoryItem{
		ID:          uuid.NewString(),
		ProfileID:   profileID,
		TMDBID:      update.TMDBID,
		MediaType:   mediaType,
		Position:    update.Position,
		Duration:    update.Duration,
		LastWatched: s.now().UTC(),
	}
	if err := s.store.Upsert(&item); err != nil {
		return models.WatchHistoryItem{}, fmt.Errorf("record watch history: %w", err)
	}
	return item, nil
}

// List returns the profile's history, most recently watched first.
func (s *Service) List(profileID string) ([]models.WatchHistoryItem, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, ErrProfileRequired
	}
	return s.store.List(profileID, MaxEntries)
}
