package profiles

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
	ErrStoreRequired   = errors.New("profile store not provided")
	ErrNameRequired    = errors.New("profile name is required")
	ErrAccountRequired = errors.New("account id is required")
	ErrProfileNotFound = errors.New("profile not found")
)

// maxNameLength bounds profile names so they fit a picker tile.
const maxNameLength = 64

// Store is the persistence the profiles service needs.
type Store interface {
	Create(p *models.Profile) error
	ListByAccount(accountID string) ([]models.Profile, error)
	GetByID(id string) (*models.Profile, error)
}

var _ Store = (*database.ProfileRepository)(nil)

// Service manages the viewing profiles owned by each account.
type Service struct {
	store Store
}

// NewService creates a profiles service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Service{store: store}, nil
}

// List returns the account's profiles in creation order.
func (s *Service) List(accountID string) ([]models.Profile, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrAccountRequired
	}
	return s.store.ListByAccount(accountID)
}

// Create adds a profile to the account.
func (s *Service) Create(accountID string, req models.ProfileCreate) (models.Profile, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return models.Profile{}, ErrAccountRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Profile{}, ErrNameRequired
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}

	profile := models.Profile{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Name:      name,
		IsKids:    req.IsKids,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(&profile); err != nil {
		return models.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// Get returns a profile only when it belongs to the account.
func (s *Service) Get(accountID, profileID string) (models.Profile, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return models.Profile{}, ErrProfileNotFound
	}
	profile, err := s.store.GetByID(profileID)
	if err != nil {
		return models.Profile{}, err
	}
	if profile == nil || profile.AccountID != accountID {
		return models.Profile{}, ErrProfileNotFound
	}
	return *profile, nil
}

// BelongsToAccount reports whether the profile is owned by the account.
func (s *Service) BelongsToAccount(profileID, accountID string) bool {
	_, err := s.Get(accountID, profileID)
	return err == nil
}
