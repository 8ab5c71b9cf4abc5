// Package profiles holds the account's viewing profiles and the selected one.
package profiles

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/frontend/store"
	"github.com/Terence890/Nebula-Stream/models"
)

var ErrNameRequired = errors.New("profile name is required")

type API interface {
	Profiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, req models.ProfileCreate) (models.Profile, error)
}

var _ API = (*client.Client)(nil)

// Holder tracks the profile list and at most one selected profile.
type Holder struct {
	mu       sync.RWMutex
	api      API
	store    *store.Store
	notify   notify.Notifier
	profiles []models.Profile
	selected *models.Profile
	loading  bool
}

func NewHolder(api API, st *store.Store, n notify.Notifier) *Holder {
	return &Holder{api: api, store: st, notify: n}
}

// Fetch reloads the profiles and restores the persisted selection when it
// still names one of them.
func (h *Holder) Fetch(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	list, err := h.api.Profiles(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if err != nil {
		log.Printf("[profiles] failed to fetch profiles: %v", err)
		h.notify.Error("Failed to load profiles")
		return err
	}
	h.profiles = list

	if saved, ok := h.store.Get(store.KeySelectedProfile); ok {
		for i := range list {
			if list[i].ID == saved {
				p := list[i]
				h.selected = &p
				break
			}
		}
	}
	return nil
}

// Create adds a profile and selects it.
func (h *Holder) Create(ctx context.Context, name string, isKids bool) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		h.notify.Error("Please enter a profile name")
		return models.Profile{}, ErrNameRequired
	}

	profile, err := h.api.CreateProfile(ctx, models.ProfileCreate{Name: name, IsKids: isKids})
	if err != nil {
		h.notify.Error("Failed to create profile")
		return models.Profile{}, err
	}

	h.mu.Lock()
	h.profiles = append(h.profiles, profile)
	h.mu.Unlock()

	h.notify.Success("Profile created!")
	h.Select(profile)
	return profile, nil
}

// Select makes p the active profile and remembers it across runs.
func (h *Holder) Select(p models.Profile) {
	h.mu.Lock()
	h.selected = &p
	h.mu.Unlock()
	if err := h.store.Set(store.KeySelectedProfile, p.ID); err != nil {
		log.Printf("[profiles] failed to persist selection: %v", err)
	}
}

// Clear drops the list and the selection, e.g. after logout.
func (h *Holder) Clear() {
	h.mu.Lock()
	h.profiles = nil
	h.selected = nil
	h.mu.Unlock()
}

func (h *Holder) Profiles() []models.Profile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.Profile(nil), h.profiles...)
}

func (h *Holder) Selected() (models.Profile, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.selected == nil {
		return models.Profile{}, false
	}
	return *h.selected, true
}

func (h *Holder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}
