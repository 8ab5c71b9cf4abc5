// Package details backs the title detail dialog.
package details

import (
	"context"
	"log"
	"sync"

	"github.com/Terence890/Nebula-Stream/client"
	"github.com/Terence890/Nebula-Stream/frontend/notify"
	"github.com/Terence890/Nebula-Stream/models"
)

const msgLoadFailed = "Failed to load details"

type API interface {
	Details(ctx context.Context, mediaType string, id int64) (*models.Title, error)
}

var _ API = (*client.Client)(nil)

// TrailerOpener is the playback overlay the dialog hands off to.
type TrailerOpener interface {
	Open(details models.Title) bool
}

type Dialog struct {
	mu       sync.RWMutex
	api      API
	notify   notify.Notifier
	selected *models.Title
	details  *models.Title
}

func NewDialog(api API, n notify.Notifier) *Dialog {
	return &Dialog{api: api, notify: n}
}

// Open selects title and fetches its full record once, keyed by its resolved
// media type and id.
func (d *Dialog) Open(ctx context.Context, title models.Title) error {
	d.mu.Lock()
	d.selected = &title
	d.details = nil
	d.mu.Unlock()

	full, err := d.api.Details(ctx, title.ResolvedMediaType(), title.ID)
	if err != nil {
		log.Printf("[details] failed to fetch title details: %v", err)
		d.notify.Error(msgLoadFailed)
		return err
	}

	d.mu.Lock()
	d.details = full
	d.mu.Unlock()
	return nil
}

func (d *Dialog) Close() {
	d.mu.Lock()
	d.selected = nil
	d.details = nil
	d.mu.Unlock()
}

// Play hands the loaded details to the trailer overlay and closes the dialog
// when a trailer was opened.
func (d *Dialog) Play(trailer TrailerOpener) bool {
	details, ok := d.Details()
	if !ok {
		return false
	}
	if !trailer.Open(details) {
		return false
	}
	d.Close()
	return true
}

func (d *Dialog) Visible() bool {
	_, ok := d.Selected()
	return ok
}

func (d *Dialog) Selected() (models.Title, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.selected == nil {
		return models.Title{}, false
	}
	return *d.selected, true
}

func (d *Dialog) Details() (models.Title, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.details == nil {
		return models.Title{}, false
	}
	return *d.details, true
}
