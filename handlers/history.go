package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Terence890/Nebula-Stream/api"
	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/history"
)

type historyService interface {
	Record(profileID string, update models.WatchHistoryUpdate) (models.WatchHistoryItem, error)
	List(profileID string) ([]models.WatchHistoryItem, error)
}

var _ historyService = (*history.Service)(nil)

// HistoryHandler tracks playback progress per profile.
type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(api.GetProfileID(r))
	if err != nil {
		log.Printf("[history] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load watch history")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	var body models.WatchHistoryUpdate
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Service.Record(api.GetProfileID(r), body); err != nil {
		switch {
		case errors.Is(err, history.ErrInvalidTitle),
			errors.Is(err, history.ErrInvalidMedia),
			errors.Is(err, history.ErrInvalidProgress):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[history] record failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update watch history")
		}
		return
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Watch history updated"})
}
