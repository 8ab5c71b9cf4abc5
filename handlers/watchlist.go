package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Terence890/Nebula-Stream/api"
	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/watchlist"
)

type watchlistService interface {
	Add(profileID string, req models.WatchlistAdd) (models.WatchlistItem, bool, error)
	List(profileID string) ([]models.WatchlistItem, error)
	Remove(profileID string, tmdbID int64) (bool, error)
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(api.GetProfileID(r))
	if err != nil {
		log.Printf("[watchlist] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load watchlist")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Add saves a title; adding one that is already saved is acknowledged, not rejected.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body models.WatchlistAdd
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, added, err := h.Service.Add(api.GetProfileID(r), body)
	if err != nil {
		if errors.Is(err, watchlist.ErrInvalidTitle) || errors.Is(err, watchlist.ErrInvalidMedia) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[watchlist] add failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update watchlist")
		return
	}

	if !added {
		writeJSON(w, http.StatusOK, models.Message{Message: "Already in watchlist"})
		return
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Added to watchlist"})
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["tmdb_id"], 10, 64)
	if err != nil || tmdbID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid tmdb id")
		return
	}

	if _, err := h.Service.Remove(api.GetProfileID(r), tmdbID); err != nil {
		log.Printf("[watchlist] remove failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update watchlist")
		return
	}
	writeJSON(w, http.StatusOK, models.Message{Message: "Removed from watchlist"})
}
