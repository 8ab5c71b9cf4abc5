package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Terence890/Nebula-Stream/api"
	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/profiles"
)

type profilesService interface {
	List(accountID string) ([]models.Profile, error)
	Create(accountID string, req models.ProfileCreate) (models.Profile, error)
}

var _ profilesService = (*profiles.Service)(nil)

type ProfilesHandler struct {
	Service profilesService
}

func NewProfilesHandler(service profilesService) *ProfilesHandler {
	return &ProfilesHandler{Service: service}
}

func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(api.GetAccountID(r))
	if err != nil {
		log.Printf("[profiles] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load profiles")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ProfilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body models.ProfileCreate
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.Create(api.GetAccountID(r), body)
	if err != nil {
		if errors.Is(err, profiles.ErrNameRequired) || errors.Is(err, profiles.ErrAccountRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[profiles] create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
