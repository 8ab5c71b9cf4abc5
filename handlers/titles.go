package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Terence890/Nebula-Stream/models"
	"github.com/Terence890/Nebula-Stream/services/metadata"
)

type metadataService interface {
	Trending(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error)
	Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error)
	Search(ctx context.Context, query string, page int) (*models.PagedTitles, error)
	Details(ctx context.Context, mediaType string, id int64) (*models.Title, error)
}

var _ metadataService = (*metadata.Service)(nil)

// TitlesHandler proxies catalog lookups to the metadata service.
type TitlesHandler struct {
	Service metadataService
}

func NewTitlesHandler(service metadataService) *TitlesHandler {
	return &TitlesHandler{Service: service}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *TitlesHandler) Trending(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Trending(r.Context(), r.URL.Query().Get("media_type"), pageParam(r))
	h.respond(w, r, "trending", out, err)
}

func (h *TitlesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Popular(r.Context(), r.URL.Query().Get("media_type"), pageParam(r))
	h.respond(w, r, "popular", out, err)
}

func (h *TitlesHandler) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Search(r.Context(), r.URL.Query().Get("query"), pageParam(r))
	h.respond(w, r, "search", out, err)
}

func (h *TitlesHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid title id")
		return
	}
	out, err := h.Service.Details(r.Context(), vars["media_type"], id)
	h.respond(w, r, "details", out, err)
}

func (h *TitlesHandler) respond(w http.ResponseWriter, r *http.Request, op string, out any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, out)
		return
	}
	switch {
	case errors.Is(err, metadata.ErrInvalidMediaType),
		errors.Is(err, metadata.ErrQueryRequired),
		errors.Is(err, metadata.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, metadata.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case r.Context().Err() != nil:
		// client went away
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[metadata] %s timed out: %v", op, err)
		writeError(w, http.StatusGatewayTimeout, "metadata provider timed out")
	default:
		log.Printf("[metadata] %s failed: %v", op, err)
		writeError(w, http.StatusBadGateway, "metadata provider unavailable")
	}
}
