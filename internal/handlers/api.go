package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dbobbgit/room-of-requirement/internal/clients/catalog"
	"github.com/dbobbgit/room-of-requirement/internal/config"
	"github.com/dbobbgit/room-of-requirement/internal/core"
	"github.com/dbobbgit/room-of-requirement/internal/form"
	"github.com/dbobbgit/room-of-requirement/internal/models"
	"github.com/dbobbgit/room-of-requirement/internal/utils"
)

type APIHandler struct {
	manager *core.Manager
	logger  *utils.Logger
	config  *config.Config
}

func NewAPIHandler(manager *core.Manager, logger *utils.Logger, config *config.Config) *APIHandler {
	return &APIHandler{manager: manager, logger: logger, config: config}
}

// A helper function to respond with JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to respond with a JSON error
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// respondCatalogError maps provider failures onto HTTP statuses: missing
// credentials are a service problem on our side, upstream failures a bad
// gateway.
func respondCatalogError(w http.ResponseWriter, err error) {
	var cfgErr *catalog.ConfigError
	if errors.As(err, &cfgErr) {
		respondError(w, http.StatusServiceUnavailable, cfgErr.Error())
		return
	}
	var httpErr *catalog.HTTPError
	if errors.As(err, &httpErr) {
		respondError(w, http.StatusBadGateway, httpErr.Error())
		return
	}
	respondError(w, http.StatusBadGateway, err.Error())
}

// Login endpoint (mock auth: one shared password)
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.Password != h.config.App.UIPassword {
		respondError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": h.manager.CurrentUser(),
	})
}

// GetUsers returns the acting user and everyone the collection can be
// shared with.
func (h *APIHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current_user": h.manager.CurrentUser(),
		"users":        h.manager.Users(),
	})
}

// SearchCatalog performs one stateless provider search.
func (h *APIHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	mediaType, err := models.ParseMediaType(r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.manager.SearchCatalog(r.Context(), mediaType, query)
	if err != nil {
		h.logger.Error("Catalog search failed:", err)
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Autofill fetches one catalog entry's details mapped to a form prefill.
func (h *APIHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	mediaType, err := models.ParseMediaType(vars["type"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefill, err := h.manager.Autofill(r.Context(), mediaType, vars["id"])
	if err != nil {
		h.logger.Error("Autofill failed:", err)
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prefill)
}

// submitRequest mirrors the entry form: pointer fields distinguish "left
// blank" from "set to the zero value", and an optional prefill is applied
// before the explicit fields.
type submitRequest struct {
	Type       string          `json:"type"`
	Prefill    *models.Prefill `json:"prefill,omitempty"`
	Title      *string         `json:"title,omitempty"`
	Year       *int            `json:"year,omitempty"`
	Genre      *string         `json:"genre,omitempty"`
	Stars      *float64        `json:"stars,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	ImageURL   *string         `json:"image_url,omitempty"`
	Director   *string         `json:"director,omitempty"`
	Platform   *string         `json:"platform,omitempty"`
	Author     *string         `json:"author,omitempty"`
	Pages      *int            `json:"pages,omitempty"`
	Artist     *string         `json:"artist,omitempty"`
	Tracks     *int            `json:"tracks,omitempty"`
	SharedWith []string        `json:"shared_with,omitempty"`
}

// SubmitMedia builds an entry form from the request, validates it and hands
// the finalized record to the manager. Nothing is persisted.
func (h *APIHandler) SubmitMedia(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mediaType, err := models.ParseMediaType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	f := form.New(mediaType)
	if req.Prefill != nil {
		f.ApplyPrefill(*req.Prefill)
	}
	if req.Title != nil {
		f.Title = *req.Title
	}
	if req.Year != nil {
		f.Year = *req.Year
	}
	if req.Genre != nil {
		f.Genre = *req.Genre
	}
	if req.Stars != nil {
		if err := f.SetStars(*req.Stars); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Notes != nil {
		f.Notes = *req.Notes
	}
	if req.ImageURL != nil {
		f.ImageURL = *req.ImageURL
	}
	if req.Director != nil {
		f.Director = *req.Director
	}
	if req.Platform != nil {
		f.Platform = *req.Platform
	}
	if req.Author != nil {
		f.Author = *req.Author
	}
	if req.Pages != nil {
		f.Pages = *req.Pages
	}
	if req.Artist != nil {
		f.Artist = *req.Artist
	}
	if req.Tracks != nil {
		f.Tracks = *req.Tracks
	}
	f.ShareWith(req.SharedWith...)

	record, err := f.Submit(time.Now(), h.manager.CurrentUser(), h.manager.Users())
	if err != nil {
		var valErr *form.ValidationError
		if errors.As(err, &valErr) {
			respondError(w, http.StatusUnprocessableEntity, valErr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.manager.SubmitMedia(record)
	respondJSON(w, http.StatusCreated, record)
}

// System status
func (h *APIHandler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.SystemStatus())
}
