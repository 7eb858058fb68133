package handler

import (
	"log/slog"
	"net/http"

	models "creationrights/internal/domain/models/catalog"
	services "creationrights/internal/domain/services/userdata"
	"creationrights/internal/httputil"
)

// UserDataHandler serves the remote store API. Bodies are whole documents:
// a profile object, a folder array or a creation array.
type UserDataHandler struct {
	service services.UserDataService
	logger  *slog.Logger
}

// NewUserDataHandler creates a new user data handler
func NewUserDataHandler(service services.UserDataService, logger *slog.Logger) *UserDataHandler {
	return &UserDataHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the user data routes on mux
func (h *UserDataHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/{id}", h.GetProfile)
	mux.HandleFunc("POST /api/users/{id}", h.PutProfile)
	mux.HandleFunc("GET /api/users/{id}/folders", h.GetFolders)
	mux.HandleFunc("POST /api/users/{id}/folders", h.PutFolders)
	mux.HandleFunc("GET /api/users/{id}/creations", h.GetCreations)
	mux.HandleFunc("POST /api/users/{id}/creations", h.PutCreations)
}

// GetProfile retrieves a user's profile
// GET /api/users/{id}
func (h *UserDataHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, user)
}

// PutProfile creates or replaces a user's profile
// POST /api/users/{id}
func (h *UserDataHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := httputil.ParseJSON(w, r, &user); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.service.PutProfile(r.Context(), r.PathValue("id"), &user)
	if err != nil {
		h.logger.Warn("profile rejected", "user_id", r.PathValue("id"), "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stored)
}

// GetFolders retrieves a user's folder collection
// GET /api/users/{id}/folders
func (h *UserDataHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.service.GetFolders(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folders)
}

// PutFolders replaces a user's folder collection
// POST /api/users/{id}/folders
func (h *UserDataHandler) PutFolders(w http.ResponseWriter, r *http.Request) {
	var folders []models.Folder
	if err := httputil.ParseJSON(w, r, &folders); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.service.PutFolders(r.Context(), r.PathValue("id"), folders)
	if err != nil {
		h.logger.Warn("folders rejected", "user_id", r.PathValue("id"), "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stored)
}

// GetCreations retrieves a user's creation collection
// GET /api/users/{id}/creations
func (h *UserDataHandler) GetCreations(w http.ResponseWriter, r *http.Request) {
	creations, err := h.service.GetCreations(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, creations)
}

// PutCreations replaces a user's creation collection
// POST /api/users/{id}/creations
func (h *UserDataHandler) PutCreations(w http.ResponseWriter, r *http.Request) {
	var creations []models.Creation
	if err := httputil.ParseJSON(w, r, &creations); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.service.PutCreations(r.Context(), r.PathValue("id"), creations)
	if err != nil {
		h.logger.Warn("creations rejected", "user_id", r.PathValue("id"), "error", err)
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stored)
}
