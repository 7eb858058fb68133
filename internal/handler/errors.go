package handler

import (
	"errors"
	"net/http"

	"creationrights/internal/domain"
	"creationrights/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrCyclicHierarchy):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondConflict(w, conflictErr.Error(), conflictErr.ResourceType, conflictErr.ResourceID)
	case errors.Is(err, domain.ErrRemoteFailed):
		httputil.RespondError(w, http.StatusBadGateway, "upstream store unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
