package handler

import (
	"net/http"
	"time"

	"creationrights/internal/httputil"
)

// HealthCheck reports that the server is up
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
