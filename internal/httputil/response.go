package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a profile, folder or creation document. The body is
// marshaled before any header goes out, so a document that cannot be encoded
// becomes a 500 problem instead of a truncated 200.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail is an RFC 7807 body. Conflicts name the colliding resource
// at the top level so clients can tell a duplicate folder from a duplicate
// creation.
type ProblemDetail struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Status       int    `json:"status"`
	Detail       string `json:"detail,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
}

// RespondError writes a problem response for status.
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, NewProblem(status, detail))
}

// RespondConflict writes a 409 naming the resource that already exists.
func RespondConflict(w http.ResponseWriter, detail, resourceType, resourceID string) {
	problem := NewProblem(http.StatusConflict, detail)
	problem.ResourceType = resourceType
	problem.ResourceID = resourceID
	RespondProblem(w, problem)
}

// NewProblem fills in the type and title for status.
func NewProblem(status int, detail string) ProblemDetail {
	return ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// RespondProblem writes p as application/problem+json.
func RespondProblem(w http.ResponseWriter, p ProblemDetail) {
	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	w.Write(payload)
}

// problemType covers the statuses the catalog API returns: bad documents,
// unknown users, duplicate ids, cyclic folder trees and an unreachable store.
func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.1"
	case http.StatusNotFound:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.5"
	case http.StatusConflict:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.10"
	case http.StatusUnprocessableEntity:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.21"
	case http.StatusInternalServerError:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.1"
	case http.StatusBadGateway:
		return "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.3"
	default:
		return "about:blank"
	}
}
