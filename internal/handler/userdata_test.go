package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	"creationrights/internal/httputil"
	"creationrights/internal/middleware"
	"creationrights/internal/repository/remote"
	"creationrights/internal/service/userdata"
)

func newTestServer(t *testing.T) (*httptest.Server, *remote.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := remote.NewMemory()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthCheck)
	NewUserDataHandler(userdata.NewService(store, logger), logger).RegisterRoutes(mux)

	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestUserDataRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"profile missing", http.MethodGet, "/api/users/user1", "", http.StatusNotFound},
		{"folders missing", http.MethodGet, "/api/users/user1/folders", "", http.StatusNotFound},
		{"store profile", http.MethodPost, "/api/users/user1",
			`{"id":"user1","name":"Jane Creator","email":"jane@example.com","type":"creator"}`, http.StatusOK},
		{"profile now present", http.MethodGet, "/api/users/user1", "", http.StatusOK},
		{"invalid profile", http.MethodPost, "/api/users/user1",
			`{"id":"user1","name":"","email":"jane@example.com","type":"creator"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/users/user1/folders", `{"id":`, http.StatusBadRequest},
		{"store folders", http.MethodPost, "/api/users/user1/folders",
			`[{"id":"f1","name":"Images","parentId":null}]`, http.StatusOK},
		{"cyclic folders", http.MethodPost, "/api/users/user1/folders",
			`[{"id":"a","name":"A","parentId":"b"},{"id":"b","name":"B","parentId":"a"}]`, http.StatusUnprocessableEntity},
		{"duplicate folders", http.MethodPost, "/api/users/user1/folders",
			`[{"id":"a","name":"A"},{"id":"a","name":"B"}]`, http.StatusConflict},
		{"store empty creations", http.MethodPost, "/api/users/user1/creations", `[]`, http.StatusOK},
		{"creations present", http.MethodGet, "/api/users/user1/creations", "", http.StatusOK},
		{"method not allowed", http.MethodDelete, "/api/users/user1", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, body)
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				data, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, data)
			}
		})
	}
}

func TestNotFoundIsProblemDetail(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/nobody/creations")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var problem map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if problem["status"] != float64(http.StatusNotFound) || problem["title"] != "Not Found" {
		t.Errorf("problem = %v", problem)
	}
}

func TestConflictNamesResource(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`[{"id":"a","name":"A"},{"id":"a","name":"B"}]`)
	resp, err := http.Post(srv.URL+"/api/users/user1/folders", "application/json", body)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	defer resp.Body.Close()

	var problem httputil.ProblemDetail
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if problem.Status != http.StatusConflict || problem.ResourceType != "folder" || problem.ResourceID != "a" {
		t.Errorf("problem = %+v", problem)
	}
	if !strings.Contains(problem.Type, "rfc9110") {
		t.Errorf("problem type = %q", problem.Type)
	}
}

// The HTTP client and the server agree on routes, bodies and not-found semantics.
func TestClientAgainstServer(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestServer(t)
	client, err := remote.New(remote.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}

	if _, err := client.GetFolders(ctx, "agency1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetFolders on empty server = %v, want ErrNotFound", err)
	}

	user := &models.User{ID: "agency1", Name: "ABC Agency", Email: "agency@example.com", Type: models.UserTypeAgency}
	if err := client.PutProfile(ctx, user); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	got, err := client.GetProfile(ctx, "agency1")
	if err != nil || got.Name != "ABC Agency" {
		t.Fatalf("GetProfile = %+v, %v", got, err)
	}

	creations := []models.Creation{{
		ID: "yt-abc", Title: "Launch video", Type: models.TypeVideo, DateCreated: "2024-01-02",
		Tags: []string{"launch"},
		Origin: models.ImportedOrigin{Source: "YouTube", SourceURL: "https://www.youtube.com/watch?v=abc"},
	}}
	if err := client.PutCreations(ctx, "agency1", creations); err != nil {
		t.Fatalf("PutCreations: %v", err)
	}
	back, err := client.GetCreations(ctx, "agency1")
	if err != nil || len(back) != 1 {
		t.Fatalf("GetCreations = %v, %v", back, err)
	}
	if o, ok := back[0].Imported(); !ok || o.SourceURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("imported origin lost: %+v", back[0].Origin)
	}

	err = client.PutCreations(ctx, "agency1", []models.Creation{{ID: "bad", Type: models.TypeText}})
	if !errors.Is(err, domain.ErrRemoteFailed) || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("invalid upload error = %v, want a non-404 RemoteError", err)
	}
}
