package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "  "}); err == nil {
		t.Fatal("New with empty base url succeeded")
	}
}

func TestClientGetFolders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users/user1/folders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"f1","name":"Images","parentId":null},{"id":"f4","name":"Photography","parentId":"f1"}]`)
	}))

	folders, err := client.GetFolders(context.Background(), "user1")
	if err != nil {
		t.Fatalf("GetFolders: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("got %d folders, want 2", len(folders))
	}
	if folders[1].ParentID == nil || *folders[1].ParentID != "f1" {
		t.Fatalf("folder f4 parent = %v, want f1", folders[1].ParentID)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, false},
		{"bad gateway", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"title":"failure"}`)
			}))

			_, err := client.GetCreations(context.Background(), "user1")
			if err == nil {
				t.Fatal("GetCreations succeeded")
			}
			if !errors.Is(err, domain.ErrRemoteFailed) {
				t.Errorf("error %v does not match ErrRemoteFailed", err)
			}
			if got := errors.Is(err, domain.ErrNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v", got, tt.wantNotFound)
			}

			var remoteErr *domain.RemoteError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("error %T is not a RemoteError", err)
			}
			if remoteErr.Resource != resourceCreations || remoteErr.UserID != "user1" {
				t.Errorf("RemoteError = %+v", remoteErr)
			}
		})
	}
}

func TestClientPutCreations(t *testing.T) {
	var received []models.Creation
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/user1/creations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	creations := []models.Creation{
		{ID: "c1", Title: "Mountain Landscape", Type: models.TypeImage, Origin: models.ManualOrigin{}},
		{ID: "yt-abc", Title: "Launch video", Type: models.TypeVideo, Origin: models.ImportedOrigin{
			Source:    "YouTube",
			SourceURL: "https://www.youtube.com/watch?v=abc",
		}},
	}
	if err := client.PutCreations(context.Background(), "user1", creations); err != nil {
		t.Fatalf("PutCreations: %v", err)
	}

	if len(received) != 2 {
		t.Fatalf("server received %d creations, want 2", len(received))
	}
	origin, ok := received[1].Imported()
	if !ok || origin.Source != "YouTube" {
		t.Fatalf("imported origin lost in transit: %+v", received[1].Origin)
	}
}

func TestClientPutProfilePath(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	user := &models.User{ID: "agency1", Name: "ABC Agency", Email: "agency@example.com", Type: models.UserTypeAgency}
	if err := client.PutProfile(context.Background(), user); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	if path != "/api/users/agency1" {
		t.Fatalf("profile path = %q", path)
	}
}

func TestMemoryNotFoundUntilWritten(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.GetFolders(ctx, "user1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetFolders before write = %v, want ErrNotFound", err)
	}
	if err := store.PutFolders(ctx, "user1", nil); err != nil {
		t.Fatalf("PutFolders: %v", err)
	}
	folders, err := store.GetFolders(ctx, "user1")
	if err != nil {
		t.Fatalf("GetFolders after write: %v", err)
	}
	if folders == nil || len(folders) != 0 {
		t.Fatalf("GetFolders = %#v, want empty non-nil slice", folders)
	}
}
