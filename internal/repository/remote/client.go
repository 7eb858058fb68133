package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 4096
)

// Config describes the remote store client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the user data service over HTTP:
//
//	GET|POST /api/users/{id}
//	GET|POST /api/users/{id}/folders
//	GET|POST /api/users/{id}/creations
//
// A 404 surfaces as an error matching domain.ErrNotFound.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

var _ catalogRepo.RemoteStore = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("remote: base url is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: baseURL, http: client}, nil
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, userID, resourceProfile, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) PutProfile(ctx context.Context, user *models.User) error {
	return c.put(ctx, user.ID, resourceProfile, user)
}

func (c *Client) GetFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	var folders []models.Folder
	if err := c.get(ctx, userID, resourceFolders, &folders); err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}

func (c *Client) PutFolders(ctx context.Context, userID string, folders []models.Folder) error {
	if folders == nil {
		folders = []models.Folder{}
	}
	return c.put(ctx, userID, resourceFolders, folders)
}

func (c *Client) GetCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	var creations []models.Creation
	if err := c.get(ctx, userID, resourceCreations, &creations); err != nil {
		return nil, err
	}
	if creations == nil {
		creations = []models.Creation{}
	}
	return creations, nil
}

func (c *Client) PutCreations(ctx context.Context, userID string, creations []models.Creation) error {
	if creations == nil {
		creations = []models.Creation{}
	}
	return c.put(ctx, userID, resourceCreations, creations)
}

func (c *Client) endpoint(userID, resource string) string {
	u := c.baseURL.JoinPath("api", "users", userID)
	if resource != resourceProfile {
		u = u.JoinPath(resource)
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, userID, resource string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(userID, resource), nil)
	if err != nil {
		return remoteErr("fetch", userID, resource, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return remoteErr("fetch", userID, resource, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return remoteErr("fetch", userID, resource, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return remoteErr("fetch", userID, resource, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) put(ctx context.Context, userID, resource string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return remoteErr("store", userID, resource, fmt.Errorf("encode body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(userID, resource), bytes.NewReader(payload))
	if err != nil {
		return remoteErr("store", userID, resource, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return remoteErr("store", userID, resource, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return remoteErr("store", userID, resource, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusNotFound {
		return &domain.NotFoundError{Message: fmt.Sprintf("%s: %s", resp.Status, detail)}
	}
	return fmt.Errorf("unexpected status (%s): %s", resp.Status, detail)
}

func remoteErr(op, userID, resource string, err error) error {
	return &domain.RemoteError{Op: op, UserID: userID, Resource: resource, Err: err}
}
