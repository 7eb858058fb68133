package remote

import (
	"context"
	"fmt"
	"sync"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

const (
	resourceProfile   = "profile"
	resourceFolders   = "folders"
	resourceCreations = "creations"
)

// Memory is an in-process RemoteStore used by tests and local-only demos.
// It records every write so callers can assert on ordering.
type Memory struct {
	mu        sync.Mutex
	profiles  map[string]models.User
	folders   map[string][]models.Folder
	creations map[string][]models.Creation
	writes    []Write
	fail      error
	gate      chan struct{}
}

// Write is one recorded Put call.
type Write struct {
	UserID   string
	Resource string
	Count    int // collection length; 1 for a profile
}

var _ catalogRepo.RemoteStore = (*Memory)(nil)

// NewMemory returns an empty remote store.
func NewMemory() *Memory {
	return &Memory{
		profiles:  make(map[string]models.User),
		folders:   make(map[string][]models.Folder),
		creations: make(map[string][]models.Creation),
	}
}

// Fail makes every subsequent call fail with err (nil restores normal behaviour).
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Block makes Put calls wait until the returned release func is called.
func (m *Memory) Block() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.gate = nil
			m.mu.Unlock()
			close(gate)
		})
	}
}

// Writes returns the recorded Put calls in the order they were applied.
func (m *Memory) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Write(nil), m.writes...)
}

func (m *Memory) GetProfile(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("fetch", userID, resourceProfile); err != nil {
		return nil, err
	}
	u, ok := m.profiles[userID]
	if !ok {
		return nil, notFound("fetch", userID, resourceProfile)
	}
	return &u, nil
}

func (m *Memory) PutProfile(ctx context.Context, user *models.User) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("store", user.ID, resourceProfile); err != nil {
		return err
	}
	m.profiles[user.ID] = *user
	m.writes = append(m.writes, Write{UserID: user.ID, Resource: resourceProfile, Count: 1})
	return nil
}

func (m *Memory) GetFolders(_ context.Context, userID string) ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("fetch", userID, resourceFolders); err != nil {
		return nil, err
	}
	folders, ok := m.folders[userID]
	if !ok {
		return nil, notFound("fetch", userID, resourceFolders)
	}
	return append([]models.Folder{}, folders...), nil
}

func (m *Memory) PutFolders(ctx context.Context, userID string, folders []models.Folder) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("store", userID, resourceFolders); err != nil {
		return err
	}
	m.folders[userID] = append([]models.Folder{}, folders...)
	m.writes = append(m.writes, Write{UserID: userID, Resource: resourceFolders, Count: len(folders)})
	return nil
}

func (m *Memory) GetCreations(_ context.Context, userID string) ([]models.Creation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("fetch", userID, resourceCreations); err != nil {
		return nil, err
	}
	creations, ok := m.creations[userID]
	if !ok {
		return nil, notFound("fetch", userID, resourceCreations)
	}
	return cloneCreations(creations), nil
}

func (m *Memory) PutCreations(ctx context.Context, userID string, creations []models.Creation) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("store", userID, resourceCreations); err != nil {
		return err
	}
	m.creations[userID] = cloneCreations(creations)
	m.writes = append(m.writes, Write{UserID: userID, Resource: resourceCreations, Count: len(creations)})
	return nil
}

func (m *Memory) wait(ctx context.Context) error {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failure must be called with mu held.
func (m *Memory) failure(op, userID, resource string) error {
	if m.fail == nil {
		return nil
	}
	return remoteErr(op, userID, resource, m.fail)
}

func notFound(op, userID, resource string) error {
	return remoteErr(op, userID, resource, &domain.NotFoundError{
		Message: fmt.Sprintf("no %s stored for user %s", resource, userID),
	})
}

func cloneCreations(in []models.Creation) []models.Creation {
	out := make([]models.Creation, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
