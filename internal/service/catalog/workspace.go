package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
	svc "creationrights/internal/domain/services/catalog"
)

// WorkspaceOptions tunes a workspace. Zero values pick production defaults.
type WorkspaceOptions struct {
	RemoteTimeout time.Duration
	Now           func() time.Time
	NewID         func(prefix string) string
}

// workspace is the explicit application state: entity store, navigation
// session, auth and persistence. One mutex makes it the single logical
// writer; remote writes leave through the persistence mirror.
type workspace struct {
	mu sync.Mutex

	store       *EntityStore
	session     *Session
	persistence *Persistence
	pending     *pendingDeletes
	auth        *models.AuthState
	users       map[models.UserType]models.User

	now    func() time.Time
	newID  func(prefix string) string
	logger *slog.Logger
}

// NewWorkspace creates a workspace over the given cache and optional remote
// store (nil = local only). Call Open before use and Close when done.
func NewWorkspace(
	cache catalogRepo.LocalCache,
	remote catalogRepo.RemoteStore,
	logger *slog.Logger,
	opts WorkspaceOptions,
) svc.Workspace {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}

	return &workspace{
		store:       NewEntityStore(nil, nil),
		session:     NewSession(),
		persistence: NewPersistence(cache, remote, opts.RemoteTimeout, logger),
		pending:     newPendingDeletes(),
		users:       MustSeed().Users,
		now:         opts.Now,
		newID:       opts.NewID,
		logger:      logger,
	}
}

// Open loads the collections from the local cache (seed fallback) and, if a
// signed-in session was persisted, reconciles with the remote store.
func (w *workspace) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.persistence.LoadInitial(ctx)
	w.store.SetFolders(snap.Folders)
	w.store.SetCreations(snap.Creations)

	if auth := w.persistence.LoadAuth(ctx); auth != nil {
		w.auth = auth
		w.logger.Info("session restored", "user_id", auth.CurrentUser.ID, "user_type", auth.UserType)
		w.adoptRemote(w.persistence.SyncOnLogin(ctx, *auth.CurrentUser, snap))
	}
	return nil
}

// Close waits for pending remote writes (bounded by ctx) and stops the mirror.
func (w *workspace) Close(ctx context.Context) error {
	return w.persistence.Close(ctx)
}

// CreateCreation validates and appends a new manual creation.
func (w *workspace) CreateCreation(input *svc.CreationInput) (*models.Creation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := models.Creation{
		ID:     w.newID(creationIDPrefix),
		Origin: models.ManualOrigin{},
	}
	folderID := ""
	if current := w.session.CurrentFolderID(); current != nil {
		folderID = *current
	}
	if input.FolderID != nil {
		folderID = *input.FolderID
	}
	if err := w.applyInput(&c, input, folderID); err != nil {
		return nil, err
	}

	w.store.AddCreation(c)
	w.saveCreations()

	w.logger.Info("creation created",
		"id", c.ID,
		"title", c.Title,
		"type", c.Type,
		"folder_id", c.FolderID,
	)
	return &c, nil
}

// UpdateCreation replaces the editable fields of an existing creation. A nil
// FolderID or empty DateCreated keeps the stored value. ID and origin never change.
func (w *workspace) UpdateCreation(id string, input *svc.CreationInput) (*models.Creation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	existing, ok := w.store.Creation(id)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("creation %q not found", id)}
	}

	updated := existing.Clone()
	folderID := existing.FolderID
	if input.FolderID != nil {
		folderID = *input.FolderID
	}
	in := *input
	if strings.TrimSpace(in.DateCreated) == "" {
		in.DateCreated = existing.DateCreated
	}
	if err := w.applyInput(&updated, &in, folderID); err != nil {
		return nil, err
	}

	w.store.ReplaceCreation(updated)
	w.saveCreations()

	w.logger.Info("creation updated", "id", updated.ID, "title", updated.Title)
	return &updated, nil
}

// applyInput copies normalised input fields onto c and validates the result.
// c is only meaningful when nil is returned.
func (w *workspace) applyInput(c *models.Creation, input *svc.CreationInput, folderID string) error {
	c.Title = strings.TrimSpace(input.Title)
	if ct, ok := models.ParseCreationType(input.Type); ok {
		c.Type = ct
	} else {
		c.Type = models.CreationType(strings.TrimSpace(input.Type))
	}
	c.DateCreated = strings.TrimSpace(input.DateCreated)
	if c.DateCreated == "" {
		c.DateCreated = w.today()
	}
	c.Rights = input.Rights
	c.Notes = input.Notes
	c.FolderID = folderID
	c.Tags = models.NormalizeTags(input.Tags)

	if err := ValidateCreation(c); err != nil {
		return err
	}
	if c.FolderID != "" {
		if _, ok := w.store.Folder(c.FolderID); !ok {
			return &domain.ValidationError{Message: fmt.Sprintf("folder %q does not exist", c.FolderID)}
		}
	}
	return nil
}

// RequestDeleteCreation starts the two-step deletion of one creation.
func (w *workspace) RequestDeleteCreation(id string) (*svc.PendingDelete, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.store.Creation(id)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("creation %q not found", id)}
	}
	pd := w.pending.add(svc.PendingDelete{
		Kind:          deleteKindCreation,
		ID:            c.ID,
		Name:          c.Title,
		CreationCount: 1,
	})
	return &pd, nil
}

// CreateFolder adds a folder under the folder currently being browsed.
func (w *workspace) CreateFolder(name string) (*models.Folder, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := models.Folder{
		ID:       w.newID(folderIDPrefix),
		Name:     strings.TrimSpace(name),
		ParentID: w.session.CurrentFolderID(),
	}
	if err := ValidateFolder(&f); err != nil {
		return nil, err
	}

	w.store.AddFolder(f)
	w.saveFolders()

	w.logger.Info("folder created",
		"id", f.ID,
		"name", f.Name,
		"parent_folder_id", f.ParentID,
	)
	return &f, nil
}

// RequestDeleteFolder starts the two-step cascading deletion of a folder and
// reports how much the confirmation would remove.
func (w *workspace) RequestDeleteFolder(id string) (*svc.PendingDelete, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, ok := w.store.Folder(id)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", id)}
	}
	preview, err := CascadingDelete(id, w.store.Folders(), w.store.Creations())
	if err != nil {
		return nil, err
	}
	pd := w.pending.add(svc.PendingDelete{
		Kind:          deleteKindFolder,
		ID:            f.ID,
		Name:          f.Name,
		FolderCount:   len(preview.Removed),
		CreationCount: preview.RemovedCreations,
	})
	return &pd, nil
}

// ConfirmDelete performs a pending deletion against the current state.
func (w *workspace) ConfirmDelete(token svc.DeleteToken) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pd, err := w.pending.take(token)
	if err != nil {
		return err
	}

	switch pd.Kind {
	case deleteKindCreation:
		if !w.store.RemoveCreation(pd.ID) {
			return &domain.NotFoundError{Message: fmt.Sprintf("creation %q not found", pd.ID)}
		}
		w.saveCreations()
		w.logger.Info("creation deleted", "id", pd.ID)

	case deleteKindFolder:
		if _, ok := w.store.Folder(pd.ID); !ok {
			return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", pd.ID)}
		}
		result, err := CascadingDelete(pd.ID, w.store.Folders(), w.store.Creations())
		if err != nil {
			return err
		}
		w.store.SetFolders(result.Folders)
		w.store.SetCreations(result.Creations)
		reset := w.session.Invalidate(result.Removed)
		w.saveFolders()
		w.saveCreations()
		w.logger.Info("folder deleted",
			"id", pd.ID,
			"folders_removed", len(result.Removed),
			"creations_removed", result.RemovedCreations,
			"navigation_reset", reset,
		)

	default:
		return fmt.Errorf("unknown pending deletion kind %q", pd.Kind)
	}
	return nil
}

// CancelDelete discards a pending deletion.
func (w *workspace) CancelDelete(token svc.DeleteToken) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := w.pending.take(token)
	return err
}

// NavigateTo changes the browsed folder (nil = root).
func (w *workspace) NavigateTo(folderID *string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.NavigateTo(folderID, w.store.Folders())
}

// ToggleFolderExpanded flips a folder's disclosure state.
func (w *workspace) ToggleFolderExpanded(folderID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.ToggleExpanded(folderID)
}

// SetActiveTab selects the type tab.
func (w *workspace) SetActiveTab(tab string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.SetActiveTab(tab)
}

// SetSearchQuery sets the free-text filter.
func (w *workspace) SetSearchQuery(query string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.SetSearchQuery(query)
}

// Login signs in as the mock account for accountType and reconciles the
// collections with the remote store.
func (w *workspace) Login(ctx context.Context, accountType models.UserType) (*models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	user, ok := w.users[accountType]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown account type %q", accountType)}
	}

	w.auth = &models.AuthState{
		IsAuthenticated: true,
		UserType:        user.Type,
		CurrentUser:     &user,
	}
	w.persistence.SaveAuth(ctx, *w.auth)
	w.logger.Info("user logged in", "user_id", user.ID, "user_type", user.Type)

	current := &Snapshot{Folders: w.store.Folders(), Creations: w.store.Creations()}
	w.adoptRemote(w.persistence.SyncOnLogin(ctx, user, current))

	out := user
	return &out, nil
}

// adoptRemote replaces collections the remote returned and drops navigation
// references to folders that no longer exist.
func (w *workspace) adoptRemote(result *LoginSync) {
	if result.Folders != nil {
		keep := make(map[string]struct{}, len(result.Folders))
		for _, f := range result.Folders {
			keep[f.ID] = struct{}{}
		}
		removed := make(map[string]struct{})
		for _, f := range w.store.Folders() {
			if _, ok := keep[f.ID]; !ok {
				removed[f.ID] = struct{}{}
			}
		}
		w.store.SetFolders(result.Folders)
		w.session.Invalidate(removed)
	}
	if result.Creations != nil {
		w.store.SetCreations(result.Creations)
	}
	if result.Folders != nil || result.Creations != nil {
		w.logger.Info("remote collections adopted",
			"source", SourceRemote,
			"folders", len(w.store.folders),
			"creations", len(w.store.creations),
		)
	}
}

// Logout drains pending remote writes, forgets the signed-in user and
// resets navigation. Collections stay loaded from the local cache.
func (w *workspace) Logout(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.persistence.Flush(ctx); err != nil {
		w.logger.Warn("remote writes still pending at logout", "error", err)
	}

	if w.auth != nil && w.auth.CurrentUser != nil {
		w.logger.Info("user logged out", "user_id", w.auth.CurrentUser.ID)
	}
	w.auth = nil
	w.persistence.ClearAuth(ctx)
	w.session.Reset()
	w.pending.clear()
	return nil
}

// CurrentUser returns the signed-in user or nil.
func (w *workspace) CurrentUser() *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentUser()
}

func (w *workspace) currentUser() *models.User {
	if w.auth == nil || w.auth.CurrentUser == nil {
		return nil
	}
	u := *w.auth.CurrentUser
	return &u
}

// CurrentFolder returns the browsed folder or nil at the root.
func (w *workspace) CurrentFolder() *models.Folder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.CurrentFolder(w.store.folders)
}

// Breadcrumbs returns the root-first path to the current folder.
func (w *workspace) Breadcrumbs() []models.Folder {
	w.mu.Lock()
	defer w.mu.Unlock()

	crumbs, err := w.session.Breadcrumbs(w.store.folders)
	if err != nil {
		w.logger.Error("failed to build breadcrumbs", "error", err)
		return []models.Folder{}
	}
	return crumbs
}

// VisibleCreations applies the current folder, tab and search filters.
func (w *workspace) VisibleCreations() []models.Creation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return FilteredCreations(w.store.Creations(), w.session.Filter())
}

// Tree returns the renderable folder tree from the roots.
func (w *workspace) Tree() ([]*models.TreeNode, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return RenderableTree(nil, w.store.folders, w.session.expanded)
}

// Folders returns a copy of all folders.
func (w *workspace) Folders() []models.Folder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Folders()
}

// Creations returns a copy of all creations.
func (w *workspace) Creations() []models.Creation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Creations()
}

// Stats summarises the collections.
func (w *workspace) Stats() models.Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return models.Stats{
		Total:   len(w.store.creations),
		ByType:  CountByType(w.store.creations),
		Folders: len(w.store.folders),
	}
}

func (w *workspace) saveFolders() {
	w.persistence.SaveFolders(context.Background(), w.currentUser(), w.store.Folders())
}

func (w *workspace) saveCreations() {
	w.persistence.SaveCreations(context.Background(), w.currentUser(), w.store.Creations())
}

func (w *workspace) today() string {
	return w.now().Format(dateLayout)
}
