package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

// Persistence keeps the entity store consistent with the local cache and,
// when a user is signed in, mirrors it to the remote store. The local cache
// is authoritative for the running session: no cache or remote failure is
// ever returned to the caller, they are logged and absorbed here.
type Persistence struct {
	cache   catalogRepo.LocalCache
	remote  catalogRepo.RemoteStore // nil = local only
	mirror  *RemoteMirror
	timeout time.Duration
	logger  *slog.Logger
}

// NewPersistence wires the adapter. remote may be nil to run local-only.
func NewPersistence(cache catalogRepo.LocalCache, remote catalogRepo.RemoteStore, remoteTimeout time.Duration, logger *slog.Logger) *Persistence {
	p := &Persistence{
		cache:   cache,
		remote:  remote,
		timeout: remoteTimeout,
		logger:  logger,
	}
	if remote != nil {
		p.mirror = NewRemoteMirror(remote, remoteTimeout, logger)
	}
	return p
}

// Source says where a loaded collection came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceSeed   Source = "seed"
	SourceRemote Source = "remote"
)

// Snapshot is a loaded pair of collections.
type Snapshot struct {
	Folders         []models.Folder
	Creations       []models.Creation
	FoldersSource   Source
	CreationsSource Source
}

// LoadInitial reads both collections from the local cache. A collection that
// is absent or unreadable falls back to the seed dataset.
func (p *Persistence) LoadInitial(ctx context.Context) *Snapshot {
	seed := MustSeed()
	snap := &Snapshot{
		Folders:         seed.Folders,
		Creations:       seed.Creations,
		FoldersSource:   SourceSeed,
		CreationsSource: SourceSeed,
	}

	var folders []models.Folder
	if p.readJSON(ctx, catalogRepo.KeyFolders, &folders) {
		snap.Folders = nonNilFolders(folders)
		snap.FoldersSource = SourceCache
	}

	var creations []models.Creation
	if p.readJSON(ctx, catalogRepo.KeyCreations, &creations) {
		snap.Creations = nonNilCreations(creations)
		snap.CreationsSource = SourceCache
	}

	p.logger.Info("collections loaded",
		"folders", len(snap.Folders),
		"folders_source", snap.FoldersSource,
		"creations", len(snap.Creations),
		"creations_source", snap.CreationsSource,
	)
	return snap
}

// LoadAuth returns the persisted auth state, or nil when signed out or unreadable.
func (p *Persistence) LoadAuth(ctx context.Context) *models.AuthState {
	var state models.AuthState
	if !p.readJSON(ctx, catalogRepo.KeyAuthState, &state) {
		return nil
	}
	if !state.IsAuthenticated || state.CurrentUser == nil {
		return nil
	}
	return &state
}

// SaveAuth persists the auth state.
func (p *Persistence) SaveAuth(ctx context.Context, state models.AuthState) {
	p.writeJSON(ctx, catalogRepo.KeyAuthState, state)
}

// ClearAuth removes the persisted auth state.
func (p *Persistence) ClearAuth(ctx context.Context) {
	if err := p.cache.Remove(ctx, catalogRepo.KeyAuthState); err != nil {
		p.logger.Error("failed to clear auth state", "error", err)
	}
}

// SaveFolders writes the whole folder collection to the local cache and,
// for a signed-in user, schedules the remote mirror write.
func (p *Persistence) SaveFolders(ctx context.Context, user *models.User, folders []models.Folder) {
	p.writeJSON(ctx, catalogRepo.KeyFolders, nonNilFolders(folders))
	if p.mirror != nil && user != nil {
		p.mirror.MirrorFolders(user.ID, folders)
	}
}

// SaveCreations writes the whole creation collection to the local cache and,
// for a signed-in user, schedules the remote mirror write.
func (p *Persistence) SaveCreations(ctx context.Context, user *models.User, creations []models.Creation) {
	p.writeJSON(ctx, catalogRepo.KeyCreations, nonNilCreations(creations))
	if p.mirror != nil && user != nil {
		p.mirror.MirrorCreations(user.ID, creations)
	}
}

// LoginSync is the outcome of reconciling with the remote store on login.
// A nil collection means "keep what is loaded locally".
type LoginSync struct {
	Folders   []models.Folder
	Creations []models.Creation
}

// SyncOnLogin uploads the profile and then fetches both collections for user.
// Found collections are written through to the local cache and returned for
// adoption. A collection the remote has never seen is seeded from current.
// Any other failure keeps the local collection.
func (p *Persistence) SyncOnLogin(ctx context.Context, user models.User, current *Snapshot) *LoginSync {
	result := &LoginSync{}
	if p.remote == nil {
		return result
	}

	p.mirror.MirrorProfile(user)

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var (
		folders      []models.Folder
		creations    []models.Creation
		folderErr    error
		creationsErr error
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		folders, folderErr = p.remote.GetFolders(gctx, user.ID)
		return nil
	})
	g.Go(func() error {
		creations, creationsErr = p.remote.GetCreations(gctx, user.ID)
		return nil
	})
	_ = g.Wait()

	switch {
	case folderErr == nil:
		result.Folders = nonNilFolders(folders)
		p.writeJSON(ctx, catalogRepo.KeyFolders, result.Folders)
	case errors.Is(folderErr, domain.ErrNotFound):
		p.logger.Info("no remote folders, seeding remote", "user_id", user.ID, "folders", len(current.Folders))
		p.mirror.MirrorFolders(user.ID, current.Folders)
	default:
		p.logger.Error("failed to load remote folders, keeping local", "user_id", user.ID, "error", folderErr)
	}

	switch {
	case creationsErr == nil:
		result.Creations = nonNilCreations(creations)
		p.writeJSON(ctx, catalogRepo.KeyCreations, result.Creations)
	case errors.Is(creationsErr, domain.ErrNotFound):
		p.logger.Info("no remote creations, seeding remote", "user_id", user.ID, "creations", len(current.Creations))
		p.mirror.MirrorCreations(user.ID, current.Creations)
	default:
		p.logger.Error("failed to load remote creations, keeping local", "user_id", user.ID, "error", creationsErr)
	}

	return result
}

// Flush waits for pending remote writes.
func (p *Persistence) Flush(ctx context.Context) error {
	if p.mirror == nil {
		return nil
	}
	return p.mirror.Flush(ctx)
}

// Close flushes and stops the remote mirror.
func (p *Persistence) Close(ctx context.Context) error {
	if p.mirror == nil {
		return nil
	}
	return p.mirror.Close(ctx)
}

// MirrorStats exposes the remote mirror counters; zero when local-only.
func (p *Persistence) MirrorStats() MirrorStats {
	if p.mirror == nil {
		return MirrorStats{}
	}
	return p.mirror.Stats()
}

// readJSON decodes key into dest. It reports false when the key is absent,
// unreadable or corrupt; the latter two are logged as cache errors.
func (p *Persistence) readJSON(ctx context.Context, key string, dest any) bool {
	raw, err := p.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Error("local cache read failed, treating as empty",
				"key", key,
				"error", &domain.CacheError{Op: "get", Key: key, Err: err},
			)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		p.logger.Error("local cache entry corrupt, treating as empty",
			"key", key,
			"error", &domain.CacheError{Op: "decode", Key: key, Err: err},
		)
		return false
	}
	return true
}

// writeJSON overwrites key with the JSON encoding of value. Failures are
// logged; the next mutation rewrites the whole collection anyway.
func (p *Persistence) writeJSON(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := p.cache.Set(ctx, key, string(data)); err != nil {
		p.logger.Error("local cache write failed",
			"key", key,
			"error", &domain.CacheError{Op: "set", Key: key, Err: err},
		)
	}
}

func nonNilFolders(folders []models.Folder) []models.Folder {
	if folders == nil {
		return []models.Folder{}
	}
	return folders
}

func nonNilCreations(creations []models.Creation) []models.Creation {
	if creations == nil {
		return []models.Creation{}
	}
	return creations
}
