package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	models "creationrights/internal/domain/models/catalog"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

const (
	resourceProfile   = "profile"
	resourceFolders   = "folders"
	resourceCreations = "creations"
)

type mirrorKey struct {
	userID   string
	resource string
}

type mirrorJob struct {
	key      mirrorKey
	version  uint64
	attempts int
	write    func(ctx context.Context) error
}

// retryDelay is how long a failed write waits before its single retry.
const retryDelay = 250 * time.Millisecond

// MirrorStats counts what happened to enqueued remote writes.
type MirrorStats struct {
	Applied   uint64 // written successfully
	Retried   uint64 // failed once and scheduled for a second attempt
	Failed    uint64 // failed on the retry too; logged and dropped
	Coalesced uint64 // replaced by a newer snapshot before being sent
	Stale     uint64 // retry discarded because a newer version got there first
}

// RemoteMirror sends whole-collection snapshots to the remote store off the
// caller's goroutine. A single worker sends one write at a time. While a
// write is in flight, only the newest pending snapshot per (user, resource)
// is kept. A failed write is retried once after a short delay; every
// snapshot carries a monotonic version so a retry never lands after a newer
// snapshot. Failures after the retry are logged and dropped.
type RemoteMirror struct {
	remote  catalogRepo.RemoteStore
	timeout time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	version   uint64
	pending   map[mirrorKey]*mirrorJob
	order     []mirrorKey
	enqueued  uint64
	completed uint64
	progress  chan struct{} // closed and replaced whenever completed advances
	closed    bool

	applied    map[mirrorKey]uint64 // worker-owned
	afterDelay func(d time.Duration, f func())

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	nApplied, nRetried, nFailed, nCoalesced, nStale atomic.Uint64
}

// NewRemoteMirror starts the mirror worker. Call Close to stop it.
func NewRemoteMirror(remote catalogRepo.RemoteStore, timeout time.Duration, logger *slog.Logger) *RemoteMirror {
	m := &RemoteMirror{
		remote:   remote,
		timeout:  timeout,
		logger:   logger,
		pending:  make(map[mirrorKey]*mirrorJob),
		progress: make(chan struct{}),
		applied:  make(map[mirrorKey]uint64),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	m.afterDelay = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	go m.run()
	return m
}

// MirrorFolders schedules a folder collection upload for userID.
func (m *RemoteMirror) MirrorFolders(userID string, folders []models.Folder) {
	snapshot := append([]models.Folder{}, folders...)
	m.enqueue(mirrorKey{userID, resourceFolders}, func(ctx context.Context) error {
		return m.remote.PutFolders(ctx, userID, snapshot)
	})
}

// MirrorCreations schedules a creation collection upload for userID.
func (m *RemoteMirror) MirrorCreations(userID string, creations []models.Creation) {
	snapshot := NewEntityStore(nil, creations).Creations()
	m.enqueue(mirrorKey{userID, resourceCreations}, func(ctx context.Context) error {
		return m.remote.PutCreations(ctx, userID, snapshot)
	})
}

// MirrorProfile schedules a profile upload.
func (m *RemoteMirror) MirrorProfile(user models.User) {
	m.enqueue(mirrorKey{user.ID, resourceProfile}, func(ctx context.Context) error {
		return m.remote.PutProfile(ctx, &user)
	})
}

func (m *RemoteMirror) enqueue(key mirrorKey, write func(ctx context.Context) error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Warn("remote mirror closed, dropping write",
			"user_id", key.userID,
			"resource", key.resource,
		)
		return
	}

	m.version++
	m.enqueued++
	job := &mirrorJob{key: key, version: m.version, write: write}

	if _, waiting := m.pending[key]; waiting {
		// Keep the queue position, send the newer snapshot
		m.pending[key] = job
		m.nCoalesced.Add(1)
		m.markCompletedLocked()
		m.mu.Unlock()
		m.logger.Debug("remote write coalesced",
			"user_id", key.userID,
			"resource", key.resource,
			"version", job.version,
		)
	} else {
		m.pending[key] = job
		m.order = append(m.order, key)
		m.mu.Unlock()
	}

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *RemoteMirror) run() {
	defer close(m.done)
	for {
		job, ok := m.next()
		if !ok {
			select {
			case <-m.wake:
				continue
			case <-m.stop:
				return
			}
		}
		if m.apply(job) {
			// Completed once the retry resolves
			continue
		}

		m.mu.Lock()
		m.markCompletedLocked()
		m.mu.Unlock()
	}
}

func (m *RemoteMirror) next() (*mirrorJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return nil, false
	}
	key := m.order[0]
	m.order = m.order[1:]
	job := m.pending[key]
	delete(m.pending, key)
	return job, true
}

// apply sends job and reports whether a retry was scheduled for it.
func (m *RemoteMirror) apply(job *mirrorJob) bool {
	if job.version <= m.applied[job.key] {
		m.nStale.Add(1)
		m.logger.Debug("stale remote write discarded",
			"user_id", job.key.userID,
			"resource", job.key.resource,
			"version", job.version,
		)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	job.attempts++
	if err := job.write(ctx); err != nil {
		if job.attempts == 1 {
			m.nRetried.Add(1)
			m.logger.Warn("remote write failed, retrying",
				"user_id", job.key.userID,
				"resource", job.key.resource,
				"version", job.version,
				"error", err,
			)
			m.afterDelay(retryDelay, func() { m.requeue(job) })
			return true
		}
		m.nFailed.Add(1)
		m.logger.Error("remote write failed",
			"user_id", job.key.userID,
			"resource", job.key.resource,
			"version", job.version,
			"error", err,
		)
		return false
	}

	m.applied[job.key] = job.version
	m.nApplied.Add(1)
	m.logger.Debug("remote write applied",
		"user_id", job.key.userID,
		"resource", job.key.resource,
		"version", job.version,
	)
	return false
}

// requeue puts a failed job back in line unless the mirror is closed or a
// newer snapshot for the same key is already waiting.
func (m *RemoteMirror) requeue(job *mirrorJob) {
	m.mu.Lock()
	if m.closed {
		m.nFailed.Add(1)
		m.markCompletedLocked()
		m.mu.Unlock()
		return
	}
	if _, waiting := m.pending[job.key]; waiting {
		m.nStale.Add(1)
		m.markCompletedLocked()
		m.mu.Unlock()
		return
	}
	m.pending[job.key] = job
	m.order = append(m.order, job.key)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *RemoteMirror) markCompletedLocked() {
	m.completed++
	close(m.progress)
	m.progress = make(chan struct{})
}

// Flush blocks until every write enqueued before the call has been sent,
// coalesced or dropped, or ctx is done.
func (m *RemoteMirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	target := m.enqueued
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if m.completed >= target {
			m.mu.Unlock()
			return nil
		}
		progress := m.progress
		m.mu.Unlock()

		select {
		case <-progress:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes pending writes (bounded by ctx) and stops the worker.
// Writes enqueued after Close are dropped.
func (m *RemoteMirror) Close(ctx context.Context) error {
	flushErr := m.Flush(ctx)

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
	return flushErr
}

// Stats returns counters since the mirror started.
func (m *RemoteMirror) Stats() MirrorStats {
	return MirrorStats{
		Applied:   m.nApplied.Load(),
		Retried:   m.nRetried.Load(),
		Failed:    m.nFailed.Load(),
		Coalesced: m.nCoalesced.Load(),
		Stale:     m.nStale.Load(),
	}
}
