// Package upload runs health log imports and keeps a registry of recent
// import jobs.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/parser"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventImported is published after every finished import.
const EventImported = "health:imported"

// Store defines the interface needed from the storage layer.
type Store interface {
	ImportHealthEntries(ctx context.Context, entries []models.HealthEntry, opts storage.ImportOptions) (models.ImportStats, error)
}

// Notifier receives import events. The websocket hub implements it.
type Notifier interface {
	Publish(eventType string, payload any)
}

// Options control a single import.
type Options struct {
	// Format forces a parser by name; empty means detect.
	Format  string
	Policy  models.DuplicatePolicy
	Replace bool
}

// Manager handles imports and remembers their jobs.
type Manager struct {
	jobs     map[string]*models.ImportJob
	mu       sync.RWMutex
	store    Store
	archive  storage.Archive
	registry *parser.Registry
	notifier Notifier
	policy   models.DuplicatePolicy
	log      *zap.Logger
}

// NewManager creates an import manager. archive may be nil to disable
// archiving of raw files.
func NewManager(store Store, archive storage.Archive, registry *parser.Registry, log *zap.Logger) *Manager {
	if registry == nil {
		registry = parser.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		jobs:     make(map[string]*models.ImportJob),
		store:    store,
		archive:  archive,
		registry: registry,
		policy:   models.DuplicateUpsert,
		log:      log.Named("upload"),
	}
}

// SetNotifier attaches the event sink.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// SetDefaultPolicy sets the policy used when Options.Policy is empty.
func (m *Manager) SetDefaultPolicy(p models.DuplicatePolicy) {
	if p != "" {
		m.policy = p
	}
}

// Import parses data and persists the entries in one transaction. The
// returned job is also kept in the registry; on failure it is returned
// alongside the error with status error.
func (m *Manager) Import(ctx context.Context, fileName string, data []byte, opts Options) (*models.ImportJob, error) {
	policy := opts.Policy
	if policy == "" {
		policy = m.policy
	}
	job := &models.ImportJob{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Policy:    policy,
		Status:    models.ImportStatusParsing,
		CreatedAt: time.Now(),
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	log := m.log.With(zap.String("job", job.ID[:8]), zap.String("file", fileName))
	log.Info("import started", zap.String("policy", string(policy)))

	p, err := m.pickParser(fileName, data, opts.Format)
	if err != nil {
		return m.fail(job, log, err)
	}
	m.update(job, func(j *models.ImportJob) { j.Parser = p.Name() })

	res, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return m.fail(job, log, fmt.Errorf("parsing %s: %w", fileName, err))
	}
	for _, issue := range res.Errors {
		log.Debug("row issue",
			zap.Int("line", issue.Line),
			zap.String("field", issue.Field),
			zap.String("reason", issue.Reason))
	}
	m.update(job, func(j *models.ImportJob) {
		j.Parsed = len(res.Entries)
		j.Skipped = res.Skipped
		j.Coerced = res.Coerced
	})

	var archiveID string
	if m.archive != nil {
		info, err := m.archive.Save(fileName, bytes.NewReader(data))
		if err != nil {
			log.Warn("archiving failed", zap.Error(err))
		} else {
			archiveID = info.ID
			m.update(job, func(j *models.ImportJob) { j.ArchiveID = info.ID })
		}
	}

	m.update(job, func(j *models.ImportJob) { j.Status = models.ImportStatusSaving })
	stats, err := m.store.ImportHealthEntries(ctx, res.Entries, storage.ImportOptions{Policy: policy, Replace: opts.Replace})
	if err != nil {
		m.setArchiveStatus(archiveID, storage.ArchiveFailed)
		return m.fail(job, log, fmt.Errorf("saving entries: %w", err))
	}
	m.setArchiveStatus(archiveID, storage.ArchiveImported)

	m.mu.Lock()
	job.Inserted = stats.Inserted
	job.Updated = stats.Updated
	job.Skipped += stats.Skipped
	job.Status = models.ImportStatusComplete
	now := time.Now()
	job.CompletedAt = &now
	snapshot := *job
	m.mu.Unlock()

	log.Info("import complete",
		zap.String("parser", snapshot.Parser),
		zap.Int("parsed", snapshot.Parsed),
		zap.Int("inserted", snapshot.Inserted),
		zap.Int("updated", snapshot.Updated),
		zap.Int("skipped", snapshot.Skipped),
		zap.Int("coerced", snapshot.Coerced),
		zap.Int("removed", stats.Removed))
	m.publish(&snapshot)

	return &snapshot, nil
}

func (m *Manager) pickParser(fileName string, data []byte, format string) (parser.Parser, error) {
	if format != "" {
		return m.registry.Get(format)
	}
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	return m.registry.Detect(fileName, head)
}

func (m *Manager) setArchiveStatus(id, status string) {
	if m.archive == nil || id == "" {
		return
	}
	if err := m.archive.SetStatus(id, status); err != nil {
		m.log.Warn("archive status update failed", zap.String("id", id), zap.Error(err))
	}
}

func (m *Manager) publish(job *models.ImportJob) {
	if m.notifier != nil {
		m.notifier.Publish(EventImported, job)
	}
}

// update mutates job under the lock.
func (m *Manager) update(job *models.ImportJob, fn func(*models.ImportJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(job)
}

// fail marks job as failed and returns a copy with err.
func (m *Manager) fail(job *models.ImportJob, log *zap.Logger, err error) (*models.ImportJob, error) {
	m.mu.Lock()
	job.Status = models.ImportStatusError
	job.Error = err.Error()
	now := time.Now()
	job.CompletedAt = &now
	snapshot := *job
	m.mu.Unlock()

	log.Error("import failed", zap.Error(err))
	m.publish(&snapshot)
	return &snapshot, err
}

// GetJob retrieves a copy of a job by ID.
func (m *Manager) GetJob(id string) (*models.ImportJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	cp := *job
	return &cp, true
}

// RecentJobs returns up to limit jobs, newest first. limit <= 0 means all.
func (m *Manager) RecentJobs(limit int) []models.ImportJob {
	m.mu.RLock()
	out := make([]models.ImportJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CleanupOldJobs removes finished jobs older than maxAge and returns how
// many were removed.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, job := range m.jobs {
		if job.Status == models.ImportStatusComplete || job.Status == models.ImportStatusError {
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(m.jobs, id)
				removed++
			}
		}
	}
	return removed
}

// StartCleanup runs CleanupOldJobs every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.CleanupOldJobs(maxAge); n > 0 {
					m.log.Debug("removed old import jobs", zap.Int("count", n))
				}
			}
		}
	}()
}
