package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lepaiper/pos/internal/audit/domain"
	"github.com/lepaiper/pos/pkg/logger"
)

// Entry is one audit event as submitted by a caller
type Entry struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Details  string
}

// Recorder persists audit entries asynchronously. Record never blocks and
// never returns an error: a full buffer drops the entry, a failed write is
// logged and swallowed. A failed audit write must not affect the request
// that produced it.
type Recorder struct {
	repo    domain.AuditRepository
	entries chan Entry
	done    chan struct{}
	once    sync.Once
}

// NewRecorder creates a recorder and starts its worker goroutine
func NewRecorder(repo domain.AuditRepository) *Recorder {
	r := &Recorder{
		repo:    repo,
		entries: make(chan Entry, 256),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues an audit entry, dropping it if the buffer is full
func (r *Recorder) Record(entry Entry) {
	select {
	case r.entries <- entry:
	default:
		logger.Logger.Warn().
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Msg("Audit buffer full, entry dropped")
	}
}

func (r *Recorder) run() {
	for entry := range r.entries {
		log := &domain.AuditLog{
			ID:        uuid.NewString(),
			UserID:    entry.UserID,
			Action:    entry.Action,
			Entity:    entry.Entity,
			EntityID:  entry.EntityID,
			Details:   entry.Details,
			CreatedAt: time.Now(),
		}
		if err := r.repo.Create(log); err != nil {
			logger.Logger.Error().
				Err(err).
				Str("action", entry.Action).
				Str("entity", entry.Entity).
				Msg("Failed to persist audit log")
		}
	}
	close(r.done)
}

// Close stops the worker after draining queued entries
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.entries)
	})
	<-r.done
}
