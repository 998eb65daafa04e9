package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
	"github.com/palletline/wms-backend/pkg/enums"
	"github.com/palletline/wms-backend/pkg/logger"
	"github.com/palletline/wms-backend/pkg/metrics"
)

const writeTimeout = 5 * time.Second

// Actor identifies who performed an operation. Copied onto each audit row so
// reads never need a user lookup.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Entry is one audit event waiting to be persisted.
type Entry struct {
	Actor        Actor
	Action       enums.ActivityAction
	Collection   string
	DocumentID   string
	DocumentName string
	Details      string
	Changes      map[string]models.FieldChange
}

// Recorder persists audit entries off the request path. Record never blocks
// and never returns an error: audit is best-effort and a failed or dropped
// write must not abort the business operation that produced it.
type Recorder struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.AuditMetrics

	queue chan Entry
	wg    sync.WaitGroup
	once  sync.Once
}

// NewRecorder starts the background writer.
func NewRecorder(repo Repository, logg *logger.Logger, met *metrics.AuditMetrics, cfg config.ActivityConfig) *Recorder {
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	r := &Recorder{
		repo:    repo,
		logg:    logg,
		metrics: met,
		queue:   make(chan Entry, size),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues an audit entry. If the queue is full the entry is dropped
// and counted, never blocking the caller.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil {
		return
	}
	select {
	case r.queue <- entry:
	default:
		r.metrics.IncDropped()
		if r.logg != nil {
			ctx = r.logg.WithFields(ctx, map[string]any{
				"collection": entry.Collection,
				"action":     entry.Action.String(),
			})
			r.logg.Warn(ctx, "activity queue full, dropping entry")
		}
	}
}

// Close stops accepting entries and drains the queue.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	row := &models.ActivityLog{
		UserID:       entry.Actor.ID,
		UserName:     entry.Actor.Name,
		UserEmail:    entry.Actor.Email,
		Action:       entry.Action,
		Collection:   entry.Collection,
		DocumentID:   entry.DocumentID,
		DocumentName: entry.DocumentName,
		Details:      entry.Details,
		Changes:      entry.Changes,
	}

	if err := r.repo.Append(ctx, row); err != nil {
		r.metrics.IncFailed(entry.Collection)
		if r.logg != nil {
			ctx = r.logg.WithFields(ctx, map[string]any{
				"collection":  entry.Collection,
				"document_id": entry.DocumentID,
			})
			r.logg.Error(ctx, "activity write failed", err)
		}
		return
	}
	r.metrics.IncWritten(entry.Collection)
}
