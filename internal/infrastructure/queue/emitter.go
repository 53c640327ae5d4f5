package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabworks/portal-api/internal/api/metrics"
	"github.com/collabworks/portal-api/internal/core/domain"
	"github.com/collabworks/portal-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Emitter is the best-effort write path of the activity log. Entries are
// routed to a fixed set of workers by consistent hashing on the project
// id, preserving per-project ordering. Emit never blocks: when a worker's
// buffer is full the entry is dropped and counted, because an audit write
// must never stall the mutation it describes.
type Emitter struct {
	workers []chan domain.ActivityEntry
	repo    ports.ActivityRepository
	log     zerolog.Logger
	now     func() time.Time
}

// NewEmitter creates an Emitter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewEmitter(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Emitter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	e := &Emitter{
		workers: make([]chan domain.ActivityEntry, numWorkers),
		repo:    repo,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for i := range e.workers {
		e.workers[i] = make(chan domain.ActivityEntry, channelBuffer)
	}
	return e
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (e *Emitter) Start(ctx context.Context) {
	for i, ch := range e.workers {
		go e.runWorker(ctx, i, ch)
	}
}

// Emit queues an activity entry for persistence. The timestamp is stamped
// here if the caller left it zero. Fire-and-forget: the caller gets no
// result and cannot fail because of the log.
func (e *Emitter) Emit(entry domain.ActivityEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = e.now()
	}
	metrics.ActivityEmittedTotal.Inc()

	idx := e.shardIndex(entry.ProjectID)
	select {
	case e.workers[idx] <- entry:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(e.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		e.log.Warn().
			Str("project_id", entry.ProjectID).
			Str("action", entry.Action).
			Msg("activity entry dropped: worker buffer full")
	}
}

// shardIndex maps a project id deterministically to a worker index.
func (e *Emitter) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32()) % len(e.workers)
}

func (e *Emitter) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))

			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			_, err := e.repo.Insert(insertCtx, &entry)
			cancel()
			if err != nil {
				metrics.ActivityWriteFailuresTotal.Inc()
				e.log.Warn().Err(err).
					Str("project_id", entry.ProjectID).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("activity write failed")
			}
		}
	}
}
