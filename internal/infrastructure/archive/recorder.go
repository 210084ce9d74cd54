package archive

import (
	"context"
	"sync"
	"time"

	"github.com/gridironai/gameday/internal/domain/rawdata"
	"github.com/gridironai/gameday/internal/platform/logging"
)

const (
	defaultQueueSize   = 256
	upsertTimeout      = 5 * time.Second
	drainBatchCapacity = 32
)

// Recorder archives raw upstream payloads in the background. Recording is
// strictly best-effort: a full queue drops the payload rather than slowing
// the request path, and repository failures are only logged.
type Recorder struct {
	repo   rawdata.Repository
	logger *logging.Logger

	queue chan rawdata.Payload
	done  chan struct{}
	once  sync.Once
}

func NewRecorder(repo rawdata.Repository, logger *logging.Logger, queueSize int) *Recorder {
	if logger == nil {
		logger = logging.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	r := &Recorder{
		repo:   repo,
		logger: logger,
		queue:  make(chan rawdata.Payload, queueSize),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) Record(_ context.Context, item rawdata.Payload) {
	select {
	case r.queue <- item:
	default:
		r.logger.Debug("archive queue full, payload dropped",
			"entity_type", item.EntityType,
			"entity_key", item.EntityKey,
		)
	}
}

// Close flushes queued payloads and stops the worker. Waits until the drain
// completes or ctx expires.
func (r *Recorder) Close(ctx context.Context) error {
	r.once.Do(func() {
		close(r.queue)
	})

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	for item := range r.queue {
		batch := append(make([]rawdata.Payload, 0, drainBatchCapacity), item)
	drain:
		for len(batch) < drainBatchCapacity {
			select {
			case next, open := <-r.queue:
				if !open {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}
		r.flush(batch)
	}
}

func (r *Recorder) flush(batch []rawdata.Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	if err := r.repo.UpsertMany(ctx, batch); err != nil {
		r.logger.Warn("archive raw payloads failed", "count", len(batch), "error", err)
	}
}
