package workers

import (
	"context"
	"sync/atomic"

	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/pkg/logger"
)

const DefaultUsageBuffer = 256

// UsageStore persists card render records
type UsageStore interface {
	Create(render *models.CardRender) error
}

// UsageWorker writes card render records to the usage store in the background
type UsageWorker struct {
	*BaseWorker
	store   UsageStore
	queue   chan *models.CardRender
	dropped atomic.Int64
}

// NewUsageWorker creates a new usage worker with a queue of bufferSize records
func NewUsageWorker(workerID string, store UsageStore, bufferSize int) *UsageWorker {
	if bufferSize <= 0 {
		bufferSize = DefaultUsageBuffer
	}
	return &UsageWorker{
		BaseWorker: NewBaseWorker(workerID),
		store:      store,
		queue:      make(chan *models.CardRender, bufferSize),
	}
}

// Record queues a render without blocking; the record is dropped when the queue is full.
func (w *UsageWorker) Record(render *models.CardRender) {
	if render == nil {
		return
	}
	select {
	case w.queue <- render:
	default:
		dropped := w.dropped.Add(1)
		logger.WithField("worker", w.WorkerID).WithField("dropped", dropped).Warn("Usage queue full, dropping record")
	}
}

// Dropped returns how many records were discarded because the queue was full
func (w *UsageWorker) Dropped() int64 {
	return w.dropped.Load()
}

// Start drains the queue until stopped. Pending records are flushed on Stop.
func (w *UsageWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)
	logger.WithField("worker", w.WorkerID).Info("Usage worker started")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			logger.WithField("worker", w.WorkerID).Info("Usage worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			w.drain()
			logger.WithField("worker", w.WorkerID).Info("Usage worker stopping")
			return nil
		case render := <-w.queue:
			w.save(render)
		}
	}
}

func (w *UsageWorker) drain() {
	for {
		select {
		case render := <-w.queue:
			w.save(render)
		default:
			return
		}
	}
}

func (w *UsageWorker) save(render *models.CardRender) {
	if err := w.store.Create(render); err != nil {
		logger.WithError(err).WithField("worker", w.WorkerID).WithField("username", render.Username).Error("Failed to store usage record")
	}
}
