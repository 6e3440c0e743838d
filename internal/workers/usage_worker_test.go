package workers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/streakcard/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	renders []*models.CardRender
	err     error
}

func (s *memoryStore) Create(render *models.CardRender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.renders = append(s.renders, render)
	return nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.renders)
}

func TestUsageWorkerStoresRecords(t *testing.T) {
	store := &memoryStore{}
	worker := NewUsageWorker("usage-1", store, 8)
	manager := NewWorkerManager(worker)
	require.NoError(t, manager.StartAll())

	for i := 0; i < 5; i++ {
		worker.Record(models.NewCardRender("octocat", models.CardVariantPlain, models.RenderStatusOK))
	}
	worker.Record(nil)

	require.Eventually(t, func() bool { return store.count() == 5 }, time.Second, 10*time.Millisecond)
	assert.True(t, manager.GetWorkerStatus()["usage-1"])

	require.NoError(t, manager.StopAll())
	assert.False(t, worker.IsRunning())
	assert.Zero(t, worker.Dropped())
}

func TestUsageWorkerFlushesOnStop(t *testing.T) {
	store := &memoryStore{}
	worker := NewUsageWorker("usage-1", store, 16)

	for i := 0; i < 10; i++ {
		worker.Record(models.NewCardRender("octocat", models.CardVariantPlain, models.RenderStatusOK))
	}

	manager := NewWorkerManager(worker)
	require.NoError(t, worker.Stop())
	require.NoError(t, manager.StartAll())
	require.NoError(t, manager.StopAll())

	assert.Equal(t, 10, store.count())
}

func TestUsageWorkerRecordNeverBlocks(t *testing.T) {
	store := &memoryStore{}
	worker := NewUsageWorker("usage-1", store, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			worker.Record(models.NewCardRender("octocat", models.CardVariantPlain, models.RenderStatusOK))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	assert.Equal(t, int64(3), worker.Dropped())
}

func TestUsageWorkerStoreErrorsAreLogged(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	worker := NewUsageWorker("usage-1", store, 4)
	worker.Record(models.NewCardRender("octocat", models.CardVariantPlain, models.RenderStatusOK))

	manager := NewWorkerManager(worker)
	require.NoError(t, worker.Stop())
	require.NoError(t, manager.StartAll())
	assert.NoError(t, manager.StopAll())
	assert.Zero(t, store.count())
}

func TestBaseWorkerStopIsIdempotent(t *testing.T) {
	worker := NewBaseWorker("base")
	assert.NoError(t, worker.Stop())
	assert.NoError(t, worker.Stop())
	assert.Equal(t, "base", worker.GetWorkerID())
}
