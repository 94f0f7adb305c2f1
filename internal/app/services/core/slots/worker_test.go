package slots

import (
	"context"
	"sync"
	"testing"
	"time"

	"healthfirst-service/internal/app/config"
	"healthfirst-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: map[string]string{}}
}

func (s *stubLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.held[key]; busy {
		return false, "", nil
	}
	s.held[key] = "tok"
	return true, "tok", nil
}

func (s *stubLocker) Unlock(ctx context.Context, key, lockValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
	return nil
}

func (s *stubLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func TestWorkerRunOnce_SweepsExpiredAvailableOnly(t *testing.T) {
	repo := newMemorySlotRepo()
	staleID := repo.seed(models.SlotStatusAvailable)
	bookedID := repo.seed(models.SlotStatusBooked)

	// negative retention pushes the cutoff far into the future so the
	// seeded fixtures count as expired regardless of the wall clock
	cfg := &config.InternalConfig{App: config.App{SlotRetentionDays: -36500}}
	w := NewWorker(zap.NewNop(), cfg, newStubLocker(), repo)
	w.runOnce(context.Background())

	stale, err := repo.FindByID(context.Background(), staleID)
	require.NoError(t, err)
	assert.Nil(t, stale)

	booked, err := repo.FindByID(context.Background(), bookedID)
	require.NoError(t, err)
	require.NotNil(t, booked)
	assert.Equal(t, models.SlotStatusBooked, booked.Status)
}

func TestWorkerRunOnce_SkipsWhenLeaderLockHeld(t *testing.T) {
	repo := newMemorySlotRepo()
	staleID := repo.seed(models.SlotStatusAvailable)

	locker := newStubLocker()
	_, _, err := locker.TryLock(context.Background(), "slotmaint:leader", time.Minute)
	require.NoError(t, err)

	cfg := &config.InternalConfig{App: config.App{SlotRetentionDays: -36500}}
	w := NewWorker(zap.NewNop(), cfg, locker, repo)
	w.runOnce(context.Background())

	still, err := repo.FindByID(context.Background(), staleID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}
