package slots

import (
	"context"
	"time"

	"healthfirst-service/internal/app/config"
	"healthfirst-service/internal/app/contracts"
	"healthfirst-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker periodically prunes expired never-booked slots so the collection
// does not grow without bound. Booked slots are never touched.
type Worker struct {
	log    *zap.Logger
	cfg    *config.InternalConfig
	locker contracts.LockerService
	slots  contracts.SlotRepository
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, slotRepo contracts.SlotRepository) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, slots: slotRepo}
}

// Start begins the periodic loop.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.App.SlotWorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("slots.worker: failed to schedule with provided cron spec; falling back to @daily", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@daily", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop gracefully stops the cron and any in-flight run.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop() // wait for running jobs to finish
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	// only one instance may sweep at a time
	ttl := 2 * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, constvars.LockKeyWorkerLeader, ttl)
	if err != nil {
		w.log.Warn("slots.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("slots.worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(ctx, constvars.LockKeyWorkerLeader, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, constvars.LockKeyWorkerLeader, token, ttl); err != nil {
					w.log.Warn("slots.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	cutoff := time.Now().UTC().AddDate(0, 0, -w.cfg.App.SlotRetentionDays)
	removed, err := w.slots.DeleteExpiredAvailable(ctx, "", cutoff)
	if err != nil {
		w.log.Warn("slots.worker: sweep failed", zap.Error(err))
		return
	}
	w.log.Info("slots.worker: sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int64("slots_removed", removed),
	)
}
