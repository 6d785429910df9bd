package worker

import (
	"context"
	"time"

	"github.com/songify-io/songify/pkg/usecase"
	"github.com/songify-io/songify/pkg/utils/logging"
)

// DefaultSyncInterval is the default polling cadence of the status sync loop
const DefaultSyncInterval = 3 * time.Second

// StatusSyncWorker drives the reconciliation loop: one SyncAll per tick.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type StatusSyncWorker struct {
	uc       *usecase.UseCases
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewStatusSyncWorker creates a new worker for the status sync loop
func NewStatusSyncWorker(uc *usecase.UseCases, interval time.Duration) *StatusSyncWorker {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &StatusSyncWorker{
		uc:       uc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sync loop
// - Initial tick and periodic ticks both run in a background goroutine
// - Does not block server startup
func (w *StatusSyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("status sync worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *StatusSyncWorker) Stop() {
	logging.Default().Info("status sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("status sync worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *StatusSyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial tick so a fresh deployment converges without waiting an interval
	if err := w.uc.SyncAll(ctx); err != nil {
		logging.Default().Error("initial status sync failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.uc.SyncAll(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("status sync failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("status sync worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("status sync worker context cancelled")
			return
		}
	}
}
