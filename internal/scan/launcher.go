package scan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// maxInProcessScans bounds concurrent in-process scan runs. Each run fans
// out into external model calls, so a paste burst must not turn into an
// unbounded goroutine pile.
const maxInProcessScans = 4

// InProcessLauncher runs scans on supervised goroutines inside the API
// process. It backs single-binary deployments where no Redis queue is
// configured; the runner still guarantees a terminal queue status.
type InProcessLauncher struct {
	runner *Runner
	log    *logger.Logger
	slots  *semaphore.Weighted
	wg     sync.WaitGroup
}

func NewInProcessLauncher(runner *Runner, log *logger.Logger) *InProcessLauncher {
	return &InProcessLauncher{
		runner: runner,
		log:    log,
		slots:  semaphore.NewWeighted(maxInProcessScans),
	}
}

// Launch starts the scan on its own goroutine. The scan outlives the
// originating HTTP request, so cancellation is detached while request
// context values survive for logging. When all slots are busy the
// goroutine waits its turn; the scan stays pending until it runs.
func (l *InProcessLauncher) Launch(ctx context.Context, scanID, userID, sourceID uuid.UUID) error {
	runCtx := context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.slots.Acquire(runCtx, 1); err != nil {
			l.log.Error("scan slot acquisition failed",
				"scan_id", scanID.String(), "error", err.Error())
			return
		}
		defer l.slots.Release(1)

		if err := l.runner.Execute(runCtx, scanID, userID, sourceID); err != nil {
			l.log.Error("scan run failed",
				"scan_id", scanID.String(), "error", err.Error())
		}
	}()
	return nil
}

// Wait blocks until every launched scan has settled. Called on shutdown.
func (l *InProcessLauncher) Wait() {
	l.wg.Wait()
}
