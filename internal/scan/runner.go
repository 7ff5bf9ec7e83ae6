package scan

import (
	"context"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

// Runner supervises one scan execution: the queue row is moved to
// running before the machine starts and always reaches a terminal status
// afterwards. Failure is never observable only through logs.
type Runner struct {
	machine *Machine
	queue   repository.QueueStore
	log     *logger.Logger
}

func NewRunner(machine *Machine, queue repository.QueueStore, log *logger.Logger) *Runner {
	return &Runner{machine: machine, queue: queue, log: log}
}

// Execute runs the scan and settles its queue row. The machine marks the
// row completed itself on success; Execute covers the failure side.
func (r *Runner) Execute(ctx context.Context, scanID, userID, sourceID uuid.UUID) error {
	if err := r.queue.MarkQueueRunning(ctx, scanID); err != nil {
		r.log.DatabaseError("mark queue running", err)
	}

	if err := r.machine.Run(ctx, scanID, userID, sourceID, nil); err != nil {
		if qerr := r.queue.MarkQueueFailed(ctx, scanID, err.Error()); qerr != nil {
			r.log.DatabaseError("mark queue failed", qerr)
		}
		return err
	}
	return nil
}
