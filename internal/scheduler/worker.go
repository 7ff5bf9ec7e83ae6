package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/msoyaph/nexscout-sub003/internal/scan"
	"github.com/msoyaph/nexscout-sub003/platform/config"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner *scan.Runner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner *scan.Runner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		runner: runner,
		log:    log,
	}

	mux.HandleFunc(TaskScanRun, w.handleScanRun)

	return w, nil
}

func (w *Worker) handleScanRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScanRunPayload(task)
	if err != nil {
		return err
	}

	scanID, err := uuid.Parse(payload.ScanID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return err
	}
	sourceID, err := uuid.Parse(payload.SourceID)
	if err != nil {
		return err
	}

	// The runner settles the queue row on failure; the machine has already
	// persisted the ERROR snapshot. Nothing is gained by failing the task.
	if err := w.runner.Execute(ctx, scanID, userID, sourceID); err != nil {
		w.log.Error("scan run failed",
			"scan_id", payload.ScanID, "error", err.Error())
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
