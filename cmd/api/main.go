package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msoyaph/nexscout-sub003/internal/events"
	apphttp "github.com/msoyaph/nexscout-sub003/internal/http"
	"github.com/msoyaph/nexscout-sub003/internal/http/router"
	"github.com/msoyaph/nexscout-sub003/internal/scan"
	"github.com/msoyaph/nexscout-sub003/internal/scan/service"
	"github.com/msoyaph/nexscout-sub003/internal/scheduler"
	"github.com/msoyaph/nexscout-sub003/migrations"
	"github.com/msoyaph/nexscout-sub003/platform/config"
	"github.com/msoyaph/nexscout-sub003/platform/db"
	platformevents "github.com/msoyaph/nexscout-sub003/platform/events"
	"github.com/msoyaph/nexscout-sub003/platform/logger"
	"github.com/msoyaph/nexscout-sub003/platform/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := platformevents.NewInMemoryBus(log)

	// Raw capture archive (MinIO) for replaying scans; optional
	var archive service.CaptureArchiver
	if cfg.GetMinIOEndpoint() != "" {
		captureArchive, err := storage.NewCaptureArchive(cfg)
		if err != nil {
			log.Error("failed to initialize capture archive", "error", err)
			panic("failed to initialize capture archive: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure capture bucket", 5, 2*time.Second, func() error {
			return captureArchive.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure capture bucket exists", "error", err)
			panic("failed to ensure capture bucket exists: " + err.Error())
		}
		archive = captureArchive
		log.Info("capture archive initialized", "bucket", cfg.GetMinioBucketCaptures())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; raw capture archival disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Scan runs execute on the asynq queue when Redis is configured. Without
	// Redis they run in-process, which keeps single-node deploys working.
	var launcher service.Launcher
	var inProcess *scan.InProcessLauncher
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		launcher = client
		log.Info("scan launcher ready", "mode", "asynq", "queue", cfg.GetAsynqQueueName())
	} else {
		log.Warn("REDIS_URL not configured; scans will run in-process")
		runner, err := scan.BuildRunner(ctx, pool, eventBus, cfg, log)
		if err != nil {
			log.Error("failed to build scan pipeline", "error", err)
			panic("failed to build scan pipeline: " + err.Error())
		}
		inProcess = scan.NewInProcessLauncher(runner, log)
		launcher = inProcess
		log.Info("scan launcher ready", "mode", "in-process")
	}

	scanModule := scan.NewModule(pool, eventBus, launcher, archive, log)

	// Learning profile events are observed here until a dedicated consumer
	// exists; keeps the bus exercised and makes scan completions visible.
	eventBus.Subscribe(events.ScanCompleted{}.EventName(), platformevents.HandlerFunc(func(_ context.Context, event platformevents.Event) error {
		if e, ok := event.(events.ScanCompleted); ok {
			log.Info("scan completed", "scanId", e.ScanID, "prospects", e.Prospects)
		}
		return nil
	}))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			scanModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		if inProcess != nil {
			inProcess.Wait()
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
