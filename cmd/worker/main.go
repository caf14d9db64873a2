package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgxpool"

	catalogrepo "mobiletrade_backend/internal/catalog/repository"
	catalogservice "mobiletrade_backend/internal/catalog/service"
	"mobiletrade_backend/internal/email"
	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/internal/scheduler"
	"mobiletrade_backend/internal/tradein/repository"
	"mobiletrade_backend/internal/tradein/service"
	"mobiletrade_backend/platform/config"
	"mobiletrade_backend/platform/db"
	"mobiletrade_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		catalogStore catalogrepo.Store
		tradeinStore repository.Store
	)

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
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

		catalogStore = catalogrepo.NewPostgresStore(pool)
		tradeinStore = repository.NewPostgresStore(pool)

	case config.StoreDriverFirestore:
		fsClient, err := firestore.NewClient(ctx, cfg.GetFirestoreProjectID())
		if err != nil {
			log.Error("failed to connect to firestore", "error", err)
			panic("failed to connect to firestore: " + err.Error())
		}
		defer fsClient.Close()

		catalogStore = catalogrepo.NewFirestoreStore(fsClient)
		tradeinStore = repository.NewFirestoreStore(fsClient)

	default:
		panic("unsupported store driver: " + cfg.StoreDriver)
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// The worker publishes no events of its own, so the bus stays local.
	eventBus := events.NewInMemoryBus(log)
	catalogSvc := catalogservice.New(catalogStore, nil, "", eventBus, log)
	tradeinSvc := service.New(catalogSvc, tradeinStore, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, tradeinSvc, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening for tasks", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
	log.Info("worker stopped")
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
