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
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"

	"mobiletrade_backend/internal/adapters/storage"
	"mobiletrade_backend/internal/catalog"
	catalogrepo "mobiletrade_backend/internal/catalog/repository"
	"mobiletrade_backend/internal/events"
	apphttp "mobiletrade_backend/internal/http"
	"mobiletrade_backend/internal/http/router"
	"mobiletrade_backend/internal/notification"
	"mobiletrade_backend/internal/scheduler"
	"mobiletrade_backend/internal/tradein"
	tradeinrepo "mobiletrade_backend/internal/tradein/repository"
	"mobiletrade_backend/platform/config"
	"mobiletrade_backend/platform/db"
	"mobiletrade_backend/platform/logger"
	"mobiletrade_backend/platform/validator"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

// firestoreHealth adapts a Firestore client to the readiness check.
type firestoreHealth struct {
	client *firestore.Client
}

func (h firestoreHealth) Ping(ctx context.Context) error {
	_, err := h.client.Collections(ctx).Next()
	if err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var (
		catalogStore catalogrepo.Store
		tradeinStore tradeinrepo.Store
		health       apphttp.HealthChecker
	)

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, "migrations")
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

		catalogStore = catalogrepo.NewPostgresStore(pool)
		tradeinStore = tradeinrepo.NewPostgresStore(pool)
		health = db.NewPoolAdapter(pool)

	case config.StoreDriverFirestore:
		fsClient, err := firestore.NewClient(ctx, cfg.GetFirestoreProjectID())
		if err != nil {
			log.Error("failed to connect to firestore", "error", err)
			panic("failed to connect to firestore: " + err.Error())
		}
		defer fsClient.Close()
		log.Info("firestore connection established", "project", cfg.GetFirestoreProjectID())

		catalogStore = catalogrepo.NewFirestoreStore(fsClient)
		tradeinStore = tradeinrepo.NewFirestoreStore(fsClient)
		health = firestoreHealth{client: fsClient}

	default:
		panic("unsupported store driver: " + cfg.StoreDriver)
	}

	// Read-through cache for the catalog document. The catalog changes only
	// on admin replace but is read on every quote.
	if cfg.GetRedisURL() != "" {
		opts, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			log.Error("failed to parse REDIS_URL", "error", err)
			panic("failed to parse REDIS_URL: " + err.Error())
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		catalogStore = catalogrepo.NewCachedStore(catalogStore, rdb, cfg.GetCatalogCacheTTL(), log.Logger)
		log.Info("catalog cache enabled", "ttl", cfg.GetCatalogCacheTTL())
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for catalog image uploads (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, svc, "catalog-images", cfg.GetMinioBucketCatalogImages())
		storageSvc = svc
	} else {
		log.Warn("MinIO not configured; catalog image uploads disabled")
	}

	// Task queue for notification emails and background jobs
	var queue notification.Enqueuer
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = schedClient.Close() }()
		queue = schedClient
	} else {
		log.Warn("REDIS_URL not configured; notification emails disabled")
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	notificationModule := notification.NewModule(queue, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(catalogStore, storageSvc, cfg.GetMinioBucketCatalogImages(), eventBus, val, log)
	tradeinModule := tradein.NewModule(catalogModule.Service(), tradeinStore, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			tradeinModule,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
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
