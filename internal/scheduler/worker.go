package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"mobiletrade_backend/internal/email"
	"mobiletrade_backend/internal/tradein/service"
	"mobiletrade_backend/platform/config"
	"mobiletrade_backend/platform/logger"
)

// Worker processes queued notification and maintenance tasks.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	tradein   *service.Service
	sender    email.Sender
	cfg       *config.Config
	log       *logger.Logger
}

// NewWorker creates the asynq server, registers the task handlers and the
// periodic stale-listing sweep.
func NewWorker(cfg *config.Config, tradein *service.Service, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	periodic := asynq.NewScheduler(opt, nil)
	if _, err := periodic.Register("@every 24h", NewExpireStaleListingsTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register stale listing sweep: %w", err)
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: periodic,
		mux:       mux,
		tradein:   tradein,
		sender:    sender,
		cfg:       cfg,
		log:       log,
	}

	mux.HandleFunc(TaskListingNotify, w.handleListingNotify)
	mux.HandleFunc(TaskListingStatusNotify, w.handleListingStatusNotify)
	mux.HandleFunc(TaskInquiryNotify, w.handleInquiryNotify)
	mux.HandleFunc(TaskExpireStaleListings, w.handleExpireStaleListings)

	return w, nil
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleListingNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseListingNotifyPayload(task)
	if err != nil {
		return err
	}

	if err := w.sender.SendListingReceived(ctx, payload.SellerEmail, payload.SellerName, payload.PhoneModel, payload.CalculatedPrice); err != nil {
		return fmt.Errorf("seller confirmation for listing %s: %w", payload.ListingID, err)
	}

	if admin := w.cfg.GetAdminNotifyAddress(); admin != "" {
		if err := w.sender.SendNewListingAlert(ctx, admin, payload.ListingID, payload.PhoneModel, payload.CalculatedPrice); err != nil {
			return fmt.Errorf("admin alert for listing %s: %w", payload.ListingID, err)
		}
	}
	return nil
}

func (w *Worker) handleListingStatusNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseListingStatusNotifyPayload(task)
	if err != nil {
		return err
	}

	// load the listing for the model name; the email reads better with it
	details, err := w.tradein.GetListingDetails(ctx, payload.ListingID)
	if err != nil {
		return fmt.Errorf("load listing %s: %w", payload.ListingID, err)
	}

	return w.sender.SendListingStatusChanged(ctx, payload.SellerEmail, details.Listing.PhoneModel, payload.NewStatus)
}

func (w *Worker) handleInquiryNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInquiryNotifyPayload(task)
	if err != nil {
		return err
	}

	admin := w.cfg.GetAdminNotifyAddress()
	if admin == "" {
		return nil
	}
	return w.sender.SendInquiryAlert(ctx, admin, payload.ListingID, payload.BuyerPhone)
}

func (w *Worker) handleExpireStaleListings(ctx context.Context, task *asynq.Task) error {
	expired, err := w.tradein.ExpireStalePending(ctx, w.cfg.GetPendingListingMaxAge())
	if err != nil {
		return err
	}
	w.log.Info("stale listing sweep complete", "expired", expired)
	return nil
}
