// Package notification bridges domain events to queued notification tasks.
// It subscribes to the event bus and hands delivery to the background worker,
// so a slow SMTP server never blocks a request.
package notification

import (
	"context"

	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/internal/scheduler"
	"mobiletrade_backend/platform/logger"
)

// Enqueuer is the slice of the scheduler client this module uses.
type Enqueuer interface {
	EnqueueListingNotify(ctx context.Context, payload scheduler.ListingNotifyPayload) error
	EnqueueListingStatusNotify(ctx context.Context, payload scheduler.ListingStatusNotifyPayload) error
	EnqueueInquiryNotify(ctx context.Context, payload scheduler.InquiryNotifyPayload) error
}

// Module routes domain events to notification tasks.
type Module struct {
	queue Enqueuer
	log   *logger.Logger
}

// NewModule creates the notification module. queue may be nil when the task
// queue is not configured; events are then logged and dropped.
func NewModule(queue Enqueuer, log *logger.Logger) *Module {
	return &Module{queue: queue, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EventListingSubmitted, m)
	bus.Subscribe(events.EventListingStatusChanged, m)
	bus.Subscribe(events.EventInquirySubmitted, m)
}

// Handle routes events to the task queue.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	if m.queue == nil {
		m.log.Warn("notification dropped, task queue not configured", "event", event.EventName())
		return nil
	}

	switch e := event.(type) {
	case events.ListingSubmitted:
		return m.queue.EnqueueListingNotify(ctx, scheduler.ListingNotifyPayload{
			ListingID:       e.ListingID,
			SellerName:      e.SellerName,
			SellerEmail:     e.SellerEmail,
			PhoneModel:      e.PhoneModel,
			CalculatedPrice: e.CalculatedPrice,
		})
	case events.ListingStatusChanged:
		return m.queue.EnqueueListingStatusNotify(ctx, scheduler.ListingStatusNotifyPayload{
			ListingID:   e.ListingID,
			SellerEmail: e.SellerEmail,
			NewStatus:   e.NewStatus,
		})
	case events.InquirySubmitted:
		return m.queue.EnqueueInquiryNotify(ctx, scheduler.InquiryNotifyPayload{
			InquiryID:  e.InquiryID,
			ListingID:  e.ListingID,
			BuyerPhone: e.BuyerPhone,
		})
	default:
		return nil
	}
}

var _ events.Handler = (*Module)(nil)
