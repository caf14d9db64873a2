package notification

import (
	"context"
	"testing"

	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/internal/scheduler"
	"mobiletrade_backend/platform/logger"
)

type fakeQueue struct {
	listings  []scheduler.ListingNotifyPayload
	statuses  []scheduler.ListingStatusNotifyPayload
	inquiries []scheduler.InquiryNotifyPayload
}

func (f *fakeQueue) EnqueueListingNotify(ctx context.Context, p scheduler.ListingNotifyPayload) error {
	f.listings = append(f.listings, p)
	return nil
}

func (f *fakeQueue) EnqueueListingStatusNotify(ctx context.Context, p scheduler.ListingStatusNotifyPayload) error {
	f.statuses = append(f.statuses, p)
	return nil
}

func (f *fakeQueue) EnqueueInquiryNotify(ctx context.Context, p scheduler.InquiryNotifyPayload) error {
	f.inquiries = append(f.inquiries, p)
	return nil
}

func TestHandleRoutesEventsToQueue(t *testing.T) {
	queue := &fakeQueue{}
	mod := NewModule(queue, logger.New("test"))
	ctx := context.Background()

	if err := mod.Handle(ctx, events.ListingSubmitted{
		BaseEvent:       events.NewBaseEvent(),
		ListingID:       "l-1",
		SellerName:      "Asha",
		SellerEmail:     "asha@example.com",
		PhoneModel:      "galaxy-s23",
		CalculatedPrice: 65000,
	}); err != nil {
		t.Fatalf("Handle(ListingSubmitted) error = %v", err)
	}
	if len(queue.listings) != 1 || queue.listings[0].ListingID != "l-1" {
		t.Errorf("listings = %+v, want one entry for l-1", queue.listings)
	}

	if err := mod.Handle(ctx, events.ListingStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		ListingID:   "l-1",
		SellerEmail: "asha@example.com",
		OldStatus:   "pending",
		NewStatus:   "approved",
	}); err != nil {
		t.Fatalf("Handle(ListingStatusChanged) error = %v", err)
	}
	if len(queue.statuses) != 1 || queue.statuses[0].NewStatus != "approved" {
		t.Errorf("statuses = %+v, want one approved entry", queue.statuses)
	}

	if err := mod.Handle(ctx, events.InquirySubmitted{
		BaseEvent:  events.NewBaseEvent(),
		InquiryID:  "i-1",
		ListingID:  "l-1",
		BuyerPhone: "+919812345678",
	}); err != nil {
		t.Fatalf("Handle(InquirySubmitted) error = %v", err)
	}
	if len(queue.inquiries) != 1 || queue.inquiries[0].InquiryID != "i-1" {
		t.Errorf("inquiries = %+v, want one entry for i-1", queue.inquiries)
	}
}

func TestHandleWithoutQueueDropsEvent(t *testing.T) {
	mod := NewModule(nil, logger.New("test"))

	err := mod.Handle(context.Background(), events.CatalogReplaced{BaseEvent: events.NewBaseEvent()})
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
}

func TestHandleIgnoresUnrelatedEvents(t *testing.T) {
	queue := &fakeQueue{}
	mod := NewModule(queue, logger.New("test"))

	if err := mod.Handle(context.Background(), events.NewCatalogReplaced(2, 10)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(queue.listings)+len(queue.statuses)+len(queue.inquiries) != 0 {
		t.Error("unrelated event produced an enqueue")
	}
}
