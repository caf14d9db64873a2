package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/internal/tradein/repository"
	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
	"mobiletrade_backend/platform/logger"
)

type fakeCatalog struct {
	catalog *domain.Catalog
}

func (f *fakeCatalog) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	if f.catalog == nil {
		return nil, apperr.NotFound("no catalog has been published").WithCode(domain.CodeCatalogUnavailable)
	}
	return f.catalog, nil
}

// memStore is an in-memory repository.Store with failure injection.
type memStore struct {
	mu        sync.Mutex
	listings  map[string]*repository.Listing
	inquiries map[string]*repository.Inquiry
	faqs      map[string]*repository.FAQ

	failCreateListing bool
}

func newMemStore() *memStore {
	return &memStore{
		listings:  make(map[string]*repository.Listing),
		inquiries: make(map[string]*repository.Inquiry),
		faqs:      make(map[string]*repository.FAQ),
	}
}

func (m *memStore) CreateListing(ctx context.Context, listing *repository.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateListing {
		return errors.New("store is down")
	}
	cp := *listing
	m.listings[listing.ID] = &cp
	return nil
}

func (m *memStore) GetListing(ctx context.Context, id string) (*repository.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	cp := *listing
	return &cp, nil
}

func (m *memStore) ListListings(ctx context.Context, filter repository.ListingFilter) ([]repository.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Listing
	for _, listing := range m.listings {
		if filter.Status != "" && listing.Status != filter.Status {
			continue
		}
		if filter.Brand != "" && listing.Brand != filter.Brand {
			continue
		}
		out = append(out, *listing)
	}
	return out, nil
}

func (m *memStore) UpdateListingStatus(ctx context.Context, id, status string) (*repository.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, apperr.NotFound("listing not found")
	}
	listing.Status = status
	listing.UpdatedAt = time.Now().UTC()
	cp := *listing
	return &cp, nil
}

func (m *memStore) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expired := 0
	for _, listing := range m.listings {
		if listing.Status == repository.StatusPending && listing.CreatedAt.Before(cutoff) {
			listing.Status = repository.StatusRejected
			expired++
		}
	}
	return expired, nil
}

func (m *memStore) CreateInquiry(ctx context.Context, inquiry *repository.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inquiry
	m.inquiries[inquiry.ID] = &cp
	return nil
}

func (m *memStore) ListInquiriesByListing(ctx context.Context, listingID string) ([]repository.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Inquiry
	for _, inq := range m.inquiries {
		if inq.ListingID == listingID {
			out = append(out, *inq)
		}
	}
	return out, nil
}

func (m *memStore) ListInquiriesByUser(ctx context.Context, userID string) ([]repository.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Inquiry
	for _, inq := range m.inquiries {
		if inq.UserID == userID {
			out = append(out, *inq)
		}
	}
	return out, nil
}

func (m *memStore) CreateFAQ(ctx context.Context, faq *repository.FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *faq
	m.faqs[faq.ID] = &cp
	return nil
}

func (m *memStore) GetFAQ(ctx context.Context, id string) (*repository.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	faq, ok := m.faqs[id]
	if !ok {
		return nil, apperr.NotFound("faq not found")
	}
	cp := *faq
	return &cp, nil
}

func (m *memStore) ListFAQs(ctx context.Context) ([]repository.FAQ, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.FAQ
	for _, faq := range m.faqs {
		out = append(out, *faq)
	}
	return out, nil
}

func (m *memStore) UpdateFAQ(ctx context.Context, faq *repository.FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.faqs[faq.ID]; !ok {
		return apperr.NotFound("faq not found")
	}
	cp := *faq
	m.faqs[faq.ID] = &cp
	return nil
}

func (m *memStore) DeleteFAQ(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.faqs[id]; !ok {
		return apperr.NotFound("faq not found")
	}
	delete(m.faqs, id)
	return nil
}

var _ repository.Store = (*memStore)(nil)

func newTestService(store *memStore) *Service {
	log := logger.New("test")
	return New(&fakeCatalog{catalog: quoteCatalog()}, store, events.NewInMemoryBus(log), log)
}

func validSubmitRequest() transport.SubmitListingRequest {
	return transport.SubmitListingRequest{
		QuoteRequest: validQuoteRequest(),
		UserName:     "Asha Rao",
		PhoneNumber:  "+919876543210",
		Email:        "asha@example.com",
		Location:     "Bengaluru",
	}
}

func TestQuoteIsReadOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	resp, err := svc.Quote(context.Background(), validQuoteRequest())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if resp.CalculatedPrice != 65000 {
		t.Errorf("CalculatedPrice = %v, want 65000", resp.CalculatedPrice)
	}
	if len(store.listings) != 0 {
		t.Errorf("quote stored %d listings, want 0", len(store.listings))
	}
}

func TestSubmitStoresPendingListing(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	resp, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Status != repository.StatusPending {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
	if resp.CalculatedPrice != 65000 {
		t.Errorf("CalculatedPrice = %v, want 65000", resp.CalculatedPrice)
	}

	stored, err := store.GetListing(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetListing() error = %v", err)
	}
	if stored.BasePrice != 70000 || stored.CalculatedPrice != 65000 {
		t.Errorf("stored prices = %v/%v, want 70000/65000", stored.BasePrice, stored.CalculatedPrice)
	}
	if stored.SelectedVariant.Storage != "512GB" || stored.SelectedVariant.RAM != "12GB" {
		t.Errorf("stored variant = %+v", stored.SelectedVariant)
	}
	if len(stored.QuestionAnswers) != 1 {
		t.Errorf("stored %d answers, want 1", len(stored.QuestionAnswers))
	}
}

func TestSubmitRejectedRequestStoresNothing(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	req := validSubmitRequest()
	req.SelectedVariant.RAM = strptr("8GB") // pair not sold

	if _, err := svc.Submit(context.Background(), req); err == nil {
		t.Fatal("Submit() = nil error, want validation failure")
	}
	if len(store.listings) != 0 {
		t.Errorf("rejected submission stored %d listings, want 0", len(store.listings))
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failCreateListing = true
	svc := newTestService(store)

	_, err := svc.Submit(context.Background(), validSubmitRequest())
	if err == nil {
		t.Fatal("Submit() = nil error, want persistence failure")
	}
	if code := apperr.GetCode(err); code != CodeListingPersistenceFailed {
		t.Errorf("code = %q, want %q", code, CodeListingPersistenceFailed)
	}
	if kind := apperr.GetKind(err); kind != apperr.KindUnavailable {
		t.Errorf("kind = %v, want KindUnavailable", kind)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{name: "pending to approved", from: "pending", to: "approved", allowed: true},
		{name: "pending to rejected", from: "pending", to: "rejected", allowed: true},
		{name: "approved to sold", from: "approved", to: "sold", allowed: true},
		{name: "approved to withdrawn", from: "approved", to: "withdrawn", allowed: true},
		{name: "pending to sold", from: "pending", to: "sold", allowed: false},
		{name: "rejected is terminal", from: "rejected", to: "approved", allowed: false},
		{name: "sold is terminal", from: "sold", to: "withdrawn", allowed: false},
		{name: "approved back to pending", from: "approved", to: "pending", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)

			resp, err := svc.Submit(context.Background(), validSubmitRequest())
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			store.listings[resp.ID].Status = tt.from

			updated, err := svc.UpdateStatus(context.Background(), resp.ID, tt.to)
			if tt.allowed {
				if err != nil {
					t.Fatalf("UpdateStatus() error = %v, want nil", err)
				}
				if updated.Status != tt.to {
					t.Errorf("Status = %q, want %q", updated.Status, tt.to)
				}
				return
			}
			if err == nil {
				t.Fatal("UpdateStatus() = nil error, want conflict")
			}
			if kind := apperr.GetKind(err); kind != apperr.KindConflict {
				t.Errorf("kind = %v, want KindConflict", kind)
			}
			// the stored status must be untouched
			if store.listings[resp.ID].Status != tt.from {
				t.Errorf("stored status = %q, want %q", store.listings[resp.ID].Status, tt.from)
			}
		})
	}
}

func TestSubmitInquiryRequiresApprovedListing(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	inquiry := transport.CreateInquiryRequest{
		ListingID:  resp.ID,
		BuyerPhone: "+919812345678",
		Address: transport.Address{
			StreetAddress: "14 MG Road",
			City:          "Bengaluru",
			State:         "Karnataka",
			PostalCode:    "560001",
		},
	}

	// pending listing: rejected
	if _, err := svc.SubmitInquiry(ctx, "buyer-1", inquiry); err == nil {
		t.Fatal("SubmitInquiry() on pending listing = nil error, want conflict")
	}

	store.listings[resp.ID].Status = repository.StatusApproved
	created, err := svc.SubmitInquiry(ctx, "buyer-1", inquiry)
	if err != nil {
		t.Fatalf("SubmitInquiry() error = %v", err)
	}
	if created.Status != repository.InquiryStatusPending {
		t.Errorf("inquiry status = %q, want pending", created.Status)
	}

	mine, err := svc.ListUserInquiries(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("ListUserInquiries() error = %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("len(mine) = %d, want 1", len(mine))
	}
	if mine[0].Listing == nil {
		t.Fatal("inquiry listing summary = nil, want populated")
	}
	if mine[0].Listing.PhoneModel != "galaxy-s23" {
		t.Errorf("summary model = %q, want galaxy-s23", mine[0].Listing.PhoneModel)
	}
	if mine[0].Listing.Status != repository.StatusApproved {
		t.Errorf("summary status = %q, want approved", mine[0].Listing.Status)
	}
}

func TestListGroupedPagination(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	// three listings across two model groups
	for i := 0; i < 2; i++ {
		req := validSubmitRequest()
		req.Email = fmt.Sprintf("seller%d@example.com", i)
		if _, err := svc.Submit(ctx, req); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	other := validSubmitRequest()
	other.SelectedVariant = transport.VariantSelection{Storage: strptr("128GB"), RAM: strptr("8GB")}
	if _, err := svc.Submit(ctx, other); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	resp, err := svc.ListGrouped(ctx, transport.ListListingsRequest{})
	if err != nil {
		t.Fatalf("ListGrouped() error = %v", err)
	}
	if len(resp.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1 (same model)", len(resp.Groups))
	}
	group := resp.Groups[0]
	if len(group.Listings) != 3 {
		t.Errorf("group has %d listings, want 3", len(group.Listings))
	}
	if group.PriceRange.Min != 40000 || group.PriceRange.Max != 65000 {
		t.Errorf("price range = %+v, want 40000..65000", group.PriceRange)
	}
	if resp.Pagination.TotalListings != 3 || resp.Pagination.TotalGroups != 1 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}

	// a page past the end is empty but well formed
	past, err := svc.ListGrouped(ctx, transport.ListListingsRequest{Page: 5, Limit: 10})
	if err != nil {
		t.Fatalf("ListGrouped() error = %v", err)
	}
	if len(past.Groups) != 0 {
		t.Errorf("past-the-end page has %d groups, want 0", len(past.Groups))
	}
}

func TestExpireStalePending(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	store.listings[resp.ID].CreatedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)

	fresh, err := svc.Submit(ctx, validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	expired, err := svc.ExpireStalePending(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("ExpireStalePending() error = %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if store.listings[resp.ID].Status != repository.StatusRejected {
		t.Errorf("stale listing status = %q, want rejected", store.listings[resp.ID].Status)
	}
	if store.listings[fresh.ID].Status != repository.StatusPending {
		t.Errorf("fresh listing status = %q, want pending", store.listings[fresh.ID].Status)
	}
}

func TestFAQLifecycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.CreateFAQ(ctx, transport.CreateFAQRequest{
		Question: "How long does payment take?",
		Answer:   "Within 24 hours of pickup.",
	})
	if err != nil {
		t.Fatalf("CreateFAQ() error = %v", err)
	}

	newAnswer := "Within 12 hours of pickup."
	updated, err := svc.UpdateFAQ(ctx, created.ID, transport.UpdateFAQRequest{Answer: &newAnswer})
	if err != nil {
		t.Fatalf("UpdateFAQ() error = %v", err)
	}
	if updated.Answer != newAnswer {
		t.Errorf("Answer = %q, want %q", updated.Answer, newAnswer)
	}
	if updated.Question != created.Question {
		t.Errorf("Question changed to %q", updated.Question)
	}

	if err := svc.DeleteFAQ(ctx, created.ID); err != nil {
		t.Fatalf("DeleteFAQ() error = %v", err)
	}
	if err := svc.DeleteFAQ(ctx, created.ID); err == nil {
		t.Error("second DeleteFAQ() = nil error, want not found")
	}
}

func TestGetListingDetails(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	store.listings[resp.ID].Status = repository.StatusApproved

	if _, err := svc.SubmitInquiry(ctx, "", transport.CreateInquiryRequest{
		ListingID:  resp.ID,
		BuyerPhone: "+919812345678",
		Address:    transport.Address{StreetAddress: "1 Main St", City: "Pune", State: "MH", PostalCode: "411001"},
	}); err != nil {
		t.Fatalf("SubmitInquiry() error = %v", err)
	}

	details, err := svc.GetListingDetails(ctx, resp.ID)
	if err != nil {
		t.Fatalf("GetListingDetails() error = %v", err)
	}
	if details.Listing.ID != resp.ID {
		t.Errorf("Listing.ID = %q, want %q", details.Listing.ID, resp.ID)
	}
	if len(details.Inquiries) != 1 {
		t.Errorf("len(Inquiries) = %d, want 1", len(details.Inquiries))
	}
}
