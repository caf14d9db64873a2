// Package service implements quoting, listing submission and the rest of the
// trade-in lifecycle.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/events"
	"mobiletrade_backend/internal/tradein/repository"
	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
	"mobiletrade_backend/platform/logger"
	"mobiletrade_backend/platform/phone"
)

// CatalogReader is the narrow slice of the catalog module the trade-in
// service depends on.
type CatalogReader interface {
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
}

const (
	defaultPage  = 1
	defaultLimit = 20
)

// allowedTransitions is the listing lifecycle. A pending listing is
// approved or rejected; an approved listing is sold or withdrawn.
// rejected, sold and withdrawn are terminal.
var allowedTransitions = map[string][]string{
	repository.StatusPending:  {repository.StatusApproved, repository.StatusRejected},
	repository.StatusApproved: {repository.StatusSold, repository.StatusWithdrawn},
}

// Service exposes the trade-in operations to handlers and workers.
type Service struct {
	catalog CatalogReader
	store   repository.Store
	bus     events.Bus
	log     *logger.Logger
}

// New creates a trade-in service.
func New(catalog CatalogReader, store repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{catalog: catalog, store: store, bus: bus, log: log}
}

// Quote validates the request against the catalog and prices it. It writes
// nothing: a quote is a read-only preview of what Submit would store.
func (s *Service) Quote(ctx context.Context, req transport.QuoteRequest) (*transport.QuoteResponse, error) {
	cat, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := ValidateQuote(cat, req)
	if err != nil {
		return nil, err
	}
	result, err := CalculateQuote(resolved)
	if err != nil {
		return nil, err
	}

	return &transport.QuoteResponse{
		Brand:           req.Brand,
		PhoneSeries:     req.PhoneSeries,
		PhoneModel:      req.PhoneModel,
		Storage:         resolved.Storage,
		RAM:             resolved.RAM,
		BasePrice:       result.BasePrice,
		TotalAdjustment: result.TotalAdjustment,
		CalculatedPrice: result.FinalPrice,
		Adjustments:     result.Adjustments,
	}, nil
}

// Submit re-validates and re-prices the request against the current catalog,
// then persists the listing in a single write. Nothing is stored when any
// step fails, so a rejected submission leaves no partial state behind.
func (s *Service) Submit(ctx context.Context, req transport.SubmitListingRequest) (*transport.SubmitListingResponse, error) {
	cat, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := ValidateQuote(cat, req.QuoteRequest)
	if err != nil {
		return nil, err
	}
	result, err := CalculateQuote(resolved)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listing := &repository.Listing{
		ID:          uuid.New().String(),
		UserName:    req.UserName,
		PhoneNumber: phone.NormalizeE164(req.PhoneNumber),
		Email:       req.Email,
		Location:    req.Location,
		Brand:       req.Brand,
		PhoneSeries: req.PhoneSeries,
		PhoneModel:  req.PhoneModel,
		SelectedVariant: repository.Variant{
			Storage: resolved.Storage,
			RAM:     resolved.RAM,
		},
		QuestionAnswers: req.QuestionAnswers,
		BasePrice:       result.BasePrice,
		CalculatedPrice: result.FinalPrice,
		Status:          repository.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		s.log.StoreError("create_listing", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to store listing", err).WithCode(CodeListingPersistenceFailed)
	}

	s.log.ListingEvent("listing_submitted", listing.ID, listing.Status)
	s.bus.Publish(ctx, events.ListingSubmitted{
		BaseEvent:       events.NewBaseEvent(),
		ListingID:       listing.ID,
		SellerName:      listing.UserName,
		SellerEmail:     listing.Email,
		Brand:           listing.Brand,
		PhoneSeries:     listing.PhoneSeries,
		PhoneModel:      listing.PhoneModel,
		CalculatedPrice: listing.CalculatedPrice,
	})

	return &transport.SubmitListingResponse{
		ID:              listing.ID,
		Status:          listing.Status,
		BasePrice:       listing.BasePrice,
		CalculatedPrice: listing.CalculatedPrice,
	}, nil
}

// ListGrouped returns the filtered listings feed grouped by phone model,
// with pagination applied to the groups.
func (s *Service) ListGrouped(ctx context.Context, req transport.ListListingsRequest) (*transport.GroupedListingsResponse, error) {
	filter := repository.ListingFilter{
		Status:      req.Status,
		Brand:       req.Brand,
		PhoneSeries: req.PhoneSeries,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
	}
	listings, err := s.store.ListListings(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := groupListings(listings)

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	total := len(groups)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &transport.GroupedListingsResponse{
		Groups: groups[start:end],
		Pagination: transport.Pagination{
			Page:          page,
			Limit:         limit,
			TotalGroups:   total,
			TotalListings: len(listings),
		},
	}, nil
}

// GetListingDetails loads one listing together with its inquiries.
func (s *Service) GetListingDetails(ctx context.Context, id string) (*transport.ListingDetailsResponse, error) {
	var listing *repository.Listing
	var inquiries []repository.Inquiry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listing, err = s.store.GetListing(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		inquiries, err = s.store.ListInquiriesByListing(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &transport.ListingDetailsResponse{
		Listing:   toListingResponse(*listing),
		Inquiries: make([]transport.InquiryResponse, 0, len(inquiries)),
	}
	for _, inq := range inquiries {
		resp.Inquiries = append(resp.Inquiries, toInquiryResponse(inq))
	}
	return resp, nil
}

// UpdateStatus transitions a listing through its lifecycle. Transitions not
// in the lifecycle table are rejected without touching the store.
func (s *Service) UpdateStatus(ctx context.Context, id, newStatus string) (*transport.ListingResponse, error) {
	listing, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(listing.Status, newStatus) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot move a %s listing to %s", listing.Status, newStatus))
	}

	updated, err := s.store.UpdateListingStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}

	s.log.ListingEvent("listing_status_changed", updated.ID, updated.Status)
	s.bus.Publish(ctx, events.ListingStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		ListingID:   updated.ID,
		SellerEmail: updated.Email,
		OldStatus:   listing.Status,
		NewStatus:   updated.Status,
	})

	resp := toListingResponse(*updated)
	return &resp, nil
}

// ExpireStalePending rejects pending listings older than maxAge and returns
// how many were transitioned. Used by the background worker.
func (s *Service) ExpireStalePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	expired, err := s.store.ExpireStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.log.ListingEvent("stale_listings_expired", fmt.Sprintf("%d listings", expired), repository.StatusRejected)
	}
	return expired, nil
}

// SubmitInquiry stores a buyer inquiry against an existing listing.
// userID is empty for anonymous buyers.
func (s *Service) SubmitInquiry(ctx context.Context, userID string, req transport.CreateInquiryRequest) (*transport.InquiryResponse, error) {
	// the listing must exist and be visible to buyers
	listing, err := s.store.GetListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != repository.StatusApproved {
		return nil, apperr.Conflict("inquiries are only accepted against approved listings")
	}

	now := time.Now().UTC()
	inquiry := &repository.Inquiry{
		ID:         uuid.New().String(),
		ListingID:  req.ListingID,
		UserID:     userID,
		BuyerPhone: phone.NormalizeE164(req.BuyerPhone),
		Address: repository.Address{
			StreetAddress: req.Address.StreetAddress,
			City:          req.Address.City,
			State:         req.Address.State,
			PostalCode:    req.Address.PostalCode,
		},
		Status:    repository.InquiryStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateInquiry(ctx, inquiry); err != nil {
		s.log.StoreError("create_inquiry", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to store inquiry", err)
	}

	s.bus.Publish(ctx, events.InquirySubmitted{
		BaseEvent:  events.NewBaseEvent(),
		InquiryID:  inquiry.ID,
		ListingID:  inquiry.ListingID,
		BuyerPhone: inquiry.BuyerPhone,
	})

	resp := toInquiryResponse(*inquiry)
	return &resp, nil
}

// ListUserInquiries returns the inquiries one user has submitted, each with
// a summary of the listing it targets. A listing that has since disappeared
// leaves the summary empty rather than failing the whole read.
func (s *Service) ListUserInquiries(ctx context.Context, userID string) ([]transport.UserInquiryResponse, error) {
	inquiries, err := s.store.ListInquiriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]*transport.ListingSummary)
	resp := make([]transport.UserInquiryResponse, 0, len(inquiries))
	for _, inq := range inquiries {
		summary, seen := summaries[inq.ListingID]
		if !seen {
			listing, err := s.store.GetListing(ctx, inq.ListingID)
			if err == nil {
				summary = &transport.ListingSummary{
					ID:              listing.ID,
					Brand:           listing.Brand,
					PhoneSeries:     listing.PhoneSeries,
					PhoneModel:      listing.PhoneModel,
					CalculatedPrice: listing.CalculatedPrice,
					Status:          listing.Status,
				}
			} else if apperr.GetKind(err) != apperr.KindNotFound {
				return nil, err
			}
			summaries[inq.ListingID] = summary
		}
		resp = append(resp, transport.UserInquiryResponse{
			InquiryResponse: toInquiryResponse(inq),
			Listing:         summary,
		})
	}
	return resp, nil
}

// ListListingInquiries returns the inquiries against one listing.
func (s *Service) ListListingInquiries(ctx context.Context, listingID string) ([]transport.InquiryResponse, error) {
	inquiries, err := s.store.ListInquiriesByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.InquiryResponse, 0, len(inquiries))
	for _, inq := range inquiries {
		resp = append(resp, toInquiryResponse(inq))
	}
	return resp, nil
}

// CreateFAQ creates a FAQ entry.
func (s *Service) CreateFAQ(ctx context.Context, req transport.CreateFAQRequest) (*transport.FAQResponse, error) {
	now := time.Now().UTC()
	faq := &repository.FAQ{
		ID:        uuid.New().String(),
		Question:  req.Question,
		Answer:    req.Answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateFAQ(ctx, faq); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to store faq", err)
	}
	resp := toFAQResponse(*faq)
	return &resp, nil
}

// ListFAQs returns all FAQ entries.
func (s *Service) ListFAQs(ctx context.Context) ([]transport.FAQResponse, error) {
	faqs, err := s.store.ListFAQs(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.FAQResponse, 0, len(faqs))
	for _, faq := range faqs {
		resp = append(resp, toFAQResponse(faq))
	}
	return resp, nil
}

// GetFAQ returns one FAQ entry.
func (s *Service) GetFAQ(ctx context.Context, id string) (*transport.FAQResponse, error) {
	faq, err := s.store.GetFAQ(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toFAQResponse(*faq)
	return &resp, nil
}

// UpdateFAQ updates a FAQ entry; omitted fields keep their current value.
func (s *Service) UpdateFAQ(ctx context.Context, id string, req transport.UpdateFAQRequest) (*transport.FAQResponse, error) {
	faq, err := s.store.GetFAQ(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Question != nil {
		faq.Question = *req.Question
	}
	if req.Answer != nil {
		faq.Answer = *req.Answer
	}
	faq.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateFAQ(ctx, faq); err != nil {
		return nil, err
	}
	resp := toFAQResponse(*faq)
	return &resp, nil
}

// DeleteFAQ removes a FAQ entry.
func (s *Service) DeleteFAQ(ctx context.Context, id string) error {
	return s.store.DeleteFAQ(ctx, id)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// groupListings buckets listings by (brand, series, model) and computes each
// group's price range. Groups come out sorted by brand, series and model so
// pagination is stable; listings inside a group keep the store's newest-first
// ordering.
func groupListings(listings []repository.Listing) []transport.ListingGroup {
	type groupKey struct {
		brand  string
		series string
		model  string
	}

	buckets := make(map[groupKey][]repository.Listing)
	var keys []groupKey
	for _, listing := range listings {
		key := groupKey{brand: listing.Brand, series: listing.PhoneSeries, model: listing.PhoneModel}
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], listing)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].brand != keys[j].brand {
			return keys[i].brand < keys[j].brand
		}
		if keys[i].series != keys[j].series {
			return keys[i].series < keys[j].series
		}
		return keys[i].model < keys[j].model
	})

	groups := make([]transport.ListingGroup, 0, len(keys))
	for _, key := range keys {
		members := buckets[key]
		group := transport.ListingGroup{
			Brand:       key.brand,
			PhoneSeries: key.series,
			PhoneModel:  key.model,
			Listings:    make([]transport.ListingResponse, 0, len(members)),
		}
		group.PriceRange = transport.PriceRange{Min: members[0].CalculatedPrice, Max: members[0].CalculatedPrice}
		for _, listing := range members {
			if listing.CalculatedPrice < group.PriceRange.Min {
				group.PriceRange.Min = listing.CalculatedPrice
			}
			if listing.CalculatedPrice > group.PriceRange.Max {
				group.PriceRange.Max = listing.CalculatedPrice
			}
			group.Listings = append(group.Listings, toListingResponse(listing))
		}
		groups = append(groups, group)
	}
	return groups
}

func toListingResponse(listing repository.Listing) transport.ListingResponse {
	return transport.ListingResponse{
		ID:          listing.ID,
		UserName:    listing.UserName,
		PhoneNumber: listing.PhoneNumber,
		Email:       listing.Email,
		Location:    listing.Location,
		Brand:       listing.Brand,
		PhoneSeries: listing.PhoneSeries,
		PhoneModel:  listing.PhoneModel,
		SelectedVariant: transport.SelectedVariantResponse{
			Storage: listing.SelectedVariant.Storage,
			RAM:     listing.SelectedVariant.RAM,
		},
		QuestionAnswers: listing.QuestionAnswers,
		BasePrice:       listing.BasePrice,
		CalculatedPrice: listing.CalculatedPrice,
		Status:          listing.Status,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
	}
}

func toInquiryResponse(inq repository.Inquiry) transport.InquiryResponse {
	return transport.InquiryResponse{
		ID:         inq.ID,
		ListingID:  inq.ListingID,
		UserID:     inq.UserID,
		BuyerPhone: inq.BuyerPhone,
		Address: transport.Address{
			StreetAddress: inq.Address.StreetAddress,
			City:          inq.Address.City,
			State:         inq.Address.State,
			PostalCode:    inq.Address.PostalCode,
		},
		Status:    inq.Status,
		CreatedAt: inq.CreatedAt,
		UpdatedAt: inq.UpdatedAt,
	}
}

func toFAQResponse(faq repository.FAQ) transport.FAQResponse {
	return transport.FAQResponse{
		ID:        faq.ID,
		Question:  faq.Question,
		Answer:    faq.Answer,
		CreatedAt: faq.CreatedAt,
		UpdatedAt: faq.UpdatedAt,
	}
}
