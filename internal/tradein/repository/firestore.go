package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/apperr"
)

const (
	firestoreListings  = "tradein_listings"
	firestoreInquiries = "tradein_inquiries"
	firestoreFAQs      = "tradein_faqs"
)

// FirestoreStore persists listings, inquiries and FAQs in Firestore.
// Filtering happens in memory after an ordered fetch, which keeps the
// store free of composite index requirements at this collection size.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed trade-in store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

var _ Store = (*FirestoreStore)(nil)

// listingDoc is the Firestore shape of a listing. Question answers are kept
// as a JSON string because Firestore maps do not preserve key order.
type listingDoc struct {
	ID              string    `firestore:"id"`
	UserName        string    `firestore:"user_name"`
	PhoneNumber     string    `firestore:"phone_number"`
	Email           string    `firestore:"email"`
	Location        string    `firestore:"location"`
	Brand           string    `firestore:"brand"`
	PhoneSeries     string    `firestore:"phone_series"`
	PhoneModel      string    `firestore:"phone_model"`
	SelectedVariant Variant   `firestore:"selected_variant"`
	QuestionAnswers string    `firestore:"question_answers"`
	BasePrice       float64   `firestore:"base_price"`
	CalculatedPrice float64   `firestore:"calculated_price"`
	Status          string    `firestore:"status"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func toListingDoc(listing *Listing) (*listingDoc, error) {
	answers, err := json.Marshal(listing.QuestionAnswers)
	if err != nil {
		return nil, fmt.Errorf("encode question answers: %w", err)
	}
	return &listingDoc{
		ID:              listing.ID,
		UserName:        listing.UserName,
		PhoneNumber:     listing.PhoneNumber,
		Email:           listing.Email,
		Location:        listing.Location,
		Brand:           listing.Brand,
		PhoneSeries:     listing.PhoneSeries,
		PhoneModel:      listing.PhoneModel,
		SelectedVariant: listing.SelectedVariant,
		QuestionAnswers: string(answers),
		BasePrice:       listing.BasePrice,
		CalculatedPrice: listing.CalculatedPrice,
		Status:          listing.Status,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
	}, nil
}

func fromListingDoc(doc *listingDoc) (*Listing, error) {
	var answers transport.AnswerList
	if doc.QuestionAnswers != "" {
		if err := json.Unmarshal([]byte(doc.QuestionAnswers), &answers); err != nil {
			return nil, fmt.Errorf("decode question answers: %w", err)
		}
	}
	return &Listing{
		ID:              doc.ID,
		UserName:        doc.UserName,
		PhoneNumber:     doc.PhoneNumber,
		Email:           doc.Email,
		Location:        doc.Location,
		Brand:           doc.Brand,
		PhoneSeries:     doc.PhoneSeries,
		PhoneModel:      doc.PhoneModel,
		SelectedVariant: doc.SelectedVariant,
		QuestionAnswers: answers,
		BasePrice:       doc.BasePrice,
		CalculatedPrice: doc.CalculatedPrice,
		Status:          doc.Status,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}

// CreateListing stores a new listing in a single document write.
func (s *FirestoreStore) CreateListing(ctx context.Context, listing *Listing) error {
	doc, err := toListingDoc(listing)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(firestoreListings).Doc(listing.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// GetListing loads one listing by id.
func (s *FirestoreStore) GetListing(ctx context.Context, id string) (*Listing, error) {
	snap, err := s.client.Collection(firestoreListings).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.NotFound(listingNotFoundMessage)
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}

	var doc listingDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return fromListingDoc(&doc)
}

// ListListings returns matching listings, newest first.
func (s *FirestoreStore) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error) {
	iter := s.client.Collection(firestoreListings).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var listings []Listing
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list listings: %w", err)
		}

		var doc listingDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		listing, err := fromListingDoc(&doc)
		if err != nil {
			return nil, err
		}
		if matchesFilter(listing, filter) {
			listings = append(listings, *listing)
		}
	}
	return listings, nil
}

func matchesFilter(listing *Listing, filter ListingFilter) bool {
	if filter.Status != "" && listing.Status != filter.Status {
		return false
	}
	if filter.Brand != "" && listing.Brand != filter.Brand {
		return false
	}
	if filter.PhoneSeries != "" && listing.PhoneSeries != filter.PhoneSeries {
		return false
	}
	if filter.MinPrice != nil && listing.CalculatedPrice < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && listing.CalculatedPrice > *filter.MaxPrice {
		return false
	}
	return true
}

// UpdateListingStatus sets the status and returns the updated listing.
func (s *FirestoreStore) UpdateListingStatus(ctx context.Context, id, newStatus string) (*Listing, error) {
	ref := s.client.Collection(firestoreListings).Doc(id)
	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: newStatus},
		{Path: "updated_at", Value: time.Now().UTC()},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.NotFound(listingNotFoundMessage)
		}
		return nil, fmt.Errorf("update listing status: %w", err)
	}
	return s.GetListing(ctx, id)
}

// ExpireStalePending rejects pending listings created before the cutoff.
func (s *FirestoreStore) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	iter := s.client.Collection(firestoreListings).
		Where("status", "==", StatusPending).
		Where("created_at", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	expired := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return expired, fmt.Errorf("expire stale pending listings: %w", err)
		}
		if _, err := snap.Ref.Update(ctx, []firestore.Update{
			{Path: "status", Value: StatusRejected},
			{Path: "updated_at", Value: time.Now().UTC()},
		}); err != nil {
			return expired, fmt.Errorf("expire listing %s: %w", snap.Ref.ID, err)
		}
		expired++
	}
	return expired, nil
}

// CreateInquiry stores a buyer inquiry.
func (s *FirestoreStore) CreateInquiry(ctx context.Context, inquiry *Inquiry) error {
	if _, err := s.client.Collection(firestoreInquiries).Doc(inquiry.ID).Create(ctx, inquiry); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

func (s *FirestoreStore) listInquiries(ctx context.Context, field, value string) ([]Inquiry, error) {
	iter := s.client.Collection(firestoreInquiries).
		Where(field, "==", value).
		Documents(ctx)
	defer iter.Stop()

	var inquiries []Inquiry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list inquiries: %w", err)
		}
		var inq Inquiry
		if err := snap.DataTo(&inq); err != nil {
			return nil, fmt.Errorf("decode inquiry: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	sortInquiriesNewestFirst(inquiries)
	return inquiries, nil
}

// ListInquiriesByListing returns the inquiries against one listing.
func (s *FirestoreStore) ListInquiriesByListing(ctx context.Context, listingID string) ([]Inquiry, error) {
	return s.listInquiries(ctx, "listing_id", listingID)
}

// ListInquiriesByUser returns the inquiries a user has submitted.
func (s *FirestoreStore) ListInquiriesByUser(ctx context.Context, userID string) ([]Inquiry, error) {
	return s.listInquiries(ctx, "user_id", userID)
}

// CreateFAQ stores a FAQ entry.
func (s *FirestoreStore) CreateFAQ(ctx context.Context, faq *FAQ) error {
	if _, err := s.client.Collection(firestoreFAQs).Doc(faq.ID).Create(ctx, faq); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// GetFAQ loads one FAQ entry.
func (s *FirestoreStore) GetFAQ(ctx context.Context, id string) (*FAQ, error) {
	snap, err := s.client.Collection(firestoreFAQs).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.NotFound(faqNotFoundMessage)
		}
		return nil, fmt.Errorf("get faq: %w", err)
	}
	var faq FAQ
	if err := snap.DataTo(&faq); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	return &faq, nil
}

// ListFAQs returns all FAQ entries, oldest first.
func (s *FirestoreStore) ListFAQs(ctx context.Context) ([]FAQ, error) {
	iter := s.client.Collection(firestoreFAQs).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var faqs []FAQ
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list faqs: %w", err)
		}
		var faq FAQ
		if err := snap.DataTo(&faq); err != nil {
			return nil, fmt.Errorf("decode faq: %w", err)
		}
		faqs = append(faqs, faq)
	}
	return faqs, nil
}

// UpdateFAQ rewrites a FAQ entry.
func (s *FirestoreStore) UpdateFAQ(ctx context.Context, faq *FAQ) error {
	ref := s.client.Collection(firestoreFAQs).Doc(faq.ID)
	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "question", Value: faq.Question},
		{Path: "answer", Value: faq.Answer},
		{Path: "updated_at", Value: time.Now().UTC()},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return apperr.NotFound(faqNotFoundMessage)
		}
		return fmt.Errorf("update faq: %w", err)
	}
	return nil
}

// DeleteFAQ removes a FAQ entry.
func (s *FirestoreStore) DeleteFAQ(ctx context.Context, id string) error {
	ref := s.client.Collection(firestoreFAQs).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return apperr.NotFound(faqNotFoundMessage)
		}
		return fmt.Errorf("get faq: %w", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	return nil
}

func sortInquiriesNewestFirst(inquiries []Inquiry) {
	sort.Slice(inquiries, func(i, j int) bool {
		return inquiries[i].CreatedAt.After(inquiries[j].CreatedAt)
	})
}
