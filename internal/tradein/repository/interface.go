package repository

import (
	"context"
	"time"

	"mobiletrade_backend/internal/tradein/transport"
)

// Listing lifecycle statuses. Every listing starts pending; admins move it
// through the rest of the lifecycle.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusSold      = "sold"
	StatusWithdrawn = "withdrawn"
)

// Inquiry statuses.
const (
	InquiryStatusPending   = "pending"
	InquiryStatusContacted = "contacted"
	InquiryStatusClosed    = "closed"
)

const (
	listingNotFoundMessage = "listing not found"
	faqNotFoundMessage     = "faq not found"
)

// Variant is the persisted storage/ram pair of a listing.
type Variant struct {
	Storage string `json:"storage" firestore:"storage"`
	RAM     string `json:"ram" firestore:"ram"`
}

// Listing is a persisted trade-in listing.
type Listing struct {
	ID              string               `json:"id" firestore:"id"`
	UserName        string               `json:"user_name" firestore:"user_name"`
	PhoneNumber     string               `json:"phone_number" firestore:"phone_number"`
	Email           string               `json:"email" firestore:"email"`
	Location        string               `json:"location" firestore:"location"`
	Brand           string               `json:"brand" firestore:"brand"`
	PhoneSeries     string               `json:"phone_series" firestore:"phone_series"`
	PhoneModel      string               `json:"phone_model" firestore:"phone_model"`
	SelectedVariant Variant              `json:"selected_variant" firestore:"selected_variant"`
	QuestionAnswers transport.AnswerList `json:"question_answers" firestore:"-"`
	BasePrice       float64              `json:"base_price" firestore:"base_price"`
	CalculatedPrice float64              `json:"calculated_price" firestore:"calculated_price"`
	Status          string               `json:"status" firestore:"status"`
	CreatedAt       time.Time            `json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" firestore:"updated_at"`
}

// Address is the buyer's delivery address.
type Address struct {
	StreetAddress string `json:"street_address" firestore:"street_address"`
	City          string `json:"city" firestore:"city"`
	State         string `json:"state" firestore:"state"`
	PostalCode    string `json:"postal_code" firestore:"postal_code"`
}

// Inquiry is a persisted buyer inquiry against a listing.
type Inquiry struct {
	ID         string    `json:"id" firestore:"id"`
	ListingID  string    `json:"listing_id" firestore:"listing_id"`
	UserID     string    `json:"user_id" firestore:"user_id"`
	BuyerPhone string    `json:"buyer_phone" firestore:"buyer_phone"`
	Address    Address   `json:"address" firestore:"address"`
	Status     string    `json:"status" firestore:"status"`
	CreatedAt  time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updated_at"`
}

// FAQ is a persisted frequently asked question.
type FAQ struct {
	ID        string    `json:"id" firestore:"id"`
	Question  string    `json:"question" firestore:"question"`
	Answer    string    `json:"answer" firestore:"answer"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`
}

// ListingFilter narrows the listings feed. Nil price bounds are open.
type ListingFilter struct {
	Status      string
	Brand       string
	PhoneSeries string
	MinPrice    *float64
	MaxPrice    *float64
}

// Store persists listings, inquiries and FAQs.
type Store interface {
	// CreateListing stores a new listing in a single write.
	CreateListing(ctx context.Context, listing *Listing) error
	GetListing(ctx context.Context, id string) (*Listing, error)
	// ListListings returns matching listings ordered by creation time descending.
	ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error)
	UpdateListingStatus(ctx context.Context, id, status string) (*Listing, error)
	// ExpireStalePending rejects pending listings older than the cutoff and
	// returns how many were transitioned.
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error)

	CreateInquiry(ctx context.Context, inquiry *Inquiry) error
	ListInquiriesByListing(ctx context.Context, listingID string) ([]Inquiry, error)
	ListInquiriesByUser(ctx context.Context, userID string) ([]Inquiry, error)

	CreateFAQ(ctx context.Context, faq *FAQ) error
	GetFAQ(ctx context.Context, id string) (*FAQ, error)
	ListFAQs(ctx context.Context) ([]FAQ, error)
	UpdateFAQ(ctx context.Context, faq *FAQ) error
	DeleteFAQ(ctx context.Context, id string) error
}
