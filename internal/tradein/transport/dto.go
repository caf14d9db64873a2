// Package transport contains the request and response DTOs for the trade-in module.
package transport

import "time"

// VariantSelection is the storage/ram pair the seller picked. Pointer fields
// distinguish a key that was omitted from one sent with an unknown value,
// which map to different error codes.
type VariantSelection struct {
	Storage *string `json:"storage"`
	RAM     *string `json:"ram"`
}

// QuoteRequest asks for a price quote for a phone in a given condition.
type QuoteRequest struct {
	Brand           string           `json:"brand" validate:"required,max=100"`
	PhoneSeries     string           `json:"phone_series" validate:"required,max=100"`
	PhoneModel      string           `json:"phone_model" validate:"required,max=100"`
	SelectedVariant VariantSelection `json:"selected_variant"`
	QuestionAnswers AnswerList       `json:"question_answers"`
}

// SubmitListingRequest submits a listing for the quoted phone.
type SubmitListingRequest struct {
	QuoteRequest
	UserName    string `json:"user_name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Location    string `json:"location" validate:"required,max=200"`
}

// AdjustmentDetail explains one applied price modifier, in the order the
// client supplied its answers.
type AdjustmentDetail struct {
	QuestionID string  `json:"question_id"`
	Answer     string  `json:"answer"`
	Modifier   float64 `json:"modifier"`
}

// QuoteResponse is the calculated quote. CalculatedPrice is always
// BasePrice + TotalAdjustment.
type QuoteResponse struct {
	Brand           string             `json:"brand"`
	PhoneSeries     string             `json:"phone_series"`
	PhoneModel      string             `json:"phone_model"`
	Storage         string             `json:"storage"`
	RAM             string             `json:"ram"`
	BasePrice       float64            `json:"base_price"`
	TotalAdjustment float64            `json:"total_adjustment"`
	CalculatedPrice float64            `json:"calculated_price"`
	Adjustments     []AdjustmentDetail `json:"adjustments"`
}

// SelectedVariantResponse echoes the resolved variant pair.
type SelectedVariantResponse struct {
	Storage string `json:"storage"`
	RAM     string `json:"ram"`
}

// ListingResponse is one persisted trade-in listing.
type ListingResponse struct {
	ID              string                  `json:"id"`
	UserName        string                  `json:"user_name"`
	PhoneNumber     string                  `json:"phone_number"`
	Email           string                  `json:"email"`
	Location        string                  `json:"location"`
	Brand           string                  `json:"brand"`
	PhoneSeries     string                  `json:"phone_series"`
	PhoneModel      string                  `json:"phone_model"`
	SelectedVariant SelectedVariantResponse `json:"selected_variant"`
	QuestionAnswers AnswerList              `json:"question_answers"`
	BasePrice       float64                 `json:"base_price"`
	CalculatedPrice float64                 `json:"calculated_price"`
	Status          string                  `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// SubmitListingResponse confirms a stored listing.
type SubmitListingResponse struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	BasePrice       float64 `json:"base_price"`
	CalculatedPrice float64 `json:"calculated_price"`
}

// ListListingsRequest filters and paginates the public listings feed.
type ListListingsRequest struct {
	Status      string   `form:"status" validate:"omitempty,oneof=pending approved rejected sold withdrawn"`
	Brand       string   `form:"brand" validate:"omitempty,max=100"`
	PhoneSeries string   `form:"phone_series" validate:"omitempty,max=100"`
	MinPrice    *float64 `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `form:"max_price" validate:"omitempty,gte=0"`
	Page        int      `form:"page" validate:"omitempty,min=1"`
	Limit       int      `form:"limit" validate:"omitempty,min=1,max=100"`
}

// PriceRange is the min/max calculated price inside one model group.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ListingGroup collects the listings of one phone model.
type ListingGroup struct {
	Brand       string            `json:"brand"`
	PhoneSeries string            `json:"phone_series"`
	PhoneModel  string            `json:"phone_model"`
	PriceRange  PriceRange        `json:"price_range"`
	Listings    []ListingResponse `json:"listings"`
}

// Pagination describes the returned page of groups.
type Pagination struct {
	Page          int `json:"page"`
	Limit         int `json:"limit"`
	TotalGroups   int `json:"total_groups"`
	TotalListings int `json:"total_listings"`
}

// GroupedListingsResponse is the paginated, model-grouped listings feed.
type GroupedListingsResponse struct {
	Groups     []ListingGroup `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ListingDetailsResponse is one listing with its inquiries.
type ListingDetailsResponse struct {
	Listing   ListingResponse   `json:"listing"`
	Inquiries []InquiryResponse `json:"inquiries"`
}

// UpdateListingStatusRequest transitions a listing's lifecycle status.
type UpdateListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected sold withdrawn"`
}

// Address is the buyer's delivery address.
type Address struct {
	StreetAddress string `json:"street_address" validate:"required,max=200"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=100"`
	PostalCode    string `json:"postal_code" validate:"required,max=20"`
}

// CreateInquiryRequest submits a buyer inquiry against a listing.
type CreateInquiryRequest struct {
	ListingID  string  `json:"listing_id" validate:"required"`
	BuyerPhone string  `json:"buyer_phone" validate:"required,max=20"`
	Address    Address `json:"address"`
}

// InquiryResponse is one persisted buyer inquiry.
type InquiryResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id,omitempty"`
	BuyerPhone string    `json:"buyer_phone"`
	Address    Address   `json:"address"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListingSummary is the condensed listing attached to a buyer's inquiry.
type ListingSummary struct {
	ID              string  `json:"id"`
	Brand           string  `json:"brand"`
	PhoneSeries     string  `json:"phone_series"`
	PhoneModel      string  `json:"phone_model"`
	CalculatedPrice float64 `json:"calculated_price"`
	Status          string  `json:"status"`
}

// UserInquiryResponse is an inquiry with the listing it was made against.
type UserInquiryResponse struct {
	InquiryResponse
	Listing *ListingSummary `json:"listing,omitempty"`
}

// CreateFAQRequest creates a FAQ entry.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=5000"`
}

// UpdateFAQRequest updates a FAQ entry. Omitted fields keep their value.
type UpdateFAQRequest struct {
	Question *string `json:"question" validate:"omitempty,max=500"`
	Answer   *string `json:"answer" validate:"omitempty,max=5000"`
}

// FAQResponse is one FAQ entry.
type FAQResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
