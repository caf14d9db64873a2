// Package events defines the domain events exchanged between modules.
package events

// Event names for subscription.
const (
	EventListingSubmitted     = "tradein.listing.submitted"
	EventListingStatusChanged = "tradein.listing.status_changed"
	EventInquirySubmitted     = "tradein.inquiry.submitted"
	EventCatalogReplaced      = "catalog.replaced"
)

// ListingSubmitted fires when a seller submits a trade-in listing.
type ListingSubmitted struct {
	BaseEvent
	ListingID       string
	SellerName      string
	SellerEmail     string
	Brand           string
	PhoneSeries     string
	PhoneModel      string
	CalculatedPrice float64
}

// EventName returns the unique event identifier.
func (e ListingSubmitted) EventName() string { return EventListingSubmitted }

// ListingStatusChanged fires when an admin transitions a listing's status.
type ListingStatusChanged struct {
	BaseEvent
	ListingID   string
	SellerEmail string
	OldStatus   string
	NewStatus   string
}

// EventName returns the unique event identifier.
func (e ListingStatusChanged) EventName() string { return EventListingStatusChanged }

// InquirySubmitted fires when a buyer submits an inquiry against a listing.
type InquirySubmitted struct {
	BaseEvent
	InquiryID  string
	ListingID  string
	BuyerPhone string
}

// EventName returns the unique event identifier.
func (e InquirySubmitted) EventName() string { return EventInquirySubmitted }

// CatalogReplaced fires when an admin uploads a new catalog document.
type CatalogReplaced struct {
	BaseEvent
	Brands int
	Models int
}

// EventName returns the unique event identifier.
func (e CatalogReplaced) EventName() string { return EventCatalogReplaced }

// NewCatalogReplaced creates a CatalogReplaced event.
func NewCatalogReplaced(brands, models int) CatalogReplaced {
	return CatalogReplaced{BaseEvent: NewBaseEvent(), Brands: brands, Models: models}
}
