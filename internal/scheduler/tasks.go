package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskListingNotify = "tradein.listing.notify"

const TaskListingStatusNotify = "tradein.listing.status_notify"

const TaskInquiryNotify = "tradein.inquiry.notify"

const TaskExpireStaleListings = "tradein.listings.expire_stale"

// ListingNotifyPayload carries everything the worker needs to send the
// seller confirmation and the admin alert for a fresh submission.
type ListingNotifyPayload struct {
	ListingID       string  `json:"listingId"`
	SellerName      string  `json:"sellerName"`
	SellerEmail     string  `json:"sellerEmail"`
	PhoneModel      string  `json:"phoneModel"`
	CalculatedPrice float64 `json:"calculatedPrice"`
}

// ListingStatusNotifyPayload notifies a seller about a lifecycle transition.
type ListingStatusNotifyPayload struct {
	ListingID   string `json:"listingId"`
	SellerEmail string `json:"sellerEmail"`
	NewStatus   string `json:"newStatus"`
}

// InquiryNotifyPayload alerts the admin inbox about a buyer inquiry.
type InquiryNotifyPayload struct {
	InquiryID  string `json:"inquiryId"`
	ListingID  string `json:"listingId"`
	BuyerPhone string `json:"buyerPhone"`
}

func NewListingNotifyTask(payload ListingNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskListingNotify, data), nil
}

func ParseListingNotifyPayload(task *asynq.Task) (ListingNotifyPayload, error) {
	var payload ListingNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ListingNotifyPayload{}, err
	}
	return payload, nil
}

func NewListingStatusNotifyTask(payload ListingStatusNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskListingStatusNotify, data), nil
}

func ParseListingStatusNotifyPayload(task *asynq.Task) (ListingStatusNotifyPayload, error) {
	var payload ListingStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ListingStatusNotifyPayload{}, err
	}
	return payload, nil
}

func NewInquiryNotifyTask(payload InquiryNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInquiryNotify, data), nil
}

func ParseInquiryNotifyPayload(task *asynq.Task) (InquiryNotifyPayload, error) {
	var payload InquiryNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InquiryNotifyPayload{}, err
	}
	return payload, nil
}

// NewExpireStaleListingsTask has no payload; the cutoff comes from config
// at execution time.
func NewExpireStaleListingsTask() *asynq.Task {
	return asynq.NewTask(TaskExpireStaleListings, nil)
}
