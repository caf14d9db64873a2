// Package email renders and delivers the transactional mail of the trade-in
// flow: seller confirmations, status updates and admin alerts.
package email

import (
	"context"

	"mobiletrade_backend/platform/config"
)

// Sender delivers rendered trade-in emails.
type Sender interface {
	// SendListingReceived confirms to the seller that the listing is in review.
	SendListingReceived(ctx context.Context, toEmail, sellerName, phoneModel string, calculatedPrice float64) error

	// SendListingStatusChanged tells the seller about a lifecycle transition.
	SendListingStatusChanged(ctx context.Context, toEmail, phoneModel, newStatus string) error

	// SendNewListingAlert notifies the admin inbox about a fresh submission.
	SendNewListingAlert(ctx context.Context, toEmail, listingID, phoneModel string, calculatedPrice float64) error

	// SendInquiryAlert notifies the admin inbox about a buyer inquiry.
	SendInquiryAlert(ctx context.Context, toEmail, listingID, buyerPhone string) error
}

// NoopSender discards all mail. Used when EMAIL_ENABLED is false.
type NoopSender struct{}

func (NoopSender) SendListingReceived(ctx context.Context, toEmail, sellerName, phoneModel string, calculatedPrice float64) error {
	return nil
}

func (NoopSender) SendListingStatusChanged(ctx context.Context, toEmail, phoneModel, newStatus string) error {
	return nil
}

func (NoopSender) SendNewListingAlert(ctx context.Context, toEmail, listingID, phoneModel string, calculatedPrice float64) error {
	return nil
}

func (NoopSender) SendInquiryAlert(ctx context.Context, toEmail, listingID, buyerPhone string) error {
	return nil
}

// NewSender builds the configured sender, or a no-op when email is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
