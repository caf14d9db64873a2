package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendListingReceived confirms to the seller that the listing is in review.
func (s *SMTPSender) SendListingReceived(ctx context.Context, toEmail, sellerName, phoneModel string, calculatedPrice float64) error {
	content, err := renderEmailTemplate("listing_received.html", listingReceivedData{
		baseEmailData:  baseEmailData{Title: subjectListingReceived, Heading: "Your listing is in review"},
		SellerName:     sellerName,
		PhoneModel:     phoneModel,
		FormattedPrice: formatINR(calculatedPrice),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectListingReceived, content)
}

// SendListingStatusChanged tells the seller about a lifecycle transition.
func (s *SMTPSender) SendListingStatusChanged(ctx context.Context, toEmail, phoneModel, newStatus string) error {
	subject := fmt.Sprintf(subjectListingStatusFmt, newStatus)
	content, err := renderEmailTemplate("listing_status.html", listingStatusData{
		baseEmailData: baseEmailData{Title: subject, Heading: "Listing update"},
		PhoneModel:    phoneModel,
		NewStatus:     newStatus,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendNewListingAlert notifies the admin inbox about a fresh submission.
func (s *SMTPSender) SendNewListingAlert(ctx context.Context, toEmail, listingID, phoneModel string, calculatedPrice float64) error {
	subject := fmt.Sprintf(subjectNewListingAlertFmt, phoneModel)
	content, err := renderEmailTemplate("new_listing_alert.html", newListingAlertData{
		baseEmailData:  baseEmailData{Title: subject, Heading: "New listing submitted"},
		ListingID:      listingID,
		PhoneModel:     phoneModel,
		FormattedPrice: formatINR(calculatedPrice),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendInquiryAlert notifies the admin inbox about a buyer inquiry.
func (s *SMTPSender) SendInquiryAlert(ctx context.Context, toEmail, listingID, buyerPhone string) error {
	subject := fmt.Sprintf(subjectInquiryAlertFmt, listingID)
	content, err := renderEmailTemplate("inquiry_alert.html", inquiryAlertData{
		baseEmailData: baseEmailData{Title: subject, Heading: "New buyer inquiry"},
		ListingID:     listingID,
		BuyerPhone:    buyerPhone,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
