package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type listingReceivedData struct {
	baseEmailData
	SellerName     string
	PhoneModel     string
	FormattedPrice string
}

type listingStatusData struct {
	baseEmailData
	PhoneModel string
	NewStatus  string
}

type newListingAlertData struct {
	baseEmailData
	ListingID      string
	PhoneModel     string
	FormattedPrice string
}

type inquiryAlertData struct {
	baseEmailData
	ListingID  string
	BuyerPhone string
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
