package email

const (
	subjectListingReceived    = "We received your trade-in listing"
	subjectListingStatusFmt   = "Your trade-in listing is now %s"
	subjectNewListingAlertFmt = "New trade-in listing: %s"
	subjectInquiryAlertFmt    = "New buyer inquiry for listing %s"
)
