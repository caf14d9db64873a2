package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobiletrade_backend/platform/apperr"
)

// PostgresStore persists listings, inquiries and FAQs in Postgres.
// question_answers lives in a json column rather than jsonb: jsonb
// normalizes key order, which would lose the client's answer ordering.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed trade-in store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

// CreateListing stores a new listing in a single insert.
func (s *PostgresStore) CreateListing(ctx context.Context, listing *Listing) error {
	answers, err := json.Marshal(listing.QuestionAnswers)
	if err != nil {
		return fmt.Errorf("encode question answers: %w", err)
	}

	query := `
		INSERT INTO tradein_listings (
			id, user_name, phone_number, email, location,
			brand, phone_series, phone_model, storage, ram,
			question_answers, base_price, calculated_price, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := s.pool.Exec(ctx, query,
		listing.ID, listing.UserName, listing.PhoneNumber, listing.Email, listing.Location,
		listing.Brand, listing.PhoneSeries, listing.PhoneModel,
		listing.SelectedVariant.Storage, listing.SelectedVariant.RAM,
		answers, listing.BasePrice, listing.CalculatedPrice, listing.Status,
		listing.CreatedAt, listing.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

const listingColumns = `
	id, user_name, phone_number, email, location,
	brand, phone_series, phone_model, storage, ram,
	question_answers, base_price, calculated_price, status,
	created_at, updated_at`

func scanListing(row pgx.Row) (*Listing, error) {
	var listing Listing
	var answers []byte
	if err := row.Scan(
		&listing.ID, &listing.UserName, &listing.PhoneNumber, &listing.Email, &listing.Location,
		&listing.Brand, &listing.PhoneSeries, &listing.PhoneModel,
		&listing.SelectedVariant.Storage, &listing.SelectedVariant.RAM,
		&answers, &listing.BasePrice, &listing.CalculatedPrice, &listing.Status,
		&listing.CreatedAt, &listing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &listing.QuestionAnswers); err != nil {
			return nil, fmt.Errorf("decode question answers: %w", err)
		}
	}
	return &listing, nil
}

// GetListing loads one listing by id.
func (s *PostgresStore) GetListing(ctx context.Context, id string) (*Listing, error) {
	query := `SELECT` + listingColumns + ` FROM tradein_listings WHERE id = $1`

	listing, err := scanListing(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(listingNotFoundMessage)
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// ListListings returns matching listings, newest first.
func (s *PostgresStore) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error) {
	query := `SELECT` + listingColumns + ` FROM tradein_listings WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Brand != "" {
		args = append(args, filter.Brand)
		query += fmt.Sprintf(" AND brand = $%d", len(args))
	}
	if filter.PhoneSeries != "" {
		args = append(args, filter.PhoneSeries)
		query += fmt.Sprintf(" AND phone_series = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND calculated_price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND calculated_price <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// UpdateListingStatus sets the status and returns the updated listing.
func (s *PostgresStore) UpdateListingStatus(ctx context.Context, id, status string) (*Listing, error) {
	query := `
		UPDATE tradein_listings
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING` + listingColumns

	listing, err := scanListing(s.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(listingNotFoundMessage)
		}
		return nil, fmt.Errorf("update listing status: %w", err)
	}
	return listing, nil
}

// ExpireStalePending rejects pending listings created before the cutoff.
func (s *PostgresStore) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE tradein_listings
		SET status = $1, updated_at = now()
		WHERE status = $2 AND created_at < $3`

	tag, err := s.pool.Exec(ctx, query, StatusRejected, StatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale pending listings: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CreateInquiry stores a buyer inquiry.
func (s *PostgresStore) CreateInquiry(ctx context.Context, inquiry *Inquiry) error {
	query := `
		INSERT INTO tradein_inquiries (
			id, listing_id, user_id, buyer_phone,
			street_address, city, state, postal_code,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := s.pool.Exec(ctx, query,
		inquiry.ID, inquiry.ListingID, nullableString(inquiry.UserID), inquiry.BuyerPhone,
		inquiry.Address.StreetAddress, inquiry.Address.City, inquiry.Address.State, inquiry.Address.PostalCode,
		inquiry.Status, inquiry.CreatedAt, inquiry.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

const inquiryColumns = `
	id, listing_id, COALESCE(user_id, ''), buyer_phone,
	street_address, city, state, postal_code,
	status, created_at, updated_at`

func (s *PostgresStore) listInquiries(ctx context.Context, where string, arg any) ([]Inquiry, error) {
	query := `SELECT` + inquiryColumns + ` FROM tradein_inquiries WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []Inquiry
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(
			&inq.ID, &inq.ListingID, &inq.UserID, &inq.BuyerPhone,
			&inq.Address.StreetAddress, &inq.Address.City, &inq.Address.State, &inq.Address.PostalCode,
			&inq.Status, &inq.CreatedAt, &inq.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	return inquiries, rows.Err()
}

// ListInquiriesByListing returns the inquiries against one listing.
func (s *PostgresStore) ListInquiriesByListing(ctx context.Context, listingID string) ([]Inquiry, error) {
	return s.listInquiries(ctx, "listing_id = $1", listingID)
}

// ListInquiriesByUser returns the inquiries a user has submitted.
func (s *PostgresStore) ListInquiriesByUser(ctx context.Context, userID string) ([]Inquiry, error) {
	return s.listInquiries(ctx, "user_id = $1", userID)
}

// CreateFAQ stores a FAQ entry.
func (s *PostgresStore) CreateFAQ(ctx context.Context, faq *FAQ) error {
	query := `
		INSERT INTO tradein_faqs (id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.pool.Exec(ctx, query, faq.ID, faq.Question, faq.Answer, faq.CreatedAt, faq.UpdatedAt); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// GetFAQ loads one FAQ entry.
func (s *PostgresStore) GetFAQ(ctx context.Context, id string) (*FAQ, error) {
	query := `SELECT id, question, answer, created_at, updated_at FROM tradein_faqs WHERE id = $1`

	var faq FAQ
	if err := s.pool.QueryRow(ctx, query, id).Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(faqNotFoundMessage)
		}
		return nil, fmt.Errorf("get faq: %w", err)
	}
	return &faq, nil
}

// ListFAQs returns all FAQ entries, oldest first.
func (s *PostgresStore) ListFAQs(ctx context.Context) ([]FAQ, error) {
	query := `SELECT id, question, answer, created_at, updated_at FROM tradein_faqs ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []FAQ
	for rows.Next() {
		var faq FAQ
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		faqs = append(faqs, faq)
	}
	return faqs, rows.Err()
}

// UpdateFAQ rewrites a FAQ entry.
func (s *PostgresStore) UpdateFAQ(ctx context.Context, faq *FAQ) error {
	query := `
		UPDATE tradein_faqs
		SET question = $2, answer = $3, updated_at = now()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, faq.ID, faq.Question, faq.Answer)
	if err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(faqNotFoundMessage)
	}
	return nil
}

// DeleteFAQ removes a FAQ entry.
func (s *PostgresStore) DeleteFAQ(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tradein_faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(faqNotFoundMessage)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
