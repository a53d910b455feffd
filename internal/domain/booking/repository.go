package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voyago/voyago-api/internal/pkg/logger"
)

// Scope selects which side of a booking the authenticated user is on
type Scope string

const (
	ScopeMyBookings   Scope = "my_bookings"   // bookings the user made as guest
	ScopeHostBookings Scope = "host_bookings" // bookings on the user's listings
)

// Filter represents booking list filters
type Filter struct {
	Status    *Status
	ListingID *uuid.UUID
}

var orderableFields = map[string]string{
	"created_at": "b.created_at",
	"start_date": "b.start_date",
	"end_date":   "b.end_date",
}

// Ordering is a validated ORDER BY clause
type Ordering struct {
	column string
	desc   bool
}

// DefaultOrdering sorts newest first
var DefaultOrdering = Ordering{column: "b.created_at", desc: true}

// ParseOrdering validates a client-supplied ordering field. A leading '-'
// means descending. Empty input falls back to DefaultOrdering.
func ParseOrdering(raw string) (Ordering, error) {
	if raw == "" {
		return DefaultOrdering, nil
	}

	desc := false
	field := raw
	if strings.HasPrefix(raw, "-") {
		desc = true
		field = raw[1:]
	}

	column, ok := orderableFields[field]
	if !ok {
		return Ordering{}, ErrInvalidOrderingField
	}

	return Ordering{column: column, desc: desc}, nil
}

func (o Ordering) clause() string {
	dir := "ASC"
	if o.desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, b.id ASC", o.column, dir)
}

// Pagination for booking queries
type Pagination struct {
	Page  int
	Limit int
}

// Repository defines booking data access interface
type Repository interface {
	// Create inserts the booking after re-checking date overlap under a
	// row lock on the listing. Returns ErrDateConflict if another
	// non-canceled booking overlaps [StartDate, EndDate).
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// UpdateDates rewrites dates/guests/total under the same listing lock,
	// excluding the booking itself from the overlap check.
	UpdateDates(ctx context.Context, b *Booking) error
	// UpdateStatus transitions the booking only if its current status still
	// matches expected. Returns ErrInvalidTransition if it no longer does.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, scope Scope, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Booking, int, error)
}

type repository struct {
	db *sqlx.DB
}

const bookingSelectColumns = `
	b.id, b.listing_id, b.guest_id, b.start_date, b.end_date,
	b.guests, b.status, b.total_price,
	l.host_id,
	b.created_at, b.updated_at
`

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Serialize concurrent bookings per listing
	if err := lockListing(ctx, tx, b.ListingID); err != nil {
		return err
	}

	conflict, err := hasOverlap(ctx, tx, b.ListingID, b, uuid.Nil)
	if err != nil {
		return err
	}
	if conflict {
		return ErrDateConflict
	}

	query := `
		INSERT INTO bookings (
			id, listing_id, guest_id, start_date, end_date,
			guests, status, total_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		b.ID, b.ListingID, b.GuestID, b.StartDate, b.EndDate,
		b.Guests, b.Status, b.TotalPrice,
	)
	if err != nil {
		logger.FromContext(ctx).Error().
			Str("query", "bookings.create").
			Str("booking_id", b.ID.String()).
			Str("listing_id", b.ListingID.String()).
			Err(err).
			Msg("booking insert failed")
		return err
	}

	return tx.Commit()
}

func lockListing(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID) error {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id, `SELECT id FROM listings WHERE id = $1 FOR UPDATE`, listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListingNotFound
		}
		return err
	}
	return nil
}

func hasOverlap(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID, b *Booking, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1
			  AND status != 'canceled'
			  AND id != $2
			  AND start_date < $4
			  AND $3 < end_date
		)
	`
	var exists bool
	err := tx.GetContext(ctx, &exists, query, listingID, excludeID, b.StartDate, b.EndDate)
	return exists, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `
		SELECT ` + bookingSelectColumns + `
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		WHERE b.id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) UpdateDates(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockListing(ctx, tx, b.ListingID); err != nil {
		return err
	}

	conflict, err := hasOverlap(ctx, tx, b.ListingID, b, b.ID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrDateConflict
	}

	query := `
		UPDATE bookings SET
			start_date = $2, end_date = $3, guests = $4, total_price = $5,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := tx.ExecContext(ctx, query, b.ID, b.StartDate, b.EndDate, b.Guests, b.TotalPrice)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Status changed out from under us
		return ErrNotPending
	}

	return tx.Commit()
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) error {
	query := `
		UPDATE bookings SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, expected, next)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Concurrent transition won
		return ErrInvalidTransition
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, scope Scope, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Booking, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	switch scope {
	case ScopeHostBookings:
		conditions = append(conditions, fmt.Sprintf("l.host_id = $%d", argIndex))
	default:
		conditions = append(conditions, fmt.Sprintf("b.guest_id = $%d", argIndex))
	}
	args = append(args, userID)
	argIndex++

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.ListingID != nil {
		conditions = append(conditions, fmt.Sprintf("b.listing_id = $%d", argIndex))
		args = append(args, *filter.ListingID)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		%s
	`, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		%s %s
		LIMIT $%d OFFSET $%d
	`, bookingSelectColumns, where, ordering.clause(), argIndex, argIndex+1)
	args = append(args, pagination.Limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
