package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/voyago/voyago-api/internal/pkg/logger"
)

// Filter represents search filters
type Filter struct {
	Query        *string
	Location     *string
	PropertyType *PropertyType
	PriceMin     *float64
	PriceMax     *float64
	HostID       *uuid.UUID
	Guests       *int
	Available    *bool

	// When both are set, listings with a conflicting non-canceled
	// booking inside [AvailableFrom, AvailableTo) are excluded.
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

// orderableFields is the allow-list of client-suppliable ordering columns.
// Anything else (including host_id) is rejected.
var orderableFields = map[string]string{
	"created_at":      "l.created_at",
	"price_per_night": "l.price_per_night",
	"title":           "l.title",
}

// Ordering is a validated ORDER BY clause
type Ordering struct {
	column string
	desc   bool
}

// DefaultOrdering sorts newest first
var DefaultOrdering = Ordering{column: "l.created_at", desc: true}

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
	// Stable tiebreaker for paginated scans
	return fmt.Sprintf("ORDER BY %s %s, l.id ASC", o.column, dir)
}

// Pagination for listing queries
type Pagination struct {
	Page  int
	Limit int
}

// Repository defines listing data access interface
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Listing, int, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, pagination *Pagination) ([]*Listing, int, error)
	// IsAvailable reports whether no overlapping non-canceled booking exists
	// for [start, end).
	IsAvailable(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error)
	// HasActiveBookings reports whether any non-canceled booking references the listing.
	HasActiveBookings(ctx context.Context, listingID uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

const listingSelectColumns = `
	l.id, l.host_id, l.title, l.description, l.location, l.property_type,
	l.price_per_night, l.max_guests, l.minimum_stay, l.availability,
	l.rating_avg, l.reviews_count,
	l.created_at, l.updated_at
`

// NewRepository creates new listing repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, listing *Listing) error {
	query := `
		INSERT INTO listings (
			id, host_id, title, description, location, property_type,
			price_per_night, max_guests, minimum_stay, availability
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.HostID, listing.Title, listing.Description, listing.Location, listing.PropertyType,
		listing.PricePerNight, listing.MaxGuests, listing.MinimumStay, listing.Availability,
	)
	if err != nil {
		evt := logger.FromContext(ctx).Error().
			Str("query", "listings.create").
			Str("listing_id", listing.ID.String()).
			Str("host_id", listing.HostID.String()).
			Err(err)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			evt = evt.
				Str("pg_code", string(pqErr.Code)).
				Str("pg_constraint", pqErr.Constraint)
		}

		evt.Msg("listing insert failed")
		return mapDBError(err)
	}

	return nil
}

func mapDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23514":
		return fmt.Errorf("%w: %w", ErrListingConstraint, err)
	case "23503":
		return fmt.Errorf("%w: %w", ErrInvalidHostReference, err)
	case "23505":
		return fmt.Errorf("%w: %w", ErrDuplicateListing, err)
	default:
		return err
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT ` + listingSelectColumns + ` FROM listings l WHERE l.id = $1`

	var listing Listing
	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &listing, nil
}

func (r *repository) Update(ctx context.Context, listing *Listing) error {
	query := `
		UPDATE listings SET
			title = $2, description = $3, location = $4, property_type = $5,
			price_per_night = $6, max_guests = $7, minimum_stay = $8, availability = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		listing.ID,
		listing.Title, listing.Description, listing.Location, listing.PropertyType,
		listing.PricePerNight, listing.MaxGuests, listing.MinimumStay, listing.Availability,
	)
	if err != nil {
		return mapDBError(err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM listings WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) List(ctx context.Context, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Listing, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Location != nil && *filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("l.location ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Location+"%")
		argIndex++
	}

	if filter.PropertyType != nil && *filter.PropertyType != "" {
		conditions = append(conditions, fmt.Sprintf("l.property_type = $%d", argIndex))
		args = append(args, *filter.PropertyType)
		argIndex++
	}

	if filter.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("l.price_per_night >= $%d", argIndex))
		args = append(args, *filter.PriceMin)
		argIndex++
	}

	if filter.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("l.price_per_night <= $%d", argIndex))
		args = append(args, *filter.PriceMax)
		argIndex++
	}

	if filter.HostID != nil {
		conditions = append(conditions, fmt.Sprintf("l.host_id = $%d", argIndex))
		args = append(args, *filter.HostID)
		argIndex++
	}

	if filter.Guests != nil {
		conditions = append(conditions, fmt.Sprintf("l.max_guests >= $%d", argIndex))
		args = append(args, *filter.Guests)
		argIndex++
	}

	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("l.availability = $%d", argIndex))
		args = append(args, *filter.Available)
		argIndex++
	}

	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(l.title ILIKE $%d OR l.description ILIKE $%d OR l.location ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+*filter.Query+"%")
		argIndex++
	}

	if filter.AvailableFrom != nil && filter.AvailableTo != nil {
		// Half-open overlap against non-canceled bookings
		conditions = append(conditions, fmt.Sprintf(`NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.listing_id = l.id
			  AND b.status != 'canceled'
			  AND b.start_date < $%d
			  AND $%d < b.end_date
		)`, argIndex, argIndex+1))
		args = append(args, *filter.AvailableTo, *filter.AvailableFrom)
		argIndex += 2
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	// Get listings with pagination
	offset := (pagination.Page - 1) * pagination.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		%s %s
		LIMIT $%d OFFSET $%d
	`, listingSelectColumns, where, ordering.clause(), argIndex, argIndex+1)
	args = append(args, pagination.Limit, offset)

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	countQuery := `SELECT COUNT(*) FROM listings l WHERE l.host_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, hostID); err != nil {
		return nil, 0, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.host_id = $1
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`, listingSelectColumns)

	var listings []*Listing
	if err := r.db.SelectContext(ctx, &listings, query, hostID, pagination.Limit, offset); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *repository) IsAvailable(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error) {
	// Half-open overlap: existing.start < end AND start < existing.end
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.listing_id = $1
			  AND b.status != 'canceled'
			  AND b.start_date < $3
			  AND $2 < b.end_date
		)
	`

	var available bool
	if err := r.db.GetContext(ctx, &available, query, listingID, start, end); err != nil {
		return false, err
	}

	return available, nil
}

func (r *repository) HasActiveBookings(ctx context.Context, listingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.listing_id = $1 AND b.status != 'canceled'
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, listingID); err != nil {
		return false, err
	}

	return exists, nil
}
