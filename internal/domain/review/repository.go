package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository handles review persistence and keeps the listing's rating
// aggregates in sync.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates review repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the review and refreshes the listing aggregates in one
// transaction. The unique (listing_id, reviewer_id) index enforces one
// review per guest.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO reviews (id, listing_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, query,
		review.ID, review.ListingID, review.ReviewerID, review.Rating, review.Comment,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return fmt.Errorf("%w: %w", ErrAlreadyReviewed, err)
			case "23503":
				return fmt.Errorf("%w: %w", ErrListingMissing, err)
			}
		}
		return err
	}

	if err := refreshAggregates(ctx, tx, review.ListingID); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes the review and refreshes aggregates
func (r *Repository) Delete(ctx context.Context, id, listingID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return err
	}

	if err := refreshAggregates(ctx, tx, listingID); err != nil {
		return err
	}

	return tx.Commit()
}

func refreshAggregates(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID) error {
	query := `
		UPDATE listings SET
			rating_avg = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE listing_id = $1), 0),
			reviews_count = (SELECT COUNT(*) FROM reviews WHERE listing_id = $1)
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query, listingID)
	return err
}

// GetByID returns review by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	query := `
		SELECT id, listing_id, reviewer_id, rating, comment, created_at, updated_at
		FROM reviews WHERE id = $1
	`
	var review Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByListingID returns reviews for a listing, newest first
func (r *Repository) GetByListingID(ctx context.Context, listingID uuid.UUID, limit, offset int) ([]Review, error) {
	query := `
		SELECT id, listing_id, reviewer_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var reviews []Review
	if err := r.db.SelectContext(ctx, &reviews, query, listingID, limit, offset); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByListingID returns total reviews for a listing
func (r *Repository) CountByListingID(ctx context.Context, listingID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews WHERE listing_id = $1`, listingID)
	return count, err
}

// GetAverageRating returns the mean rating for a listing
func (r *Repository) GetAverageRating(ctx context.Context, listingID uuid.UUID) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) FROM reviews WHERE listing_id = $1`
	err := r.db.GetContext(ctx, &avg, query, listingID)
	return avg, err
}

// GetRatingDistribution returns review counts per star value
func (r *Repository) GetRatingDistribution(ctx context.Context, listingID uuid.UUID) (map[int]int, error) {
	type ratingCount struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}

	query := `
		SELECT rating, COUNT(*) as count
		FROM reviews
		WHERE listing_id = $1
		GROUP BY rating
	`
	var rows []ratingCount
	if err := r.db.SelectContext(ctx, &rows, query, listingID); err != nil {
		return nil, err
	}

	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, rc := range rows {
		dist[rc.Rating] = rc.Count
	}
	return dist, nil
}

// HasReviewed reports whether the user already reviewed the listing
func (r *Repository) HasReviewed(ctx context.Context, listingID, reviewerID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE listing_id = $1 AND reviewer_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, listingID, reviewerID)
	return exists, err
}
