package photo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines photo data access interface
type Repository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]Photo, error)
	CountByListing(ctx context.Context, listingID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCover(ctx context.Context, listingID, photoID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates photo repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, photo *Photo) error {
	query := `
		INSERT INTO listing_photos (
			id, listing_id, key, thumb_key, url, thumb_url,
			original_name, mime_type, size_bytes, width, height,
			is_cover, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		photo.ID, photo.ListingID, photo.Key, photo.ThumbKey, photo.URL, photo.ThumbURL,
		photo.OriginalName, photo.MimeType, photo.SizeBytes, photo.Width, photo.Height,
		photo.IsCover, photo.SortOrder,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `
		SELECT id, listing_id, key, thumb_key, url, thumb_url,
		       original_name, mime_type, size_bytes, width, height,
		       is_cover, sort_order, created_at
		FROM listing_photos WHERE id = $1
	`
	var p Photo
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]Photo, error) {
	query := `
		SELECT id, listing_id, key, thumb_key, url, thumb_url,
		       original_name, mime_type, size_bytes, width, height,
		       is_cover, sort_order, created_at
		FROM listing_photos
		WHERE listing_id = $1
		ORDER BY is_cover DESC, sort_order ASC, created_at ASC
	`
	var photos []Photo
	if err := r.db.SelectContext(ctx, &photos, query, listingID); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repository) CountByListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listing_photos WHERE listing_id = $1`, listingID)
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listing_photos WHERE id = $1`, id)
	return err
}

// SetCover flips the cover flag to the given photo within one transaction
func (r *repository) SetCover(ctx context.Context, listingID, photoID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE listing_photos SET is_cover = FALSE WHERE listing_id = $1`, listingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE listing_photos SET is_cover = TRUE WHERE id = $1`, photoID); err != nil {
		return err
	}

	return tx.Commit()
}
