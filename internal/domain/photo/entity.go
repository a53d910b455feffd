package photo

import (
	"time"

	"github.com/google/uuid"
)

// Photo represents a listing photo (metadata only, file in object storage)
type Photo struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ListingID    uuid.UUID `db:"listing_id" json:"listing_id"`
	Key          string    `db:"key" json:"-"`       // object key of the original
	ThumbKey     string    `db:"thumb_key" json:"-"` // object key of the thumbnail
	URL          string    `db:"url" json:"url"`
	ThumbURL     string    `db:"thumb_url" json:"thumb_url"`
	OriginalName string    `db:"original_name" json:"original_name"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	Width        int       `db:"width" json:"width"`
	Height       int       `db:"height" json:"height"`
	IsCover      bool      `db:"is_cover" json:"is_cover"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
