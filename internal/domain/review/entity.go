package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review represents a guest review of a listing
type Review struct {
	ID         uuid.UUID      `db:"id"`
	ListingID  uuid.UUID      `db:"listing_id"`
	ReviewerID uuid.UUID      `db:"reviewer_id"`
	Rating     int            `db:"rating"`
	Comment    sql.NullString `db:"comment"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// ReviewResponse for API response
type ReviewResponse struct {
	ID         string `json:"id"`
	ListingID  string `json:"listing_id"`
	ReviewerID string `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ToResponse converts entity to response
func (r *Review) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:         r.ID.String(),
		ListingID:  r.ListingID.String(),
		ReviewerID: r.ReviewerID.String(),
		Rating:     r.Rating,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.Comment.Valid {
		resp.Comment = r.Comment.String
	}
	return resp
}

// CreateRequest for creating a review
type CreateRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// SummaryResponse aggregates a listing's ratings
type SummaryResponse struct {
	ListingID    string      `json:"listing_id"`
	RatingAvg    float64     `json:"rating_avg"`
	ReviewsCount int         `json:"reviews_count"`
	Distribution map[int]int `json:"distribution"`
}
