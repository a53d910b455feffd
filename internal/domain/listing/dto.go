package listing

import (
	"time"

	"github.com/google/uuid"
)

// CreateListingRequest for POST /listings
type CreateListingRequest struct {
	Title         string  `json:"title" validate:"required,min=5,max=200"`
	Description   string  `json:"description" validate:"required,min=20,max=5000"`
	Location      string  `json:"location" validate:"required,min=2,max=200"`
	PropertyType  string  `json:"property_type" validate:"required,property_type"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	MaxGuests     *int    `json:"max_guests" validate:"omitempty,gte=1,lte=50"`
	MinimumStay   *int    `json:"minimum_stay" validate:"omitempty,gte=1,lte=90"`
	Availability  *bool   `json:"availability"`
}

// UpdateListingRequest for PUT /listings/{id}
// Nil fields are left unchanged.
type UpdateListingRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=5,max=200"`
	Description   *string  `json:"description" validate:"omitempty,min=20,max=5000"`
	Location      *string  `json:"location" validate:"omitempty,min=2,max=200"`
	PropertyType  *string  `json:"property_type" validate:"omitempty,property_type"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gt=0"`
	MaxGuests     *int     `json:"max_guests" validate:"omitempty,gte=1,lte=50"`
	MinimumStay   *int     `json:"minimum_stay" validate:"omitempty,gte=1,lte=90"`
	Availability  *bool    `json:"availability"`
}

// ListingResponse represents listing in API response
type ListingResponse struct {
	ID            uuid.UUID `json:"id"`
	HostID        uuid.UUID `json:"host_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PropertyType  string    `json:"property_type"`
	PricePerNight float64   `json:"price_per_night"`
	MaxGuests     int       `json:"max_guests"`
	MinimumStay   int       `json:"minimum_stay"`
	Availability  bool      `json:"availability"`
	RatingAvg     float64   `json:"rating_avg"`
	ReviewsCount  int       `json:"reviews_count"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

// AvailabilityResponse for GET /listings/{id}/availability
type AvailabilityResponse struct {
	ListingID uuid.UUID `json:"listing_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Available bool      `json:"available"`
}

// ListingResponseFromEntity maps entity to API response
func ListingResponseFromEntity(l *Listing) *ListingResponse {
	return &ListingResponse{
		ID:            l.ID,
		HostID:        l.HostID,
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PropertyType:  string(l.PropertyType),
		PricePerNight: l.PricePerNight,
		MaxGuests:     l.MaxGuests,
		MinimumStay:   l.MinimumStay,
		Availability:  l.Availability,
		RatingAvg:     l.RatingAvg,
		ReviewsCount:  l.ReviewsCount,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
}

// ListingResponsesFromEntities maps a slice of entities
func ListingResponsesFromEntities(listings []*Listing) []*ListingResponse {
	out := make([]*ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ListingResponseFromEntity(l))
	}
	return out
}
