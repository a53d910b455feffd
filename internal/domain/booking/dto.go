package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest for POST /bookings
type CreateBookingRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Guests    int    `json:"guests" validate:"required,gte=1"`
}

// UpdateBookingRequest for PUT /bookings/{id}. Guest-only, pending-only.
type UpdateBookingRequest struct {
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Guests    *int    `json:"guests" validate:"omitempty,gte=1"`
}

// UpdateStatusRequest for PATCH /bookings/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// BookingResponse represents booking in API response
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	GuestID    uuid.UUID `json:"guest_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Guests     int       `json:"guests"`
	Nights     int       `json:"nights"`
	Status     string    `json:"status"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// BookingResponseFromEntity maps entity to API response
func BookingResponseFromEntity(b *Booking) *BookingResponse {
	return &BookingResponse{
		ID:         b.ID,
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		Guests:     b.Guests,
		Nights:     b.Nights(),
		Status:     string(b.Status),
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
}

// BookingResponsesFromEntities maps a slice of entities
func BookingResponsesFromEntities(bookings []*Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingResponseFromEntity(b))
	}
	return out
}
