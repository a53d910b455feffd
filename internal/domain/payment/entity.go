package payment

import (
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment represents a Chapa transaction for a booking.
// One payment row per booking.
type Payment struct {
	ID          uuid.UUID `db:"id"`
	BookingID   uuid.UUID `db:"booking_id"`
	TxRef       string    `db:"tx_ref"`
	Amount      float64   `db:"amount"`
	Currency    string    `db:"currency"`
	Status      Status    `db:"status"`
	CheckoutURL string    `db:"checkout_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// PaymentResponse represents payment in API response
type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	TxRef       string    `json:"tx_ref"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// ToResponse converts entity to API response
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		BookingID:   p.BookingID,
		TxRef:       p.TxRef,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		CheckoutURL: p.CheckoutURL,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
