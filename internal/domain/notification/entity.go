package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type is the notification type
type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingCanceled  Type = "booking_canceled"
	TypePaymentCompleted Type = "payment_completed"
)

// Notification represents a notification
type Notification struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Type      Type            `json:"type" db:"type"`
	Title     string          `json:"title" db:"title"`
	Body      string          `json:"body" db:"body"`
	Data      json.RawMessage `json:"data,omitempty" db:"data"`
	ReadAt    sql.NullTime    `json:"-" db:"read_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt.Valid
}

// Response is the API representation of a notification
type Response struct {
	ID        uuid.UUID       `json:"id"`
	Type      Type            `json:"type"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToResponse converts a notification to its API representation
func (n *Notification) ToResponse() *Response {
	resp := &Response{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
		IsRead:    n.ReadAt.Valid,
		CreatedAt: n.CreatedAt,
	}
	if n.ReadAt.Valid {
		t := n.ReadAt.Time
		resp.ReadAt = &t
	}
	return resp
}

// UnreadCountResponse is the payload of the unread counter endpoint
type UnreadCountResponse struct {
	Count int `json:"count"`
}
