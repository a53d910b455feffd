package booking

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle state (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// Actor is the contextual role of the user acting on a booking.
// The same account can be guest on one booking and host on another.
type Actor string

const (
	ActorGuest Actor = "guest"
	ActorHost  Actor = "host"
)

// transitions lists every permitted status change and who may perform it.
// Canceled is terminal.
var transitions = map[Status]map[Status][]Actor{
	StatusPending: {
		StatusConfirmed: {ActorHost},
		StatusCanceled:  {ActorGuest, ActorHost},
	},
	StatusConfirmed: {
		StatusCanceled: {ActorHost},
	},
}

// CanTransition checks whether actor may move a booking from one status to another
func CanTransition(from, to Status, actor Actor) error {
	allowed, ok := transitions[from][to]
	if !ok {
		return ErrInvalidTransition
	}
	for _, a := range allowed {
		if a == actor {
			return nil
		}
	}
	return ErrNotAuthorized
}

// IsValidStatus reports whether s is a known booking status
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}

// Booking represents a reservation of a listing (matches bookings table)
type Booking struct {
	ID         uuid.UUID `db:"id"`
	ListingID  uuid.UUID `db:"listing_id"`
	GuestID    uuid.UUID `db:"guest_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Guests     int       `db:"guests"`
	Status     Status    `db:"status"`
	TotalPrice float64   `db:"total_price"`

	// Joined from listings for authorization checks
	HostID uuid.UUID `db:"host_id"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Nights returns the stay length in nights
func (b *Booking) Nights() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}

// ActorFor resolves the contextual role of userID on this booking
func (b *Booking) ActorFor(userID uuid.UUID) (Actor, bool) {
	switch userID {
	case b.GuestID:
		return ActorGuest, true
	case b.HostID:
		return ActorHost, true
	}
	return "", false
}

// Overlaps reports whether two half-open date ranges [s1, e1) and [s2, e2)
// intersect. Back-to-back stays (checkout day == checkin day) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// TotalPrice computes nights * nightly rate, rounded to cents
func TotalPrice(start, end time.Time, pricePerNight float64) float64 {
	nights := end.Sub(start).Hours() / 24
	return math.Round(nights*pricePerNight*100) / 100
}
