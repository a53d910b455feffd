package listing

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType represents the kind of accommodation (matches property_type enum)
type PropertyType string

const (
	PropertyHotel      PropertyType = "hotel"
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyVilla      PropertyType = "villa"
	PropertyResort     PropertyType = "resort"
	PropertyHostel     PropertyType = "hostel"
	PropertyGuesthouse PropertyType = "guesthouse"
)

// Listing represents a bookable property (matches listings table)
type Listing struct {
	ID            uuid.UUID    `db:"id"`
	HostID        uuid.UUID    `db:"host_id"`
	Title         string       `db:"title"`
	Description   string       `db:"description"`
	Location      string       `db:"location"`
	PropertyType  PropertyType `db:"property_type"`
	PricePerNight float64      `db:"price_per_night"`
	MaxGuests     int          `db:"max_guests"`
	MinimumStay   int          `db:"minimum_stay"` // nights
	Availability  bool         `db:"availability"` // host-controlled, hides the listing from booking

	// Denormalized review aggregates, maintained by the review domain
	RatingAvg    float64 `db:"rating_avg"`
	ReviewsCount int     `db:"reviews_count"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsOwnedBy returns true if the listing belongs to the given user
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.HostID == userID
}
