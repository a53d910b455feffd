package listing

import "errors"

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrNotListingOwner      = errors.New("you can only edit your own listings")
	ErrListingHasBookings   = errors.New("listing has active bookings")
	ErrInvalidOrderingField = errors.New("invalid ordering field")
	ErrInvalidDateRange     = errors.New("start_date must be before end_date")
	ErrDuplicateListing     = errors.New("duplicate listing")
	ErrInvalidHostReference = errors.New("host does not exist")
	ErrListingConstraint    = errors.New("listing violates a data constraint")
)

// ValidationErrors maps field names to human-readable messages.
// It satisfies error so services can return it alongside sentinel errors.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "validation failed"
}
