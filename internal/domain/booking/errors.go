package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrListingNotFound      = errors.New("listing not found")
	ErrInvalidDateRange     = errors.New("start_date must be before end_date")
	ErrPastDate             = errors.New("start_date cannot be in the past")
	ErrStayTooLong          = errors.New("stay cannot exceed 365 nights")
	ErrStayTooShort         = errors.New("stay is shorter than the listing minimum")
	ErrTooManyGuests        = errors.New("guest count exceeds listing capacity")
	ErrListingUnavailable   = errors.New("listing is not available")
	ErrDateConflict         = errors.New("dates conflict with an existing booking")
	ErrInvalidTransition    = errors.New("status transition is not allowed")
	ErrNotAuthorized        = errors.New("not authorized to act on this booking")
	ErrOwnListing           = errors.New("hosts cannot book their own listing")
	ErrNotPending           = errors.New("only pending bookings can be modified")
	ErrInvalidOrderingField = errors.New("invalid ordering field")
)

// ValidationErrors maps field names to human-readable messages
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "validation failed"
}
