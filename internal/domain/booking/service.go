package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/domain/listing"
)

// maxStayNights caps a single reservation length
const maxStayNights = 365

const dateLayout = "2006-01-02"

// Notifier pushes booking lifecycle events to guests and hosts
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking) error
	BookingStatusChanged(ctx context.Context, b *Booking, previous Status, actor Actor) error
}

// Service handles booking business logic
type Service struct {
	repo        Repository
	listingRepo listing.Repository
	notifier    Notifier
	now         func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, listingRepo listing.Repository) *Service {
	return &Service{
		repo:        repo,
		listingRepo: listingRepo,
		now:         time.Now,
	}
}

// SetNotifier sets the notification sink (optional)
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDates(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{"start_date": "start_date must be in YYYY-MM-DD format"}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{"end_date": "end_date must be in YYYY-MM-DD format"}
	}
	return start, end, nil
}

func (s *Service) validateStay(start, end time.Time, guests int, l *listing.Listing) error {
	if !start.Before(end) {
		return ErrInvalidDateRange
	}
	if start.Before(s.today()) {
		return ErrPastDate
	}

	nights := int(end.Sub(start).Hours() / 24)
	if nights > maxStayNights {
		return ErrStayTooLong
	}
	if nights < l.MinimumStay {
		return ErrStayTooShort
	}
	if guests > l.MaxGuests {
		return ErrTooManyGuests
	}

	return nil
}

// Create reserves a listing for the guest. The total price is computed
// server-side from the listing's nightly rate.
func (s *Service) Create(ctx context.Context, guestID uuid.UUID, req *CreateBookingRequest) (*Booking, error) {
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, ValidationErrors{"listing_id": "listing_id must be a valid UUID"}
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	l, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}
	if l.IsOwnedBy(guestID) {
		return nil, ErrOwnListing
	}
	if !l.Availability {
		return nil, ErrListingUnavailable
	}

	if err := s.validateStay(start, end, req.Guests, l); err != nil {
		return nil, err
	}

	now := s.now()
	b := &Booking{
		ID:         uuid.New(),
		ListingID:  listingID,
		GuestID:    guestID,
		StartDate:  start,
		EndDate:    end,
		Guests:     req.Guests,
		Status:     StatusPending,
		TotalPrice: TotalPrice(start, end, l.PricePerNight),
		HostID:     l.HostID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, b)

	return b, nil
}

// GetByID returns a booking visible to its guest or the listing's host
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if _, ok := b.ActorFor(userID); !ok {
		return nil, ErrNotAuthorized
	}

	return b, nil
}

// Update changes dates or guest count. Guest-only, pending-only.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateBookingRequest) (*Booking, error) {
	b, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if b.GuestID != userID {
		return nil, ErrNotAuthorized
	}
	if b.Status != StatusPending {
		return nil, ErrNotPending
	}

	start := b.StartDate
	end := b.EndDate
	if req.StartDate != nil {
		if start, err = time.Parse(dateLayout, *req.StartDate); err != nil {
			return nil, ValidationErrors{"start_date": "start_date must be in YYYY-MM-DD format"}
		}
	}
	if req.EndDate != nil {
		if end, err = time.Parse(dateLayout, *req.EndDate); err != nil {
			return nil, ValidationErrors{"end_date": "end_date must be in YYYY-MM-DD format"}
		}
	}

	guests := b.Guests
	if req.Guests != nil {
		guests = *req.Guests
	}

	l, err := s.listingRepo.GetByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}

	if err := s.validateStay(start, end, guests, l); err != nil {
		return nil, err
	}

	b.StartDate = start
	b.EndDate = end
	b.Guests = guests
	b.TotalPrice = TotalPrice(start, end, l.PricePerNight)

	if err := s.repo.UpdateDates(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateStatus moves the booking through its lifecycle. Which transitions
// are legal depends on whether the caller is the guest or the host.
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, next Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	actor, ok := b.ActorFor(userID)
	if !ok {
		return nil, ErrNotAuthorized
	}

	if err := CanTransition(b.Status, next, actor); err != nil {
		return nil, err
	}

	previous := b.Status
	if err := s.repo.UpdateStatus(ctx, id, previous, next); err != nil {
		return nil, err
	}

	b.Status = next
	s.notifyStatusChanged(ctx, b, previous, actor)

	return b, nil
}

// Delete removes a pending booking. Guest-only.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}

	if b.GuestID != userID {
		return ErrNotAuthorized
	}
	if b.Status != StatusPending {
		return ErrNotPending
	}

	return s.repo.Delete(ctx, id)
}

// List returns the user's bookings in the requested scope
func (s *Service) List(ctx context.Context, userID uuid.UUID, scope Scope, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Booking, int, error) {
	return s.repo.List(ctx, userID, scope, filter, ordering, pagination)
}

func (s *Service) notifyCreated(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BookingCreated(ctx, b); err != nil {
		log.Warn().
			Err(err).
			Str("booking_id", b.ID.String()).
			Msg("booking created notification failed")
	}
}

func (s *Service) notifyStatusChanged(ctx context.Context, b *Booking, previous Status, actor Actor) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BookingStatusChanged(ctx, b, previous, actor); err != nil {
		log.Warn().
			Err(err).
			Str("booking_id", b.ID.String()).
			Str("status", string(b.Status)).
			Msg("booking status notification failed")
	}
}
