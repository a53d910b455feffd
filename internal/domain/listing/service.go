package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service handles listing business logic
type Service struct {
	repo Repository
}

// NewService creates listing service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const dateLayout = "2006-01-02"

// Create creates a new listing owned by hostID
func (s *Service) Create(ctx context.Context, hostID uuid.UUID, req *CreateListingRequest) (*Listing, error) {
	maxGuests := 2
	if req.MaxGuests != nil {
		maxGuests = *req.MaxGuests
	}
	minimumStay := 1
	if req.MinimumStay != nil {
		minimumStay = *req.MinimumStay
	}
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	now := time.Now()
	l := &Listing{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PropertyType:  PropertyType(req.PropertyType),
		PricePerNight: req.PricePerNight,
		MaxGuests:     maxGuests,
		MinimumStay:   minimumStay,
		Availability:  availability,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// GetByID returns a listing by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}
	return l, nil
}

// Update applies partial changes to a listing. Only the host may update.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateListingRequest) (*Listing, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !l.IsOwnedBy(userID) {
		return nil, ErrNotListingOwner
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Location != nil {
		l.Location = *req.Location
	}
	if req.PropertyType != nil {
		l.PropertyType = PropertyType(*req.PropertyType)
	}
	if req.PricePerNight != nil {
		l.PricePerNight = *req.PricePerNight
	}
	if req.MaxGuests != nil {
		l.MaxGuests = *req.MaxGuests
	}
	if req.MinimumStay != nil {
		l.MinimumStay = *req.MinimumStay
	}
	if req.Availability != nil {
		l.Availability = *req.Availability
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// Delete removes a listing. Only the host may delete, and only while
// no non-canceled bookings reference it.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !l.IsOwnedBy(userID) {
		return ErrNotListingOwner
	}

	hasBookings, err := s.repo.HasActiveBookings(ctx, id)
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrListingHasBookings
	}

	return s.repo.Delete(ctx, id)
}

// List returns listings matching the filter
func (s *Service) List(ctx context.Context, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Listing, int, error) {
	return s.repo.List(ctx, filter, ordering, pagination)
}

// ListMy returns the authenticated host's listings
func (s *Service) ListMy(ctx context.Context, hostID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	return s.repo.ListByHost(ctx, hostID, pagination)
}

// SearchAvailable returns listings matching the filter that have no
// non-canceled booking overlapping [startDate, endDate).
func (s *Service) SearchAvailable(ctx context.Context, filter *Filter, startDate, endDate string, ordering Ordering, pagination *Pagination) ([]*Listing, int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, 0, ValidationErrors{"start_date": "start_date must be in YYYY-MM-DD format"}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, 0, ValidationErrors{"end_date": "end_date must be in YYYY-MM-DD format"}
	}
	if !start.Before(end) {
		return nil, 0, ErrInvalidDateRange
	}

	available := true
	filter.Available = &available
	filter.AvailableFrom = &start
	filter.AvailableTo = &end

	return s.repo.List(ctx, filter, ordering, pagination)
}

// CheckAvailability reports whether [start, end) is free of non-canceled bookings
func (s *Service) CheckAvailability(ctx context.Context, id uuid.UUID, startDate, endDate string) (*AvailabilityResponse, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, ValidationErrors{"start_date": "start_date must be in YYYY-MM-DD format"}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, ValidationErrors{"end_date": "end_date must be in YYYY-MM-DD format"}
	}
	if !start.Before(end) {
		return nil, ErrInvalidDateRange
	}

	// 404 before availability so callers can distinguish
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	available, err := s.repo.IsAvailable(ctx, id, start, end)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		ListingID: id,
		StartDate: startDate,
		EndDate:   endDate,
		Available: available,
	}, nil
}
