package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	listings map[uuid.UUID]*Listing

	activeBookings map[uuid.UUID]bool
	available      bool

	deleted    *uuid.UUID
	lastFilter *Filter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings:       make(map[uuid.UUID]*Listing),
		activeBookings: make(map[uuid.UUID]bool),
		available:      true,
	}
}

func (f *fakeRepo) Create(ctx context.Context, l *Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	return l, nil
}

func (f *fakeRepo) Update(ctx context.Context, l *Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = &id
	delete(f.listings, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter *Filter, ordering Ordering, pagination *Pagination) ([]*Listing, int, error) {
	f.lastFilter = filter
	return nil, 0, nil
}

func (f *fakeRepo) ListByHost(ctx context.Context, hostID uuid.UUID, pagination *Pagination) ([]*Listing, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) IsAvailable(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error) {
	return f.available, nil
}

func (f *fakeRepo) HasActiveBookings(ctx context.Context, listingID uuid.UUID) (bool, error) {
	return f.activeBookings[listingID], nil
}

func ptr[T any](v T) *T { return &v }

func seedListing(repo *fakeRepo, hostID uuid.UUID) *Listing {
	l := &Listing{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         "Harbor view apartment",
		Description:   "Two bedroom apartment overlooking the old harbor.",
		Location:      "Lisbon",
		PropertyType:  PropertyApartment,
		PricePerNight: 120.00,
		MaxGuests:     4,
		MinimumStay:   1,
		Availability:  true,
	}
	repo.listings[l.ID] = l
	return l
}

func TestCreateListingDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	l, err := svc.Create(context.Background(), uuid.New(), &CreateListingRequest{
		Title:         "Harbor view apartment",
		Description:   "Two bedroom apartment overlooking the old harbor.",
		Location:      "Lisbon",
		PropertyType:  "apartment",
		PricePerNight: 120.00,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if l.MaxGuests != 2 {
		t.Errorf("default MaxGuests = %d, want 2", l.MaxGuests)
	}
	if l.MinimumStay != 1 {
		t.Errorf("default MinimumStay = %d, want 1", l.MinimumStay)
	}
	if !l.Availability {
		t.Error("new listings default to available")
	}
}

func TestUpdateListingOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	hostID := uuid.New()
	l := seedListing(repo, hostID)

	if _, err := svc.Update(context.Background(), uuid.New(), l.ID, &UpdateListingRequest{Title: ptr("Renamed place")}); !errors.Is(err, ErrNotListingOwner) {
		t.Errorf("stranger Update() error = %v, want ErrNotListingOwner", err)
	}

	updated, err := svc.Update(context.Background(), hostID, l.ID, &UpdateListingRequest{
		Title:         ptr("Renamed place"),
		PricePerNight: ptr(150.00),
	})
	if err != nil {
		t.Fatalf("owner Update() error = %v", err)
	}
	if updated.Title != "Renamed place" || updated.PricePerNight != 150.00 {
		t.Errorf("partial update result = %+v", updated)
	}
	// Untouched fields stay
	if updated.Location != "Lisbon" {
		t.Errorf("Location = %q, want Lisbon", updated.Location)
	}

	updated, err = svc.Update(context.Background(), hostID, l.ID, &UpdateListingRequest{Availability: ptr(false)})
	if err != nil {
		t.Fatalf("availability Update() error = %v", err)
	}
	if updated.Availability {
		t.Error("Availability = true, want false")
	}
}

func TestDeleteListing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	hostID := uuid.New()
	l := seedListing(repo, hostID)

	if err := svc.Delete(context.Background(), uuid.New(), l.ID); !errors.Is(err, ErrNotListingOwner) {
		t.Errorf("stranger Delete() error = %v, want ErrNotListingOwner", err)
	}

	if err := svc.Delete(context.Background(), hostID, l.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if repo.deleted == nil || *repo.deleted != l.ID {
		t.Error("repository Delete was not called")
	}
}

func TestDeleteListingBlockedByBookings(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	hostID := uuid.New()
	l := seedListing(repo, hostID)
	repo.activeBookings[l.ID] = true

	if err := svc.Delete(context.Background(), hostID, l.ID); !errors.Is(err, ErrListingHasBookings) {
		t.Errorf("Delete() error = %v, want ErrListingHasBookings", err)
	}
	if repo.deleted != nil {
		t.Error("listing with active bookings must not be deleted")
	}
}

func TestCheckAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	l := seedListing(repo, uuid.New())

	resp, err := svc.CheckAvailability(context.Background(), l.ID, "2026-07-01", "2026-07-05")
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if !resp.Available {
		t.Error("expected available")
	}

	repo.available = false
	resp, err = svc.CheckAvailability(context.Background(), l.ID, "2026-07-01", "2026-07-05")
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if resp.Available {
		t.Error("expected unavailable")
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	l := seedListing(repo, uuid.New())

	if _, err := svc.CheckAvailability(context.Background(), l.ID, "01-07-2026", "2026-07-05"); err == nil {
		t.Error("expected error for malformed start_date")
	} else {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("error = %v, want ValidationErrors", err)
		}
	}

	if _, err := svc.CheckAvailability(context.Background(), l.ID, "2026-07-05", "2026-07-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidDateRange", err)
	}
	if _, err := svc.CheckAvailability(context.Background(), l.ID, "2026-07-01", "2026-07-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("empty range error = %v, want ErrInvalidDateRange", err)
	}

	// Unknown listing is reported before availability
	if _, err := svc.CheckAvailability(context.Background(), uuid.New(), "2026-07-01", "2026-07-05"); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("unknown listing error = %v, want ErrListingNotFound", err)
	}
}

func TestSearchAvailable(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, _, err := svc.SearchAvailable(context.Background(), &Filter{}, "2026-07-01", "2026-07-05", DefaultOrdering, &Pagination{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("SearchAvailable() error = %v", err)
	}

	f := repo.lastFilter
	if f == nil {
		t.Fatal("repository List was not called")
	}
	if f.Available == nil || !*f.Available {
		t.Error("filter must require available listings")
	}
	if f.AvailableFrom == nil || f.AvailableTo == nil {
		t.Fatal("filter must carry the date window")
	}
	if got := f.AvailableFrom.Format("2006-01-02"); got != "2026-07-01" {
		t.Errorf("AvailableFrom = %s, want 2026-07-01", got)
	}
	if got := f.AvailableTo.Format("2006-01-02"); got != "2026-07-05" {
		t.Errorf("AvailableTo = %s, want 2026-07-05", got)
	}
}

func TestSearchAvailableValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, _, err := svc.SearchAvailable(context.Background(), &Filter{}, "", "2026-07-05", DefaultOrdering, &Pagination{Page: 1, Limit: 20}); err == nil {
		t.Error("expected error for missing start_date")
	}
	if _, _, err := svc.SearchAvailable(context.Background(), &Filter{}, "2026-07-05", "2026-07-01", DefaultOrdering, &Pagination{Page: 1, Limit: 20}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidDateRange", err)
	}
	if repo.lastFilter != nil {
		t.Error("repository must not be queried on invalid input")
	}
}

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", "ORDER BY l.created_at DESC, l.id ASC", false},
		{"created_at", "ORDER BY l.created_at ASC, l.id ASC", false},
		{"-price_per_night", "ORDER BY l.price_per_night DESC, l.id ASC", false},
		{"title", "ORDER BY l.title ASC, l.id ASC", false},
		{"host_id", "", true},
		{"price_per_night; SELECT 1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ordering, err := ParseOrdering(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOrderingField) {
					t.Fatalf("ParseOrdering(%q) error = %v, want ErrInvalidOrderingField", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrdering(%q) error = %v", tt.raw, err)
			}
			if got := ordering.clause(); got != tt.want {
				t.Errorf("clause() = %q, want %q", got, tt.want)
			}
		})
	}
}
