package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/voyago-api/internal/domain/booking"
	"github.com/voyago/voyago-api/internal/domain/listing"
	"github.com/voyago/voyago-api/internal/domain/user"
	"github.com/voyago/voyago-api/internal/pkg/chapa"
)

type fakePaymentRepo struct {
	byBooking map[uuid.UUID]*Payment
	byTxRef   map[string]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byBooking: make(map[uuid.UUID]*Payment),
		byTxRef:   make(map[string]*Payment),
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	f.byBooking[p.BookingID] = p
	f.byTxRef[p.TxRef] = p
	return nil
}

func (f *fakePaymentRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	return f.byBooking[bookingID], nil
}

func (f *fakePaymentRepo) GetByTxRef(ctx context.Context, txRef string) (*Payment, error) {
	return f.byTxRef[txRef], nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	for _, p := range f.byTxRef {
		if p.ID == id {
			p.Status = status
		}
	}
	return nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*booking.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *booking.Booking) error { return nil }
func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return f.bookings[id], nil
}
func (f *fakeBookingRepo) UpdateDates(ctx context.Context, b *booking.Booking) error { return nil }
func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next booking.Status) error {
	return nil
}
func (f *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeBookingRepo) List(ctx context.Context, userID uuid.UUID, scope booking.Scope, filter *booking.Filter, ordering booking.Ordering, pagination *booking.Pagination) ([]*booking.Booking, int, error) {
	return nil, 0, nil
}

type fakeListingRepo struct {
	listings map[uuid.UUID]*listing.Listing
}

func (f *fakeListingRepo) Create(ctx context.Context, l *listing.Listing) error { return nil }
func (f *fakeListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return f.listings[id], nil
}
func (f *fakeListingRepo) Update(ctx context.Context, l *listing.Listing) error { return nil }
func (f *fakeListingRepo) Delete(ctx context.Context, id uuid.UUID) error       { return nil }
func (f *fakeListingRepo) List(ctx context.Context, filter *listing.Filter, ordering listing.Ordering, pagination *listing.Pagination) ([]*listing.Listing, int, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) ListByHost(ctx context.Context, hostID uuid.UUID, pagination *listing.Pagination) ([]*listing.Listing, int, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) IsAvailable(ctx context.Context, listingID uuid.UUID, start, end time.Time) (bool, error) {
	return true, nil
}
func (f *fakeListingRepo) HasActiveBookings(ctx context.Context, listingID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}

type fakeGateway struct {
	initializeErr error
	initialized   []chapa.InitializeRequest
	verifyStatus  string
	verifyErr     error
}

func (f *fakeGateway) Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
	if f.initializeErr != nil {
		return nil, f.initializeErr
	}
	f.initialized = append(f.initialized, req)
	resp := &chapa.InitializeResponse{Status: "success"}
	resp.Data.CheckoutURL = "https://checkout.chapa.co/checkout/payment/" + req.TxRef
	return resp, nil
}

func (f *fakeGateway) Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	resp := &chapa.VerifyResponse{Status: "success"}
	resp.Data.Status = f.verifyStatus
	resp.Data.TxRef = txRef
	return resp, nil
}

type fakeNotifier struct {
	completed []uuid.UUID
}

func (f *fakeNotifier) PaymentCompleted(ctx context.Context, guestID, bookingID uuid.UUID, amount float64) error {
	f.completed = append(f.completed, bookingID)
	return nil
}

type fixture struct {
	svc     *Service
	repo    *fakePaymentRepo
	gateway *fakeGateway
	booking *booking.Booking
	users   map[uuid.UUID]*user.User
	guestID uuid.UUID
	hostID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	guestID := uuid.New()
	hostID := uuid.New()

	l := &listing.Listing{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         "Lakeside cabin",
		PricePerNight: 100.00,
	}
	b := &booking.Booking{
		ID:         uuid.New(),
		ListingID:  l.ID,
		GuestID:    guestID,
		HostID:     hostID,
		StartDate:  time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
		Status:     booking.StatusConfirmed,
		TotalPrice: 400.00,
	}

	repo := newFakePaymentRepo()
	gateway := &fakeGateway{verifyStatus: "success"}
	users := map[uuid.UUID]*user.User{guestID: {ID: guestID, Email: "ana@example.com", FirstName: "Ana", LastName: "Moreira"}}
	svc := NewService(
		repo,
		&fakeBookingRepo{bookings: map[uuid.UUID]*booking.Booking{b.ID: b}},
		&fakeListingRepo{listings: map[uuid.UUID]*listing.Listing{l.ID: l}},
		&fakeUserRepo{users: users},
		gateway,
		URLs{FrontendURL: "http://localhost:3000", BackendURL: "http://localhost:8080"},
	)

	return &fixture{svc: svc, repo: repo, gateway: gateway, booking: b, users: users, guestID: guestID, hostID: hostID}
}

func TestInitiate(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	if p.Amount != 400.00 || p.Currency != Currency {
		t.Errorf("payment = %+v", p)
	}
	if p.Status != StatusPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
	if p.CheckoutURL == "" {
		t.Error("missing checkout URL")
	}

	if len(f.gateway.initialized) != 1 {
		t.Fatalf("gateway calls = %d, want 1", len(f.gateway.initialized))
	}
	req := f.gateway.initialized[0]
	if req.Amount != "400.00" || req.Email != "ana@example.com" {
		t.Errorf("gateway request = %+v", req)
	}
	if want := fmt.Sprintf("http://localhost:8080/api/v1/payments/verify/%s", p.TxRef); req.CallbackURL != want {
		t.Errorf("callback URL = %q, want %q", req.CallbackURL, want)
	}
}

func TestInitiateIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("first Initiate() error = %v", err)
	}

	second, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("second Initiate() error = %v", err)
	}
	if second.TxRef != first.TxRef {
		t.Error("pending payment must be returned as-is, not re-created")
	}
	if len(f.gateway.initialized) != 1 {
		t.Errorf("gateway calls = %d, want 1", len(f.gateway.initialized))
	}

	first.Status = StatusCompleted
	if _, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("completed Initiate() error = %v, want ErrAlreadyCompleted", err)
	}
}

func TestInitiateAuthorization(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Initiate(context.Background(), f.hostID, f.booking.ID); !errors.Is(err, ErrNotBookingGuest) {
		t.Errorf("host Initiate() error = %v, want ErrNotBookingGuest", err)
	}
	if _, err := f.svc.Initiate(context.Background(), f.guestID, uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("unknown booking Initiate() error = %v, want ErrBookingNotFound", err)
	}

	f.booking.Status = booking.StatusCanceled
	if _, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID); !errors.Is(err, ErrBookingCanceled) {
		t.Errorf("canceled Initiate() error = %v, want ErrBookingCanceled", err)
	}
}

func TestInitiateGuestMissing(t *testing.T) {
	f := newFixture(t)
	delete(f.users, f.guestID)

	_, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if !errors.Is(err, ErrGuestNotFound) {
		t.Fatalf("Initiate() error = %v, want ErrGuestNotFound", err)
	}
	if len(f.gateway.initialized) != 0 {
		t.Error("gateway must not be called without a guest record")
	}
}

func TestInitiateGatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.initializeErr = errors.New("connection refused")

	_, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if !errors.Is(err, ErrGatewayRejected) {
		t.Fatalf("Initiate() error = %v, want ErrGatewayRejected", err)
	}
	if p, _ := f.repo.GetByBookingID(context.Background(), f.booking.ID); p != nil {
		t.Error("no payment row must be created on gateway failure")
	}
}

func TestVerifyCompletes(t *testing.T) {
	f := newFixture(t)
	notifier := &fakeNotifier{}
	f.svc.SetNotifier(notifier)

	p, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	verified, err := f.svc.Verify(context.Background(), p.TxRef)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", verified.Status)
	}
	if len(notifier.completed) != 1 || notifier.completed[0] != f.booking.ID {
		t.Errorf("notifications = %v", notifier.completed)
	}

	// Verifying again is a no-op
	again, err := f.svc.Verify(context.Background(), p.TxRef)
	if err != nil {
		t.Fatalf("second Verify() error = %v", err)
	}
	if again.Status != StatusCompleted {
		t.Errorf("status = %s", again.Status)
	}
	if len(notifier.completed) != 1 {
		t.Errorf("notifications after re-verify = %d, want 1", len(notifier.completed))
	}
}

func TestVerifyFailed(t *testing.T) {
	f := newFixture(t)
	f.gateway.verifyStatus = "failed"

	p, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	verified, err := f.svc.Verify(context.Background(), p.TxRef)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.Status != StatusFailed {
		t.Errorf("status = %s, want failed", verified.Status)
	}
}

func TestVerifyUnknownTxRef(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Verify(context.Background(), "voyago-missing"); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("Verify() error = %v, want ErrPaymentNotFound", err)
	}
}

func TestGetByBooking(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.GetByBooking(context.Background(), f.guestID, f.booking.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("no payment GetByBooking() error = %v, want ErrPaymentNotFound", err)
	}

	p, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	// Both guest and host may see the payment
	for _, userID := range []uuid.UUID{f.guestID, f.hostID} {
		got, err := f.svc.GetByBooking(context.Background(), userID, f.booking.ID)
		if err != nil {
			t.Fatalf("GetByBooking() error = %v", err)
		}
		if got.TxRef != p.TxRef {
			t.Errorf("payment = %+v", got)
		}
	}

	if _, err := f.svc.GetByBooking(context.Background(), uuid.New(), f.booking.ID); !errors.Is(err, ErrNotBookingGuest) {
		t.Errorf("stranger GetByBooking() error = %v, want ErrNotBookingGuest", err)
	}
}
