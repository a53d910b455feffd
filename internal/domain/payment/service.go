package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/domain/booking"
	"github.com/voyago/voyago-api/internal/domain/listing"
	"github.com/voyago/voyago-api/internal/domain/user"
	"github.com/voyago/voyago-api/internal/pkg/chapa"
)

// Currency for all Chapa transactions
const Currency = "ETB"

// Gateway abstracts the Chapa client for testing
type Gateway interface {
	Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error)
}

// Mailer sends payment confirmation emails
type Mailer interface {
	SendPaymentCompleted(to, toName, listingTitle, amount, txRef, startDate, endDate, bookingURL string)
}

// Notifier pushes payment events to the guest
type Notifier interface {
	PaymentCompleted(ctx context.Context, guestID, bookingID uuid.UUID, amount float64) error
}

// URLs for gateway redirects
type URLs struct {
	FrontendURL string
	BackendURL  string
}

// Service handles payment business logic
type Service struct {
	repo        Repository
	bookingRepo booking.Repository
	listingRepo listing.Repository
	userRepo    user.Repository
	gateway     Gateway
	urls        URLs
	mailer      Mailer
	notifier    Notifier
}

// NewService creates payment service
func NewService(repo Repository, bookingRepo booking.Repository, listingRepo listing.Repository, userRepo user.Repository, gateway Gateway, urls URLs) *Service {
	return &Service{
		repo:        repo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		urls:        urls,
	}
}

// SetMailer sets the confirmation mail sink (optional)
func (s *Service) SetMailer(m Mailer) {
	s.mailer = m
}

// SetNotifier sets the notification sink (optional)
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Initiate starts a Chapa checkout for a booking. Idempotent: a pending
// payment is returned as-is, a completed one is an error.
func (s *Service) Initiate(ctx context.Context, userID, bookingID uuid.UUID) (*Payment, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.GuestID != userID {
		return nil, ErrNotBookingGuest
	}
	if b.Status == booking.StatusCanceled {
		return nil, ErrBookingCanceled
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == StatusCompleted {
			return nil, ErrAlreadyCompleted
		}
		return existing, nil
	}

	guest, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load guest: %w", err)
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}

	txRef := "voyago-" + uuid.New().String()

	resp, err := s.gateway.Initialize(ctx, chapa.InitializeRequest{
		Amount:      fmt.Sprintf("%.2f", b.TotalPrice),
		Currency:    Currency,
		Email:       guest.Email,
		FirstName:   guest.FirstName,
		LastName:    guest.LastName,
		TxRef:       txRef,
		CallbackURL: fmt.Sprintf("%s/api/v1/payments/verify/%s", s.urls.BackendURL, txRef),
		ReturnURL:   fmt.Sprintf("%s/bookings/%s", s.urls.FrontendURL, bookingID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayRejected, err)
	}

	now := time.Now()
	p := &Payment{
		ID:          uuid.New(),
		BookingID:   bookingID,
		TxRef:       txRef,
		Amount:      b.TotalPrice,
		Currency:    Currency,
		Status:      StatusPending,
		CheckoutURL: resp.Data.CheckoutURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Verify reconciles a payment with the gateway by tx_ref. Idempotent.
func (s *Service) Verify(ctx context.Context, txRef string) (*Payment, error) {
	p, err := s.repo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	if p.Status == StatusCompleted {
		return p, nil
	}

	resp, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayRejected, err)
	}

	switch resp.Data.Status {
	case "success":
		if err := s.repo.UpdateStatus(ctx, p.ID, StatusCompleted); err != nil {
			return nil, err
		}
		p.Status = StatusCompleted
		s.onCompleted(ctx, p)
	case "failed":
		if err := s.repo.UpdateStatus(ctx, p.ID, StatusFailed); err != nil {
			return nil, err
		}
		p.Status = StatusFailed
	}

	return p, nil
}

// GetByBooking returns the payment for a booking, visible to its guest or host
func (s *Service) GetByBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Payment, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if _, ok := b.ActorFor(userID); !ok {
		return nil, ErrNotBookingGuest
	}

	p, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *Service) onCompleted(ctx context.Context, p *Payment) {
	b, err := s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil || b == nil {
		log.Warn().Err(err).Str("tx_ref", p.TxRef).Msg("completed payment for unknown booking")
		return
	}

	if s.notifier != nil {
		if err := s.notifier.PaymentCompleted(ctx, b.GuestID, b.ID, p.Amount); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("payment notification failed")
		}
	}

	if s.mailer == nil {
		return
	}

	guest, err := s.userRepo.GetByID(ctx, b.GuestID)
	if err != nil || guest == nil {
		return
	}
	l, err := s.listingRepo.GetByID(ctx, b.ListingID)
	if err != nil || l == nil {
		return
	}

	s.mailer.SendPaymentCompleted(
		guest.Email,
		guest.FullName(),
		l.Title,
		fmt.Sprintf("%.2f %s", p.Amount, p.Currency),
		p.TxRef,
		b.StartDate.Format("2006-01-02"),
		b.EndDate.Format("2006-01-02"),
		fmt.Sprintf("%s/bookings/%s", s.urls.FrontendURL, b.ID),
	)
}
