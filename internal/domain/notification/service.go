package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/domain/booking"
	"github.com/voyago/voyago-api/internal/domain/listing"
	"github.com/voyago/voyago-api/internal/domain/user"
	"github.com/voyago/voyago-api/internal/pkg/email"
)

const dateLayout = "2006-01-02"

// Service creates notifications, pushes them over WebSocket and queues the
// matching emails. It is wired into the booking and payment services as
// their notification sink.
type Service struct {
	repo        *Repository
	userRepo    user.Repository
	listingRepo listing.Repository
	hub         *Hub
	email       *email.Service
	frontendURL string
}

// NewService creates a notification service. hub and emailService may be
// nil: the corresponding channel is then skipped.
func NewService(repo *Repository, userRepo user.Repository, listingRepo listing.Repository, hub *Hub, emailService *email.Service, frontendURL string) *Service {
	return &Service{
		repo:        repo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		hub:         hub,
		email:       emailService,
		frontendURL: frontendURL,
	}
}

// Notify stores a notification and pushes it to the user's open connections
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, typ Type, title, body string, data interface{}) error {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
		n.Data = raw
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Push(ctx, userID, n.ToResponse())
	}
	return nil
}

// List returns the user's notifications
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// CountUnread returns the user's unread notification count
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// BookingCreated notifies the host about a new booking request
func (s *Service) BookingCreated(ctx context.Context, b *booking.Booking) error {
	l, guest := s.bookingContext(ctx, b)
	title := "New booking request"
	body := fmt.Sprintf("You have a new booking request for %s.", listingTitle(l))

	if err := s.Notify(ctx, b.HostID, TypeBookingCreated, title, body, bookingData(b)); err != nil {
		return err
	}

	if s.email != nil && l != nil && guest != nil {
		host, err := s.userRepo.GetByID(ctx, b.HostID)
		if err != nil || host == nil {
			log.Warn().Err(err).Str("host_id", b.HostID.String()).Msg("host lookup for booking email failed")
			return nil
		}
		s.email.SendBookingCreated(
			host.Email,
			host.FullName(),
			guest.FullName(),
			l.Title,
			b.StartDate.Format(dateLayout),
			b.EndDate.Format(dateLayout),
			fmt.Sprintf("%.2f", b.TotalPrice),
			fmt.Sprintf("%s/host/bookings/%s", s.frontendURL, b.ID),
			b.Guests,
		)
	}
	return nil
}

// statusEvent resolves who a status change is news for. Confirmations and
// host cancellations go to the guest; when the guest cancels, it is the
// host who needs to hear about it.
func statusEvent(b *booking.Booking, actor booking.Actor, listingName string) (recipient uuid.UUID, typ Type, title, body string, ok bool) {
	switch b.Status {
	case booking.StatusConfirmed:
		return b.GuestID, TypeBookingConfirmed, "Booking confirmed",
			fmt.Sprintf("Your booking for %s has been confirmed.", listingName), true
	case booking.StatusCanceled:
		if actor == booking.ActorGuest {
			return b.HostID, TypeBookingCanceled, "Booking canceled",
				fmt.Sprintf("The guest canceled their booking for %s.", listingName), true
		}
		return b.GuestID, TypeBookingCanceled, "Booking canceled",
			fmt.Sprintf("Your booking for %s has been canceled.", listingName), true
	default:
		return uuid.Nil, "", "", "", false
	}
}

// BookingStatusChanged notifies the affected party about a confirmation or
// cancellation of a booking.
func (s *Service) BookingStatusChanged(ctx context.Context, b *booking.Booking, previous booking.Status, actor booking.Actor) error {
	l, guest := s.bookingContext(ctx, b)

	recipient, typ, title, body, ok := statusEvent(b, actor, listingTitle(l))
	if !ok {
		return nil
	}

	if err := s.Notify(ctx, recipient, typ, title, body, bookingData(b)); err != nil {
		return err
	}

	if s.email == nil || l == nil {
		return nil
	}

	switch {
	case b.Status == booking.StatusConfirmed && guest != nil:
		s.email.SendBookingConfirmed(
			guest.Email,
			guest.FullName(),
			l.Title,
			b.StartDate.Format(dateLayout),
			b.EndDate.Format(dateLayout),
			fmt.Sprintf("%.2f", b.TotalPrice),
			fmt.Sprintf("%s/bookings/%s", s.frontendURL, b.ID),
		)
	case b.Status == booking.StatusCanceled && recipient == b.HostID:
		host, err := s.userRepo.GetByID(ctx, b.HostID)
		if err != nil || host == nil {
			log.Warn().Err(err).Str("host_id", b.HostID.String()).Msg("host lookup for cancellation email failed")
			return nil
		}
		s.email.SendBookingCanceled(
			host.Email,
			host.FullName(),
			l.Title,
			b.StartDate.Format(dateLayout),
			b.EndDate.Format(dateLayout),
			fmt.Sprintf("%s/host/bookings", s.frontendURL),
		)
	case b.Status == booking.StatusCanceled && guest != nil:
		s.email.SendBookingCanceled(
			guest.Email,
			guest.FullName(),
			l.Title,
			b.StartDate.Format(dateLayout),
			b.EndDate.Format(dateLayout),
			s.frontendURL+"/listings",
		)
	}
	return nil
}

// PaymentCompleted notifies the guest that their payment went through
func (s *Service) PaymentCompleted(ctx context.Context, guestID, bookingID uuid.UUID, amount float64) error {
	return s.Notify(ctx, guestID, TypePaymentCompleted,
		"Payment received",
		fmt.Sprintf("Your payment of %.2f has been received.", amount),
		map[string]string{"booking_id": bookingID.String()},
	)
}

func (s *Service) bookingContext(ctx context.Context, b *booking.Booking) (*listing.Listing, *user.User) {
	l, err := s.listingRepo.GetByID(ctx, b.ListingID)
	if err != nil {
		log.Warn().Err(err).Str("listing_id", b.ListingID.String()).Msg("listing lookup for notification failed")
	}
	guest, err := s.userRepo.GetByID(ctx, b.GuestID)
	if err != nil {
		log.Warn().Err(err).Str("guest_id", b.GuestID.String()).Msg("guest lookup for notification failed")
	}
	return l, guest
}

func listingTitle(l *listing.Listing) string {
	if l == nil {
		return "your listing"
	}
	return l.Title
}

func bookingData(b *booking.Booking) map[string]string {
	return map[string]string{
		"booking_id": b.ID.String(),
		"listing_id": b.ListingID.String(),
		"status":     string(b.Status),
	}
}
