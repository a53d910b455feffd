package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{
			name: "identical ranges",
			s1:   date(2026, 6, 1), e1: date(2026, 6, 5),
			s2: date(2026, 6, 1), e2: date(2026, 6, 5),
			want: true,
		},
		{
			name: "partial overlap",
			s1:   date(2026, 6, 1), e1: date(2026, 6, 5),
			s2: date(2026, 6, 4), e2: date(2026, 6, 8),
			want: true,
		},
		{
			name: "contained range",
			s1:   date(2026, 6, 1), e1: date(2026, 6, 10),
			s2: date(2026, 6, 3), e2: date(2026, 6, 5),
			want: true,
		},
		{
			name: "back to back, checkout equals checkin",
			s1:   date(2026, 6, 1), e1: date(2026, 6, 5),
			s2: date(2026, 6, 5), e2: date(2026, 6, 9),
			want: false,
		},
		{
			name: "disjoint",
			s1:   date(2026, 6, 1), e1: date(2026, 6, 5),
			s2: date(2026, 6, 10), e2: date(2026, 6, 14),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		actor   Actor
		wantErr error
	}{
		{"host confirms pending", StatusPending, StatusConfirmed, ActorHost, nil},
		{"guest cannot confirm", StatusPending, StatusConfirmed, ActorGuest, ErrNotAuthorized},
		{"guest cancels pending", StatusPending, StatusCanceled, ActorGuest, nil},
		{"host cancels pending", StatusPending, StatusCanceled, ActorHost, nil},
		{"host cancels confirmed", StatusConfirmed, StatusCanceled, ActorHost, nil},
		{"guest cannot cancel confirmed", StatusConfirmed, StatusCanceled, ActorGuest, ErrNotAuthorized},
		{"confirmed cannot go back to pending", StatusConfirmed, StatusPending, ActorHost, ErrInvalidTransition},
		{"canceled is terminal for host", StatusCanceled, StatusPending, ActorHost, ErrInvalidTransition},
		{"canceled is terminal for guest", StatusCanceled, StatusConfirmed, ActorGuest, ErrInvalidTransition},
		{"no self transition", StatusPending, StatusPending, ActorHost, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.actor, err, tt.wantErr)
			}
		})
	}
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name          string
		start, end    time.Time
		pricePerNight float64
		want          float64
	}{
		{"four nights round price", date(2026, 6, 1), date(2026, 6, 5), 100.00, 400.00},
		{"two weeks", date(2026, 7, 1), date(2026, 7, 15), 128.57, 1799.98},
		{"one night fractional", date(2026, 6, 1), date(2026, 6, 2), 99.99, 99.99},
		{"rounding to cents", date(2026, 6, 1), date(2026, 6, 4), 33.333, 100.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPrice(tt.start, tt.end, tt.pricePerNight); got != tt.want {
				t.Errorf("TotalPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingNights(t *testing.T) {
	b := &Booking{StartDate: date(2026, 6, 1), EndDate: date(2026, 6, 8)}
	if got := b.Nights(); got != 7 {
		t.Errorf("Nights() = %d, want 7", got)
	}
}

func TestActorFor(t *testing.T) {
	guestID := uuid.New()
	hostID := uuid.New()
	b := &Booking{GuestID: guestID, HostID: hostID}

	if actor, ok := b.ActorFor(guestID); !ok || actor != ActorGuest {
		t.Errorf("ActorFor(guest) = %s, %v", actor, ok)
	}
	if actor, ok := b.ActorFor(hostID); !ok || actor != ActorHost {
		t.Errorf("ActorFor(host) = %s, %v", actor, ok)
	}
	if _, ok := b.ActorFor(uuid.New()); ok {
		t.Error("ActorFor(stranger) should not resolve")
	}
}
