package notification

import (
	"testing"

	"github.com/google/uuid"

	"github.com/voyago/voyago-api/internal/domain/booking"
)

func TestStatusEventRouting(t *testing.T) {
	guestID := uuid.New()
	hostID := uuid.New()
	b := &booking.Booking{
		ID:      uuid.New(),
		GuestID: guestID,
		HostID:  hostID,
	}

	tests := []struct {
		name          string
		status        booking.Status
		actor         booking.Actor
		wantRecipient uuid.UUID
		wantType      Type
		wantOK        bool
	}{
		{"host confirms", booking.StatusConfirmed, booking.ActorHost, guestID, TypeBookingConfirmed, true},
		{"host cancels", booking.StatusCanceled, booking.ActorHost, guestID, TypeBookingCanceled, true},
		{"guest cancels", booking.StatusCanceled, booking.ActorGuest, hostID, TypeBookingCanceled, true},
		{"pending is not news", booking.StatusPending, booking.ActorGuest, uuid.Nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.Status = tt.status
			recipient, typ, title, body, ok := statusEvent(b, tt.actor, "Lakeside cabin")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if recipient != tt.wantRecipient {
				t.Errorf("recipient = %s, want %s", recipient, tt.wantRecipient)
			}
			if typ != tt.wantType {
				t.Errorf("type = %s, want %s", typ, tt.wantType)
			}
			if title == "" || body == "" {
				t.Errorf("title = %q, body = %q", title, body)
			}
		})
	}
}

func TestStatusEventGuestCancelWording(t *testing.T) {
	b := &booking.Booking{
		ID:      uuid.New(),
		GuestID: uuid.New(),
		HostID:  uuid.New(),
		Status:  booking.StatusCanceled,
	}

	_, _, _, body, ok := statusEvent(b, booking.ActorGuest, "Lakeside cabin")
	if !ok {
		t.Fatal("statusEvent() ok = false")
	}
	if body != "The guest canceled their booking for Lakeside cabin." {
		t.Errorf("body = %q", body)
	}
}
