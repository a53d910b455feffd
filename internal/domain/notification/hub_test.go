package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitRegistered(t *testing.T, h *Hub, userID uuid.UUID) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		_, ok := h.connections[userID]
		h.mu.RUnlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("connection was not registered in time")
}

func TestHubPushDeliversLocally(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Close()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	h.Register(conn)
	waitRegistered(t, h, userID)

	h.Push(context.Background(), userID, map[string]string{"title": "Booking confirmed"})

	select {
	case data := <-conn.Send:
		var payload map[string]string
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("unmarshal push: %v", err)
		}
		if payload["title"] != "Booking confirmed" {
			t.Errorf("payload = %v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no push received")
	}
}

func TestHubPushOtherUser(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Close()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	h.Register(conn)
	waitRegistered(t, h, userID)

	h.Push(context.Background(), uuid.New(), map[string]string{"title": "not yours"})

	select {
	case data := <-conn.Send:
		t.Fatalf("unexpected push: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Close()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 1)}
	h.Register(conn)
	waitRegistered(t, h, userID)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Push(context.Background(), userID, map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked on full send buffer")
	}
}

func TestHubUnregister(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Close()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	h.Register(conn)
	waitRegistered(t, h, userID)

	h.Unregister(conn)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		_, ok := h.connections[userID]
		h.mu.RUnlock()
		if !ok {
			// Send channel is closed on unregister
			if _, open := <-conn.Send; open {
				t.Error("Send channel still open after unregister")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("connection was not unregistered in time")
}
