package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/voyago/voyago-api/internal/middleware"
)

// requireBearer stands in for the auth middleware: requests without an
// Authorization header get 401, like the real JWT middleware.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, uuid.Nil)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Chapa calls the verify URL server-to-server with no Bearer token, so the
// verify route must not sit behind the auth middleware.
func TestRoutesVerifyIsPublic(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Initiate(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("Initiate() error = %v", err)
	}

	router := NewHandler(f.svc).Routes(requireBearer)

	req := httptest.NewRequest(http.MethodGet, "/verify/"+p.TxRef, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code == http.StatusUnauthorized {
		t.Fatal("verify must be reachable without a token")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	got, err := f.svc.GetByBooking(context.Background(), f.guestID, f.booking.ID)
	if err != nil {
		t.Fatalf("GetByBooking() error = %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status after callback = %s, want completed", got.Status)
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)
	router := NewHandler(f.svc).Routes(requireBearer)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/initiate/" + f.booking.ID.String()},
		{http.MethodGet, "/booking/" + f.booking.ID.String()},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", tt.method, tt.target, rr.Code)
		}
	}
}
