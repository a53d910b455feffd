package payment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/middleware"
	"github.com/voyago/voyago-api/internal/pkg/response"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Initiate handles POST /payments/initiate/{bookingID}
// @Summary Start checkout for a booking
// @Description Returns the hosted checkout URL. Calling again while pending returns the same payment.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Success 201 {object} response.Response{data=PaymentResponse}
// @Failure 400,401,403,404,409,502 {object} response.Response
// @Router /payments/initiate/{bookingID} [post]
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Initiate(r.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrGuestNotFound):
			response.NotFound(w, "Guest account not found")
		case errors.Is(err, ErrNotBookingGuest):
			response.Forbidden(w, "Only the booking guest can pay")
		case errors.Is(err, ErrBookingCanceled):
			response.Conflict(w, "CONFLICT", "Canceled bookings cannot be paid")
		case errors.Is(err, ErrAlreadyCompleted):
			response.Conflict(w, "CONFLICT", "Payment already completed")
		case errors.Is(err, ErrGatewayRejected):
			log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("chapa initialize failed")
			response.Error(w, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway rejected the transaction")
		default:
			log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("payment initiate failed")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, p.ToResponse())
}

// Verify handles GET /payments/verify/{txRef}
// @Summary Verify a transaction
// @Description Reconciles the payment with the gateway by its tx_ref. Chapa calls this as the callback URL, so it is not behind auth.
// @Tags Payments
// @Produce json
// @Param txRef path string true "Transaction reference"
// @Success 200 {object} response.Response{data=PaymentResponse}
// @Failure 404,502 {object} response.Response
// @Router /payments/verify/{txRef} [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	txRef := chi.URLParam(r, "txRef")

	p, err := h.service.Verify(r.Context(), txRef)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, ErrGatewayRejected):
			log.Error().Err(err).Str("tx_ref", txRef).Msg("chapa verify failed")
			response.Error(w, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway verification failed")
		default:
			log.Error().Err(err).Str("tx_ref", txRef).Msg("payment verify failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, p.ToResponse())
}

// GetByBooking handles GET /payments/booking/{bookingID}
// @Summary Get payment for a booking
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} response.Response{data=PaymentResponse}
// @Failure 400,401,403,404 {object} response.Response
// @Router /payments/booking/{bookingID} [get]
func (h *Handler) GetByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.GetByBooking(r.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, ErrNotBookingGuest):
			response.Forbidden(w, "Not authorized to view this payment")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, p.ToResponse())
}
