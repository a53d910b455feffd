package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/middleware"
	"github.com/voyago/voyago-api/internal/pkg/response"
	"github.com/voyago/voyago-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// writeServiceError maps domain errors onto the HTTP error taxonomy
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(w, verrs)
	case errors.Is(err, ErrInvalidDateRange):
		response.UnprocessableEntity(w, "INVALID_DATE_RANGE", "start_date must be before end_date")
	case errors.Is(err, ErrPastDate):
		response.UnprocessableEntity(w, "PAST_DATE", "start_date cannot be in the past")
	case errors.Is(err, ErrStayTooLong):
		response.UnprocessableEntity(w, "INVALID_DATE_RANGE", "Stay cannot exceed 365 nights")
	case errors.Is(err, ErrStayTooShort):
		response.UnprocessableEntity(w, "VALIDATION_ERROR", "Stay is shorter than the listing minimum")
	case errors.Is(err, ErrTooManyGuests):
		response.UnprocessableEntity(w, "VALIDATION_ERROR", "Guest count exceeds listing capacity")
	case errors.Is(err, ErrListingUnavailable):
		response.Conflict(w, "LISTING_UNAVAILABLE", "Listing is not available")
	case errors.Is(err, ErrDateConflict):
		response.Conflict(w, "DATE_CONFLICT", "Dates conflict with an existing booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "INVALID_TRANSITION", "Status transition is not allowed")
	case errors.Is(err, ErrNotPending):
		response.Conflict(w, "INVALID_TRANSITION", "Only pending bookings can be modified")
	case errors.Is(err, ErrOwnListing):
		response.Forbidden(w, "Hosts cannot book their own listing")
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, "Not authorized to act on this booking")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, "Listing not found")
	default:
		log.Error().Err(err).Msg("booking operation failed")
		response.InternalError(w)
	}
}

// Create handles POST /bookings
// @Summary Create a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} response.Response{data=BookingResponse}
// @Failure 400,401,403,409,422,500 {object} response.Response
// @Router /bookings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, BookingResponseFromEntity(b))
}

// GetByID handles GET /bookings/{id}
// @Summary Get booking by ID
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response{data=BookingResponse}
// @Failure 400,401,403,404,500 {object} response.Response
// @Router /bookings/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// List handles GET /bookings
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param scope query string false "my_bookings (default) or host_bookings"
// @Param status query string false "Status filter: pending, confirmed, canceled"
// @Param listing_id query string false "Filter by listing"
// @Param ordering query string false "Ordering field: created_at, start_date, end_date (prefix with - for descending)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]BookingResponse}
// @Failure 401,422,500 {object} response.Response
// @Router /bookings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope := ScopeMyBookings
	if v := q.Get("scope"); v != "" {
		switch Scope(v) {
		case ScopeMyBookings, ScopeHostBookings:
			scope = Scope(v)
		default:
			response.ValidationError(w, map[string]string{"scope": "scope must be my_bookings or host_bookings"})
			return
		}
	}

	filter := &Filter{}
	if v := q.Get("status"); v != "" {
		if !IsValidStatus(v) {
			response.ValidationError(w, map[string]string{"status": "status must be pending, confirmed or canceled"})
			return
		}
		st := Status(v)
		filter.Status = &st
	}
	if v := q.Get("listing_id"); v != "" {
		lid, err := uuid.Parse(v)
		if err != nil {
			response.ValidationError(w, map[string]string{"listing_id": "listing_id must be a valid UUID"})
			return
		}
		filter.ListingID = &lid
	}

	ordering, err := ParseOrdering(q.Get("ordering"))
	if err != nil {
		response.UnprocessableEntity(w, "INVALID_ORDERING_FIELD", "Ordering field is not allowed")
		return
	}

	pagination := parsePagination(r)
	userID := middleware.GetUserID(r.Context())

	bookings, total, err := h.service.List(r.Context(), userID, scope, filter, ordering, pagination)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list bookings")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, BookingResponsesFromEntities(bookings), response.NewMeta(total, pagination.Page, pagination.Limit))
}

// Update handles PUT /bookings/{id}
// @Summary Update a pending booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateBookingRequest true "Fields to update"
// @Success 200 {object} response.Response{data=BookingResponse}
// @Failure 400,401,403,404,409,422,500 {object} response.Response
// @Router /bookings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// UpdateStatus handles PATCH /bookings/{id}/status
// @Summary Transition booking status
// @Description Hosts confirm or cancel; guests cancel while pending.
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Response{data=BookingResponse}
// @Failure 400,401,403,404,409,422,500 {object} response.Response
// @Router /bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	b, err := h.service.UpdateStatus(r.Context(), userID, id, Status(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(b))
}

// Delete handles DELETE /bookings/{id}
// @Summary Delete a pending booking
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,403,404,409,500 {object} response.Response
// @Router /bookings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}

func parsePagination(r *http.Request) *Pagination {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	return &Pagination{Page: page, Limit: limit}
}
