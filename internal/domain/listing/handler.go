package listing

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

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings
// @Summary Create a listing
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateListingRequest true "Listing data"
// @Success 201 {object} response.Response{data=ListingResponse}
// @Failure 400,401,422,500 {object} response.Response
// @Router /listings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	l, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		log.Error().
			Err(err).
			Str("host_id", userID.String()).
			Msg("failed to create listing")
		response.InternalError(w)
		return
	}

	response.Created(w, ListingResponseFromEntity(l))
}

// GetByID handles GET /listings/{id}
// @Summary Get listing by ID
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Response{data=ListingResponse}
// @Failure 400,404,500 {object} response.Response
// @Router /listings/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	l, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ListingResponseFromEntity(l))
}

// List handles GET /listings
// @Summary Search listings
// @Tags Listings
// @Produce json
// @Param q query string false "Full-text search across title, description, location"
// @Param location query string false "Location substring filter"
// @Param property_type query string false "Property type filter"
// @Param price_min query number false "Minimum nightly price"
// @Param price_max query number false "Maximum nightly price"
// @Param guests query int false "Minimum guest capacity"
// @Param ordering query string false "Ordering field: created_at, price_per_night, title (prefix with - for descending)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} response.Response{data=[]ListingResponse}
// @Failure 422,500 {object} response.Response
// @Router /listings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, verrs := parseFilter(r)
	if verrs != nil {
		response.ValidationError(w, verrs)
		return
	}

	ordering, err := ParseOrdering(r.URL.Query().Get("ordering"))
	if err != nil {
		response.UnprocessableEntity(w, "INVALID_ORDERING_FIELD", "Ordering field is not allowed")
		return
	}

	pagination := parsePagination(r)

	listings, total, err := h.service.List(r.Context(), filter, ordering, pagination)
	if err != nil {
		log.Error().Err(err).Msg("failed to list listings")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, ListingResponsesFromEntities(listings), response.NewMeta(total, pagination.Page, pagination.Limit))
}

// Available handles GET /listings/available
// @Summary Search listings free over a date range
// @Description Applies the same filters as the listing search, then excludes listings booked anywhere inside [start_date, end_date).
// @Tags Listings
// @Produce json
// @Param start_date query string true "Check-in date (YYYY-MM-DD)"
// @Param end_date query string true "Check-out date (YYYY-MM-DD)"
// @Param q query string false "Full-text search across title, description, location"
// @Param location query string false "Location substring filter"
// @Param property_type query string false "Property type filter"
// @Param price_min query number false "Minimum nightly price"
// @Param price_max query number false "Maximum nightly price"
// @Param guests query int false "Minimum guest capacity"
// @Param ordering query string false "Ordering field: created_at, price_per_night, title (prefix with - for descending)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]ListingResponse}
// @Failure 422,500 {object} response.Response
// @Router /listings/available [get]
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	filter, verrs := parseFilter(r)
	if verrs != nil {
		response.ValidationError(w, verrs)
		return
	}

	ordering, err := ParseOrdering(r.URL.Query().Get("ordering"))
	if err != nil {
		response.UnprocessableEntity(w, "INVALID_ORDERING_FIELD", "Ordering field is not allowed")
		return
	}

	pagination := parsePagination(r)

	q := r.URL.Query()
	listings, total, err := h.service.SearchAvailable(r.Context(), filter, q.Get("start_date"), q.Get("end_date"), ordering, pagination)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationError(w, verrs)
		case errors.Is(err, ErrInvalidDateRange):
			response.UnprocessableEntity(w, "INVALID_DATE_RANGE", "start_date must be before end_date")
		default:
			log.Error().Err(err).Msg("availability search failed")
			response.InternalError(w)
		}
		return
	}

	response.WithMeta(w, ListingResponsesFromEntities(listings), response.NewMeta(total, pagination.Page, pagination.Limit))
}

// ListMy handles GET /listings/my
// @Summary My listings
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]ListingResponse}
// @Failure 401,500 {object} response.Response
// @Router /listings/my [get]
func (h *Handler) ListMy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	pagination := parsePagination(r)

	listings, total, err := h.service.ListMy(r.Context(), userID, pagination)
	if err != nil {
		log.Error().Err(err).Str("host_id", userID.String()).Msg("failed to list own listings")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, ListingResponsesFromEntities(listings), response.NewMeta(total, pagination.Page, pagination.Limit))
}

// Update handles PUT /listings/{id}
// @Summary Update a listing
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body UpdateListingRequest true "Fields to update"
// @Success 200 {object} response.Response{data=ListingResponse}
// @Failure 400,401,403,404,422,500 {object} response.Response
// @Router /listings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	l, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrNotListingOwner):
			response.Forbidden(w, "You can only edit your own listings")
		default:
			log.Error().Err(err).Str("listing_id", id.String()).Msg("failed to update listing")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ListingResponseFromEntity(l))
}

// Delete handles DELETE /listings/{id}
// @Summary Delete a listing
// @Description Removes a listing. Fails with 409 while non-canceled bookings exist.
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,403,404,409,500 {object} response.Response
// @Router /listings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrNotListingOwner):
			response.Forbidden(w, "You can only delete your own listings")
		case errors.Is(err, ErrListingHasBookings):
			response.Conflict(w, "LISTING_HAS_BOOKINGS", "Listing has non-canceled bookings")
		default:
			log.Error().Err(err).Str("listing_id", id.String()).Msg("failed to delete listing")
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Availability handles GET /listings/{id}/availability
// @Summary Check listing availability
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Param start_date query string true "Check-in date (YYYY-MM-DD)"
// @Param end_date query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Response{data=AvailabilityResponse}
// @Failure 400,404,422,500 {object} response.Response
// @Router /listings/{id}/availability [get]
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	q := r.URL.Query()
	result, err := h.service.CheckAvailability(r.Context(), id, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationError(w, verrs)
		case errors.Is(err, ErrInvalidDateRange):
			response.UnprocessableEntity(w, "INVALID_DATE_RANGE", "start_date must be before end_date")
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		default:
			log.Error().Err(err).Str("listing_id", id.String()).Msg("availability check failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

func parseFilter(r *http.Request) (*Filter, ValidationErrors) {
	q := r.URL.Query()
	filter := &Filter{}
	errs := ValidationErrors{}

	if v := q.Get("q"); v != "" {
		filter.Query = &v
	}
	if v := q.Get("location"); v != "" {
		filter.Location = &v
	}
	if v := q.Get("property_type"); v != "" {
		pt := PropertyType(v)
		filter.PropertyType = &pt
	}
	if v := q.Get("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs["price_min"] = "price_min must be a number"
		} else {
			filter.PriceMin = &f
		}
	}
	if v := q.Get("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs["price_max"] = "price_max must be a number"
		} else {
			filter.PriceMax = &f
		}
	}
	if v := q.Get("guests"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs["guests"] = "guests must be a positive integer"
		} else {
			filter.Guests = &n
		}
	}
	if v := q.Get("is_available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs["is_available"] = "is_available must be true or false"
		} else {
			filter.Available = &b
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return filter, nil
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
