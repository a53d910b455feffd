package review

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/middleware"
	"github.com/voyago/voyago-api/internal/pkg/response"
	"github.com/voyago/voyago-api/internal/pkg/validator"
)

// Handler handles review HTTP requests.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new review handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /listings/{listingID}/reviews
// @Summary Review a listing
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listingID path string true "Listing ID"
// @Param request body CreateRequest true "Review data"
// @Success 201 {object} response.Response{data=ReviewResponse}
// @Failure 400,401,404,409,422,500 {object} response.Response
// @Router /listings/{listingID}/reviews [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())

	review := &Review{
		ID:         uuid.New(),
		ListingID:  listingID,
		ReviewerID: userID,
		Rating:     req.Rating,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if req.Comment != "" {
		review.Comment = sql.NullString{String: req.Comment, Valid: true}
	}

	if err := h.repo.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, "CONFLICT", "You already reviewed this listing")
		case errors.Is(err, ErrListingMissing):
			response.NotFound(w, "Listing not found")
		default:
			log.Error().Err(err).Str("listing_id", listingID.String()).Msg("failed to create review")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, review.ToResponse())
}

// ListByListing handles GET /listings/{listingID}/reviews
// @Summary List reviews for a listing
// @Tags Reviews
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=[]ReviewResponse}
// @Failure 400,500 {object} response.Response
// @Router /listings/{listingID}/reviews [get]
func (h *Handler) ListByListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	offset := (page - 1) * limit
	reviews, err := h.repo.GetByListingID(r.Context(), listingID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID.String()).Msg("failed to list reviews")
		response.InternalError(w)
		return
	}

	total, err := h.repo.CountByListingID(r.Context(), listingID)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].ToResponse())
	}

	response.WithMeta(w, out, response.NewMeta(total, page, limit))
}

// GetSummary handles GET /listings/{listingID}/reviews/summary
// @Summary Rating summary for a listing
// @Tags Reviews
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} response.Response{data=SummaryResponse}
// @Failure 400,500 {object} response.Response
// @Router /listings/{listingID}/reviews/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	avg, err := h.repo.GetAverageRating(r.Context(), listingID)
	if err != nil {
		response.InternalError(w)
		return
	}
	count, err := h.repo.CountByListingID(r.Context(), listingID)
	if err != nil {
		response.InternalError(w)
		return
	}
	dist, err := h.repo.GetRatingDistribution(r.Context(), listingID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, &SummaryResponse{
		ListingID:    listingID.String(),
		RatingAvg:    avg,
		ReviewsCount: count,
		Distribution: dist,
	})
}

// Delete handles DELETE /listings/{listingID}/reviews/{reviewID}
// @Summary Delete own review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param listingID path string true "Listing ID"
// @Param reviewID path string true "Review ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,403,404,500 {object} response.Response
// @Router /listings/{listingID}/reviews/{reviewID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	review, err := h.repo.GetByID(r.Context(), reviewID)
	if err != nil {
		response.InternalError(w)
		return
	}
	if review == nil {
		response.NotFound(w, "Review not found")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if review.ReviewerID != userID {
		response.Forbidden(w, "You can only delete your own reviews")
		return
	}

	if err := h.repo.Delete(r.Context(), reviewID, review.ListingID); err != nil {
		log.Error().Err(err).Str("review_id", reviewID.String()).Msg("failed to delete review")
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Routes returns review routes, mounted under /listings/{listingID}/reviews.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListByListing)
	r.Get("/summary", h.GetSummary)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Delete("/{reviewID}", h.Delete)
	})

	return r
}
