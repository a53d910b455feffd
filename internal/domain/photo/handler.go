package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/middleware"
	"github.com/voyago/voyago-api/internal/pkg/imaging"
	"github.com/voyago/voyago-api/internal/pkg/response"
)

// Handler handles photo HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates photo handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /listings/{listingID}/photos
// @Summary Upload a listing photo
// @Description Multipart upload. The first photo becomes the listing cover.
// @Tags Photos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param listingID path string true "Listing ID"
// @Param file formData file true "Image file (jpg, png, gif, webp; max 10MB)"
// @Success 201 {object} response.Response{data=Photo}
// @Failure 400,401,403,404,409,422,500 {object} response.Response
// @Router /listings/{listingID}/photos [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file field")
		return
	}
	defer file.Close()

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Upload(r.Context(), userID, listingID, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFileType):
			response.UnprocessableEntity(w, "VALIDATION_ERROR", "File must be a jpg, png, gif or webp image")
		case errors.Is(err, ErrFileTooLarge):
			response.UnprocessableEntity(w, "VALIDATION_ERROR", "File exceeds the 10MB limit")
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrNotPhotoOwner):
			response.Forbidden(w, "You can only upload photos to your own listings")
		case errors.Is(err, ErrPhotoLimitReached):
			response.Conflict(w, "CONFLICT", "Photo limit reached for this listing")
		default:
			log.Error().Err(err).Str("listing_id", listingID.String()).Msg("photo upload failed")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, p)
}

// List handles GET /listings/{listingID}/photos
// @Summary List listing photos
// @Tags Photos
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} response.Response{data=[]Photo}
// @Failure 400,500 {object} response.Response
// @Router /listings/{listingID}/photos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	photos, err := h.service.List(r.Context(), listingID)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID.String()).Msg("failed to list photos")
		response.InternalError(w)
		return
	}

	response.OK(w, photos)
}

// SetCover handles PATCH /listings/{listingID}/photos/{photoID}/cover
// @Summary Set listing cover photo
// @Tags Photos
// @Produce json
// @Security BearerAuth
// @Param listingID path string true "Listing ID"
// @Param photoID path string true "Photo ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,403,404,500 {object} response.Response
// @Router /listings/{listingID}/photos/{photoID}/cover [patch]
func (h *Handler) SetCover(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.SetCover(r.Context(), userID, photoID); err != nil {
		writePhotoError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /listings/{listingID}/photos/{photoID}
// @Summary Delete a listing photo
// @Tags Photos
// @Produce json
// @Security BearerAuth
// @Param listingID path string true "Listing ID"
// @Param photoID path string true "Photo ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,403,404,500 {object} response.Response
// @Router /listings/{listingID}/photos/{photoID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), userID, photoID); err != nil {
		writePhotoError(w, err)
		return
	}

	response.NoContent(w)
}

func writePhotoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPhotoNotFound):
		response.NotFound(w, "Photo not found")
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotPhotoOwner):
		response.Forbidden(w, "You can only manage photos of your own listings")
	default:
		log.Error().Err(err).Msg("photo operation failed")
		response.InternalError(w)
	}
}
