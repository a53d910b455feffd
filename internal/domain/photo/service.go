package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voyago/voyago-api/internal/domain/listing"
	"github.com/voyago/voyago-api/internal/pkg/imaging"
	"github.com/voyago/voyago-api/internal/pkg/storage"
)

// PhotoLimitPerListing caps photos per listing
const PhotoLimitPerListing = 20

// Service handles photo business logic
type Service struct {
	repo        Repository
	listingRepo listing.Repository
	store       storage.Storage
	processor   *imaging.Processor
}

// NewService creates photo service
func NewService(repo Repository, listingRepo listing.Repository, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:        repo,
		listingRepo: listingRepo,
		store:       store,
		processor:   processor,
	}
}

// Upload processes and stores a listing photo. Host-only.
func (s *Service) Upload(ctx context.Context, userID, listingID uuid.UUID, filename string, size int64, reader io.Reader) (*Photo, error) {
	if !imaging.ValidateType(filename) {
		return nil, ErrInvalidFileType
	}
	if !imaging.ValidateSize(size, imaging.MaxFileSize) {
		return nil, ErrFileTooLarge
	}

	l, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrListingNotFound
	}
	if !l.IsOwnedBy(userID) {
		return nil, ErrNotPhotoOwner
	}

	count, err := s.repo.CountByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if count >= PhotoLimitPerListing {
		return nil, ErrPhotoLimitReached
	}

	processed, err := s.processor.Process(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	id := uuid.New()
	// Key by photo ID so concurrent uploads of the same filename never clash
	origKey, thumbKey := imaging.GeneratePaths(listingID.String(), id.String()+"_"+filename)

	if err := s.store.Put(ctx, origKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store original: %w", err)
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		// Best effort cleanup of the original
		_ = s.store.Delete(ctx, origKey)
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	p := &Photo{
		ID:           id,
		ListingID:    listingID,
		Key:          origKey,
		ThumbKey:     thumbKey,
		URL:          s.store.GetURL(origKey),
		ThumbURL:     s.store.GetURL(thumbKey),
		OriginalName: filename,
		MimeType:     processed.ContentType,
		SizeBytes:    int64(len(processed.Original)),
		Width:        processed.Width,
		Height:       processed.Height,
		IsCover:      count == 0, // first photo becomes cover
		SortOrder:    count,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.store.Delete(ctx, origKey)
		_ = s.store.Delete(ctx, thumbKey)
		return nil, err
	}

	return p, nil
}

// List returns photos of a listing
func (s *Service) List(ctx context.Context, listingID uuid.UUID) ([]Photo, error) {
	return s.repo.ListByListing(ctx, listingID)
}

// SetCover marks a photo as the listing cover. Host-only.
func (s *Service) SetCover(ctx context.Context, userID, photoID uuid.UUID) error {
	p, l, err := s.getOwned(ctx, userID, photoID)
	if err != nil {
		return err
	}
	return s.repo.SetCover(ctx, l.ID, p.ID)
}

// Delete removes a photo and its stored files. Host-only.
func (s *Service) Delete(ctx context.Context, userID, photoID uuid.UUID) error {
	p, _, err := s.getOwned(ctx, userID, photoID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return err
	}

	// Storage cleanup is best effort; orphaned objects are harmless
	if err := s.store.Delete(ctx, p.Key); err != nil {
		log.Warn().Err(err).Str("key", p.Key).Msg("failed to delete photo object")
	}
	if err := s.store.Delete(ctx, p.ThumbKey); err != nil {
		log.Warn().Err(err).Str("key", p.ThumbKey).Msg("failed to delete thumbnail object")
	}

	return nil
}

func (s *Service) getOwned(ctx context.Context, userID, photoID uuid.UUID) (*Photo, *listing.Listing, error) {
	p, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrPhotoNotFound
	}

	l, err := s.listingRepo.GetByID(ctx, p.ListingID)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, ErrListingNotFound
	}
	if !l.IsOwnedBy(userID) {
		return nil, nil, ErrNotPhotoOwner
	}

	return p, l, nil
}
