package photo

import "errors"

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrNotPhotoOwner     = errors.New("you can only manage photos of your own listings")
	ErrListingNotFound   = errors.New("listing not found")
	ErrPhotoLimitReached = errors.New("photo limit reached for this listing")
	ErrInvalidFileType   = errors.New("file must be a jpg, png, gif or webp image")
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
)
