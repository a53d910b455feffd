package review

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("listing already reviewed by this user")
	ErrListingMissing  = errors.New("listing does not exist")
	ErrNotReviewOwner  = errors.New("you can only delete your own reviews")
)
