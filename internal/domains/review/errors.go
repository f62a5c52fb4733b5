package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this user and pharmacy")
)
