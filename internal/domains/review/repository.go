package review

import (
	"context"

	"github.com/google/uuid"
)

// DefaultPageSize for review listings.
const DefaultPageSize = 3

// Repository persists reviews together with the pharmacy rating
// aggregate. Every write that changes a rate also applies the matching
// additive delta to (rating_sum, ratings_count) in the same transaction,
// so concurrent writers can never clobber each other's aggregate update.
type Repository interface {
	// FindByUserAndPharmacy returns ErrReviewNotFound when the pair has
	// no review yet.
	FindByUserAndPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID) (*Review, error)

	// CreateWithAggregate inserts the review and applies (+rate, +1).
	// ErrReviewExists when a concurrent insert won the unique constraint.
	CreateWithAggregate(ctx context.Context, r *Review) error

	// UpdateWithAggregate rewrites rate and content of the user's review
	// and applies (+rate-oldRate, 0) where oldRate is read inside the
	// transaction. ErrReviewNotFound when the pair has no review.
	UpdateWithAggregate(ctx context.Context, r *Review) error

	// DeleteWithAggregate removes the user's review by id and applies
	// (-rate, -1). ErrReviewNotFound when absent or owned by another user.
	DeleteWithAggregate(ctx context.Context, userID, reviewID uuid.UUID) error

	// ListByPharmacy returns one page, newest first, with the author's
	// full name joined. userID, when non-nil, narrows to that author.
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, userID *uuid.UUID, count, page int) ([]Review, error)

	CreateMedicineReview(ctx context.Context, r *MedicineReview) error
	ListByMedicine(ctx context.Context, medicineID uuid.UUID, userID *uuid.UUID, count, page int) ([]MedicineReview, error)
	DeleteMedicineReviews(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (int64, error)
}
