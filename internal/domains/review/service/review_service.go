package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medlink-backend/internal/domains/pharmacy"
	"medlink-backend/internal/domains/review"
	"medlink-backend/internal/shared/httperror"
)

type ServiceInterface interface {
	// WriteReview inserts or, when the user already reviewed the
	// pharmacy, edits in place. The pharmacy rating aggregate moves with
	// the review in the same transaction.
	WriteReview(ctx context.Context, userID uuid.UUID, req *review.WriteReviewRequest) (*review.Review, error)

	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	ListReviews(ctx context.Context, userID uuid.UUID, req *review.ListReviewsRequest) ([]review.Review, error)

	WriteMedicineReview(ctx context.Context, userID uuid.UUID, req *review.WriteMedicineReviewRequest) (*review.MedicineReview, error)
	ListMedicineReviews(ctx context.Context, userID uuid.UUID, req *review.ListMedicineReviewsRequest) ([]review.MedicineReview, error)
	DeleteMedicineReviews(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (int64, error)
}

type ReviewService struct {
	repository review.Repository
	pharmacies pharmacy.Repository
}

func NewReviewService(repository review.Repository, pharmacies pharmacy.Repository) ServiceInterface {
	return &ReviewService{
		repository: repository,
		pharmacies: pharmacies,
	}
}

func (s *ReviewService) WriteReview(ctx context.Context, userID uuid.UUID, req *review.WriteReviewRequest) (*review.Review, error) {
	// the aggregate must never see an out-of-range rate, whatever the
	// boundary let through
	if req.Rate < 1 || req.Rate > 5 {
		return nil, httperror.BadRequestField("Rate must be between 1 and 5.", "rate")
	}

	if _, err := s.pharmacies.GetByID(ctx, req.PharmacyID); err != nil {
		if errors.Is(err, pharmacy.ErrPharmacyNotFound) {
			return nil, httperror.NotFound("Pharmacy could not be found.")
		}
		return nil, err
	}

	now := time.Now()
	existing, err := s.repository.FindByUserAndPharmacy(ctx, userID, req.PharmacyID)
	switch {
	case err == nil:
		existing.Rate = req.Rate
		existing.Content = req.Content
		existing.UpdatedAt = now
		if err := s.repository.UpdateWithAggregate(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil

	case errors.Is(err, review.ErrReviewNotFound):
		rev := &review.Review{
			ID:         uuid.New(),
			UserID:     userID,
			PharmacyID: req.PharmacyID,
			Rate:       req.Rate,
			Content:    req.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err := s.repository.CreateWithAggregate(ctx, rev)
		if errors.Is(err, review.ErrReviewExists) {
			// lost the insert race, fall back to an edit
			if err := s.repository.UpdateWithAggregate(ctx, rev); err != nil {
				return nil, err
			}
			return s.repository.FindByUserAndPharmacy(ctx, userID, req.PharmacyID)
		}
		if err != nil {
			return nil, err
		}
		return rev, nil

	default:
		return nil, err
	}
}

func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	err := s.repository.DeleteWithAggregate(ctx, userID, reviewID)
	if errors.Is(err, review.ErrReviewNotFound) {
		return httperror.NotFound("Review could not be found.")
	}
	return err
}

func (s *ReviewService) ListReviews(ctx context.Context, userID uuid.UUID, req *review.ListReviewsRequest) ([]review.Review, error) {
	count, page := normalizePage(req.Count, req.Page)
	var filterUser *uuid.UUID
	if req.My {
		filterUser = &userID
	}
	return s.repository.ListByPharmacy(ctx, req.PharmacyID, filterUser, count, page)
}

func (s *ReviewService) WriteMedicineReview(ctx context.Context, userID uuid.UUID, req *review.WriteMedicineReviewRequest) (*review.MedicineReview, error) {
	if _, err := s.pharmacies.GetMedicine(ctx, req.MedicineID); err != nil {
		if errors.Is(err, pharmacy.ErrMedicineNotFound) {
			return nil, httperror.NotFound("Medicine could not be found.")
		}
		return nil, err
	}

	rev := &review.MedicineReview{
		ID:         uuid.New(),
		UserID:     userID,
		MedicineID: req.MedicineID,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}
	if err := s.repository.CreateMedicineReview(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *ReviewService) ListMedicineReviews(ctx context.Context, userID uuid.UUID, req *review.ListMedicineReviewsRequest) ([]review.MedicineReview, error) {
	count, page := normalizePage(req.Count, req.Page)
	var filterUser *uuid.UUID
	if req.My {
		filterUser = &userID
	}
	return s.repository.ListByMedicine(ctx, req.MedicineID, filterUser, count, page)
}

func (s *ReviewService) DeleteMedicineReviews(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (int64, error) {
	if len(reviewIDs) == 0 {
		return 0, httperror.BadRequestField("At least one review id is required.", "ids")
	}
	return s.repository.DeleteMedicineReviews(ctx, userID, reviewIDs)
}

func normalizePage(count, page int) (int, int) {
	if count <= 0 || count > 10 {
		count = review.DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return count, page
}
