package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medlink-backend/internal/domains/customer"
	"medlink-backend/internal/domains/pharmacy"
	"medlink-backend/internal/shared/httperror"
)

type ProfileStatus struct {
	HasCompleteProfile bool               `json:"has_complete_profile"`
	Profile            *customer.Customer `json:"profile,omitempty"`
}

type ServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileStatus, error)
	SetProfile(ctx context.Context, userID uuid.UUID, req *customer.UpsertProfileRequest) (*customer.Customer, error)

	// Recommendations lists in-stock medicines matching the customer's
	// health conditions.
	Recommendations(ctx context.Context, userID uuid.UUID, count, page int) ([]pharmacy.Medicine, error)
}

type CustomerService struct {
	repository customer.Repository
	pharmacies pharmacy.Repository
}

func NewCustomerService(repository customer.Repository, pharmacies pharmacy.Repository) ServiceInterface {
	return &CustomerService{
		repository: repository,
		pharmacies: pharmacies,
	}
}

func (s *CustomerService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileStatus, error) {
	profile, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, customer.ErrProfileNotFound) {
			return &ProfileStatus{HasCompleteProfile: false}, nil
		}
		return nil, err
	}
	return &ProfileStatus{HasCompleteProfile: true, Profile: profile}, nil
}

func (s *CustomerService) SetProfile(ctx context.Context, userID uuid.UUID, req *customer.UpsertProfileRequest) (*customer.Customer, error) {
	c := req.ToModel(userID, time.Now())
	if err := s.repository.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return s.repository.GetByUserID(ctx, userID)
}

func (s *CustomerService) Recommendations(ctx context.Context, userID uuid.UUID, count, page int) ([]pharmacy.Medicine, error) {
	profile, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, customer.ErrProfileNotFound) {
			return nil, httperror.BadRequest("Complete your profile to get recommendations.")
		}
		return nil, err
	}
	if len(profile.HealthConditions) == 0 {
		return []pharmacy.Medicine{}, nil
	}

	if count <= 0 || count > 50 {
		count = pharmacy.PageSize
	}
	if page <= 0 {
		page = 1
	}
	return s.pharmacies.RecommendMedicines(ctx, profile.HealthConditions, count, page)
}
