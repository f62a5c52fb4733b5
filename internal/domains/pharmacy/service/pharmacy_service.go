package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medlink-backend/internal/domains/pharmacy"
	"medlink-backend/internal/domains/pharmacy/ai"
	"medlink-backend/internal/shared/httperror"
)

// ProfileStatus wraps the profile for the status endpoint so the client
// can tell "no profile yet" apart from an error.
type ProfileStatus struct {
	HasCompleteProfile bool               `json:"has_complete_profile"`
	Profile            *pharmacy.Pharmacy `json:"profile,omitempty"`
}

type ServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileStatus, error)
	SetProfile(ctx context.Context, userID uuid.UUID, req *pharmacy.UpsertProfileRequest) (*pharmacy.Pharmacy, error)
	Find(ctx context.Context, req *pharmacy.FindPharmaciesRequest) ([]pharmacy.Pharmacy, error)
	GetPharmacy(ctx context.Context, id uuid.UUID) (*pharmacy.Pharmacy, error)

	AddMedicine(ctx context.Context, userID uuid.UUID, req *pharmacy.MedicineRequest) (*pharmacy.Medicine, error)
	UpdateMedicine(ctx context.Context, userID, medicineID uuid.UUID, req *pharmacy.MedicineRequest) (*pharmacy.Medicine, error)
	DeleteMedicines(ctx context.Context, userID uuid.UUID, medicineIDs []uuid.UUID) (int64, error)
	GetMedicines(ctx context.Context, pharmacyID uuid.UUID, count, page int) ([]pharmacy.Medicine, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*pharmacy.Medicine, error)
	SearchMedicines(ctx context.Context, req *pharmacy.SearchMedicinesRequest) ([]pharmacy.Medicine, error)
	SuggestMedicines(ctx context.Context, description string) []string
}

type PharmacyService struct {
	repository pharmacy.Repository
	lookup     ai.Lookup
}

func NewPharmacyService(repository pharmacy.Repository, lookup ai.Lookup) ServiceInterface {
	return &PharmacyService{
		repository: repository,
		lookup:     lookup,
	}
}

// ===== PROFILE =====

func (s *PharmacyService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileStatus, error) {
	profile, err := s.repository.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pharmacy.ErrProfileNotFound) {
			return &ProfileStatus{HasCompleteProfile: false}, nil
		}
		return nil, err
	}
	return &ProfileStatus{HasCompleteProfile: true, Profile: profile}, nil
}

func (s *PharmacyService) SetProfile(ctx context.Context, userID uuid.UUID, req *pharmacy.UpsertProfileRequest) (*pharmacy.Pharmacy, error) {
	p, err := req.ToModel(userID, time.Now())
	if err != nil {
		return nil, httperror.BadRequest(err.Error())
	}

	if err := s.repository.UpsertProfile(ctx, p); err != nil {
		if errors.Is(err, pharmacy.ErrLicenseConflict) {
			return nil, httperror.Conflict(
				"License number or pharmacy name is already registered.",
				httperror.CodeInvalidInput, "license_number")
		}
		return nil, err
	}

	// read back so verification state and aggregates reflect the row
	return s.repository.GetProfileByUserID(ctx, userID)
}

// ===== DISCOVERY =====

func (s *PharmacyService) Find(ctx context.Context, req *pharmacy.FindPharmaciesRequest) ([]pharmacy.Pharmacy, error) {
	return s.repository.Find(ctx, req.ToFilter())
}

func (s *PharmacyService) GetPharmacy(ctx context.Context, id uuid.UUID) (*pharmacy.Pharmacy, error) {
	p, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pharmacy.ErrPharmacyNotFound) {
			return nil, httperror.NotFound("Pharmacy could not be found.")
		}
		return nil, err
	}
	return p, nil
}

// ===== MEDICINES =====

// ownPharmacy resolves the caller's pharmacy profile. Catalog writes
// require a completed profile.
func (s *PharmacyService) ownPharmacy(ctx context.Context, userID uuid.UUID) (*pharmacy.Pharmacy, error) {
	p, err := s.repository.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pharmacy.ErrProfileNotFound) {
			return nil, httperror.BadRequest("Complete your pharmacy profile first.")
		}
		return nil, err
	}
	return p, nil
}

func (s *PharmacyService) AddMedicine(ctx context.Context, userID uuid.UUID, req *pharmacy.MedicineRequest) (*pharmacy.Medicine, error) {
	p, err := s.ownPharmacy(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := req.ToModel(uuid.New(), p.ID, time.Now())
	if err := s.repository.AddMedicine(ctx, m); err != nil {
		return nil, err
	}
	m.PharmacyName = p.PharmacyName
	return m, nil
}

func (s *PharmacyService) UpdateMedicine(ctx context.Context, userID, medicineID uuid.UUID, req *pharmacy.MedicineRequest) (*pharmacy.Medicine, error) {
	p, err := s.ownPharmacy(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := req.ToModel(medicineID, p.ID, time.Now())
	if err := s.repository.UpdateMedicine(ctx, p.ID, m); err != nil {
		if errors.Is(err, pharmacy.ErrMedicineNotFound) {
			return nil, httperror.NotFound("Medicine could not be found.")
		}
		return nil, err
	}
	m.PharmacyName = p.PharmacyName
	return m, nil
}

func (s *PharmacyService) DeleteMedicines(ctx context.Context, userID uuid.UUID, medicineIDs []uuid.UUID) (int64, error) {
	p, err := s.ownPharmacy(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(medicineIDs) == 0 {
		return 0, httperror.BadRequest("No medicine ids given.")
	}
	return s.repository.DeleteMedicines(ctx, p.ID, medicineIDs)
}

func (s *PharmacyService) GetMedicines(ctx context.Context, pharmacyID uuid.UUID, count, page int) ([]pharmacy.Medicine, error) {
	if count <= 0 || count > 50 {
		count = pharmacy.PageSize
	}
	if page <= 0 {
		page = 1
	}
	return s.repository.GetMedicines(ctx, pharmacyID, count, page)
}

func (s *PharmacyService) GetMedicine(ctx context.Context, id uuid.UUID) (*pharmacy.Medicine, error) {
	m, err := s.repository.GetMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, pharmacy.ErrMedicineNotFound) {
			return nil, httperror.NotFound("Medicine could not be found.")
		}
		return nil, err
	}
	return m, nil
}

func (s *PharmacyService) SearchMedicines(ctx context.Context, req *pharmacy.SearchMedicinesRequest) ([]pharmacy.Medicine, error) {
	return s.repository.SearchMedicines(ctx, req.ToFilter())
}

// SuggestMedicines is best effort. An unavailable or misbehaving AI
// backend yields an empty list.
func (s *PharmacyService) SuggestMedicines(ctx context.Context, description string) []string {
	names := s.lookup.GetMedicines(ctx, description)
	if names == nil {
		return []string{}
	}
	return names
}
