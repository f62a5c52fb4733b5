package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

// PageSize is the fixed page length for discovery and search endpoints.
const PageSize = 5

type Repository interface {
	// GetProfileByUserID returns ErrProfileNotFound when the pharmacist
	// has not filled a profile yet.
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*Pharmacy, error)

	// UpsertProfile creates or replaces the profile for p.UserID.
	// Verification state and rating aggregates are never touched by a
	// profile write. ErrLicenseConflict when license number or pharmacy
	// name is taken by another pharmacy.
	UpsertProfile(ctx context.Context, p *Pharmacy) error

	// GetByID returns ErrPharmacyNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Pharmacy, error)

	// Find returns one page of pharmacies matching the filter.
	Find(ctx context.Context, filter Filter) ([]Pharmacy, error)

	AddMedicine(ctx context.Context, m *Medicine) error

	// UpdateMedicine is scoped to the owning pharmacy.
	// ErrMedicineNotFound when the (pharmacy, medicine) pair is absent.
	UpdateMedicine(ctx context.Context, pharmacyID uuid.UUID, m *Medicine) error

	// DeleteMedicines removes the given medicines belonging to the
	// pharmacy and reports how many rows went away.
	DeleteMedicines(ctx context.Context, pharmacyID uuid.UUID, medicineIDs []uuid.UUID) (int64, error)

	GetMedicines(ctx context.Context, pharmacyID uuid.UUID, count, page int) ([]Medicine, error)

	// GetMedicine returns ErrMedicineNotFound when absent. The result
	// carries the owning pharmacy name.
	GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// SearchMedicines returns one page of the catalog matching the filter.
	SearchMedicines(ctx context.Context, filter MedicineFilter) ([]Medicine, error)

	// RecommendMedicines returns medicines tagged with any of the given
	// health conditions.
	RecommendMedicines(ctx context.Context, conditions []string, count, page int) ([]Medicine, error)
}
