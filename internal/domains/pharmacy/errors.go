package pharmacy

import "errors"

var (
	ErrProfileNotFound  = errors.New("pharmacy profile not found")
	ErrPharmacyNotFound = errors.New("pharmacy not found")
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrLicenseConflict  = errors.New("license number or pharmacy name already taken")
)
