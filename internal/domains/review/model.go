package review

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	Rate       int       `json:"rate"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// joined for read endpoints
	UserFullName string `json:"user_full_name,omitempty"`
}

// MedicineReview is an append-only message; it feeds no aggregate.
type MedicineReview struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`

	UserFullName string `json:"user_full_name,omitempty"`
}

// ===== DTOs =====

type WriteReviewRequest struct {
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	Rate       int       `json:"rate"`
	Content    string    `json:"content"`
}

func (r WriteReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PharmacyID, validation.Required),
		validation.Field(&r.Rate,
			validation.Required,
			validation.Min(1).Error("rate must be between 1 and 5"),
			validation.Max(5).Error("rate must be between 1 and 5"),
		),
		validation.Field(&r.Content, validation.Length(10, 2000)),
	)
}

type ListReviewsRequest struct {
	PharmacyID uuid.UUID `json:"pharmacy_id" form:"pharmacy_id"`
	Count      int       `json:"count" form:"count"`
	Page       int       `json:"page" form:"page"`
	My         bool      `json:"my" form:"my"`
}

func (r ListReviewsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PharmacyID, validation.Required),
		validation.Field(&r.Count, validation.Min(0), validation.Max(10)),
		validation.Field(&r.Page, validation.Min(0)),
	)
}

type WriteMedicineReviewRequest struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Message    string    `json:"message"`
}

func (r WriteMedicineReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 2000)),
	)
}

type ListMedicineReviewsRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" form:"medicine_id"`
	Count      int       `json:"count" form:"count"`
	Page       int       `json:"page" form:"page"`
	My         bool      `json:"my" form:"my"`
}

func (r ListMedicineReviewsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required),
		validation.Field(&r.Count, validation.Min(0), validation.Max(10)),
		validation.Field(&r.Page, validation.Min(0)),
	)
}
