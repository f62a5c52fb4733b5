package customer

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"medlink-backend/internal/domains/pharmacy"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type EmergencyContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Customer struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               uuid.UUID        `json:"user_id"`
	PhoneNumber          string           `json:"phone_number"`
	AlternatePhoneNumber string           `json:"alternate_phone_number,omitempty"`
	DateOfBirth          *time.Time       `json:"date_of_birth,omitempty"`
	DeliveryAddress      Address          `json:"delivery_address"`
	EmergencyContact     EmergencyContact `json:"emergency_contact"`
	HealthConditions     []string         `json:"health_conditions,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type UpsertProfileRequest struct {
	PhoneNumber          string           `json:"phone_number"`
	AlternatePhoneNumber string           `json:"alternate_phone_number"`
	DateOfBirth          *time.Time       `json:"date_of_birth"`
	DeliveryAddress      Address          `json:"delivery_address"`
	EmergencyContact     EmergencyContact `json:"emergency_contact"`
	HealthConditions     []string         `json:"health_conditions"`
}

func (r UpsertProfileRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.PhoneNumber, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.DateOfBirth, validation.By(func(value interface{}) error {
			dob, _ := value.(*time.Time)
			if dob != nil && dob.After(time.Now()) {
				return validation.NewError("validation_dob", "date of birth is in the future")
			}
			return nil
		})),
		validation.Field(&r.HealthConditions, validation.By(func(value interface{}) error {
			conditions, _ := value.([]string)
			for _, c := range conditions {
				if !pharmacy.ValidHealthCondition(c) {
					return validation.NewError("validation_health_condition", "unknown health condition")
				}
			}
			return nil
		})),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&r.DeliveryAddress,
		validation.Field(&r.DeliveryAddress.Street, validation.Required),
		validation.Field(&r.DeliveryAddress.City, validation.Required),
		validation.Field(&r.DeliveryAddress.State, validation.Required),
		validation.Field(&r.DeliveryAddress.ZipCode, validation.Required),
	)
}

func (r UpsertProfileRequest) ToModel(userID uuid.UUID, now time.Time) *Customer {
	return &Customer{
		ID:                   uuid.New(),
		UserID:               userID,
		PhoneNumber:          r.PhoneNumber,
		AlternatePhoneNumber: r.AlternatePhoneNumber,
		DateOfBirth:          r.DateOfBirth,
		DeliveryAddress:      r.DeliveryAddress,
		EmergencyContact:     r.EmergencyContact,
		HealthConditions:     r.HealthConditions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
