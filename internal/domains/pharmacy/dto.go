package pharmacy

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== PROFILE =====

type OpenHourInput struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

func (o OpenHourInput) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Day, validation.Required, validation.By(dayRule)),
		validation.Field(&o.Open, validation.Required, validation.By(clockRule)),
		validation.Field(&o.Close, validation.Required, validation.By(clockRule)),
	)
}

func dayRule(value interface{}) error {
	if day, _ := value.(string); !ValidDay(day) {
		return validation.NewError("validation_day", "day must be one of Mon..Sun")
	}
	return nil
}

func clockRule(value interface{}) error {
	s, _ := value.(string)
	if _, err := ParseClock(s); err != nil {
		return validation.NewError("validation_clock", "time must be HH:MM")
	}
	return nil
}

type UpsertProfileRequest struct {
	LicenseNumber string          `json:"license_number"`
	PharmacyName  string          `json:"pharmacy_name"`
	Description   string          `json:"description"`
	PhoneNumber   string          `json:"phone_number"`
	Address       Address         `json:"address"`
	Location      Location        `json:"location"`
	OpenHours     []OpenHourInput `json:"open_hours"`
	Website       string          `json:"website"`
	PersonName    string          `json:"person_name"`
	Delivery      bool            `json:"delivery"`
}

func (r UpsertProfileRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.LicenseNumber, validation.Required, validation.Length(3, 64)),
		validation.Field(&r.PharmacyName, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.PhoneNumber, validation.Required, validation.Length(6, 20)),
		validation.Field(&r.OpenHours, validation.Required),
		validation.Field(&r.Location, validation.By(locationRule)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&r.Address,
		validation.Field(&r.Address.Street, validation.Required),
		validation.Field(&r.Address.City, validation.Required),
		validation.Field(&r.Address.State, validation.Required),
		validation.Field(&r.Address.ZipCode, validation.Required),
	); err != nil {
		return err
	}
	for _, h := range r.OpenHours {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func locationRule(value interface{}) error {
	loc, _ := value.(Location)
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		return validation.NewError("validation_location", "invalid coordinates")
	}
	return nil
}

// ToModel builds the profile entity. Clock strings were validated, so a
// parse failure here is a programming error and reported as such.
func (r UpsertProfileRequest) ToModel(userID uuid.UUID, now time.Time) (*Pharmacy, error) {
	hours := make([]OpenHour, 0, len(r.OpenHours))
	for _, h := range r.OpenHours {
		open, err := ParseClock(h.Open)
		if err != nil {
			return nil, err
		}
		close, err := ParseClock(h.Close)
		if err != nil {
			return nil, err
		}
		hours = append(hours, OpenHour{Day: h.Day, Open: open, Close: close})
	}
	return &Pharmacy{
		ID:            uuid.New(),
		UserID:        userID,
		LicenseNumber: r.LicenseNumber,
		PharmacyName:  r.PharmacyName,
		Description:   r.Description,
		PhoneNumber:   r.PhoneNumber,
		Address:       r.Address,
		Location:      r.Location,
		OpenHours:     hours,
		Website:       r.Website,
		PersonName:    r.PersonName,
		Delivery:      r.Delivery,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ===== DISCOVERY =====

type FindLocationInput struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance"`
}

type FindOpenHourInput struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type FindPharmaciesRequest struct {
	Name     string             `json:"name"`
	Address  string             `json:"address"`
	Location *FindLocationInput `json:"location"`
	OpenHour *FindOpenHourInput `json:"open_hour"`
	Delivery *bool              `json:"delivery"`
	Rating   *float64           `json:"rating"`
	Next     int                `json:"next"`
}

func (r FindPharmaciesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Next, validation.Min(0)),
		validation.Field(&r.Rating, validation.Min(1.0), validation.Max(5.0)),
		validation.Field(&r.Location, validation.By(func(value interface{}) error {
			loc, _ := value.(*FindLocationInput)
			if loc == nil {
				return nil
			}
			if loc.Distance <= 0 {
				return validation.NewError("validation_distance", "distance must be positive meters")
			}
			return locationRule(Location{Lat: loc.Lat, Lng: loc.Lng})
		})),
		validation.Field(&r.OpenHour, validation.By(func(value interface{}) error {
			oh, _ := value.(*FindOpenHourInput)
			if oh == nil {
				return nil
			}
			if !ValidDay(oh.Day) {
				return validation.NewError("validation_day", "day must be one of Mon..Sun")
			}
			for _, s := range []string{oh.Open, oh.Close} {
				if s == "" {
					continue
				}
				if _, err := ParseClock(s); err != nil {
					return validation.NewError("validation_clock", "time must be HH:MM")
				}
			}
			return nil
		})),
	)
}

// ToFilter converts the request into the repository filter.
func (r FindPharmaciesRequest) ToFilter() Filter {
	f := Filter{
		Name:      r.Name,
		Address:   r.Address,
		Delivery:  r.Delivery,
		MinRating: r.Rating,
		Next:      r.Next,
	}
	if r.Location != nil {
		f.Location = &LocationFilter{
			Lat:      r.Location.Lat,
			Lng:      r.Location.Lng,
			Distance: r.Location.Distance,
		}
	}
	if r.OpenHour != nil {
		oh := &OpenHourFilter{Day: r.OpenHour.Day, Open: -1, Close: -1}
		if r.OpenHour.Open != "" {
			oh.Open, _ = ParseClock(r.OpenHour.Open)
		}
		if r.OpenHour.Close != "" {
			oh.Close, _ = ParseClock(r.OpenHour.Close)
		}
		f.OpenHour = oh
	}
	return f
}

// ===== MEDICINES =====

type MedicineRequest struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Dosage               string          `json:"dosage"`
	Form                 MedicineForm    `json:"form"`
	Category             string          `json:"category"`
	Quantity             int             `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	BatchNumber          string          `json:"batch_number"`
	ManufacturedDate     time.Time       `json:"manufactured_date"`
	ExpiryDate           time.Time       `json:"expiry_date"`
	PrescriptionRequired *bool           `json:"prescription_required"`
	Manufacturer         string          `json:"manufacturer"`
	StorageInstructions  string          `json:"storage_instructions"`
	StockThreshold       int             `json:"stock_threshold"`
	HealthConditions     []string        `json:"health_conditions"`
}

func (r MedicineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Dosage, validation.Required),
		validation.Field(&r.Form, validation.Required, validation.By(func(value interface{}) error {
			if f, _ := value.(MedicineForm); !f.Valid() {
				return validation.NewError("validation_form", "unknown medicine form")
			}
			return nil
		})),
		validation.Field(&r.Category, validation.By(func(value interface{}) error {
			if c, _ := value.(string); c != "" && !ValidCategory(c) {
				return validation.NewError("validation_category", "unknown medicine category")
			}
			return nil
		})),
		validation.Field(&r.Quantity, validation.Min(1)),
		validation.Field(&r.Price, validation.By(func(value interface{}) error {
			if p, _ := value.(decimal.Decimal); p.LessThanOrEqual(decimal.Zero) {
				return validation.NewError("validation_price", "price must be positive")
			}
			return nil
		})),
		validation.Field(&r.ManufacturedDate, validation.Required),
		validation.Field(&r.ExpiryDate, validation.Required, validation.By(func(interface{}) error {
			if !r.ExpiryDate.After(r.ManufacturedDate) {
				return validation.NewError("validation_expiry", "expiry date must be after manufactured date")
			}
			return nil
		})),
		validation.Field(&r.PrescriptionRequired, validation.NotNil),
		validation.Field(&r.StockThreshold, validation.Min(0)),
		validation.Field(&r.HealthConditions, validation.By(healthConditionsRule)),
	)
}

func healthConditionsRule(value interface{}) error {
	conditions, _ := value.([]string)
	for _, c := range conditions {
		if !ValidHealthCondition(c) {
			return validation.NewError("validation_health_condition", "unknown health condition")
		}
	}
	return nil
}

func (r MedicineRequest) ToModel(id, pharmacyID uuid.UUID, now time.Time) *Medicine {
	return &Medicine{
		ID:                   id,
		PharmacyID:           pharmacyID,
		Name:                 r.Name,
		Description:          r.Description,
		Dosage:               r.Dosage,
		Form:                 r.Form,
		Category:             r.Category,
		Quantity:             r.Quantity,
		Price:                r.Price,
		BatchNumber:          r.BatchNumber,
		ManufacturedDate:     r.ManufacturedDate,
		ExpiryDate:           r.ExpiryDate,
		PrescriptionRequired: r.PrescriptionRequired != nil && *r.PrescriptionRequired,
		Manufacturer:         r.Manufacturer,
		StorageInstructions:  r.StorageInstructions,
		StockThreshold:       r.StockThreshold,
		HealthConditions:     r.HealthConditions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

type PriceRangeInput struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

type SearchMedicinesRequest struct {
	PharmacyID           *uuid.UUID       `json:"pharmacy_id"`
	Name                 string           `json:"name"`
	Category             string           `json:"category"`
	Form                 MedicineForm     `json:"form"`
	Dosage               string           `json:"dosage"`
	PriceRange           *PriceRangeInput `json:"price_range"`
	Availability         Availability     `json:"availability"`
	PrescriptionRequired *bool            `json:"prescription_required"`
	Manufacturer         string           `json:"manufacturer"`
	Next                 int              `json:"next"`
}

func (r SearchMedicinesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Next, validation.Min(0)),
		validation.Field(&r.Form, validation.By(func(value interface{}) error {
			if f, _ := value.(MedicineForm); f != "" && !f.Valid() {
				return validation.NewError("validation_form", "unknown medicine form")
			}
			return nil
		})),
		validation.Field(&r.Availability, validation.By(func(value interface{}) error {
			if a, _ := value.(Availability); a != "" && !a.Valid() {
				return validation.NewError("validation_availability", "unknown availability")
			}
			return nil
		})),
	)
}

func (r SearchMedicinesRequest) ToFilter() MedicineFilter {
	f := MedicineFilter{
		PharmacyID:           r.PharmacyID,
		Name:                 r.Name,
		Category:             r.Category,
		Form:                 r.Form,
		Dosage:               r.Dosage,
		Availability:         r.Availability,
		PrescriptionRequired: r.PrescriptionRequired,
		Manufacturer:         r.Manufacturer,
		Next:                 r.Next,
	}
	if r.PriceRange != nil {
		f.PriceRange = &PriceRange{Min: r.PriceRange.Min, Max: r.PriceRange.Max}
	}
	return f
}
