package pharmacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MedicineForm string

const (
	FormTablet    MedicineForm = "tablet"
	FormSyrup     MedicineForm = "syrup"
	FormInjection MedicineForm = "injection"
	FormCream     MedicineForm = "cream"
)

var MedicineForms = []MedicineForm{FormTablet, FormSyrup, FormInjection, FormCream}

func (f MedicineForm) Valid() bool {
	for _, form := range MedicineForms {
		if f == form {
			return true
		}
	}
	return false
}

// MedicineCategories is the closed category list the catalog accepts.
var MedicineCategories = []string{
	"paracetamol", "ibuprofen", "amoxicillin", "azithromycin",
	"metformin", "atorvastatin", "omeprazole", "cetirizine",
	"cough syrup", "pain reliever", "antibiotic", "antacid",
	"antihistamine", "diabetes", "hypertension", "vitamin",
	"multivitamin", "cough suppressant", "fever reducer",
	"antiseptic", "anti-inflammatory", "antifungal",
}

func ValidCategory(category string) bool {
	for _, c := range MedicineCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Availability string

const (
	InStock    Availability = "in_stock"
	LowStock   Availability = "low_stock"
	OutOfStock Availability = "out_of_stock"
)

func (a Availability) Valid() bool {
	return a == InStock || a == LowStock || a == OutOfStock
}

// HealthConditions a medicine can be recommended for. Shared with the
// customer profile.
var HealthConditions = []string{"diabetes", "hypertension", "pregnancy"}

func ValidHealthCondition(condition string) bool {
	for _, c := range HealthConditions {
		if c == condition {
			return true
		}
	}
	return false
}

type Medicine struct {
	ID                   uuid.UUID       `json:"id"`
	PharmacyID           uuid.UUID       `json:"pharmacy_id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	Dosage               string          `json:"dosage"`
	Form                 MedicineForm    `json:"form"`
	Category             string          `json:"category,omitempty"`
	Quantity             int             `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	BatchNumber          string          `json:"batch_number,omitempty"`
	ManufacturedDate     time.Time       `json:"manufactured_date"`
	ExpiryDate           time.Time       `json:"expiry_date"`
	PrescriptionRequired bool            `json:"prescription_required"`
	Manufacturer         string          `json:"manufacturer,omitempty"`
	StorageInstructions  string          `json:"storage_instructions,omitempty"`
	StockThreshold       int             `json:"stock_threshold"`
	HealthConditions     []string        `json:"health_conditions,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`

	// joined for read endpoints
	PharmacyName string `json:"pharmacy_name,omitempty"`
}

// Availability classifies the current stock level against the threshold.
func (m *Medicine) Availability() Availability {
	switch {
	case m.Quantity == 0:
		return OutOfStock
	case m.Quantity <= m.StockThreshold:
		return LowStock
	default:
		return InStock
	}
}

type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// MedicineFilter drives catalog search. Zero values mean "not filtered".
type MedicineFilter struct {
	PharmacyID           *uuid.UUID
	Name                 string
	Category             string
	Form                 MedicineForm
	Dosage               string
	PriceRange           *PriceRange
	Availability         Availability
	PrescriptionRequired *bool
	Manufacturer         string
	Next                 int
}
