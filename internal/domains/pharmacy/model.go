package pharmacy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Days as stored inside open_hours entries.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpenHour is one opening interval. Open and Close are minutes since
// midnight, so 510 is 08:30.
type OpenHour struct {
	Day   string `json:"day"`
	Open  int    `json:"open"`
	Close int    `json:"close"`
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hours*60 + minutes, nil
}

type Pharmacy struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	LicenseNumber    string     `json:"license_number"`
	PharmacyName     string     `json:"pharmacy_name"`
	Description      string     `json:"description,omitempty"`
	PhoneNumber      string     `json:"phone_number"`
	Address          Address    `json:"address"`
	Location         Location   `json:"location"`
	OpenHours        []OpenHour `json:"open_hours"`
	Website          string     `json:"website,omitempty"`
	PersonName       string     `json:"person_name,omitempty"`
	Delivery         bool       `json:"delivery"`
	Verified         bool       `json:"verified"`
	RejectionMessage string     `json:"rejection_message,omitempty"`
	RatingSum        float64    `json:"-"`
	RatingsCount     int        `json:"ratings_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Rating derives the mean. Nil until the first review lands.
func (p *Pharmacy) Rating() *float64 {
	if p.RatingsCount == 0 {
		return nil
	}
	mean := p.RatingSum / float64(p.RatingsCount)
	return &mean
}

// IsOpenAt reports whether any interval covers the given wall-clock time.
func (p *Pharmacy) IsOpenAt(t time.Time) bool {
	day := t.Format("Mon")
	minutes := t.Hour()*60 + t.Minute()
	for _, h := range p.OpenHours {
		if h.Day == day && minutes >= h.Open && minutes <= h.Close {
			return true
		}
	}
	return false
}

// LocationFilter narrows results to a radius in meters around a point.
type LocationFilter struct {
	Lat      float64
	Lng      float64
	Distance float64
}

// OpenHourFilter matches pharmacies with an interval overlapping
// [Open, Close) on Day. Open and Close are minutes since midnight; a
// negative value leaves that bound unconstrained.
type OpenHourFilter struct {
	Day   string
	Open  int
	Close int
}

// Filter drives pharmacy discovery. Zero values mean "not filtered".
type Filter struct {
	Name      string
	Address   string
	Location  *LocationFilter
	OpenHour  *OpenHourFilter
	Delivery  *bool
	MinRating *float64
	Next      int
}
