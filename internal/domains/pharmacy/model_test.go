package pharmacy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"08:30": 510,
		"23:59": 1439,
	}
	for input, want := range cases {
		got, err := ParseClock(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "8", "24:00", "12:60", "ab:cd", "12-30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestPharmacyRating(t *testing.T) {
	p := Pharmacy{}
	assert.Nil(t, p.Rating(), "unrated pharmacy has no mean")

	p.RatingSum = 7
	p.RatingsCount = 2
	require.NotNil(t, p.Rating())
	assert.InDelta(t, 3.5, *p.Rating(), 1e-9)
}

func TestPharmacyIsOpenAt(t *testing.T) {
	p := Pharmacy{OpenHours: []OpenHour{
		{Day: "Mon", Open: 480, Close: 1020}, // 08:00-17:00
	}}

	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC) // a Monday
	assert.True(t, p.IsOpenAt(monday))
	assert.False(t, p.IsOpenAt(monday.Add(12*time.Hour)))
	assert.False(t, p.IsOpenAt(monday.AddDate(0, 0, 1))) // Tuesday
}

func TestMedicineAvailability(t *testing.T) {
	m := Medicine{Quantity: 0, StockThreshold: 5}
	assert.Equal(t, OutOfStock, m.Availability())

	m.Quantity = 3
	assert.Equal(t, LowStock, m.Availability())

	m.Quantity = 6
	assert.Equal(t, InStock, m.Availability())
}

func TestFindPharmaciesRequestToFilter(t *testing.T) {
	delivery := true
	req := FindPharmaciesRequest{
		Name: "green",
		Location: &FindLocationInput{
			Lat: 10.5, Lng: 106.7, Distance: 2000,
		},
		OpenHour: &FindOpenHourInput{Day: "Sat", Open: "09:00"},
		Delivery: &delivery,
		Next:     2,
	}
	require.NoError(t, req.Validate())

	f := req.ToFilter()
	assert.Equal(t, "green", f.Name)
	require.NotNil(t, f.Location)
	assert.Equal(t, 2000.0, f.Location.Distance)
	require.NotNil(t, f.OpenHour)
	assert.Equal(t, 540, f.OpenHour.Open)
	assert.Equal(t, -1, f.OpenHour.Close, "unset bound stays unconstrained")
	assert.Equal(t, 2, f.Next)
}

func TestUpsertProfileRequestValidation(t *testing.T) {
	req := UpsertProfileRequest{
		LicenseNumber: "LIC-1001",
		PharmacyName:  "Green Cross",
		PhoneNumber:   "0123456789",
		Address:       Address{Street: "1 Main St", City: "Hue", State: "TT", ZipCode: "53000"},
		Location:      Location{Lat: 16.46, Lng: 107.59},
		OpenHours:     []OpenHourInput{{Day: "Mon", Open: "08:00", Close: "17:00"}},
	}
	require.NoError(t, req.Validate())

	bad := req
	bad.OpenHours = []OpenHourInput{{Day: "Funday", Open: "08:00", Close: "17:00"}}
	assert.Error(t, bad.Validate())

	bad = req
	bad.Location.Lat = 120
	assert.Error(t, bad.Validate())
}
