package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresent_FullRecord(t *testing.T) {
	t.Parallel()

	area := 551695.0
	c := Country{
		Name:         "France",
		OfficialName: "French Republic",
		Capital:      []string{"Paris"},
		Population:   67391582,
		Region:       "Europe",
		Area:         &area,
		Timezones:    []string{"UTC-10:00", "UTC+01:00"},
		Currencies:   map[string]Currency{"EUR": {Name: "Euro", Symbol: "€"}, "CHF": {Name: "Swiss franc"}},
		Languages:    map[string]string{"fra": "French", "bre": "Breton"},
		Flags:        Flags{PNG: "https://flagcdn.com/w320/fr.png", SVG: "https://flagcdn.com/fr.svg"},
		LatLng:       []float64{46, 2},
	}

	d := Present(c)

	assert.Equal(t, "France", d.Name)
	assert.Equal(t, "French Republic", d.OfficialName)
	assert.Equal(t, "https://flagcdn.com/w320/fr.png", d.FlagURL)
	assert.Equal(t, "Paris", d.Capital)
	assert.Equal(t, "Europe", d.Region)
	assert.Equal(t, "67,391,582", d.Population)
	assert.Equal(t, "551,695 km²", d.Area)
	assert.Equal(t, "UTC-10:00", d.Timezone)
	assert.Equal(t, "Swiss franc, Euro", d.Currencies)
	assert.Equal(t, []string{"Breton", "French"}, d.Languages)
	assert.Equal(t, "Paris", d.SummaryTitle)
	require.NotNil(t, d.Coordinates)
	assert.Equal(t, Coordinates{Lat: 46, Lon: 2}, *d.Coordinates)
}

func TestPresent_Placeholders(t *testing.T) {
	t.Parallel()

	d := Present(Country{Name: "Antarctica", Flags: Flags{SVG: "https://flagcdn.com/aq.svg"}})

	assert.Equal(t, "Antarctica", d.OfficialName)
	assert.Equal(t, "https://flagcdn.com/aq.svg", d.FlagURL)
	assert.Equal(t, Placeholder, d.Capital)
	assert.Equal(t, Placeholder, d.Region)
	assert.Equal(t, Placeholder, d.Population)
	assert.Equal(t, Placeholder, d.Area)
	assert.Equal(t, Placeholder, d.Timezone)
	assert.Equal(t, Placeholder, d.Currencies)
	assert.Equal(t, []string{Placeholder}, d.Languages)
	assert.Equal(t, "Antarctica", d.SummaryTitle)
	assert.Nil(t, d.Coordinates)
}

func TestPresent_EmptyRecord(t *testing.T) {
	t.Parallel()

	d := Present(Country{})

	assert.Equal(t, "Unknown", d.Name)
	assert.Equal(t, "Unknown", d.OfficialName)
	assert.Equal(t, "Unknown", d.SummaryTitle)
	assert.Empty(t, d.FlagURL)
}

func TestFormatArea(t *testing.T) {
	t.Parallel()

	fractional := 0.44
	d := Present(Country{Name: "Vatican City", Area: &fractional})
	assert.Equal(t, "0.44 km²", d.Area)

	big := 17098242.5
	d = Present(Country{Name: "Russia", Area: &big})
	assert.Equal(t, "17,098,242.5 km²", d.Area)
}

func TestCoordinatesRequireTwoValues(t *testing.T) {
	t.Parallel()

	_, ok := Country{LatLng: []float64{1}}.Coordinates()
	assert.False(t, ok)

	coords, ok := Country{LatLng: []float64{0, 0}}.Coordinates()
	assert.True(t, ok, "zero coordinates are valid")
	assert.Equal(t, Coordinates{}, coords)
}

func TestLandmark(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Lima", Country{Name: "Peru", Capital: []string{"Lima"}}.Landmark())
	assert.Equal(t, "Antarctica", Country{Name: "Antarctica"}.Landmark())
	assert.Equal(t, "Bolivia", Country{Name: "Bolivia", Capital: []string{""}}.Landmark())
}
