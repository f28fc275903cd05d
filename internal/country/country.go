// Package country implements the country repository: fetching the remote
// dataset, the session cache, search and sort helpers, and the detail view
// used by the presentation layer.
package country

import (
	"strings"
)

// Currency describes a single currency entry keyed by ISO code.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Flags holds flag image URLs.
type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Country is a single record from the remote dataset. Only Name is
// guaranteed; every other field may be zero.
type Country struct {
	Name         string              `json:"name"`
	OfficialName string              `json:"official_name,omitempty"`
	Capital      []string            `json:"capital,omitempty"`
	Population   int64               `json:"population"`
	Region       string              `json:"region,omitempty"`
	Area         *float64            `json:"area,omitempty"`
	Timezones    []string            `json:"timezones,omitempty"`
	Currencies   map[string]Currency `json:"currencies,omitempty"`
	Languages    map[string]string   `json:"languages,omitempty"`
	Flags        Flags               `json:"flags"`
	Code         string              `json:"cca3,omitempty"`
	LatLng       []float64           `json:"latlng,omitempty"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FirstCapital returns the first listed capital or "".
func (c Country) FirstCapital() string {
	if len(c.Capital) == 0 {
		return ""
	}
	return c.Capital[0]
}

// Landmark names the place enrichment searches around: the first capital,
// or the common name when there is none.
func (c Country) Landmark() string {
	if capital := c.FirstCapital(); capital != "" {
		return capital
	}
	return c.Name
}

// Coordinates returns the record's position when the dataset supplied one.
func (c Country) Coordinates() (Coordinates, bool) {
	if len(c.LatLng) < 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: c.LatLng[0], Lon: c.LatLng[1]}, true
}

// matches reports whether the lowercased query occurs in the name, first
// capital, or region. Absent fields never match.
func (c Country) matches(lowerQuery string) bool {
	return strings.Contains(strings.ToLower(c.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(c.FirstCapital()), lowerQuery) ||
		strings.Contains(strings.ToLower(c.Region), lowerQuery)
}
