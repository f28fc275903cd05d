package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/country"
	"github.com/JakeFAU/travelhub/internal/places"
)

// Messages rendered by the front-end when a stage fails.
const (
	MsgCountriesUnavailable = "Failed to load countries. Please try again later."
	MsgCountryNotFound      = "Failed to load country details. Please try again or go back to countries list."
	MsgPlacesUnavailable    = "Popular places information not available"
	MsgSummaryUnavailable   = "Summary not available."

	backLink = "/v1/countries"
)

// CountryCard is the list/grid form of a country.
type CountryCard struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Population string `json:"population"`
	FlagURL    string `json:"flag_url,omitempty"`
	FlagAlt    string `json:"flag_alt,omitempty"`
}

type countryListResponse struct {
	Query     string        `json:"query,omitempty"`
	Count     int           `json:"count"`
	Countries []CountryCard `json:"countries"`
}

type countryResponse struct {
	Country country.Detail `json:"country"`
}

type placesResponse struct {
	Location   string        `json:"location"`
	Available  bool          `json:"available"`
	Message    string        `json:"message,omitempty"`
	Restaurant *places.Place `json:"restaurant,omitempty"`
	Hotel      *places.Place `json:"hotel,omitempty"`
}

type summaryResponse struct {
	Title     string `json:"title"`
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Extract   string `json:"extract,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
}

func (s *Server) listCountries(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		list []country.Country
		err  error
	)
	if query == "" {
		list, err = s.countries.Countries(r.Context())
	} else {
		list, err = s.countries.Search(r.Context(), query)
	}
	if err != nil {
		s.writeCountryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, countryListResponse{Query: query, Count: len(list), Countries: cards(list)})
}

func (s *Server) popularCountries(w http.ResponseWriter, r *http.Request) {
	list, err := s.countries.Popular(r.Context())
	if err != nil {
		s.writeCountryError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, countryListResponse{Count: len(list), Countries: cards(list)})
}

func (s *Server) getCountry(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, countryResponse{Country: country.Present(c)})
}

func (s *Server) getPlaces(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	location := c.Landmark()
	var coords *places.Coordinates
	if cc, ok := c.Coordinates(); ok {
		coords = &places.Coordinates{Lat: cc.Lat, Lon: cc.Lon}
	}

	result := s.places.FetchPlaces(r.Context(), location, coords)
	resp := placesResponse{
		Location:   location,
		Available:  !result.Empty(),
		Restaurant: result.Restaurant,
		Hotel:      result.Hotel,
	}
	if result.Empty() {
		resp.Message = MsgPlacesUnavailable
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	title := country.Present(c).SummaryTitle
	sum, err := s.summaries.FetchSummary(r.Context(), title)
	if err != nil {
		s.logger.Info("summary unavailable", zap.String("title", title), zap.Error(err))
		s.writeJSON(w, http.StatusOK, summaryResponse{Title: title, Message: MsgSummaryUnavailable})
		return
	}
	s.writeJSON(w, http.StatusOK, summaryResponse{
		Title:     sum.Title,
		Available: true,
		Extract:   sum.Extract,
		Thumbnail: sum.Thumbnail,
		PageURL:   sum.PageURL,
	})
}

// lookup resolves the {name} path parameter, writing the error response on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (country.Country, bool) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	c, err := s.countries.Lookup(r.Context(), name)
	if err != nil {
		s.writeCountryError(w, r, err)
		return country.Country{}, false
	}
	return c, true
}

func (s *Server) writeCountryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, country.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: MsgCountryNotFound, Back: backLink})
	case errors.Is(err, country.ErrDataUnavailable):
		s.writeError(w, http.StatusBadGateway, MsgCountriesUnavailable)
	default:
		s.logger.Error("unexpected country error",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func cards(list []country.Country) []CountryCard {
	out := make([]CountryCard, 0, len(list))
	for _, c := range list {
		d := country.Present(c)
		out = append(out, CountryCard{
			Name:       d.Name,
			Code:       c.Code,
			Capital:    d.Capital,
			Region:     d.Region,
			Population: d.Population,
			FlagURL:    d.FlagURL,
			FlagAlt:    c.Flags.Alt,
		})
	}
	return out
}
