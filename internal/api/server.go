// Package api exposes the HTTP interface for the travel data pipeline.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/country"
	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/places"
	"github.com/JakeFAU/travelhub/internal/summary"
	"github.com/JakeFAU/travelhub/internal/telemetry"
)

const defaultRequestTimeout = 60 * time.Second

// CountryService is the country pipeline the handlers read from.
type CountryService interface {
	Countries(ctx context.Context) ([]country.Country, error)
	Popular(ctx context.Context) ([]country.Country, error)
	Search(ctx context.Context, query string) ([]country.Country, error)
	Lookup(ctx context.Context, name string) (country.Country, error)
	Cache() *country.Cache
}

// PlaceFinder resolves nearby places for a location.
type PlaceFinder interface {
	FetchPlaces(ctx context.Context, locationName string, coords *places.Coordinates) places.Result
}

// SummaryFetcher resolves a short summary for a page title.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, title string) (summary.Summary, error)
}

// IDGenerator produces request identifiers.
type IDGenerator interface {
	MustID() string
}

// Deps bundles the collaborators of a Server.
type Deps struct {
	Countries      CountryService
	Places         PlaceFinder
	Summaries      SummaryFetcher
	IDs            IDGenerator
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

// Server wires HTTP handlers to the country pipeline.
type Server struct {
	router    chi.Router
	countries CountryService
	places    PlaceFinder
	summaries SummaryFetcher
	ids       IDGenerator
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(deps Deps) *Server {
	s := &Server{
		countries: deps.Countries,
		places:    deps.Places,
		summaries: deps.Summaries,
		ids:       deps.IDs,
		logger:    logging.OrNop(deps.Logger).Named("api"),
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(otelhttp.NewMiddleware("travelhub",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		})))
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(telemetry.Middleware)
	r.Use(timeoutMiddleware(timeout))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/v1/countries", func(r chi.Router) {
		r.Get("/", s.listCountries)
		r.Get("/popular", s.popularCountries)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.getCountry)
			r.Get("/places", s.getPlaces)
			r.Get("/summary", s.getSummary)
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz answers 200 either way; the body says whether the dataset is cached.
func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	cache := s.countries.Cache()
	body := map[string]any{
		"status":            "ready",
		"countries_loaded":  cache.Loaded(),
		"countries_records": cache.Len(),
	}
	if cache.Loaded() {
		body["loaded_at"] = cache.LoadedAt().Format(time.RFC3339)
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

type errorResponse struct {
	Error string `json:"error"`
	Back  string `json:"back,omitempty"`
}
