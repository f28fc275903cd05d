// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/api"
	"github.com/JakeFAU/travelhub/internal/clock/system"
	"github.com/JakeFAU/travelhub/internal/config"
	"github.com/JakeFAU/travelhub/internal/country"
	"github.com/JakeFAU/travelhub/internal/id/uuid"
	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/places"
	"github.com/JakeFAU/travelhub/internal/policy/ratelimit"
	"github.com/JakeFAU/travelhub/internal/summary"
	"github.com/JakeFAU/travelhub/internal/telemetry"
	"github.com/JakeFAU/travelhub/internal/upstream"
)

const tracerShutdownTimeout = 5 * time.Second

// Upstream service labels. They key rate limit buckets and metrics.
const (
	ServiceCountries = "countries"
	ServicePlaces    = "places"
	ServiceSummary   = "summary"
)

// App holds the shared, long-lived services for one process. The country
// cache inside it lives as long as the App does.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	tracer    *sdktrace.TracerProvider
	limiter   *ratelimit.Limiter
	ids       *uuid.Generator
	countries *country.Service
	places    *places.Client
	summaries *summary.Client
}

// New wires every service from cfg. A nil logger is built from cfg.Logging.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		l, err := logging.New(cfg.Logging.Development)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	logger.Info("initializing application services")

	var tracer *sdktrace.TracerProvider
	if cfg.Tracing.Enabled() {
		tp, err := telemetry.InitTracerProvider(context.Background(), telemetry.TracingOptions{
			ServiceName: cfg.Tracing.ServiceName,
			SampleRatio: cfg.Tracing.SampleRatio,
			Writer:      os.Stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		tracer = tp
		logger.Info("tracing enabled", zap.String("exporter", cfg.Tracing.Exporter))
	}

	limiter := ratelimit.New(ratelimit.Config{
		DefaultBurst: cfg.RateLimit.Burst,
		PerService: map[string]float64{
			ServiceCountries: cfg.RateLimit.CountriesRPS,
			ServicePlaces:    cfg.RateLimit.PlacesRPS,
			ServiceSummary:   cfg.RateLimit.SummaryRPS,
		},
	})
	client := func(service string) *upstream.Client {
		return upstream.New(upstream.Config{
			Service:   service,
			Timeout:   cfg.HTTPTimeout(),
			UserAgent: cfg.HTTP.UserAgent,
			Limiter:   limiter,
		}, logger)
	}

	repo := country.NewRepository(cfg.Countries.BaseURL, client(ServiceCountries), logger)
	cache := country.NewCache(system.New())
	if cfg.Places.APIKey == "" {
		logger.Warn("places.api_key is empty; place enrichment will likely be unavailable")
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		tracer:    tracer,
		limiter:   limiter,
		ids:       uuid.NewGenerator(),
		countries: country.NewService(repo, cache, cfg.PopularDestinations, logger),
		places: places.New(places.Config{
			BaseURL:      cfg.Places.BaseURL,
			APIKey:       cfg.Places.APIKey,
			RadiusMeters: cfg.Places.RadiusMeters,
		}, client(ServicePlaces), logger),
		summaries: summary.New(cfg.Summary.BaseURL, client(ServiceSummary), logger),
	}, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() config.Config {
	return a.cfg
}

// GetLogger returns the shared zap logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// Countries returns the session country service.
func (a *App) Countries() *country.Service {
	return a.countries
}

// Places returns the place enrichment client.
func (a *App) Places() *places.Client {
	return a.places
}

// Summaries returns the summary enrichment client.
func (a *App) Summaries() *summary.Client {
	return a.summaries
}

// Server builds the HTTP API over the App's services.
func (a *App) Server() *api.Server {
	return api.NewServer(api.Deps{
		Countries:      a.countries,
		Places:         a.places,
		Summaries:      a.summaries,
		IDs:            a.ids,
		Logger:         a.logger,
		RequestTimeout: a.cfg.RequestTimeout(),
	})
}

// Close flushes pending spans and the logger. It is called by a Cobra hook
// after the command finishes.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}
	// Sync fails on console sinks on some platforms; nothing else to do about it.
	_ = a.logger.Sync()
}
