// Package config loads and validates travelhub configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server              ServerConfig    `mapstructure:"server"`
	HTTP                HTTPConfig      `mapstructure:"http"`
	Countries           CountriesConfig `mapstructure:"countries"`
	Places              PlacesConfig    `mapstructure:"places"`
	Summary             SummaryConfig   `mapstructure:"summary"`
	RateLimit           RateLimitConfig `mapstructure:"ratelimit"`
	Logging             LoggingConfig   `mapstructure:"logging"`
	Tracing             TracingConfig   `mapstructure:"tracing"`
	PopularDestinations []string        `mapstructure:"popular_destinations" validate:"dive,required"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port" validate:"gt=0,lte=65535"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	UserAgent      string `mapstructure:"user_agent"`
}

// CountriesConfig points at the remote country data service.
type CountriesConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// PlacesConfig points at the remote places service.
type PlacesConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	APIKey       string `mapstructure:"api_key"`
	RadiusMeters int    `mapstructure:"radius_meters" validate:"gt=0"`
}

// SummaryConfig points at the remote summary service.
type SummaryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// RateLimitConfig sets outbound token buckets per upstream service.
// A non-positive RPS disables limiting for that service.
type RateLimitConfig struct {
	CountriesRPS float64 `mapstructure:"countries_rps"`
	PlacesRPS    float64 `mapstructure:"places_rps"`
	SummaryRPS   float64 `mapstructure:"summary_rps"`
	Burst        int     `mapstructure:"burst" validate:"gte=0"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// TracingConfig selects the OpenTelemetry span exporter. An empty or "none"
// exporter leaves the global no-op tracer in place.
type TracingConfig struct {
	Exporter    string  `mapstructure:"exporter" validate:"omitempty,oneof=none stdout"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

// Enabled reports whether spans are exported.
func (t TracingConfig) Enabled() bool {
	return t.Exporter != "" && t.Exporter != "none"
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRAVELHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "travelhub/0.1")
	v.SetDefault("countries.base_url", "https://restcountries.com/v3.1")
	v.SetDefault("places.base_url", "https://api.geoapify.com/v2/places")
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.radius_meters", 5000)
	v.SetDefault("summary.base_url", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("ratelimit.countries_rps", 0)
	v.SetDefault("ratelimit.places_rps", 2)
	v.SetDefault("ratelimit.summary_rps", 5)
	v.SetDefault("ratelimit.burst", 2)
	v.SetDefault("logging.development", true)
	v.SetDefault("tracing.exporter", "none")
	v.SetDefault("tracing.service_name", "travelhub")
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("popular_destinations", DefaultPopularDestinations())
}

// DefaultPopularDestinations lists the countries shown on the homepage grid.
func DefaultPopularDestinations() []string {
	return []string{
		"France", "Italy", "Japan", "United States", "Thailand",
		"Spain", "Australia", "Brazil", "Greece", "Egypt",
	}
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation", fieldPath(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if c.RateLimit.Burst == 0 && (c.RateLimit.PlacesRPS > 0 || c.RateLimit.SummaryRPS > 0 || c.RateLimit.CountriesRPS > 0) {
		return fmt.Errorf("ratelimit.burst must be > 0 when a rate is set")
	}
	return nil
}

// HTTPTimeout converts the outbound timeout to a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// RequestTimeout converts the inbound handler timeout to a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// fieldPath turns "Config.Server.Port" into "Server.Port".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
