package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
  request_timeout_seconds: 20
http:
  timeout_seconds: 45
  user_agent: test-agent
countries:
  base_url: https://countries.example.com/v3.1
places:
  base_url: https://places.example.com/v2/places
  api_key: secret
  radius_meters: 2500
summary:
  base_url: https://summary.example.com/api/rest_v1
ratelimit:
  places_rps: 1
  burst: 3
logging:
  development: false
tracing:
  exporter: stdout
  sample_ratio: 0.25
popular_destinations: ["Peru", "Chile"]
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Places.APIKey != "secret" || cfg.Places.RadiusMeters != 2500 {
		t.Fatalf("expected places overrides to apply: %+v", cfg.Places)
	}
	if cfg.Countries.BaseURL != "https://countries.example.com/v3.1" {
		t.Fatalf("unexpected countries base url %q", cfg.Countries.BaseURL)
	}
	if cfg.Logging.Development {
		t.Fatal("expected production logging")
	}
	if !cfg.Tracing.Enabled() || cfg.Tracing.SampleRatio != 0.25 || cfg.Tracing.ServiceName != "travelhub" {
		t.Fatalf("expected tracing overrides with default service name: %+v", cfg.Tracing)
	}
	if len(cfg.PopularDestinations) != 2 || cfg.PopularDestinations[0] != "Peru" {
		t.Fatalf("expected popular destinations override, got %v", cfg.PopularDestinations)
	}
	if got := cfg.HTTPTimeout(); got != 45*time.Second {
		t.Fatalf("expected http timeout 45s, got %v", got)
	}
	if got := cfg.RequestTimeout(); got != 20*time.Second {
		t.Fatalf("expected request timeout 20s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Places.RadiusMeters != 5000 {
		t.Fatalf("expected default radius 5000, got %d", cfg.Places.RadiusMeters)
	}
	if cfg.Tracing.Enabled() {
		t.Fatalf("expected tracing disabled by default, got %+v", cfg.Tracing)
	}
	if len(cfg.PopularDestinations) != len(DefaultPopularDestinations()) {
		t.Fatalf("expected default popular destinations, got %v", cfg.PopularDestinations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRAVELHUB_SERVER_PORT", "7070")
	t.Setenv("TRAVELHUB_PLACES_API_KEY", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Places.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %q", cfg.Places.APIKey)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080, RequestTimeoutSeconds: 10},
			HTTP:      HTTPConfig{TimeoutSeconds: 5},
			Countries: CountriesConfig{BaseURL: "https://restcountries.com/v3.1"},
			Places:    PlacesConfig{BaseURL: "https://api.geoapify.com/v2/places", RadiusMeters: 5000},
			Summary:   SummaryConfig{BaseURL: "https://en.wikipedia.org/api/rest_v1"},
			RateLimit: RateLimitConfig{Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "Server.Port"},
		{name: "bad timeout", mutate: func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, wantErr: "HTTP.TimeoutSeconds"},
		{name: "bad countries url", mutate: func(c *Config) { c.Countries.BaseURL = "not a url" }, wantErr: "Countries.BaseURL"},
		{name: "bad radius", mutate: func(c *Config) { c.Places.RadiusMeters = -1 }, wantErr: "Places.RadiusMeters"},
		{name: "unknown exporter", mutate: func(c *Config) { c.Tracing.Exporter = "jaeger" }, wantErr: "Tracing.Exporter"},
		{name: "bad sample ratio", mutate: func(c *Config) { c.Tracing.SampleRatio = 1.5 }, wantErr: "Tracing.SampleRatio"},
		{name: "blank popular name", mutate: func(c *Config) { c.PopularDestinations = []string{""} }, wantErr: "PopularDestinations"},
		{
			name: "rate without burst",
			mutate: func(c *Config) {
				c.RateLimit.Burst = 0
				c.RateLimit.PlacesRPS = 1
			},
			wantErr: "ratelimit.burst",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
