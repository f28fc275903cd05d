package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/app"
	"github.com/JakeFAU/travelhub/internal/config"
)

const countriesPayload = `[
  {"name":{"common":"Peru","official":"Republic of Peru"},"capital":["Lima"],"region":"Americas","population":32971846,"latlng":[-10,-76]},
  {"name":{"common":"France","official":"French Republic"},"capital":["Paris"],"region":"Europe","population":67391582},
  {"name":{"common":"Chile","official":"Republic of Chile"},"capital":["Santiago"],"region":"Americas"}
]`

func fakeUpstreams(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/countries/all"):
			fmt.Fprint(w, countriesPayload)
		case strings.HasPrefix(r.URL.Path, "/countries/name/"):
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/places"):
			fmt.Fprint(w, `{"features":[{"properties":{"name":"Central","street":"Calle 1","categories":["catering.restaurant"]}}]}`)
		case r.URL.Path == "/summary/page/summary/Lima":
			fmt.Fprint(w, `{"title":"Lima","extract":"Lima is the capital of Peru."}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type trackedApp struct {
	*app.App
	closed atomic.Bool
}

func (a *trackedApp) Close() {
	a.closed.Store(true)
	a.App.Close()
}

func testFactory(t *testing.T, tracked **trackedApp) appFactory {
	t.Helper()
	base := fakeUpstreams(t).URL
	return func(string) (App, error) {
		cfg := config.Config{
			Server:              config.ServerConfig{Port: 0, RequestTimeoutSeconds: 5},
			HTTP:                config.HTTPConfig{TimeoutSeconds: 5},
			Countries:           config.CountriesConfig{BaseURL: base + "/countries"},
			Places:              config.PlacesConfig{BaseURL: base + "/places", APIKey: "k", RadiusMeters: 1000},
			Summary:             config.SummaryConfig{BaseURL: base + "/summary"},
			PopularDestinations: []string{"France", "Peru"},
		}
		a, err := app.New(cfg, zap.NewNop())
		if err != nil {
			return nil, err
		}
		ta := &trackedApp{App: a}
		if tracked != nil {
			*tracked = ta
		}
		return ta, nil
	}
}

func run(t *testing.T, factory appFactory, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCountriesCmd_ListsSorted(t *testing.T) {
	t.Parallel()

	var tracked *trackedApp
	out, err := run(t, testFactory(t, &tracked), "countries")

	require.NoError(t, err)
	assert.Equal(t, "Chile\nFrance\nPeru\n", out)
	require.NotNil(t, tracked)
	assert.True(t, tracked.closed.Load())
}

func TestCountriesCmd_Popular(t *testing.T) {
	t.Parallel()

	out, err := run(t, testFactory(t, nil), "countries", "--popular")

	require.NoError(t, err)
	assert.Equal(t, "Peru\nFrance\n", out)
}

func TestCountriesCmd_Query(t *testing.T) {
	t.Parallel()

	out, err := run(t, testFactory(t, nil), "countries", "--query", "americas")

	require.NoError(t, err)
	assert.Equal(t, "Chile\nPeru\n", out)
}

func TestCountryCmd_Detail(t *testing.T) {
	t.Parallel()

	out, err := run(t, testFactory(t, nil), "country", "france")
	require.NoError(t, err)

	var got struct {
		Country map[string]any `json:"country"`
		Places  map[string]any `json:"places"`
		Summary map[string]any `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "France", got.Country["name"])
	assert.Equal(t, "French Republic", got.Country["official_name"])
	assert.Equal(t, "67,391,582", got.Country["population"])
	assert.Nil(t, got.Places)
	assert.Nil(t, got.Summary)
}

func TestCountryCmd_Enrich(t *testing.T) {
	t.Parallel()

	out, err := run(t, testFactory(t, nil), "country", "Peru", "--enrich")
	require.NoError(t, err)

	var got struct {
		Places struct {
			Restaurant struct {
				Name    string `json:"name"`
				Address string `json:"address"`
			} `json:"restaurant"`
		} `json:"places"`
		Summary struct {
			Extract string `json:"extract"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Central", got.Places.Restaurant.Name)
	assert.Equal(t, "Calle 1", got.Places.Restaurant.Address)
	assert.Equal(t, "Lima is the capital of Peru.", got.Summary.Extract)
}

func TestCountryCmd_EnrichWithoutSummary(t *testing.T) {
	t.Parallel()

	out, err := run(t, testFactory(t, nil), "country", "Chile", "--enrich")

	require.NoError(t, err)
	assert.NotContains(t, out, `"summary"`)
	assert.Contains(t, out, `"places"`)
}

func TestCountryCmd_NotFound(t *testing.T) {
	t.Parallel()

	_, err := run(t, testFactory(t, nil), "country", "Atlantis")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup country")
}

func TestRootCmd_FactoryError(t *testing.T) {
	t.Parallel()

	factory := func(string) (App, error) { return nil, errors.New("bad config") }
	_, err := run(t, factory, "countries")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config")
}

func TestRootCmd_PassesConfigPath(t *testing.T) {
	t.Parallel()

	var seen string
	factory := func(path string) (App, error) {
		seen = path
		return nil, errors.New("stop")
	}
	_, _ = run(t, factory, "--config", "/etc/travelhub.yaml", "countries")

	assert.Equal(t, "/etc/travelhub.yaml", seen)
}

func TestServeCmd_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	root := newRootCmd(testFactory(t, nil))
	root.SetArgs([]string{"serve"})
	root.SetOut(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestResolveApp_Missing(t *testing.T) {
	t.Parallel()

	_, err := resolveApp(context.Background())

	assert.Error(t, err)
}
