// Package places looks up one representative restaurant and one hotel near
// a location. Each category runs a two-step strategy: a category-filtered
// primary query and, if that fails or finds nothing, a plain text fallback.
// Failures never escape FetchPlaces; a category that cannot be resolved is
// simply omitted from the Result.
package places

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/telemetry"
	"github.com/JakeFAU/travelhub/internal/upstream"
)

// AddressUnavailable is used when a feature carries no address fields.
const AddressUnavailable = "Address not available"

const defaultRadiusMeters = 5000

// Kind describes one category of place to look up.
type Kind struct {
	Name            string
	Category        string
	DefaultName     string
	DefaultCategory string
}

var (
	// Restaurant looks up catering.restaurant features.
	Restaurant = Kind{
		Name:            "restaurant",
		Category:        "catering.restaurant",
		DefaultName:     "Local Restaurant",
		DefaultCategory: "Restaurant",
	}
	// Hotel looks up accommodation.hotel features.
	Hotel = Kind{
		Name:            "hotel",
		Category:        "accommodation.hotel",
		DefaultName:     "Local Hotel",
		DefaultCategory: "Hotel",
	}
)

// Place is a mapped feature.
type Place struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
}

// Result holds zero, one, or both places.
type Result struct {
	Restaurant *Place `json:"restaurant,omitempty"`
	Hotel      *Place `json:"hotel,omitempty"`
}

// Empty reports whether neither category resolved.
func (r Result) Empty() bool {
	return r.Restaurant == nil && r.Hotel == nil
}

// Coordinates centres a radius query.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Getter performs an outbound GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Config controls the places client.
type Config struct {
	BaseURL      string
	APIKey       string
	RadiusMeters int
}

// Client queries the places service.
type Client struct {
	cfg    Config
	getter Getter
	logger *zap.Logger
}

// New builds a Client.
func New(cfg Config, getter Getter, logger *zap.Logger) *Client {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = defaultRadiusMeters
	}
	return &Client{
		cfg:    cfg,
		getter: getter,
		logger: logging.OrNop(logger).Named("places"),
	}
}

// FetchPlaces resolves a restaurant and then a hotel for the location.
// coords may be nil, in which case the primary queries search by name.
func (c *Client) FetchPlaces(ctx context.Context, locationName string, coords *Coordinates) Result {
	var result Result
	if place, ok := c.Lookup(ctx, Restaurant, locationName, coords); ok {
		result.Restaurant = &place
	}
	if place, ok := c.Lookup(ctx, Hotel, locationName, coords); ok {
		result.Hotel = &place
	}
	return result
}

// Lookup runs the two-step strategy for one kind. The returned bool is
// false when both steps failed or came back empty.
func (c *Client) Lookup(ctx context.Context, kind Kind, locationName string, coords *Coordinates) (Place, bool) {
	ctx, span := telemetry.StartSpan(ctx, "places.lookup",
		attribute.String("places.kind", kind.Name),
		attribute.String("places.location", locationName),
		attribute.Bool("places.has_coordinates", coords != nil))
	defer telemetry.EndSpan(span, nil)

	steps := []struct {
		name  string
		query url.Values
	}{
		{"primary", c.PrimaryQuery(kind, locationName, coords)},
		{"fallback", c.FallbackQuery(locationName)},
	}
	for _, step := range steps {
		if step.query == nil {
			continue
		}
		outcome := c.Attempt(ctx, kind, step.query)
		telemetry.ObserveEnrichment(kind.Name, step.name, outcome.Status.String())
		span.AddEvent("attempt", traceAttrs(step.name, outcome.Status))
		switch outcome.Status {
		case StatusFound:
			span.SetAttributes(attribute.String("places.resolved_by", step.name))
			return outcome.Place, true
		case StatusFailed:
			c.logFailure(kind, step.name, locationName, outcome.Err)
		case StatusEmpty:
			c.logger.Debug("no places returned",
				zap.String("kind", kind.Name),
				zap.String("step", step.name),
				zap.String("location", locationName))
		}
	}
	return Place{}, false
}

// PrimaryQuery builds the category-filtered query: a radius around coords
// when known, otherwise a text search on locationName.
func (c *Client) PrimaryQuery(kind Kind, locationName string, coords *Coordinates) url.Values {
	q := url.Values{}
	q.Set("categories", kind.Category)
	if coords != nil {
		q.Set("filter", "circle:"+
			formatCoord(coords.Lon)+","+
			formatCoord(coords.Lat)+","+
			strconv.Itoa(c.cfg.RadiusMeters))
	} else {
		q.Set("text", locationName)
	}
	q.Set("limit", "1")
	return q
}

// FallbackQuery builds the uncategorized text query, or nil when there is
// no name to search for.
func (c *Client) FallbackQuery(locationName string) url.Values {
	if strings.TrimSpace(locationName) == "" {
		return nil
	}
	q := url.Values{}
	q.Set("text", locationName)
	q.Set("limit", "1")
	return q
}

// Attempt issues a single query and classifies the response.
func (c *Client) Attempt(ctx context.Context, kind Kind, query url.Values) Outcome {
	if c.cfg.APIKey != "" {
		query.Set("apiKey", c.cfg.APIKey)
	}
	body, err := c.getter.Get(ctx, c.cfg.BaseURL+"?"+query.Encode())
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return Outcome{Status: StatusFailed, Err: errMalformed}
	}
	features := gjson.GetBytes(body, "features")
	if !features.IsArray() {
		return Outcome{Status: StatusEmpty}
	}
	list := features.Array()
	if len(list) == 0 {
		return Outcome{Status: StatusEmpty}
	}
	return Outcome{Status: StatusFound, Place: mapFeature(kind, list[0].Get("properties"))}
}

var errMalformed = errors.New("places: malformed payload")

func mapFeature(kind Kind, props gjson.Result) Place {
	place := Place{
		Name:     kind.DefaultName,
		Address:  AddressUnavailable,
		Category: kind.DefaultCategory,
	}
	if name := props.Get("name"); name.Type == gjson.String && name.Str != "" {
		place.Name = name.Str
	}
	for _, field := range []string{"address_line2", "street"} {
		if v := props.Get(field); v.Type == gjson.String && v.Str != "" {
			place.Address = v.Str
			break
		}
	}
	if first := props.Get("categories.0"); first.Type == gjson.String && first.Str != "" {
		place.Category = first.Str
	}
	return place
}

func (c *Client) logFailure(kind Kind, step, location string, err error) {
	fields := []zap.Field{
		zap.String("kind", kind.Name),
		zap.String("step", step),
		zap.String("location", location),
		zap.Error(err),
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		fields = append(fields, zap.Int("status", se.StatusCode), zap.String("body", se.Body))
	}
	c.logger.Warn("places query failed", fields...)
}

func traceAttrs(step string, status Status) trace.EventOption {
	return trace.WithAttributes(
		attribute.String("places.step", step),
		attribute.String("places.outcome", status.String()))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
