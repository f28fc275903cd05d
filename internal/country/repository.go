package country

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/telemetry"
	"github.com/JakeFAU/travelhub/internal/upstream"
)

// Fields is the projection requested from the country service. Some
// providers reject requests without an explicit field list.
var Fields = []string{
	"name", "capital", "population", "region", "flags",
	"cca3", "area", "timezones", "currencies", "languages",
}

var (
	// ErrDataUnavailable means the country service could not supply the dataset.
	ErrDataUnavailable = errors.New("country data unavailable")
	// ErrNotFound means neither the cache nor the service yielded a match.
	ErrNotFound = errors.New("country not found")
)

// Getter performs an outbound GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Repository reads country records from the remote service.
type Repository struct {
	baseURL string
	getter  Getter
	logger  *zap.Logger
}

// NewRepository builds a Repository rooted at baseURL (for example
// https://restcountries.com/v3.1).
func NewRepository(baseURL string, getter Getter, logger *zap.Logger) *Repository {
	return &Repository{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
		logger:  logging.OrNop(logger).Named("countries"),
	}
}

// FetchAll returns every record in the dataset, in service order.
// Transport and status failures yield ErrDataUnavailable; a payload of an
// unrecognized shape yields an empty slice.
func (r *Repository) FetchAll(ctx context.Context) (_ []Country, err error) {
	ctx, span := telemetry.StartSpan(ctx, "countries.fetch_all")
	defer func() { telemetry.EndSpan(span, err) }()

	endpoint := r.baseURL + "/all?fields=" + url.QueryEscape(strings.Join(Fields, ","))
	body, err := r.getter.Get(ctx, endpoint)
	if err != nil {
		r.logFailure("fetch all countries failed", err)
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	countries, err := r.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	r.logger.Debug("fetched countries", zap.Int("count", len(countries)))
	return countries, nil
}

// FetchByName returns the records the service matches for name; the service
// may return several partial matches. Any failure yields ErrNotFound.
func (r *Repository) FetchByName(ctx context.Context, name string) (_ []Country, err error) {
	ctx, span := telemetry.StartSpan(ctx, "countries.fetch_by_name", attribute.String("country.name", name))
	defer func() { telemetry.EndSpan(span, err) }()

	endpoint := r.baseURL + "/name/" + url.PathEscape(name) +
		"?fields=" + url.QueryEscape(strings.Join(Fields, ","))
	body, err := r.getter.Get(ctx, endpoint)
	if err != nil {
		r.logFailure("fetch country by name failed", err, zap.String("name", name))
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	countries, err := r.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return countries, nil
}

func (r *Repository) logFailure(msg string, err error, fields ...zap.Field) {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		fields = append(fields,
			zap.Int("status", se.StatusCode),
			zap.String("body", se.Body),
		)
	}
	r.logger.Error(msg, append(fields, zap.Error(err))...)
}

// decode accepts a bare array or an object carrying a "data" array. Any
// other well-formed JSON decodes to an empty slice.
func (r *Repository) decode(body []byte) ([]Country, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("decode countries: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	list := root
	if !root.IsArray() {
		data := root.Get("data")
		if !root.IsObject() || !data.IsArray() {
			r.logger.Error("unexpected countries response shape",
				zap.String("body", logging.Truncate(body, 256)))
			return []Country{}, nil
		}
		list = data
	}
	items := list.Array()
	countries := make([]Country, 0, len(items))
	for _, item := range items {
		countries = append(countries, decodeCountry(item))
	}
	return countries, nil
}

// decodeCountry reads a record field by field so a malformed or mistyped
// field leaves its zero value instead of failing the whole payload.
func decodeCountry(r gjson.Result) Country {
	c := Country{
		Region:    str(r.Get("region")),
		Code:      str(r.Get("cca3")),
		Capital:   strs(r.Get("capital")),
		Timezones: strs(r.Get("timezones")),
		Flags: Flags{
			PNG: str(r.Get("flags.png")),
			SVG: str(r.Get("flags.svg")),
			Alt: str(r.Get("flags.alt")),
		},
	}

	name := r.Get("name")
	if name.Type == gjson.String {
		c.Name = name.Str
	} else {
		c.Name = str(name.Get("common"))
		c.OfficialName = str(name.Get("official"))
	}

	if pop := r.Get("population"); pop.Type == gjson.Number && pop.Int() > 0 {
		c.Population = pop.Int()
	}
	if area := r.Get("area"); area.Type == gjson.Number && area.Float() >= 0 {
		v := area.Float()
		c.Area = &v
	}

	if cur := r.Get("currencies"); cur.IsObject() {
		c.Currencies = make(map[string]Currency)
		cur.ForEach(func(code, v gjson.Result) bool {
			c.Currencies[code.String()] = Currency{
				Name:   str(v.Get("name")),
				Symbol: str(v.Get("symbol")),
			}
			return true
		})
	}
	if langs := r.Get("languages"); langs.IsObject() {
		c.Languages = make(map[string]string)
		langs.ForEach(func(code, v gjson.Result) bool {
			if v.Type == gjson.String {
				c.Languages[code.String()] = v.Str
			}
			return true
		})
	}
	if ll := r.Get("latlng"); ll.IsArray() {
		for _, v := range ll.Array() {
			if v.Type != gjson.Number {
				c.LatLng = nil
				break
			}
			c.LatLng = append(c.LatLng, v.Float())
		}
	}
	return c
}

func str(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return ""
}

func strs(r gjson.Result) []string {
	switch {
	case r.IsArray():
		var out []string
		for _, v := range r.Array() {
			if v.Type == gjson.String {
				out = append(out, v.Str)
			}
		}
		return out
	case r.Type == gjson.String && r.Str != "":
		return []string{r.Str}
	default:
		return nil
	}
}
