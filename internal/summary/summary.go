// Package summary fetches short encyclopedia summaries for a page title.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/telemetry"
)

// ErrUnavailable means no usable summary could be produced for the title.
var ErrUnavailable = errors.New("summary unavailable")

// Summary is the display data for one page.
type Summary struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail string `json:"thumbnail,omitempty"`
	PageURL   string `json:"page_url"`
}

// Getter performs an outbound GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Client queries a REST summary endpoint (Wikipedia's page/summary shape).
type Client struct {
	baseURL string
	getter  Getter
	logger  *zap.Logger
}

// New builds a Client rooted at baseURL, e.g. https://en.wikipedia.org/api/rest_v1.
func New(baseURL string, getter Getter, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
		logger:  logging.OrNop(logger).Named("summary"),
	}
}

type payload struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// FetchSummary returns the summary for title. Every failure wraps ErrUnavailable.
func (c *Client) FetchSummary(ctx context.Context, title string) (s Summary, err error) {
	ctx, span := telemetry.StartSpan(ctx, "summary.fetch", attribute.String("summary.title", title))
	defer func() { telemetry.EndSpan(span, err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return Summary{}, fmt.Errorf("%w: empty title", ErrUnavailable)
	}
	endpoint := c.baseURL + "/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	body, err := c.getter.Get(ctx, endpoint)
	if err != nil {
		telemetry.ObserveEnrichment("summary", "fetch", "failed")
		return Summary{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		telemetry.ObserveEnrichment("summary", "fetch", "failed")
		return Summary{}, fmt.Errorf("%w: decode: %w", ErrUnavailable, err)
	}

	extract := strings.TrimSpace(p.Extract)
	if extract == "" && p.ExtractHTML != "" {
		c.logger.Debug("plain extract missing, using extract_html", zap.String("title", title))
		extract = textFromHTML(p.ExtractHTML)
	}
	if extract == "" {
		telemetry.ObserveEnrichment("summary", "fetch", "empty")
		return Summary{}, fmt.Errorf("%w: no extract for %q", ErrUnavailable, title)
	}

	telemetry.ObserveEnrichment("summary", "fetch", "found")
	s = Summary{
		Title:     p.Title,
		Extract:   extract,
		Thumbnail: p.Thumbnail.Source,
		PageURL:   p.ContentURLs.Desktop.Page,
	}
	if s.Title == "" {
		s.Title = title
	}
	return s, nil
}

func textFromHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
