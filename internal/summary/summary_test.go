package summary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	getter := upstream.New(upstream.Config{Service: "summary"}, zap.NewNop())
	return New(server.URL+"/api/rest_v1/", getter, zap.NewNop())
}

func TestFetchSummary_Success(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest_v1/page/summary/Buenos_Aires", r.URL.Path)
		fmt.Fprint(w, `{
		  "title":"Buenos Aires",
		  "extract":"Buenos Aires is the capital of Argentina.",
		  "thumbnail":{"source":"https://upload.wikimedia.org/ba.jpg","width":320},
		  "content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Buenos_Aires"}}
		}`)
	})

	got, err := client.FetchSummary(context.Background(), "Buenos Aires")

	require.NoError(t, err)
	assert.Equal(t, Summary{
		Title:     "Buenos Aires",
		Extract:   "Buenos Aires is the capital of Argentina.",
		Thumbnail: "https://upload.wikimedia.org/ba.jpg",
		PageURL:   "https://en.wikipedia.org/wiki/Buenos_Aires",
	}, got)
}

func TestFetchSummary_ExtractHTMLFallback(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"extract":"","extract_html":"<p><b>Paris</b> is the   capital\n of <a href=\"/wiki/France\">France</a>.</p>"}`)
	})

	got, err := client.FetchSummary(context.Background(), "Paris")

	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", got.Extract)
	assert.Equal(t, "Paris", got.Title)
	assert.Empty(t, got.Thumbnail)
}

func TestFetchSummary_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"type":"not_found"}`},
		{"server error", http.StatusInternalServerError, ``},
		{"malformed", http.StatusOK, `{"extract":`},
		{"no extract", http.StatusOK, `{"title":"Empty"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.FetchSummary(context.Background(), "Somewhere")

			require.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestFetchSummary_BlankTitleSkipsNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	})

	_, err := client.FetchSummary(context.Background(), "   ")

	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(0), hits.Load())
}
