// Package api hosts the HTTP server, middleware, and JSON handlers consumed by
// the travel front-end. Notable routes:
//   - GET /healthz and /readyz for probes; readyz reports the country cache state.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/countries (optionally ?q=) and /v1/countries/popular for the grids.
//   - GET /v1/countries/{name} for the detail view, plus /places and /summary
//     for its enrichment panels, which always answer 200.
package api
