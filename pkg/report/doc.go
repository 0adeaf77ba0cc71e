// Package report implements a small read-only JSON query service over
// previously recorded comparison results, grounded on
// pkg/api/server.go + pkg/api/compatibility_handlers.go's gorilla/mux
// routing and pkg/httputil's response helpers. It is distinct from the
// out-of-scope HTML report renderer: it serves already-computed
// dump-history and cached-summary data as JSON, never rendering the
// problem set itself.
package report
