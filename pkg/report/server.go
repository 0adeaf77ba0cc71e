package report

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/japicc/pkg/dump"
	"github.com/platinummonkey/japicc/pkg/httputil"
)

// Server exposes previously computed comparison results as JSON. It never
// runs a comparison itself — that's pkg/cli's job — it only answers
// queries against what pkg/dump has already persisted.
type Server struct {
	store *dump.Store
	cache *dump.ResultCache // optional; nil disables the cached-summary endpoint
}

// NewServer wires a Server to its backing store. cache may be nil.
func NewServer(store *dump.Store, cache *dump.ResultCache) *Server {
	return &Server{store: store, cache: cache}
}

// RegisterRoutes registers the report query routes on router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/{library}/{oldVersion}/{newVersion}", s.getReport).Methods(http.MethodGet)
	router.HandleFunc("/history/{library}", s.getHistory).Methods(http.MethodGet)
}

// getReport handles GET /reports/{library}/{oldVersion}/{newVersion}?level=binary
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	library, oldVersion, newVersion := vars["library"], vars["oldVersion"], vars["newVersion"]

	level := r.URL.Query().Get("level")
	if level == "" {
		level = "binary"
	}

	if s.cache == nil {
		httputil.WriteServiceUnavailable(w, "result cache is not configured")
		return
	}

	summary, err := s.cache.Get(r.Context(), library, oldVersion, newVersion, level)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if summary == nil {
		httputil.WriteNotFoundError(w, "no cached result for this comparison")
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, summary, "failed to encode report")
}

// getHistory handles GET /history/{library}
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	library := vars["library"]

	entries, err := s.store.History(r.Context(), library)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if len(entries) == 0 {
		httputil.WriteNotFoundError(w, "no dump history for this library")
		return
	}

	httputil.WriteJSONOrError(w, http.StatusOK, entries, "failed to encode history")
}
