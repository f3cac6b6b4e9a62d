// Package transport is the HTTP adapter over the protocol engine: the
// SyncML management endpoint, the package file store, the direct JSON
// update-check API, and a diagnostics/control surface.
package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/webos-oma/omadmserver/catalog"
	"github.com/webos-oma/omadmserver/dispatch"
	"github.com/webos-oma/omadmserver/internal/logging"
	"github.com/webos-oma/omadmserver/session"
)

// Server bundles the dependencies every route needs.
type Server struct {
	ManagementPath string
	Dispatcher     *dispatch.Dispatcher
	Catalog        *catalog.Catalog
	Sessions       *session.Store
	BaseURL        string
}

// NewRouter builds the chi router for the server.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	m := newMetrics(
		func() float64 { return float64(s.Sessions.Count()) },
		func() float64 { return float64(len(s.Catalog.List())) },
	)

	managementPath := s.ManagementPath
	if managementPath == "" {
		managementPath = "/palmcsext/swupdateserver"
	}
	r.Post(managementPath, s.managementHandler(m))

	r.Get("/packages/manifest.json", s.manifestHandler())
	r.Get("/packages/{filename}", s.packageFileHandler())
	r.Post("/packages/scan", s.scanHandler())
	r.Post("/packages/add", s.addPackageHandler())

	r.Route("/api/updates", func(r chi.Router) {
		r.Get("/check", s.checkHandler())
		r.Get("/urls", s.urlsHandler())
		r.Get("/session-files", s.sessionFilesHandler())
	})

	r.Get("/sessions", s.sessionsHandler())
	r.Get("/status", s.statusHandler())
	r.Get("/", s.indexHandler())
	r.Handle("/metrics", promHandler(m))

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Get().Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
