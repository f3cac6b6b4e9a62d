package transport

import (
	"fmt"
	"net/http"
)

// checkHandler is GET /api/updates/check?build=...
func (s *Server) checkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		build := r.URL.Query().Get("build")
		pkg, ok := s.Catalog.CheckUpdate(build, r.URL.Query().Get("model"), r.URL.Query().Get("carrier"))
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"updateAvailable": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"updateAvailable": true,
			"package":         pkg,
			"url":             s.Catalog.PackageURL(pkg, s.BaseURL),
		})
	}
}

// urlsHandler is GET /api/updates/urls?build=...: text/plain, one URL
// per applicable package per line.
func (s *Server) urlsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		build := r.URL.Query().Get("build")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, pkg := range s.Catalog.List() {
			if pkg.Applies(build) {
				fmt.Fprintln(w, s.Catalog.PackageURL(pkg, s.BaseURL))
			}
		}
	}
}

// sessionFilesHandler is GET /api/updates/session-files?build=...: an
// aggregate endpoint bundling download URL, on-device path, and package
// metadata in one round trip for a device-side update daemon.
func (s *Server) sessionFilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		build := r.URL.Query().Get("build")
		pkg, ok := s.Catalog.CheckUpdate(build, r.URL.Query().Get("model"), r.URL.Query().Get("carrier"))
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"updateAvailable": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"updateAvailable": true,
			"package":         pkg,
			"downloadUrl":     s.Catalog.PackageURL(pkg, s.BaseURL),
			"devicePath":      "./Software/Package/" + pkg.Filename,
		})
	}
}
