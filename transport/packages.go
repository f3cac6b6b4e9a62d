package transport

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/webos-oma/omadmserver/catalog"
)

// manifestHandler serves the raw manifest.json file.
func (s *Server) manifestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, s.Catalog.PackagePath("manifest.json"))
	}
}

// packageFileHandler streams a package's bytes, delegating single-range
// support (206 with Content-Range, 416 past EOF) to http.ServeContent.
func (s *Server) packageFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		path := s.Catalog.PackagePath(filename)

		f, err := os.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			http.Error(w, "stat failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Accept-Ranges", "bytes")
		http.ServeContent(w, r, filename, info.ModTime(), f)
	}
}

// scanHandler triggers a catalog rescan.
func (s *Server) scanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		added, err := s.Catalog.Rescan()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"added": added})
	}
}

// addPackageHandler registers a package already present on disk under
// the packages directory into the manifest.
func (s *Server) addPackageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Filename    string `json:"filename"`
			Description string `json:"description"`
			MinVersion  string `json:"min_version"`
			TargetBuild string `json:"target_build"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Filename == "" {
			http.Error(w, "name and filename are required", http.StatusBadRequest)
			return
		}

		pkg, err := s.Catalog.AddPackage(catalog.Package{
			Name:        req.Name,
			Version:     req.Version,
			Filename:    req.Filename,
			Description: req.Description,
			MinVersion:  req.MinVersion,
			TargetBuild: req.TargetBuild,
		}, s.Catalog.PackagePath(req.Filename))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, pkg)
	}
}
