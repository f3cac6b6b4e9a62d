package transport

import (
	"fmt"
	"net/http"
)

// sessionsHandler is GET /sessions, a control-surface diagnostic.
func (s *Server) sessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := s.Sessions.Snapshot()
		out := make([]map[string]any, 0, len(sessions))
		for _, sess := range sessions {
			out = append(out, map[string]any{
				"session_id":    sess.ID,
				"device_id":     sess.DeviceID,
				"state":         sess.State,
				"authenticated": sess.Authenticated,
				"device_info":   sess.DeviceInfo,
				"last_activity": sess.LastActivity,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statusHandler is GET /status.
func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"sessions": s.Sessions.Count(),
			"packages": len(s.Catalog.List()),
		})
	}
}

// indexHandler is GET /, a plain landing response.
func (s *Server) indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "omadmserver: OMA DM / SyncML update server")
	}
}
