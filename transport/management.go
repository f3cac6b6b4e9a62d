package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/webos-oma/omadmserver/dispatch"
	"github.com/webos-oma/omadmserver/internal/apperr"
	"github.com/webos-oma/omadmserver/internal/logging"
)

// managementHandler is the single SyncML POST endpoint the protocol
// engine sits behind. Framing and parse failures fail the entire
// response as HTTP 500; per-command problems become Status codes inside
// the SyncML body instead.
func (s *Server) managementHandler(m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			m.requests.WithLabelValues("management", "400").Inc()
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		resp, err := s.Dispatcher.Handle(dispatch.Request{
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
			HMACHeader:  r.Header.Get("x-syncml-hmac"),
		})
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				logging.Get().Error().Err(appErr.Underlying).Str("code", appErr.Code.String()).Msg(appErr.Message)
			}
			m.requests.WithLabelValues("management", "500").Inc()
			http.Error(w, "malformed SyncML request", http.StatusInternalServerError)
			return
		}

		if resp.HMACHeader != "" {
			w.Header().Set("x-syncml-hmac", resp.HMACHeader)
		}
		w.Header().Set("Content-Type", resp.ContentType)
		m.requests.WithLabelValues("management", "200").Inc()
		_, _ = w.Write(resp.Body)
	}
}
