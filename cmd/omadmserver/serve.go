package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/webos-oma/omadmserver/auth"
	"github.com/webos-oma/omadmserver/catalog"
	"github.com/webos-oma/omadmserver/dispatch"
	"github.com/webos-oma/omadmserver/internal/apperr"
	"github.com/webos-oma/omadmserver/internal/config"
	"github.com/webos-oma/omadmserver/internal/logging"
	"github.com/webos-oma/omadmserver/session"
	"github.com/webos-oma/omadmserver/transport"
)

// sweepInterval is how often the idle-session sweep runs, independent
// of the configured session timeout. Store.Sweep takes the same lock
// WithSession does, so the sweep never evicts a session a handler is
// mutating.
const sweepInterval = 5 * time.Minute

func startSweeper(store *session.Store) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		for range ticker.C {
			if n := store.Sweep(); n > 0 {
				logging.Get().Info().Int("evicted", n).Msg("swept idle sessions")
			}
		}
	}()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP management and update-download server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return apperr.Wrap(apperr.CodeConfig, "load configuration", err)
	}

	cat, err := catalog.New(cfg.PackagesDir)
	if err != nil {
		logging.Get().Warn().Err(err).Msg("catalog load reported an error, starting empty")
	}

	store := session.NewStore(cfg.SessionTimeout)
	startSweeper(store)
	d := dispatch.New(dispatch.Config{
		ServerID:  cfg.ServerID,
		ServerURL: cfg.ServerURL,
		Verifier:  auth.Verifier{DefaultUsername: cfg.DefaultUsername, DefaultPassword: cfg.DefaultPassword},
		ServerCreds: auth.Credentials{Username: cfg.ServerUsername, Password: cfg.ServerPassword},
	}, store, cat)

	srv := &transport.Server{
		Dispatcher: d,
		Catalog:    cat,
		Sessions:   store,
		BaseURL:    cfg.ServerURL,
	}

	logging.Get().Info().Str("addr", cfg.Addr()).Msg("omadmserver listening")
	return http.ListenAndServe(cfg.Addr(), srv.NewRouter())
}
