// Package httpapi exposes the Daybook server over a JSON HTTP API:
// registration and login, journal entry listing and upserts, the daily
// prompt, and presigned backup uploads.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/server/services"
	"github.com/gorilla/mux"
)

type HTTPServer struct {
	address   string
	users     *services.UserService
	entries   *services.EntryService
	backups   *services.BackupService
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, es *services.EntryService, bs *services.BackupService, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		entries:   es,
		backups:   bs,
		jwtSecret: []byte(secretKey),
	}, nil
}

// router wires the public and authenticated routes.
func (s *HTTPServer) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthcheck", s.handleHealthcheck).Methods(http.MethodGet)

	r.HandleFunc("/api/users/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/users/refresh", s.handleRefresh).Methods(http.MethodPost)

	// The prompt is public: clients show it before login too.
	r.HandleFunc("/api/prompts/today", s.handleTodayPrompt).Methods(http.MethodGet)

	private := r.NewRoute().Subrouter()
	private.Use(s.accessTokenMiddleware)
	private.HandleFunc("/api/entries", s.handleListEntries).Methods(http.MethodGet)
	private.HandleFunc("/api/entries", s.handleUpsertBatch).Methods(http.MethodPut)
	private.HandleFunc("/api/entries/{date}", s.handleUpsertOne).Methods(http.MethodPut)
	private.HandleFunc("/api/backups/presign", s.handlePresignBackup).Methods(http.MethodPost)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
