// Package cli implements the interactive Daybook client: a small REPL over
// the journal, auth, and transfer services.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/config"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/journal"
	"github.com/dmitrijs2005/daybook/internal/client/services"
	"github.com/dmitrijs2005/daybook/internal/client/session"
	"github.com/dmitrijs2005/daybook/internal/i18n"
	"github.com/dmitrijs2005/daybook/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	journal  services.JournalService
	transfer services.TransferService
	sessions *session.Manager
	locale   *i18n.Manager
	logger   logging.Logger
	userName string
	Mode     Mode
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	repo := journal.NewSQLiteRepository(db)

	apiClient, err := client.NewDaybookClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager()
	locale := i18n.NewManager(repo)
	if err := locale.Init(ctx); err != nil {
		logger.Warn(ctx, "locale init failed, using default", "error", err)
	}

	app := &App{
		config:   c,
		auth:     services.NewAuthService(apiClient, sessions),
		journal:  services.NewJournalService(apiClient, repo, logger),
		transfer: services.NewTransferService(apiClient, repo, logger),
		sessions: sessions,
		locale:   locale,
		logger:   logger,
		Mode:     ModeOffline,
		reader:   bufio.NewReader(os.Stdin),
	}

	// Session availability is what triggers a reconciliation pass, the same
	// way app load does below.
	sessions.Subscribe(func(ownerID string) {
		if ownerID == "" {
			return
		}
		if _, err := app.journal.Sync(context.Background(), ownerID); err != nil {
			logger.Warn(context.Background(), "post-login sync failed", "error", err)
		}
	})

	// Initial load: present whatever is on the device.
	if _, err := app.journal.Sync(ctx, sessions.Current()); err != nil {
		logger.Warn(ctx, "initial load failed", "error", err)
	}

	return app, nil
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.auth.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != ""
}

// StartOnlineStatusWatcher probes the server on an interval and flips the
// displayed mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
