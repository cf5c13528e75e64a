// Package server wires the SecretKeeper server together: it opens the
// store, builds the services and runs the HTTP API and the gRPC health
// endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/secretkeeper/internal/server/oauth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/secretkeeper/internal/server/grpc"
)

const (
	healthProbeInterval = 10 * time.Second
	stateSweepInterval  = time.Minute
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	authService   *services.AuthService
	secretService *services.SecretService
	exportService *services.ExportService
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rm, db, err := repomanager.Open(ctx, c.DatabaseDSN, c.StoreTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var provider oauth.Provider
	if c.GoogleEnabled() {
		provider = oauth.NewGoogleProvider(ctx, oauth.GoogleConfig{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			CallbackURL:  c.GoogleCallbackURL,
			AuthURL:      c.GoogleAuthURL,
			TokenURL:     c.GoogleTokenURL,
			UserInfoURL:  c.GoogleUserInfoURL,
		})
	}

	as := services.NewAuthService(db, rm, c, auth.NewBcryptHasher(c.PasswordHashCost), provider, logger)
	ss := services.NewSecretService(db, rm, c)
	es, err := services.NewExportService(ctx, c, ss, logger)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("export init error: %w", err)
	}

	logger.Info(ctx, "App initialized",
		"google_login", c.GoogleEnabled(),
		"export", c.ExportEnabled(),
		"in_memory", db == nil,
	)

	return &App{config: c, logger: logger, db: db, authService: as, secretService: ss, exportService: es}, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.authService, app.secretService, app.exportService, app.config.FrontendURL)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var pinger gs.Pinger
	if app.db != nil {
		pinger = app.db
	}

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, pinger, healthProbeInterval, app.config.StoreTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// sweepStates deletes abandoned OAuth states until ctx is done.
func (app *App) sweepStates(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredStates(ctx)
			if err != nil {
				app.logger.Warn(ctx, "oauth state sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "oauth states purged", "count", n)
			}
		}
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sweepStates(ctx, stateSweepInterval)
	}()

	wg.Wait()

	closeDB(app.db)
	app.logger.Info(context.Background(), "App stopped")
}
