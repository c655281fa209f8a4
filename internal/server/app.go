// Package server wires the users application together: configuration,
// logging, storage selection, the HTTP pages and the gRPC health service,
// with graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/blob"
	"github.com/dmitrijs2005/usersapp/internal/server/config"
	"github.com/dmitrijs2005/usersapp/internal/server/credentials"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
	"github.com/dmitrijs2005/usersapp/internal/server/web"

	gs "github.com/dmitrijs2005/usersapp/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *repomanager.Manager
	http   *web.HTTPServer
	health *gs.HealthServer

	errMu   sync.Mutex
	runErrs error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	repos, err := NewRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	creds, err := LoadCredentials(c)
	if err != nil {
		return nil, err
	}

	codec, err := session.NewCodec(c.SessionSecret, c.SessionTTL)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(codec, session.Options{
		CookieName: c.SessionCookieName,
		Secure:     c.SessionCookieSecure,
		MaxAge:     c.SessionTTL,
	}, logger)

	hs, err := web.NewHTTPServer(c.EndpointAddrHTTP, logger, repos, creds, sessions, c.CORSOrigins)
	if err != nil {
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	app := &App{config: c, logger: logger, repos: repos, http: hs}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger, repos, c.HealthCheckInterval)
	}
	return app, nil
}

// NewRepositoryManager builds the repository factory described by c,
// including the blob store behind the file backend.
func NewRepositoryManager(ctx context.Context, c *config.Config, l logging.Logger) (*repomanager.Manager, error) {
	var store blob.Store
	switch c.FileStorage {
	case config.FileStorageS3:
		s3, err := blob.NewS3Store(ctx, blob.S3Options{
			Bucket:       c.S3Bucket,
			Key:          c.S3Key,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		store = s3
	default:
		store = blob.NewLocalStore(c.UsersFile)
	}

	return repomanager.NewManager(repomanager.Options{
		Backend: c.Backend,
		Driver:  c.DatabaseDriver,
		DSN:     c.DatabaseDSN,
		Blob:    store,
	}, l), nil
}

// LoadCredentials returns the configured credentials file, or the built-in
// set when none is configured.
func LoadCredentials(c *config.Config) (*credentials.Store, error) {
	if c.CredentialsFile == "" {
		return credentials.Default(), nil
	}
	return credentials.LoadFile(c.CredentialsFile)
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

// fail records a server error for Run to return and stops the others.
func (app *App) fail(ctx context.Context, cancelFunc context.CancelFunc, err error) {
	app.logger.Error(ctx, err.Error())

	app.errMu.Lock()
	app.runErrs = errors.Join(app.runErrs, err)
	app.errMu.Unlock()

	cancelFunc()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.fail(ctx, cancelFunc, fmt.Errorf("http server: %w", err))
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.fail(ctx, cancelFunc, fmt.Errorf("grpc server: %w", err))
	}
}

// Run applies migrations and serves until ctx is cancelled, a signal
// arrives or one of the servers fails. Server failures are returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.repos.Backend())

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")

	app.errMu.Lock()
	defer app.errMu.Unlock()
	return app.runErrs
}
