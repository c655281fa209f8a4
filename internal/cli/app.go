// Package cli is an interactive admin console for the users store. It uses
// the same configuration, repository factory and credential store as the
// server; the session backend is served from an in-process session that
// lives as long as the console.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server"
	"github.com/dmitrijs2005/usersapp/internal/server/config"
	"github.com/dmitrijs2005/usersapp/internal/server/credentials"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
)

type App struct {
	config   *config.Config
	repos    repomanager.RepositoryManager
	creds    *credentials.Store
	session  *session.Session
	userName string
	reader   *bufio.Reader
	out      io.Writer
	logger   logging.Logger
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, "warn")

	repos, err := server.NewRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	creds, err := server.LoadCredentials(c)
	if err != nil {
		return nil, err
	}

	return newApp(c, repos, creds, os.Stdin, os.Stdout, logger), nil
}

func newApp(c *config.Config, repos repomanager.RepositoryManager, creds *credentials.Store,
	in io.Reader, out io.Writer, l logging.Logger) *App {
	return &App{
		config:  c,
		repos:   repos,
		creds:   creds,
		session: session.New(),
		reader:  bufio.NewReader(in),
		out:     out,
		logger:  l.With("module", "cli"),
	}
}

func (a *App) Run(ctx context.Context) {
	if err := a.repos.RunMigrations(ctx); err != nil {
		a.logger.Error(ctx, "migrations failed", "error", err.Error())
		return
	}

	printlnFn("Users admin console (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	backend := a.config.Backend
	if a.userName == "" {
		return backend
	}
	return a.userName + "@" + backend
}

// withRepo runs fn against a fresh repository and closes it afterwards.
func (a *App) withRepo(ctx context.Context, fn func(repo users.Repository) error) error {
	repo, err := a.repos.Users(session.NewContext(ctx, a.session))
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			a.logger.Warn(ctx, "close repository", "error", err.Error())
		}
	}()
	return fn(repo)
}
