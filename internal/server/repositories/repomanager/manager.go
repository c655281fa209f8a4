// Package repomanager selects and constructs user repositories by backend
// name, and owns the relational plumbing around them: opening the database,
// running goose migrations and probing storage health.
package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/blob"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	Select(ctx context.Context, backend string) (users.Repository, error)
	Users(ctx context.Context) (users.Repository, error)
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Options describe where each backend keeps its data.
type Options struct {
	// Backend is used by Users; see Select for the accepted names.
	Backend string
	// Driver is one of "pgx", "postgres" or "sqlite".
	Driver string
	DSN    string
	// Blob holds the file backend's document.
	Blob blob.Store
}

type Manager struct {
	opts   Options
	logger logging.Logger
}

func NewManager(opts Options, l logging.Logger) *Manager {
	if opts.Driver == "" {
		opts.Driver = DriverPgx
	}
	if opts.Blob == nil {
		opts.Blob = blob.NewLocalStore("")
	}
	return &Manager{opts: opts, logger: l.With("module", "repomanager")}
}

// Select returns a fresh repository for backend: "session" and "postgres"
// pick those variants, any other name falls back to the file variant.
// Nothing is cached; the caller must Close the repository.
func (m *Manager) Select(ctx context.Context, backend string) (users.Repository, error) {
	switch backend {
	case common.BackendSession:
		return users.NewSessionRepository(ctx)
	case common.BackendPostgres:
		db, d, err := m.openDB(ctx)
		if err != nil {
			return nil, err
		}
		return users.NewSQLRepository(db, d.dialect), nil
	default:
		return users.NewFileRepository(m.opts.Blob, m.logger), nil
	}
}

// Users selects the configured backend.
func (m *Manager) Users(ctx context.Context) (users.Repository, error) {
	return m.Select(ctx, m.opts.Backend)
}

// Backend reports the configured backend name.
func (m *Manager) Backend() string {
	return m.opts.Backend
}

// Ping checks that the configured backend's storage is reachable. The
// session backend has nothing to probe.
func (m *Manager) Ping(ctx context.Context) error {
	switch m.opts.Backend {
	case common.BackendSession:
		return nil
	case common.BackendPostgres:
		db, _, err := m.openDB(ctx)
		if err != nil {
			return err
		}
		return db.Close()
	default:
		if _, err := m.opts.Blob.Read(ctx); err != nil && !errors.Is(err, blob.ErrNotExist) {
			return fmt.Errorf("users document %s: %w", m.opts.Blob.Location(), err)
		}
		return nil
	}
}
