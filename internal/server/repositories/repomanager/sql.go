package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/server/migrations"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type driver struct {
	sqlName string
	goose   string
	dialect users.Dialect
}

var drivers = map[string]driver{
	DriverPgx:      {sqlName: "pgx", goose: "postgres", dialect: users.Postgres},
	DriverPostgres: {sqlName: "postgres", goose: "postgres", dialect: users.Postgres},
	DriverSQLite:   {sqlName: "sqlite", goose: "sqlite3", dialect: users.SQLite},
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func lookupDriver(name string) (driver, error) {
	d, ok := drivers[name]
	if !ok {
		return driver{}, fmt.Errorf("%w: %q", common.ErrUnknownDriver, name)
	}
	return d, nil
}

// openDB opens and pings a new handle on every call.
func (m *Manager) openDB(ctx context.Context) (*sql.DB, driver, error) {
	d, err := lookupDriver(m.opts.Driver)
	if err != nil {
		return nil, driver{}, err
	}

	db, err := sqlOpen(d.sqlName, m.opts.DSN)
	if err != nil {
		return nil, driver{}, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, driver{}, fmt.Errorf("ping database: %w", err)
	}

	return db, d, nil
}

// RunMigrations applies the embedded goose migrations. Only the relational
// backend has a schema; for the others it does nothing.
func (m *Manager) RunMigrations(ctx context.Context) error {
	if m.opts.Backend != common.BackendPostgres {
		return nil
	}

	db, d, err := m.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(d.goose); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	m.logger.Info(ctx, "migrations applied", "driver", m.opts.Driver)
	return nil
}
