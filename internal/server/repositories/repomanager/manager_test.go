package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/blob"
	"github.com/dmitrijs2005/usersapp/internal/server/models"
	"github.com/dmitrijs2005/usersapp/internal/server/repositories/users"
	"github.com/dmitrijs2005/usersapp/internal/server/session"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Backend: common.BackendPostgres,
		Driver:  DriverSQLite,
		DSN:     filepath.Join(t.TempDir(), "users.db"),
	}
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(Options{}, logging.Nop{})
	assert.Equal(t, DriverPgx, m.opts.Driver)
	assert.NotNil(t, m.opts.Blob)

	var _ RepositoryManager = m
}

func TestSelect_FileIsTheFallback(t *testing.T) {
	m := NewManager(Options{Blob: blob.NewLocalStore(filepath.Join(t.TempDir(), "u.json"))}, logging.Nop{})

	for _, backend := range []string{"", "file", "mysql", "SESSION"} {
		repo, err := m.Select(context.Background(), backend)
		require.NoError(t, err, backend)
		assert.IsType(t, &users.FileRepository{}, repo, backend)
		require.NoError(t, repo.Close())
	}
}

func TestSelect_Session(t *testing.T) {
	m := NewManager(Options{}, logging.Nop{})

	_, err := m.Select(context.Background(), common.BackendSession)
	require.ErrorIs(t, err, common.ErrNoSession)

	ctx := session.NewContext(context.Background(), session.New())
	repo, err := m.Select(ctx, common.BackendSession)
	require.NoError(t, err)
	assert.IsType(t, &users.SessionRepository{}, repo)
}

func TestSelect_UnknownDriver(t *testing.T) {
	m := NewManager(Options{Driver: "oracle"}, logging.Nop{})

	_, err := m.Select(context.Background(), common.BackendPostgres)
	require.ErrorIs(t, err, common.ErrUnknownDriver)
}

func TestSelect_PostgresOpensFreshHandle(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	var opened []string
	sqlOpen = func(name, dsn string) (*sql.DB, error) {
		opened = append(opened, name+" "+dsn)
		db, _, err := sqlmock.New()
		return db, err
	}

	m := NewManager(Options{Driver: DriverPostgres, DSN: "postgres://localhost/users"}, logging.Nop{})
	for i := 0; i < 2; i++ {
		repo, err := m.Select(context.Background(), common.BackendPostgres)
		require.NoError(t, err)
		assert.IsType(t, &users.SQLRepository{}, repo)
		require.NoError(t, repo.Close())
	}
	assert.Equal(t, []string{"postgres postgres://localhost/users", "postgres postgres://localhost/users"}, opened)
}

func TestSelect_OpenError(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	m := NewManager(Options{}, logging.Nop{})
	_, err := m.Select(context.Background(), common.BackendPostgres)
	require.ErrorContains(t, err, "open database: bad dsn")
}

func TestSelect_PingError(t *testing.T) {
	opts := sqliteOptions(t)
	opts.DSN = filepath.Join(t.TempDir(), "missing", "users.db")
	m := NewManager(opts, logging.Nop{})

	_, err := m.Select(context.Background(), common.BackendPostgres)
	require.ErrorContains(t, err, "ping database")
}

func TestUsers_UsesConfiguredBackend(t *testing.T) {
	m := NewManager(Options{Backend: common.BackendSession}, logging.Nop{})
	ctx := session.NewContext(context.Background(), session.New())

	repo, err := m.Users(ctx)
	require.NoError(t, err)
	assert.IsType(t, &users.SessionRepository{}, repo)
	assert.Equal(t, common.BackendSession, m.Backend())
}

func TestRunMigrations_SQLiteRoundTrip(t *testing.T) {
	m := NewManager(sqliteOptions(t), logging.Nop{})
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	// Second run is a no-op.
	require.NoError(t, m.RunMigrations(ctx))

	repo, err := m.Users(ctx)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Add(ctx, models.User{ID: "1", Name: "alice", Email: "a@x"}))
	u, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
}

func TestRunMigrations_SkippedForNonRelational(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()
	sqlOpen = func(string, string) (*sql.DB, error) {
		t.Fatal("database must not be opened")
		return nil, nil
	}

	for _, backend := range []string{common.BackendFile, common.BackendSession} {
		m := NewManager(Options{Backend: backend}, logging.Nop{})
		require.NoError(t, m.RunMigrations(context.Background()))
	}
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewManager(sqliteOptions(t), logging.Nop{})
	err := m.RunMigrations(context.Background())
	require.ErrorContains(t, err, "migrate: boom")
}

type brokenBlob struct{}

func (brokenBlob) Read(context.Context) ([]byte, error) { return nil, errors.New("denied") }
func (brokenBlob) Write(context.Context, []byte) error  { return errors.New("denied") }
func (brokenBlob) Location() string                     { return "s3://bucket/users.json" }

func TestPing(t *testing.T) {
	ctx := context.Background()

	fileOK := NewManager(Options{Blob: blob.NewLocalStore(filepath.Join(t.TempDir(), "absent.json"))}, logging.Nop{})
	require.NoError(t, fileOK.Ping(ctx))

	fileBad := NewManager(Options{Blob: brokenBlob{}}, logging.Nop{})
	require.ErrorContains(t, fileBad.Ping(ctx), "s3://bucket/users.json: denied")

	require.NoError(t, NewManager(Options{Backend: common.BackendSession}, logging.Nop{}).Ping(ctx))
	require.NoError(t, NewManager(sqliteOptions(t), logging.Nop{}).Ping(ctx))

	require.ErrorIs(t, NewManager(Options{Backend: common.BackendPostgres, Driver: "nope"}, logging.Nop{}).Ping(ctx), common.ErrUnknownDriver)
}
