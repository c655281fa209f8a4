package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/dmitrijs2005/usersapp/internal/logging"
	"github.com/dmitrijs2005/usersapp/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.SessionSecret = "test-secret"
	c.UsersFile = filepath.Join(t.TempDir(), "users.json")
	c.EndpointAddrHTTP = freeAddr(t)
	c.EndpointAddrGRPC = ""
	c.LogLevel = "error"
	return c
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNewApp_RequiresSecret(t *testing.T) {
	c := testConfig(t)
	c.SessionSecret = ""

	_, err := NewApp(context.Background(), c)
	require.ErrorIs(t, err, common.ErrMissingSecret)
}

func TestNewApp_BadCredentialsFile(t *testing.T) {
	c := testConfig(t)
	c.CredentialsFile = filepath.Join(t.TempDir(), "absent.json")

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "read credentials")
}

func TestNewApp_HealthServerOptional(t *testing.T) {
	c := testConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, app.health)

	c.EndpointAddrGRPC = freeAddr(t)
	app, err = NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.NotNil(t, app.health)
}

func TestNewRepositoryManager_FileStorage(t *testing.T) {
	c := testConfig(t)
	c.Backend = common.BackendSession

	m, err := NewRepositoryManager(context.Background(), c, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, common.BackendSession, m.Backend())
}

func TestLoadCredentials_Default(t *testing.T) {
	s, err := LoadCredentials(testConfig(t))
	require.NoError(t, err)
	_, ok := s.Verify("tota", "password123")
	assert.True(t, ok)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrGRPC = freeAddr(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_ReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	c := testConfig(t)
	c.EndpointAddrHTTP = busy.Addr().String()
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "http server")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_MigrationFailureAborts(t *testing.T) {
	c := testConfig(t)
	c.Backend = common.BackendPostgres
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = filepath.Join(t.TempDir(), "missing", "users.db")

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.ErrorContains(t, err, "migrations")
}
