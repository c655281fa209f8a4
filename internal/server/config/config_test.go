package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, common.BackendFile, c.Backend)
	assert.Equal(t, "pgx", c.DatabaseDriver)
	assert.Equal(t, "postgres://postgres@localhost:5432/users?sslmode=disable", c.DatabaseDSN)
	assert.Equal(t, "users.json", c.UsersFile)
	assert.Equal(t, FileStorageLocal, c.FileStorage)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, "usersapp_session", c.SessionCookieName)
	assert.Equal(t, 10*time.Second, c.HealthCheckInterval)
	assert.Empty(t, c.SessionSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		c.SessionSecret = "s"
		return c
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.SessionSecret = ""
	require.ErrorIs(t, c.Validate(), common.ErrMissingSecret)

	c = valid()
	c.FileStorage = FileStorageS3
	require.ErrorContains(t, c.Validate(), "needs a bucket")
	c.S3Bucket = "b"
	require.NoError(t, c.Validate())

	c = valid()
	c.FileStorage = "ftp"
	require.ErrorContains(t, c.Validate(), "unknown file storage")

	c = valid()
	c.SessionTTL = 0
	require.ErrorContains(t, c.Validate(), "session ttl")
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": ":1111",
		"backend":            "session",
		"database_dsn":       "from-json",
		"log_level":          "debug",
	})
	t.Setenv("DATABASE_URL", "from-env")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("USERS_REPO", "postgres")

	os.Args = []string{"server", "-c", path, "-r", "file"}

	c := LoadConfig()

	assert.Equal(t, ":1111", c.EndpointAddrHTTP) // json over default
	assert.Equal(t, "from-env", c.DatabaseDSN)   // env over json
	assert.Equal(t, "file", c.Backend)           // flag over env
	assert.Equal(t, "env-secret", c.SessionSecret)
	assert.Equal(t, "debug", c.LogLevel)
	require.NoError(t, c.Validate())
}
