// Package config handles configuration for the server component: defaults,
// a JSON overlay, environment variables (optionally from a .env file) and
// finally command-line flags, each layer overriding the previous one.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/common"
)

const (
	FileStorageLocal = "local"
	FileStorageS3    = "s3"
)

// Config holds runtime settings for the users server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses; an empty gRPC
//     address disables the health service.
//   - Backend: "file", "session" or "postgres".
//   - DatabaseDriver / DatabaseDSN: relational backend connection.
//   - FileStorage: where the file backend keeps its document, "local"
//     (UsersFile) or "s3" (S3Bucket/S3Key).
//   - SessionSecret: HMAC key for the session cookie. Required.
type Config struct {
	EndpointAddrHTTP    string
	EndpointAddrGRPC    string
	Backend             string
	DatabaseDriver      string
	DatabaseDSN         string
	UsersFile           string
	FileStorage         string
	S3Bucket            string
	S3Key               string
	S3Region            string
	S3BaseEndpoint      string
	S3RootUser          string
	S3RootPassword      string
	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	CORSOrigins         []string
	CredentialsFile     string
	HealthCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates Config with development defaults. There is no
// default session secret and the DSN carries no password.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.Backend = common.BackendFile
	c.DatabaseDriver = "pgx"
	c.DatabaseDSN = "postgres://postgres@localhost:5432/users?sslmode=disable"
	c.UsersFile = "users.json"
	c.FileStorage = FileStorageLocal
	c.S3Key = "users.json"
	c.S3Region = "us-east-1"
	c.SessionTTL = 24 * time.Hour
	c.SessionCookieName = "usersapp_session"
	c.HealthCheckInterval = 10 * time.Second
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return common.ErrMissingSecret
	}
	switch c.FileStorage {
	case FileStorageLocal:
	case FileStorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("file storage %q needs a bucket", c.FileStorage)
		}
	default:
		return fmt.Errorf("unknown file storage %q", c.FileStorage)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
