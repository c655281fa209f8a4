package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:8081", "-g", ":6000", "-r", "postgres", "-k", "sqlite", "-d", "db",
			"-f", "u.json", "-s", "secret", "-t", "2h", "-o", "https://x,https://y",
			"-p", "creds.json", "-i", "30s", "-l", "debug",
		},
			expected: &Config{
				EndpointAddrHTTP:    "127.0.0.1:8081",
				EndpointAddrGRPC:    ":6000",
				Backend:             "postgres",
				DatabaseDriver:      "sqlite",
				DatabaseDSN:         "db",
				UsersFile:           "u.json",
				SessionSecret:       "secret",
				SessionTTL:          2 * time.Hour,
				CORSOrigins:         []string{"https://x", "https://y"},
				CredentialsFile:     "creds.json",
				HealthCheckInterval: 30 * time.Second,
				LogLevel:            "debug",
			}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-env", ".env", "-r", "session"},
			expected: &Config{Backend: "session"}},
		{name: "bad duration", args: []string{"cmd", "-t", "later"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
