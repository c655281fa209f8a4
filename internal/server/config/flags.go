package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/usersapp/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address, empty disables it
//	-r string     users backend: file, session or postgres
//	-k string     database driver: pgx, postgres or sqlite
//	-d string     database DSN
//	-f string     users file for the local file backend
//	-s string     session signing secret
//	-t duration   session lifetime (e.g., "12h")
//	-o string     comma-separated CORS origins
//	-p string     credentials file (JSON)
//	-i duration   health probe interval
//	-l string     log level: debug, info, warn, error
//
// os.Args is first filtered with flagx.FilterArgs so flags owned by other
// loaders (-c, -env) do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-r", "-k", "-d", "-f", "-s", "-t", "-o", "-p", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address, empty to disable")
	fs.StringVar(&config.Backend, "r", config.Backend, "users backend (file, session, postgres)")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (pgx, postgres, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.UsersFile, "f", config.UsersFile, "users file")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")
	fs.StringVar(&config.CredentialsFile, "p", config.CredentialsFile, "credentials file")
	fs.DurationVar(&config.HealthCheckInterval, "i", config.HealthCheckInterval, "health probe interval")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CORSOrigins = splitList(*origins)
}
