package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/usersapp/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables onto config. A dotenv file (the
// -env flag, else ./.env) is loaded first; variables already set in the
// process environment win over the file. A missing default .env is fine, a
// missing or broken explicit one panics.
//
// Recognised variables:
//
//	HTTP_ADDR, GRPC_ADDR, USERS_REPO, DB_DRIVER, DATABASE_URL, USERS_FILE,
//	FILE_STORAGE, S3_BUCKET, S3_KEY, S3_REGION, S3_ENDPOINT, S3_USER,
//	S3_PASSWORD, SESSION_SECRET, SESSION_TTL, SESSION_COOKIE_SECURE,
//	CORS_ORIGINS, CREDENTIALS_FILE, HEALTH_INTERVAL, LOG_LEVEL
func parseEnv(config *Config) {
	loadDotenv(flagx.EnvFile())

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	envString(&config.Backend, "USERS_REPO")
	envString(&config.DatabaseDriver, "DB_DRIVER")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.UsersFile, "USERS_FILE")
	envString(&config.FileStorage, "FILE_STORAGE")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Key, "S3_KEY")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	envString(&config.S3RootUser, "S3_USER")
	envString(&config.S3RootPassword, "S3_PASSWORD")
	envString(&config.SessionSecret, "SESSION_SECRET")
	envString(&config.CredentialsFile, "CREDENTIALS_FILE")
	envString(&config.LogLevel, "LOG_LEVEL")

	envDuration(&config.SessionTTL, "SESSION_TTL")
	envDuration(&config.HealthCheckInterval, "HEALTH_INTERVAL")

	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.SessionCookieSecure = b
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.CORSOrigins = splitList(v)
	}
}

func loadDotenv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
