package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/usersapp/internal/flagx"
	"github.com/dmitrijs2005/usersapp/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// both strings such as "10s" and integer nanoseconds. Absent keys leave the
// current value alone.
type JsonConfig struct {
	EndpointAddrHTTP    string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    *string        `json:"endpoint_addr_grpc"`
	Backend             string         `json:"backend"`
	DatabaseDriver      string         `json:"database_driver"`
	DatabaseDSN         string         `json:"database_dsn"`
	UsersFile           string         `json:"users_file"`
	FileStorage         string         `json:"file_storage"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Key               string         `json:"s3_key"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	SessionSecret       string         `json:"session_secret"`
	SessionTTL          timex.Duration `json:"session_ttl"`
	SessionCookieName   string         `json:"session_cookie_name"`
	SessionCookieSecure *bool          `json:"session_cookie_secure"`
	CORSOrigins         []string       `json:"cors_origins"`
	CredentialsFile     string         `json:"credentials_file"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Without
// either flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setString(&config.Backend, c.Backend)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.UsersFile, c.UsersFile)
	setString(&config.FileStorage, c.FileStorage)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Key, c.S3Key)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.SessionCookieName, c.SessionCookieName)
	setString(&config.CredentialsFile, c.CredentialsFile)
	setString(&config.LogLevel, c.LogLevel)

	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.SessionCookieSecure != nil {
		config.SessionCookieSecure = *c.SessionCookieSecure
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
