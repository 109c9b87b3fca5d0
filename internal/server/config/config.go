// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the assistant server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random
//     key is generated at startup, which invalidates tokens on restart.
//   - AccessTokenValidityDuration: bearer token lifetime.
//   - PasswordScheme: hashing scheme for new registrations ("argon2id" or "sha256").
//   - CORSAllowedOrigins: origins allowed by the CORS middleware.
//   - LogLevel: minimum slog level.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings for uploads.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	PasswordScheme              string
	CORSAllowedOrigins          []string
	LogLevel                    string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// There is deliberately no default SecretKey.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "postgres://postgres@127.0.0.1:5432/postgres?sslmode=disable"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.PasswordScheme = "argon2id"
	c.CORSAllowedOrigins = []string{"*"}
	c.LogLevel = "info"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = "uploads"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
