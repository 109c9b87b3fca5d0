package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by parseEnv.
const EnvPrefix = "ASSISTANT_"

// loadDotEnv is a seam for tests; a missing .env file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays ASSISTANT_* environment variables, after loading a .env
// file from the working directory if there is one. Variables already set in
// the process environment win over .env entries.
func parseEnv(config *Config) {
	loadDotEnv()

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.PasswordScheme, "PASSWORD_SCHEME")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")

	if v, ok := os.LookupEnv(EnvPrefix + "ACCESS_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = d
	}

	if v, ok := os.LookupEnv(EnvPrefix + "CORS_ALLOWED_ORIGINS"); ok && v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
