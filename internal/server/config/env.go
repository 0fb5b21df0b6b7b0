package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv exports the variables from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays values from environment variables:
//
//	PORT              listen port (becomes ":<PORT>")
//	HTTP_ADDR         full bind address, wins over PORT
//	APP_ENV           environment name ("development" disables Secure cookies)
//	LOG_LEVEL         debug, info, warn, error
//	DATABASE_DSN      PostgreSQL DSN
//	STORAGE_BACKEND   postgres or memory
//	JWT_SECRET        session signing secret
//	SESSION_TTL       Go duration, e.g. "168h"
//	BCRYPT_COST       integer
//	MAX_BODY_BYTES    integer
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, S3_PUBLIC_URL
//	EVENTS_BACKEND    log, redis or kafka
//	REDIS_URL         redis://... or host:port
//	KAFKA_BROKERS     comma separated host:port list
//	KAFKA_TOPIC
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("APP_ENV", &config.Environment)
	str("LOG_LEVEL", &config.LogLevel)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("STORAGE_BACKEND", &config.StorageBackend)
	str("JWT_SECRET", &config.SecretKey)

	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionTTL = d
	}
	if v, ok := lookup("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxBodyBytes = n
	}

	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_PUBLIC_URL", &config.S3PublicURL)

	str("EVENTS_BACKEND", &config.EventsBackend)
	str("REDIS_URL", &config.RedisURL)
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		config.KafkaBrokers = splitList(v)
	}
	str("KAFKA_TOPIC", &config.KafkaTopic)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
