// Package config loads application configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings every process needs.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string        // APP_ENV, e.g. "dev" or "prod"
	Port           string        // APP_PORT
	DBUser         string        // DB_USER
	DBPass         string        // DB_PASS (empty allowed)
	DBHost         string        // DB_HOST
	DBPort         string        // DB_PORT
	DBName         string        // DB_NAME
	DBMaxOpenConns int           // DB_MAX_OPEN_CONNS
	DBMigrate      bool          // DB_MIGRATE, create missing tables on start
	JWTSecret      string        // JWT_SECRET
	AccessTTLMin   int           // ACCESS_TOKEN_TTL_MIN
	RequestTimeout time.Duration // REQUEST_TIMEOUT, per-request deadline
	LogDir         string        // LOG_DIR
	Debug          bool          // LOG_DEBUG
}

// Load reads a .env file when present and then the environment.  Missing
// required variables terminate the process.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
		DBMigrate:      envBool("DB_MIGRATE", false),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RequestTimeout: envDur("REQUEST_TIMEOUT", 10*time.Second),
		LogDir:         envStr("LOG_DIR", "logs"),
		Debug:          envBool("LOG_DEBUG", false),
	}
}

// must retrieves the value of a required environment variable.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an int.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
