package app

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/cookieauth/pkg/cryptox"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	JWTSecret string // Required: HS256 signing secret, at least 32 bytes
	Issuer    string // Optional: issuer claim for tokens (default: cookieauth)

	DatabaseDriver string // Optional: postgres or sqlite (default: sqlite)
	DatabaseURL    string // Postgres connection URL; composed from DB_* when unset
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DBMaxConns     int    // Optional: connection pool bound (default: driver specific)

	PasswordAlgorithm string // Optional: bcrypt or argon2id (default: bcrypt)
	BcryptCost        int    // Optional: bcrypt cost (default: 10)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	CORSAllowedOrigins  []string      // Origins allowed to make credentialed requests
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment. A .env file in the working directory is
// loaded first if present; variables already set win.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "cookieauth"),
		DatabaseDriver:      strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "auth.db"),
		DBMaxConns:          getEnvIntOrDefault("DB_MAX_CONNS", 0),
		PasswordAlgorithm:   getEnvOrDefault("PASSWORD_ALGORITHM", cryptox.AlgorithmBcrypt),
		BcryptCost:          getEnvIntOrDefault("BCRYPT_COST", cryptox.DefaultBcryptCost),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		CORSAllowedOrigins:  splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == DriverPostgres {
		cfg.DatabaseURL = composeDatabaseURL(
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getEnvOrDefault("DB_HOST", "localhost"),
			getEnvOrDefault("DB_PORT", "5432"),
			os.Getenv("DB_NAME"),
		)
	}

	return cfg
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_NAME is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	return errors.Join(errs...)
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c Config) SecureCookies() bool {
	return c.Env == "prod" || c.Env == "production"
}

// composeDatabaseURL builds a postgres URL from its parts. TLS is required
// for anything but a local host.
func composeDatabaseURL(user, password, host, port, name string) string {
	if name == "" {
		return ""
	}

	sslmode := "require"
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=" + sslmode,
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "10s", "1m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
