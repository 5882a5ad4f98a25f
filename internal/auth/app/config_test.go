package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, k := range []string{
		"JWT_SECRET", "AUTH_ISSUER", "DATABASE_DRIVER", "DATABASE_URL", "DATABASE_FILE",
		"DB_MAX_CONNS", "PASSWORD_ALGORITHM", "BCRYPT_COST", "ENV", "LOG_LEVEL", "LOG_FORMAT",
		"PORT", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_GRACE_PERIOD",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "cookieauth", cfg.Issuer)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "auth.db", cfg.DatabaseFile)
	require.Equal(t, "bcrypt", cfg.PasswordAlgorithm)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.False(t, cfg.SecureCookies())

	require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "auth")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "users")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30")

	cfg := LoadConfig()
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, "postgres://auth:pw@db.internal:5433/users?sslmode=require", cfg.DatabaseURL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.True(t, cfg.SecureCookies())
	require.NoError(t, cfg.Validate())
}

func TestComposeDatabaseURL(t *testing.T) {
	t.Run("local host disables tls", func(t *testing.T) {
		require.Equal(t,
			"postgres://u:p@localhost:5432/db?sslmode=disable",
			composeDatabaseURL("u", "p", "localhost", "5432", "db"))
	})

	t.Run("missing name", func(t *testing.T) {
		require.Empty(t, composeDatabaseURL("u", "p", "localhost", "5432", ""))
	})
}

func TestValidate(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		cfg := Config{JWTSecret: "x", DatabaseDriver: DriverPostgres}
		require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := Config{JWTSecret: "x", DatabaseDriver: "mysql"}
		require.ErrorContains(t, cfg.Validate(), "mysql")
	})
}
