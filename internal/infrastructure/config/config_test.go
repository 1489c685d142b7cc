package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs Load from an empty directory so a developer's config.toml
// does not leak into the test
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	isolate(t)

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storesync", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storesync", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)

		assert.True(t, cfg.Sync.Enabled)
		assert.Equal(t, "0 0 * * * *", cfg.Sync.Cron)
		assert.Equal(t, 100, cfg.Sync.PerPage)
		assert.Equal(t, time.Second, cfg.Sync.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.WooCommerce.Timeout)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.False(t, cfg.Telemetry.LogsEnabled)
	})

	t.Run("loads values from environment variables with STORESYNC prefix", func(t *testing.T) {
		t.Setenv("STORESYNC_APP_PORT", "9000")
		t.Setenv("STORESYNC_DATABASE_DRIVER", "sqlite")
		t.Setenv("STORESYNC_DATABASE_PATH", ":memory:")
		t.Setenv("STORESYNC_WOOCOMMERCE_URL", "https://shop.example.com")
		t.Setenv("STORESYNC_WOOCOMMERCE_CONSUMER_KEY", "ck_123")
		t.Setenv("STORESYNC_WOOCOMMERCE_TIMEOUT", "5s")
		t.Setenv("STORESYNC_SYNC_ENABLED", "false")
		t.Setenv("STORESYNC_SYNC_PER_PAGE", "50")
		t.Setenv("STORESYNC_SYNC_RATE_LIMIT", "250ms")
		t.Setenv("STORESYNC_TELEMETRY_LOGS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.Path)
		assert.Equal(t, "https://shop.example.com", cfg.WooCommerce.URL)
		assert.Equal(t, "ck_123", cfg.WooCommerce.ConsumerKey)
		assert.Equal(t, 5*time.Second, cfg.WooCommerce.Timeout)
		assert.False(t, cfg.Sync.Enabled)
		assert.Equal(t, 50, cfg.Sync.PerPage)
		assert.True(t, cfg.Telemetry.LogsEnabled)
		assert.Equal(t, 250*time.Millisecond, cfg.Sync.RateLimit)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("STORESYNC_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STORESYNC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("STORESYNC_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("rejects page size above the store maximum", func(t *testing.T) {
		t.Setenv("STORESYNC_SYNC_PER_PAGE", "101")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.per_page")
	})

	t.Run("rejects relative store url", func(t *testing.T) {
		t.Setenv("STORESYNC_WOOCOMMERCE_URL", "shop.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "woocommerce.url")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	isolate(t)

	setValidProductionBase := func(t *testing.T) {
		t.Setenv("STORESYNC_APP_ENV", "production")
		t.Setenv("STORESYNC_DATABASE_PASSWORD", "secure-password")
		t.Setenv("STORESYNC_DATABASE_SSLMODE", "require")
		t.Setenv("STORESYNC_WOOCOMMERCE_URL", "https://shop.example.com")
		t.Setenv("STORESYNC_WOOCOMMERCE_CONSUMER_KEY", "ck_live")
		t.Setenv("STORESYNC_WOOCOMMERCE_CONSUMER_SECRET", "cs_live")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires store credentials in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORESYNC_WOOCOMMERCE_CONSUMER_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required in production")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORESYNC_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORESYNC_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("forbids full SQL in traces in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORESYNC_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "storesync.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
name = "shop-mirror"

[woocommerce]
url = "https://shop.example.com"
timeout = "10s"

[sync]
cron = "0 */15 * * * *"
rate_limit = "2s"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shop-mirror", cfg.App.Name)
	assert.Equal(t, 10*time.Second, cfg.WooCommerce.Timeout)
	assert.Equal(t, "0 */15 * * * *", cfg.Sync.Cron)
	assert.Equal(t, 2*time.Second, cfg.Sync.RateLimit)
	assert.True(t, cfg.Sync.Enabled)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
