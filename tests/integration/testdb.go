// Package integration runs the persistence layer and full sync passes
// against a real PostgreSQL started with testcontainers. The schema comes
// from the embedded golang-migrate files, not from AutoMigrate.
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/erp/storesync/internal/infrastructure/config"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/infrastructure/migration"
	"github.com/erp/storesync/internal/infrastructure/persistence"
	"github.com/erp/storesync/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// postgresEnv is the container shared by every test of the package
type postgresEnv struct {
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

var (
	envMu sync.Mutex
	env   *postgresEnv
)

// TestDB is a migrated, empty mirror database
type TestDB struct {
	*persistence.Database
	t *testing.T
}

// NewSharedTestDB connects to the package container, starting and
// migrating it on first use. Mirror tables are truncated so each test
// starts empty.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	envMu.Lock()
	defer envMu.Unlock()

	if env == nil {
		env = startPostgres(t)
		migrateSchema(t, env.cfg)
	}

	cfg := env.cfg
	db, err := persistence.NewDatabase(&cfg, testGormLogger())
	require.NoError(t, err, "connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{Database: db, t: t}
	tdb.Truncate()
	return tdb
}

func startPostgres(t *testing.T) *postgresEnv {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("storesync_test"),
		tcpostgres.WithUsername("storesync"),
		tcpostgres.WithPassword("storesync"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return &postgresEnv{
		container: container,
		cfg: config.DatabaseConfig{
			Driver:          config.DriverPostgres,
			Host:            host,
			Port:            port.Int(),
			User:            "storesync",
			Password:        "storesync",
			DBName:          "storesync_test",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5,
		},
	}
}

// migrateSchema applies the embedded migrations over a dedicated
// connection, since closing the migrator closes its *sql.DB.
func migrateSchema(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()

	db, err := persistence.NewDatabase(&cfg, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, zap.NewNop())
	require.NoError(t, err, "create migrator")
	defer m.Close()
	require.NoError(t, m.Up(), "apply migrations")

	st, err := m.Status()
	require.NoError(t, err)
	require.False(t, st.Dirty, "schema left dirty at %s", st)
}

// testGormLogger is silent unless TEST_DB_DEBUG is set
func testGormLogger() gormlogger.Interface {
	if os.Getenv("TEST_DB_DEBUG") == "" {
		return gormlogger.Discard
	}
	return logger.NewGormLogger(zap.NewExample(), gormlogger.Info)
}

// Truncate empties every table except the migration bookkeeping
func (tdb *TestDB) Truncate() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename <> ?`,
		migration.MigrationsTable,
	).Scan(&tables).Error
	require.NoError(tdb.t, err, "list tables")

	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error, "truncate %s", table)
	}
}

// CleanupSharedContainer terminates the package container
func CleanupSharedContainer() {
	envMu.Lock()
	defer envMu.Unlock()

	if env == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = env.container.Terminate(ctx)
	env = nil
}
