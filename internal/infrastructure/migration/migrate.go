package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsTable is the bookkeeping table golang-migrate writes to
const MigrationsTable = "storesync_schema_migrations"

// ErrDirty is returned by Up and Steps when a previous migration failed half
// way. The schema has to be repaired by hand and the version forced.
var ErrDirty = errors.New("migration: database is dirty")

// Source selects where migration files are read from. FS takes precedence
// over Path; the server uses the embedded files, the CLI a directory.
type Source struct {
	Path string
	FS   fs.FS
}

// Status is the schema version recorded in MigrationsTable. Version 0 means
// nothing has been applied.
type Status struct {
	Version uint
	Dirty   bool
}

func (s Status) String() string {
	if s.Dirty {
		return fmt.Sprintf("%d (dirty)", s.Version)
	}
	return fmt.Sprintf("%d", s.Version)
}

// Migrator applies the SQL migrations of the mirror schema on PostgreSQL
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

func New(db *sql.DB, src Source, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return nil, fmt.Errorf("migration: postgres driver: %w", err)
	}

	m, err := openSource(src, driver)
	if err != nil {
		return nil, err
	}
	return &Migrator{m: m, logger: logger.Named("migrate")}, nil
}

func openSource(src Source, driver database.Driver) (*migrate.Migrate, error) {
	if src.FS == nil {
		m, err := migrate.NewWithDatabaseInstance("file://"+src.Path, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("migration: open %s: %w", src.Path, err)
		}
		return m, nil
	}

	var files source.Driver
	files, err := iofs.New(src.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: open embedded files: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", files, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}
	return m, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	if err := mg.refuseDirty(); err != nil {
		return err
	}
	return mg.apply("up", mg.m.Up)
}

// Down rolls every migration back
func (mg *Migrator) Down() error {
	return mg.apply("down", mg.m.Down)
}

// Steps applies n migrations, rolling back when n is negative
func (mg *Migrator) Steps(n int) error {
	if err := mg.refuseDirty(); err != nil {
		return err
	}
	return mg.apply(fmt.Sprintf("step %+d", n), func() error { return mg.m.Steps(n) })
}

// GoTo migrates up or down to version
func (mg *Migrator) GoTo(version uint) error {
	return mg.apply(fmt.Sprintf("goto %d", version), func() error { return mg.m.Migrate(version) })
}

// apply runs op and logs the resulting status. ErrNoChange is not an error.
func (mg *Migrator) apply(name string, op func() error) error {
	before, err := mg.Status()
	if err != nil {
		return err
	}

	err = op()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already current", zap.String("op", name), zap.Stringer("version", before))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s: %w", name, err)
	}

	after, err := mg.Status()
	if err != nil {
		return err
	}
	mg.logger.Info("Schema migrated",
		zap.String("op", name),
		zap.Stringer("from", before),
		zap.Stringer("to", after),
	)
	return nil
}

func (mg *Migrator) refuseDirty() error {
	st, err := mg.Status()
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("%w at version %d, run 'migrate force <version>' after repairing it", ErrDirty, st.Version)
	}
	return nil
}

// Status reads the current version. A database without migrations reports
// version 0.
func (mg *Migrator) Status() (Status, error) {
	version, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return Status{}, nil
	case err != nil:
		return Status{}, fmt.Errorf("migration: read version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force records version as applied and clean without running anything
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("migration: force %d: %w", version, err)
	}
	mg.logger.Warn("Schema version forced", zap.Int("version", version))
	return nil
}

// Drop removes every table of the database, the mirror included
func (mg *Migrator) Drop() error {
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("migration: drop: %w", err)
	}
	mg.logger.Warn("Database dropped")
	return nil
}

// Close releases the source and the database driver. The driver owns the
// *sql.DB passed to New, so Close also closes it.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
