package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

// DB wraps a sqlx handle and provides repository methods.
type DB struct {
	x      *sqlx.DB
	driver string
	dsn    string
}

// Open connects to the database. For sqlite, dsn is a file path (":memory:"
// for a private in-memory database); for postgres it is a connection URL.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	var (
		x   *sqlx.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		x, err = sqlx.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		// One connection serializes every transaction and keeps an
		// in-memory database alive for the life of the handle.
		x.SetMaxOpenConns(1)
		x.SetMaxIdleConns(1)
	case DriverPostgres:
		x, err = sqlx.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := x.PingContext(ctx); err != nil {
		x.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{x: x, driver: driver, dsn: dsn}, nil
}

// Driver returns the driver name the handle was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.x.Close()
}

// Migrate applies all pending embedded migrations for the handle's driver.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var m *migrate.Migrate
	switch db.driver {
	case DriverSQLite:
		// The sqlite migrate driver owns no connection of its own, so the
		// migrator is not closed: that would close db.x as well.
		drv, err := sqlite.WithInstance(db.x.DB, &sqlite.Config{})
		if err != nil {
			return fmt.Errorf("creating migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", drv)
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
	default:
		m, err = migrate.NewWithSourceInstance("iofs", src, db.dsn)
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}
