// Package database provides the GORM-backed persistence primitives shared by
// all stores: connection handling, a generic repository, option-to-SQL
// translation, and transactions.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Driver identifies the underlying database engine.
type Driver string

// Driver values.
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrUnsupportedDriver indicates the database URL scheme is not supported.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Database wraps a GORM connection with driver awareness. SQLite is the
// zero-configuration default; PostgreSQL unlocks the pgvector-accelerated
// candidate search path.
type Database struct {
	gdb    *gorm.DB
	driver Driver
}

// NewDatabase opens a database connection from a URL.
// Supported forms: "sqlite:///path/to/file.db", "postgres://..." and
// "postgresql://...".
func NewDatabase(ctx context.Context, url string) (Database, error) {
	dialector, err := parseDialector(url)
	if err != nil {
		return Database{}, fmt.Errorf("parse database url: %w", err)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGormLogger{},
	})
	if err != nil {
		return Database{}, fmt.Errorf("open database: %w", err)
	}

	driver := DriverSQLite
	if dialector.Name() == "postgres" {
		driver = DriverPostgres
	}

	db := Database{gdb: gdb, driver: driver}

	// Verify the connection is actually usable before handing it out.
	sqlDB, err := gdb.DB()
	if err != nil {
		return Database{}, fmt.Errorf("access connection pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Database{}, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// parseDialector maps a database URL to a GORM dialector.
func parseDialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return nil, ErrUnsupportedDriver
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

// Session returns a fresh GORM session bound to the context.
func (d Database) Session(ctx context.Context) *gorm.DB {
	return d.gdb.WithContext(ctx).Session(&gorm.Session{})
}

// GORM returns the raw GORM handle, for migrations and raw SQL.
func (d Database) GORM() *gorm.DB {
	return d.gdb
}

// IsSQLite reports whether the connection uses SQLite.
func (d Database) IsSQLite() bool { return d.driver == DriverSQLite }

// IsPostgres reports whether the connection uses PostgreSQL.
func (d Database) IsPostgres() bool { return d.driver == DriverPostgres }

// ConfigurePool sets connection pool limits.
func (d Database) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// Close closes the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.gdb.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	return sqlDB.Close()
}
