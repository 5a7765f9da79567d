// Package storage opens the SQLite database shared by all repositories and
// keeps its schema current.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage/migrations"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteConfig holds configuration for the SQLite database.
type SQLiteConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/recipe.db"`

	// BusyTimeout is how long a writer waits for the database lock
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT" default:"5s"`

	// MaxOpenConns limits the connection pool
	MaxOpenConns int `env:"MAX_OPEN_CONNS" default:"4"`

	// Migrate runs pending migrations on open
	Migrate bool `env:"MIGRATE" default:"true"`
}

// DB is the shared database handle. SQLite allows a single writer, so
// repositories serialize their writes through Write.
type DB struct {
	*sql.DB

	writeLock sync.Mutex
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB) *DB {
	return &DB{DB: db}
}

// Write runs fn while holding the process-wide write lock.
func (db *DB) Write(fn func() error) error {
	db.writeLock.Lock()
	defer db.writeLock.Unlock()

	return fn()
}

// Open opens the database described by cfg, verifies the connection and,
// when cfg.Migrate is set, applies pending migrations.
func Open(ctx context.Context, cfg SQLiteConfig) (*DB, error) {
	log := logging.GetLogger("infra.storage.sqlite").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	if cfg.DatabasePath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o750); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.DatabasePath == MemoryPath {
		// every connection would see its own empty database otherwise
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}

		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("ping db: %w", err)
	}

	if cfg.Migrate {
		if err := Migrate(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()

			return nil, err
		}
	}

	log.DebugContext(ctx, "database opened")

	return New(sqlDB), nil
}

func dsn(cfg SQLiteConfig) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout("+strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10)+")")

	if cfg.DatabasePath != MemoryPath {
		params.Add("_pragma", "journal_mode(WAL)")
	}

	return "file:" + cfg.DatabasePath + "?" + params.Encode()
}

// Migrate applies all pending migrations from the embedded migration files.
func Migrate(ctx context.Context, db *sql.DB) error {
	log := logging.GetLogger("infra.storage.migrate")

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("new migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	for _, res := range results {
		log.InfoContext(ctx, "migration applied",
			"version", res.Source.Version,
			"duration", res.Duration,
		)
	}

	return nil
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}

// IsForeignKeyViolation reports whether err comes from a FOREIGN KEY constraint.
func IsForeignKeyViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}

	return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// BoolToInt maps a Go bool onto SQLite's integer booleans.
func BoolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
