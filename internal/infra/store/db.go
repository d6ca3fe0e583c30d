// Package store persists hearth's ledger in SQL. SQLite (modernc, pure Go)
// is the default embedded engine; PostgreSQL is reached through pgx's
// database/sql driver. Both dialects share every query; statements are
// written with `?` placeholders and rebound for PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBFile is the SQLite file name created inside the data directory.
const DBFile = "hearth.db"

// Config selects and locates the database.
type Config struct {
	Driver string // sqlite (default) or postgres
	Path   string // sqlite data directory
	DSN    string // postgres connection string
}

// DB is the shared handle used by every store method.
type DB struct {
	db      *sql.DB
	dialect string
}

// Open opens the configured database and applies the schema.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (creating if needed) dir/hearth.db.
func OpenSQLite(ctx context.Context, dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := "file:" + filepath.Join(dir, DBFile) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection keeps every unit of
	// work strictly serialized.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB, dialect: DriverSQLite}
	if err := db.migrate(ctx, sqliteMigrations()); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects to dsn through pgx and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := &DB{db: sqlDB, dialect: DriverPostgres}
	if err := db.migrate(ctx, postgresMigrations()); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying pool.
func (db *DB) Close() error {
	return db.db.Close()
}

// Dialect reports the active driver name.
func (db *DB) Dialect() string { return db.dialect }

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) migrate(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := db.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// WithTx runs fn in one transaction. Any error rolls everything back.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// rebind rewrites `?` placeholders to `$n` for PostgreSQL. Queries must not
// contain literal question marks.
func (db *DB) rebind(query string) string {
	if db.dialect != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ─── Column Codecs ──────────────────────────────────────────────────────────

const timestampLayout = time.RFC3339Nano

func now() time.Time { return time.Now().UTC() }

func formatTimestamp(t time.Time) string { return t.UTC().Format(timestampLayout) }

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(timestampLayout, s)
	return t
}
