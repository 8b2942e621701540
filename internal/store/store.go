package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Driver names accepted by OpenDriver.
const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"

	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"
)

// Schema version tracking:
// 0 - attempts log only
// 1 - added cards table with due-time indexes
const currentSchemaVersion = 1

func init() {
	// sqlx only knows the bindvar style of "sqlite3" out of the box.
	sqlx.BindDriver(DriverPureGo, sqlx.QUESTION)
}

// Store is the durable attempt log and card table.
// Uses SQLite with WAL mode; a single connection serializes writers.
//
// A Store is safe for concurrent use. Each public method is a single
// statement or transaction, so readers never see a half-applied write.
type Store struct {
	db *sqlx.DB
}

// Open creates or opens a SQLite database at path using the CGO driver.
// Applies required pragmas and migrations automatically.
func Open(path string) (*Store, error) {
	return OpenDriver(DriverCGO, path)
}

// OpenDriver is Open with an explicit driver name (DriverCGO or DriverPureGo).
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// Opening an existing database is idempotent.
func OpenDriver(driver, path string) (*Store, error) {
	switch driver {
	case DriverCGO, DriverPureGo:
	default:
		return nil, unavailable("open", fmt.Errorf("unknown driver %q", driver))
	}

	db, err := sqlx.Open(driver, path)
	if err != nil {
		return nil, unavailable("open", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("connect", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, unavailable("apply pragmas", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, unavailable("apply schema", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying handle for direct queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sqlx.DB) error {
	var version int
	if err := db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the cards table. Databases written before cards existed
// keep their attempts untouched.
func migrateToV1(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			key           TEXT    PRIMARY KEY,
			quiz_id       TEXT    NOT NULL,
			item_id       TEXT    NOT NULL,
			tag           TEXT    NOT NULL,
			reps          INTEGER NOT NULL DEFAULT 0,
			interval_days REAL    NOT NULL DEFAULT 0,
			ease          REAL    NOT NULL DEFAULT 2.5,
			last_quality  INTEGER NOT NULL DEFAULT 0,
			last_ts       INTEGER NOT NULL DEFAULT 0,
			due_ts        INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(due_ts);
		CREATE INDEX IF NOT EXISTS idx_cards_quiz_due ON cards(quiz_id, due_ts);
		CREATE INDEX IF NOT EXISTS idx_cards_tag_due ON cards(tag, due_ts);
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.Get(&value, fmt.Sprintf("PRAGMA %s", name)); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
