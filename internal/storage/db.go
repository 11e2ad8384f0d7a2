package storage

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	// Import postgres driver
	_ "github.com/lib/pq"
	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist (or a session has expired).
var ErrNotFound = errors.New("not found")

// Dialect selects SQL flavour and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps a sql.DB connection.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

// NewDB opens a sqlite database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	return Open(SQLite, path)
}

// Open connects with the given dialect and runs migrations.
func Open(dialect Dialect, dsn string) (*DB, error) {
	if dialect != SQLite && dialect != Postgres {
		return nil, fmt.Errorf("storage: unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if dialect == SQLite {
		// In-memory sqlite databases are per connection.
		conn.SetMaxOpenConns(1)
	}

	db := New(conn, dialect)
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// New wraps an existing connection without migrating it.
func New(conn *sql.DB, dialect Dialect) *DB {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == Postgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &DB{conn: conn, dialect: dialect, sb: sb}
}

func (db *DB) migrate() error {
	migrations := sqliteMigrations
	if db.dialect == Postgres {
		migrations = postgresMigrations
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("storage: migrate: %w", err)
		}
	}
	return nil
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		user_json TEXT NOT NULL DEFAULT '',
		expires_at INTEGER NOT NULL,
		last_activity INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		amount REAL NOT NULL,
		discount REAL NOT NULL,
		total REAL NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		user_json TEXT NOT NULL DEFAULT '',
		expires_at BIGINT NOT NULL,
		last_activity BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		discount DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// affectedOne turns a zero-row write into ErrNotFound.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
