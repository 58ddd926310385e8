package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store opens short-lived connections to one relational backend.
// Every request opens its own Conn and closes it before responding.
type Store interface {
	Open(ctx context.Context) (*Conn, error)
	Name() string
}

// New picks the networked store when dsn is set, the embedded file store otherwise.
func New(dsn, sqlitePath string) (Store, error) {
	if dsn != "" {
		return NewPostgres(dsn)
	}
	return NewSQLite(sqlitePath), nil
}

// ---------------------- SQLITE ----------------------

type SQLiteStore struct {
	path string
}

func NewSQLite(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Open(ctx context.Context) (*Conn, error) {
	db, err := sqlx.Open("sqlite3", s.path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite %s: %w", s.path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to open sqlite %s: %w", s.path, err)
	}
	return &Conn{db: db, schema: sqliteSchema}, nil
}

// ---------------------- POSTGRES ----------------------

type PostgresStore struct {
	cfg *pgx.ConnConfig
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}
	cfg.ConnectTimeout = 5 * time.Second
	return &PostgresStore{cfg: cfg}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Open(ctx context.Context) (*Conn, error) {
	db := sqlx.NewDb(stdlib.OpenDB(*s.cfg), "pgx")
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}
	return &Conn{db: db, schema: postgresSchema}, nil
}

// ---------------------- CONN ----------------------

// Conn is a single-request handle. Queries are written with `?`
// placeholders and rebound for the active driver; each statement commits
// on its own.
type Conn struct {
	db     *sqlx.DB
	schema []string
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.db.Rebind(query), args...)
}

// Get scans one row into dest by column name.
func (c *Conn) Get(ctx context.Context, dest any, query string, args ...any) error {
	return c.db.GetContext(ctx, dest, c.db.Rebind(query), args...)
}

// Select scans all rows into the slice dest by column name.
func (c *Conn) Select(ctx context.Context, dest any, query string, args ...any) error {
	return c.db.SelectContext(ctx, dest, c.db.Rebind(query), args...)
}

// ExecMany runs query once per argument list and commits them together.
func (c *Conn) ExecMany(ctx context.Context, query string, argsList [][]any) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(query))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, args := range argsList {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *Conn) Close() error {
	return c.db.Close()
}
