// Package storage loads the provider catalog and restriction allow-lists
// from PostgreSQL. It is a startup-time source only: the gateway reads the
// configuration once and never writes back.
package storage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection.
type DB struct {
	conn         *sqlx.DB
	queryTimeout time.Duration
}

// DBConfig holds database configuration.
type DBConfig struct {
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	QueryTimeout time.Duration
}

// NewDB opens a PostgreSQL connection pool.
func NewDB(cfg DBConfig) (*DB, error) {
	conn, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &DB{conn: conn, queryTimeout: timeout}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
