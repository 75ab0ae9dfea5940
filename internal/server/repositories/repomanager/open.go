package repomanager

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// connConfig parses dsn and applies the connect and per-statement timeouts.
func connConfig(dsn string, connectTimeout, statementTimeout time.Duration) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if connectTimeout > 0 {
		cfg.ConnectTimeout = connectTimeout
	}
	if statementTimeout > 0 {
		cfg.RuntimeParams["statement_timeout"] = strconv.FormatInt(statementTimeout.Milliseconds(), 10)
	}
	return cfg, nil
}

// OpenPostgres returns a pooled *sql.DB backed by the pgx driver.
func OpenPostgres(dsn string, connectTimeout, statementTimeout time.Duration) (*sql.DB, error) {
	cfg, err := connConfig(dsn, connectTimeout, statementTimeout)
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}
