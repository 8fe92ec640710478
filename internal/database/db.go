// Package database owns the postgres pool and the schema migrations.
package database

import (
	"context"
	"errors"
	"fmt"

	"taxi-booking/internal/config"
	"taxi-booking/internal/mylogger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

type DB struct {
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// Start opens a connection pool and checks that the database answers.
func Start(ctx context.Context, dbCfg config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = dbCfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{mylog: mylog, pool: pool}
	if err := d.IsAlive(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	mylog.Info("Connected to database", "host", dbCfg.Host, "max_conns", poolCfg.MaxConns)
	return d, nil
}

func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// IsAlive pings the DB to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

// InTx runs fn inside a transaction, committing on success.
func (d *DB) InTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}

// IsForeignKeyViolation reports whether err is a postgres foreign key failure.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == ForeignKeyViolation
}

// ViolatedConstraint returns the constraint name of a foreign key or unique
// violation.
func ViolatedConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != ForeignKeyViolation && pgErr.Code != UniqueViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}
