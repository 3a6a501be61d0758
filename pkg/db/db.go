// Package db opens the SQLite database holding the HR directory and chat
// history, and applies schema migrations to it.
package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/skillsys/hrassist/pkg/logger"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=memory",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open opens or creates the database at dbPath in WAL mode
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	if dbPath == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	conn, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := configure(ctx, conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}

	logger.G(ctx).WithField("path", dbPath).Debug("database opened")
	return conn, nil
}

// OpenMigrated opens the database and brings its schema up to date
func OpenMigrated(ctx context.Context, dbPath string, migrations []Migration) (*sqlx.DB, error) {
	conn, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	if err := NewMigrationRunner(conn).Run(ctx, migrations); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func configure(ctx context.Context, conn *sqlx.DB) error {
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	// one writer; sqlite serialises anyway and this avoids SQLITE_BUSY
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)

	return VerifyConfiguration(conn)
}

// VerifyConfiguration checks the pragmas Open sets are in effect
func VerifyConfiguration(conn *sqlx.DB) error {
	checks := []struct {
		pragma   string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"foreign_keys", "1"},
	}

	for _, c := range checks {
		var value string
		if err := conn.Get(&value, "PRAGMA "+c.pragma); err != nil {
			return errors.Wrapf(err, "failed to query %s", c.pragma)
		}
		if strings.ToLower(value) != c.expected {
			return errors.Errorf("expected %s %s, got %s", c.pragma, c.expected, value)
		}
	}
	return nil
}
