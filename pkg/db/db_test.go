package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTable(name string) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		_, err := tx.Exec("CREATE TABLE " + name + " (id INTEGER PRIMARY KEY)")
		return err
	}
}

func tableExists(t *testing.T, conn interface {
	QueryRow(string, ...any) *sql.Row
}, name string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) > 0 FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&exists))
	return exists
}

func TestOpen(t *testing.T) {
	conn, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "dir", "hr.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, VerifyConfiguration(conn))
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestMigrationRunner_SortsAndSkipsApplied(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "hr.db"))
	require.NoError(t, err)
	defer conn.Close()

	migrations := []Migration{
		{
			Version:     20260101000002,
			Description: "Add column",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("ALTER TABLE things ADD COLUMN name TEXT")
				return err
			},
		},
		{Version: 20260101000001, Description: "Create things", Up: createTable("things")},
	}

	runner := NewMigrationRunner(conn)
	require.NoError(t, runner.Run(ctx, migrations))
	require.NoError(t, runner.Run(ctx, migrations))

	versions, err := runner.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{20260101000001, 20260101000002}, versions)

	pending, err := runner.Pending(ctx, migrations)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigrationRunner_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "hr.db"))
	require.NoError(t, err)
	defer conn.Close()

	migrations := []Migration{
		{
			Version:     20260101000001,
			Description: "Half applied",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec("CREATE TABLE partial (id INTEGER PRIMARY KEY)"); err != nil {
					return err
				}
				_, err := tx.Exec("SELECT * FROM missing_table")
				return err
			},
		},
	}

	err = NewMigrationRunner(conn).Run(ctx, migrations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Half applied")
	assert.False(t, tableExists(t, conn, "partial"))
}

func TestMigrationRunner_Rollback(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "hr.db"))
	require.NoError(t, err)
	defer conn.Close()

	migrations := []Migration{
		{
			Version:     20260101000001,
			Description: "Create things",
			Up:          createTable("things"),
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP TABLE things")
				return err
			},
		},
		{Version: 20260101000002, Description: "Irreversible", Up: createTable("others")},
	}

	runner := NewMigrationRunner(conn)
	require.NoError(t, runner.Run(ctx, migrations))

	assert.ErrorContains(t, runner.Rollback(ctx, migrations), "no rollback function")
	assert.ErrorContains(t, runner.Rollback(ctx, migrations[:1]), "not found")

	reversible := []Migration{migrations[0]}
	other, err := Open(ctx, filepath.Join(t.TempDir(), "other.db"))
	require.NoError(t, err)
	defer other.Close()

	otherRunner := NewMigrationRunner(other)
	require.NoError(t, otherRunner.Run(ctx, reversible))
	assert.True(t, tableExists(t, other, "things"))

	require.NoError(t, otherRunner.Rollback(ctx, reversible))
	assert.False(t, tableExists(t, other, "things"))

	versions, err := otherRunner.AppliedVersions(ctx)
	require.NoError(t, err)
	assert.Empty(t, versions)

	require.NoError(t, otherRunner.Rollback(ctx, reversible), "nothing to roll back")
}
