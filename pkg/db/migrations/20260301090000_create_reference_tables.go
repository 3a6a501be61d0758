package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/db"
)

var referenceTables = []string{"departments", "positions", "english_levels", "skills", "soft_skills"}

// Migration20260301090000CreateReferenceTables creates the lookup tables
// employees point into.
func Migration20260301090000CreateReferenceTables() db.Migration {
	return db.Migration{
		Version:     20260301090000,
		Description: "Create department, position, English level and skill lookup tables",
		Up: func(tx *sql.Tx) error {
			for _, table := range referenceTables {
				if _, err := tx.Exec(fmt.Sprintf(`
					CREATE TABLE IF NOT EXISTS %s (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL UNIQUE
					)
				`, table)); err != nil {
					return errors.Wrapf(err, "failed to create %s table", table)
				}
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			for i := len(referenceTables) - 1; i >= 0; i-- {
				if _, err := tx.Exec("DROP TABLE IF EXISTS " + referenceTables[i]); err != nil {
					return errors.Wrapf(err, "failed to drop %s table", referenceTables[i])
				}
			}
			return nil
		},
	}
}
