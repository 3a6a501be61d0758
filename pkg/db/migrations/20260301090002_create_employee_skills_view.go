package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/db"
)

// Migration20260301090002CreateEmployeeSkillsView flattens employees and
// their technical skills into one row per pair.
func Migration20260301090002CreateEmployeeSkillsView() db.Migration {
	return db.Migration{
		Version:     20260301090002,
		Description: "Create employee_skills_view",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE VIEW IF NOT EXISTS employee_skills_view AS
				SELECT
					e.id AS employee_id,
					e.first_name,
					e.last_name,
					s.name AS skill_name,
					es.years_of_experience,
					es.seniority_level
				FROM employee_skills es
				JOIN employees e ON e.id = es.employee_id
				JOIN skills s ON s.id = es.skill_id
			`)
			return errors.Wrap(err, "failed to create employee_skills_view")
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP VIEW IF EXISTS employee_skills_view")
			return errors.Wrap(err, "failed to drop employee_skills_view")
		},
	}
}
