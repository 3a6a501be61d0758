package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/db"
)

// Migration20260301090001CreateEmployees creates employees and their skill
// assignments.
func Migration20260301090001CreateEmployees() db.Migration {
	return db.Migration{
		Version:     20260301090001,
		Description: "Create employees, employee_skills and employee_soft_skills tables",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS employees (
					id TEXT PRIMARY KEY,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					work_email TEXT,
					phone TEXT,
					position_id INTEGER REFERENCES positions(id),
					department_id INTEGER REFERENCES departments(id),
					english_level_id INTEGER REFERENCES english_levels(id),
					hiring_date TEXT
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create employees table")
			}

			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS employee_skills (
					employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
					skill_id INTEGER NOT NULL REFERENCES skills(id),
					years_of_experience REAL NOT NULL DEFAULT 0,
					seniority_level TEXT,
					PRIMARY KEY (employee_id, skill_id)
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create employee_skills table")
			}

			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS employee_soft_skills (
					employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
					soft_skill_id INTEGER NOT NULL REFERENCES soft_skills(id),
					PRIMARY KEY (employee_id, soft_skill_id)
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create employee_soft_skills table")
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_employees_position ON employees(position_id)",
				"CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department_id)",
				"CREATE INDEX IF NOT EXISTS idx_employee_skills_skill ON employee_skills(skill_id)",
			}
			for _, index := range indexes {
				if _, err := tx.Exec(index); err != nil {
					return errors.Wrapf(err, "failed to create index: %s", index)
				}
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			for _, table := range []string{"employee_soft_skills", "employee_skills", "employees"} {
				if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
					return errors.Wrapf(err, "failed to drop %s table", table)
				}
			}
			return nil
		},
	}
}
