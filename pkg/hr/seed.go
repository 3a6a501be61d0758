package hr

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/skillsys/hrassist/pkg/logger"
)

// SeedData is a directory fixture. Names referenced by employees are added
// to the lookup tables when missing.
type SeedData struct {
	Departments   []string       `yaml:"departments"`
	Positions     []string       `yaml:"positions"`
	EnglishLevels []string       `yaml:"english_levels"`
	Skills        []string       `yaml:"skills"`
	SoftSkills    []string       `yaml:"soft_skills"`
	Employees     []SeedEmployee `yaml:"employees"`
}

// SeedEmployee is one employee of a fixture
type SeedEmployee struct {
	ID           string      `yaml:"id"`
	FirstName    string      `yaml:"first_name"`
	LastName     string      `yaml:"last_name"`
	WorkEmail    string      `yaml:"work_email"`
	Phone        string      `yaml:"phone"`
	Position     string      `yaml:"position"`
	Department   string      `yaml:"department"`
	EnglishLevel string      `yaml:"english_level"`
	HiringDate   string      `yaml:"hiring_date"`
	Skills       []SeedSkill `yaml:"skills"`
	SoftSkills   []string    `yaml:"soft_skills"`
}

// SeedSkill is a technical skill of a fixture employee
type SeedSkill struct {
	Name      string  `yaml:"name"`
	Years     float64 `yaml:"years"`
	Seniority string  `yaml:"seniority"`
}

// LoadSeedFile reads a YAML fixture
func LoadSeedFile(path string) (*SeedData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read seed file")
	}

	var data SeedData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to parse seed file %s", path)
	}
	return &data, nil
}

// Seed inserts data in one transaction. Lookup names are deduplicated and
// employees with an existing id are replaced.
func (s *Store) Seed(ctx context.Context, data *SeedData) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	seeder := &seeder{ctx: ctx, tx: tx}
	for table, names := range map[string][]string{
		"departments":    data.Departments,
		"positions":      data.Positions,
		"english_levels": data.EnglishLevels,
		"skills":         data.Skills,
		"soft_skills":    data.SoftSkills,
	} {
		for _, name := range names {
			if _, err := seeder.lookupID(table, name); err != nil {
				return err
			}
		}
	}

	for _, emp := range data.Employees {
		if err := seeder.employee(emp); err != nil {
			return errors.Wrapf(err, "failed to seed employee %s %s", emp.FirstName, emp.LastName)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit seed data")
	}

	logger.G(ctx).WithField("employees", len(data.Employees)).Info("seeded HR directory")
	return nil
}

type seeder struct {
	ctx context.Context
	tx  *sqlx.Tx
}

// lookupID returns the id of name in table, inserting it if needed. An
// empty name is a NULL reference.
func (s *seeder) lookupID(table, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	if _, err := s.tx.ExecContext(s.ctx, "INSERT OR IGNORE INTO "+table+" (name) VALUES (?)", name); err != nil {
		return nil, errors.Wrapf(err, "failed to insert %s %q", table, name)
	}

	var id int64
	if err := s.tx.GetContext(s.ctx, &id, "SELECT id FROM "+table+" WHERE name = ?", name); err != nil {
		return nil, errors.Wrapf(err, "failed to look up %s %q", table, name)
	}
	return &id, nil
}

func (s *seeder) employee(emp SeedEmployee) error {
	if emp.FirstName == "" || emp.LastName == "" {
		return errors.New("first_name and last_name are required")
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}

	positionID, err := s.lookupID("positions", emp.Position)
	if err != nil {
		return err
	}
	departmentID, err := s.lookupID("departments", emp.Department)
	if err != nil {
		return err
	}
	englishID, err := s.lookupID("english_levels", emp.EnglishLevel)
	if err != nil {
		return err
	}

	if _, err := s.tx.ExecContext(s.ctx, "DELETE FROM employees WHERE id = ?", emp.ID); err != nil {
		return errors.Wrap(err, "failed to replace employee")
	}
	if _, err := s.tx.ExecContext(s.ctx, `
		INSERT INTO employees (id, first_name, last_name, work_email, phone, position_id, department_id, english_level_id, hiring_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.FirstName, emp.LastName, emp.WorkEmail, emp.Phone,
		positionID, departmentID, englishID, emp.HiringDate); err != nil {
		return errors.Wrap(err, "failed to insert employee")
	}

	for _, skill := range emp.Skills {
		skillID, err := s.lookupID("skills", skill.Name)
		if err != nil {
			return err
		}
		if skillID == nil {
			continue
		}
		if _, err := s.tx.ExecContext(s.ctx, `
			INSERT OR REPLACE INTO employee_skills (employee_id, skill_id, years_of_experience, seniority_level)
			VALUES (?, ?, ?, ?)`, emp.ID, *skillID, skill.Years, skill.Seniority); err != nil {
			return errors.Wrap(err, "failed to insert employee skill")
		}
	}

	for _, name := range emp.SoftSkills {
		softID, err := s.lookupID("soft_skills", name)
		if err != nil {
			return err
		}
		if softID == nil {
			continue
		}
		if _, err := s.tx.ExecContext(s.ctx,
			"INSERT OR IGNORE INTO employee_soft_skills (employee_id, soft_skill_id) VALUES (?, ?)",
			emp.ID, *softID); err != nil {
			return errors.Wrap(err, "failed to insert employee soft skill")
		}
	}

	return nil
}
