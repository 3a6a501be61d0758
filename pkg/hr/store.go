package hr

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/logger"
)

// Store reads and seeds the HR tables
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an opened and migrated database
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListSkillNames returns the distinct skill names held by any employee
func (s *Store) ListSkillNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT skill_name FROM employee_skills_view ORDER BY skill_name"); err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}
	return names, nil
}

// FindCandidates searches employees by skill, or by position and department
func (s *Store) FindCandidates(ctx context.Context, q CandidateQuery) (*SearchResult, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	skills := make([]string, 0, len(q.Skills))
	for _, skill := range q.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	switch {
	case len(skills) > 0:
		return s.findBySkills(ctx, skills, q.MinExperience, q.Limit)
	case q.Position != "" || q.Department != "":
		return s.findByRole(ctx, q.Position, q.Department, q.Limit)
	default:
		return nil, ErrInvalidQuery
	}
}

type skillRow struct {
	EmployeeID string  `db:"employee_id"`
	FirstName  string  `db:"first_name"`
	LastName   string  `db:"last_name"`
	SkillName  string  `db:"skill_name"`
	Years      float64 `db:"years_of_experience"`
}

func (s *Store) findBySkills(ctx context.Context, skills []string, minExp *float64, limit int) (*SearchResult, error) {
	query := `SELECT employee_id, first_name, last_name, skill_name, years_of_experience
		FROM employee_skills_view WHERE skill_name IN (?)`
	args := []any{skills}
	if minExp != nil {
		query += " AND years_of_experience >= ?"
		args = append(args, *minExp)
	}
	// several rows per employee, so over-fetch before grouping
	query += " ORDER BY last_name, first_name, employee_id, skill_name LIMIT ?"
	args = append(args, limit*5)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build skill query")
	}

	var rows []skillRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to search candidates")
	}

	result := &SearchResult{Candidates: []Candidate{}}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.EmployeeID]
		if !ok {
			i = len(result.Candidates)
			index[row.EmployeeID] = i
			result.Candidates = append(result.Candidates, Candidate{
				EmployeeID: row.EmployeeID,
				FirstName:  row.FirstName,
				LastName:   row.LastName,
			})
		}
		result.Candidates[i].Skills = append(result.Candidates[i].Skills, SkillMatch{Name: row.SkillName, Years: row.Years})
	}

	if len(result.Candidates) > limit {
		result.Candidates = result.Candidates[:limit]
	}
	if len(result.Candidates) == 0 {
		result.Message = "No candidates found with skills: " + strings.Join(skills, ", ")
	}

	logger.G(ctx).WithField("skills", skills).WithField("found", len(result.Candidates)).Debug("skill search")
	return result, nil
}

func (s *Store) findByRole(ctx context.Context, position, department string, limit int) (*SearchResult, error) {
	query := `SELECT e.id AS employee_id, e.first_name, e.last_name,
			COALESCE(e.work_email, '') AS work_email, COALESCE(e.phone, '') AS phone,
			COALESCE(p.name, '') AS position, COALESCE(d.name, '') AS department,
			COALESCE(e.hiring_date, '') AS hiring_date
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE 1 = 1`
	var args []any

	if position != "" {
		ids, err := s.matchingIDs(ctx, "positions", position)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &SearchResult{Candidates: []Candidate{}, Message: fmt.Sprintf("No positions matching %q", position)}, nil
		}
		query += " AND e.position_id IN (?)"
		args = append(args, ids)
	}

	if department != "" {
		ids, err := s.matchingIDs(ctx, "departments", department)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &SearchResult{Candidates: []Candidate{}, Message: fmt.Sprintf("No departments matching %q", department)}, nil
		}
		query += " AND e.department_id IN (?)"
		args = append(args, ids)
	}

	query += " ORDER BY e.last_name, e.first_name, e.id LIMIT ?"
	args = append(args, limit)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build role query")
	}

	candidates := []Candidate{}
	if err := s.db.SelectContext(ctx, &candidates, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to search candidates")
	}
	return &SearchResult{Candidates: candidates}, nil
}

// matchingIDs returns the ids of table rows whose name contains term,
// ignoring case
func (s *Store) matchingIDs(ctx context.Context, table, term string) ([]int64, error) {
	var ids []int64
	pattern := "%" + escapeLike(term) + "%"
	err := s.db.SelectContext(ctx, &ids,
		"SELECT id FROM "+table+` WHERE name LIKE ? ESCAPE '\'`, pattern)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(err, "failed to match %s", table)
	}
	return ids, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// ReferenceData loads the skill, soft skill and English level names
func (s *Store) ReferenceData(ctx context.Context) (*ReferenceData, error) {
	ref := &ReferenceData{}
	lists := []struct {
		dest  *[]string
		query string
	}{
		{&ref.TechnicalSkills, "SELECT name FROM skills ORDER BY name"},
		{&ref.SoftSkills, "SELECT name FROM soft_skills ORDER BY name"},
		{&ref.EnglishLevels, "SELECT name FROM english_levels ORDER BY id"},
	}
	for _, l := range lists {
		if err := s.db.SelectContext(ctx, l.dest, l.query); err != nil {
			return nil, errors.Wrap(err, "failed to load reference data")
		}
	}
	return ref, nil
}
