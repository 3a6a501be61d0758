// Package hr queries the employee directory: skills, positions, departments
// and the reference lists used when parsing CVs.
package hr

import "github.com/pkg/errors"

// DefaultLimit caps candidate searches without an explicit limit
const DefaultLimit = 20

// ErrInvalidQuery is returned for a search with no criteria
var ErrInvalidQuery = errors.New("at least one skill, position or department is required")

// CandidateQuery selects employees. Skills take precedence; position and
// department are only used when no skill is given.
type CandidateQuery struct {
	Skills        []string
	MinExperience *float64
	Position      string
	Department    string
	Limit         int
}

// SkillMatch is one matching skill of a candidate
type SkillMatch struct {
	Name  string  `json:"name"`
	Years float64 `json:"years"`
}

// Candidate is an employee matching a query
type Candidate struct {
	EmployeeID string       `json:"employee_id" db:"employee_id"`
	FirstName  string       `json:"first_name" db:"first_name"`
	LastName   string       `json:"last_name" db:"last_name"`
	WorkEmail  string       `json:"work_email,omitempty" db:"work_email"`
	Phone      string       `json:"phone,omitempty" db:"phone"`
	Position   string       `json:"position,omitempty" db:"position"`
	Department string       `json:"department,omitempty" db:"department"`
	HiringDate string       `json:"hiring_date,omitempty" db:"hiring_date"`
	Skills     []SkillMatch `json:"skills,omitempty" db:"-"`
}

// SearchResult is the outcome of FindCandidates. Message explains an empty
// result when a position or department name matched nothing.
type SearchResult struct {
	Candidates []Candidate `json:"candidates"`
	Message    string      `json:"message,omitempty"`
}

// ReferenceData lists the standardised names a parsed CV is matched against
type ReferenceData struct {
	TechnicalSkills []string
	SoftSkills      []string
	EnglishLevels   []string
}
