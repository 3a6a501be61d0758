// Package migrations holds the hrassist schema history. Versions are
// timestamps (YYYYMMDDHHmmss); append new migrations to All.
package migrations

import (
	"github.com/skillsys/hrassist/pkg/db"
)

// All returns every registered migration
func All() []db.Migration {
	return []db.Migration{
		Migration20260301090000CreateReferenceTables(),
		Migration20260301090001CreateEmployees(),
		Migration20260301090002CreateEmployeeSkillsView(),
		Migration20260301090003CreateChatMessages(),
	}
}
