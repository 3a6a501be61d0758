package skills

import "github.com/pkg/errors"

// Sentinel errors returned by the service. Callers classify with errors.Is;
// anything else is an upstream or local I/O failure.
var (
	ErrInvalidName  = errors.New("invalid skill name")
	ErrInvalidPath  = errors.New("invalid path")
	ErrMissingPath  = errors.New("missing path")
	ErrSkillExists  = errors.New("skill already exists")
	ErrSkillMissing = errors.New("skill not found")
	ErrFileMissing  = errors.New("file not found")
)

// IsValidation reports whether err was raised before any I/O because the
// skill name or relative path was rejected.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidPath) || errors.Is(err, ErrMissingPath)
}
