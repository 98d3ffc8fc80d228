package validate

import (
	"errors"
	"fmt"
	"strings"

	"metabind/internal/common"
)

var (
	// ErrModelConstraint is the sentinel matched by every ModelConstraintError.
	ErrModelConstraint = errors.New("model constraint violated")
	// ErrDataConstraint is the sentinel matched by every DataConstraintError.
	ErrDataConstraint = errors.New("data constraint violated")
)

// ModelConstraintError lists structurally missing paths. Mismatch is set
// when the data was bound against another model.
type ModelConstraintError struct {
	Model    string
	Missing  []string
	Mismatch string
}

func (e *ModelConstraintError) Error() string {
	if e.Mismatch != "" {
		return fmt.Sprintf("%s: data bound against %s", e.Model, e.Mismatch)
	}

	return fmt.Sprintf("%s: missing %s", e.Model, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrModelConstraint.
func (e *ModelConstraintError) Is(target error) bool { return target == ErrModelConstraint }

// Violation is one failed constraint check.
type Violation struct {
	Path       string
	Constraint string
	Value      any
	// Ordinal and Key locate the value inside a collection.
	Ordinal int
	Key     string
}

func (v Violation) String() string {
	loc := v.Path
	switch {
	case v.Key != "":
		loc += "[" + v.Key + "]"
	case v.Ordinal >= 0:
		loc += fmt.Sprintf("[%d]", v.Ordinal)
	}

	return fmt.Sprintf("%s: %s (value %v)", loc, v.Constraint, v.Value)
}

// DataConstraintError lists every violated constraint.
type DataConstraintError struct {
	Model      string
	Violations []Violation
}

func (e *DataConstraintError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}

	return fmt.Sprintf("%s: %d constraint violation(s): %s", e.Model, len(e.Violations), strings.Join(parts, "; "))
}

// Is reports whether target is ErrDataConstraint.
func (e *DataConstraintError) Is(target error) bool { return target == ErrDataConstraint }

// Paths returns the distinct violating paths in report order.
func (e *DataConstraintError) Paths() []string {
	paths := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		paths[i] = v.Path
	}

	return common.Dedupe(paths)
}
