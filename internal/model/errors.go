package model

import (
	"errors"
	"strings"
)

// ErrModel matches every ModelError.
var ErrModel = errors.New("model error")

// ModelError reports a type that cannot be turned into a model.
type ModelError struct {
	Type  string   // type being derived
	Paths []string // offending component paths
	Msg   string
	Err   error
}

func (e *ModelError) Error() string {
	var sb strings.Builder

	sb.WriteString("model ")
	sb.WriteString(e.Type)

	if len(e.Paths) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(e.Paths, ", "))
		sb.WriteString("]")
	}

	sb.WriteString(": ")
	sb.WriteString(e.Msg)

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *ModelError) Unwrap() error { return e.Err }

// Is matches ErrModel.
func (e *ModelError) Is(target error) bool { return target == ErrModel }

// ReflectionModelError reports a member whose value type cannot be modeled,
// typically because no codec resolves for it.
type ReflectionModelError struct {
	ModelError
}

// Unwrap exposes the embedded ModelError to errors.As.
func (e *ReflectionModelError) Unwrap() error { return &e.ModelError }

// NewModelError returns a ModelError for typ naming paths.
func NewModelError(typ, msg string, err error, paths ...string) *ModelError {
	return &ModelError{Type: typ, Paths: paths, Msg: msg, Err: err}
}

// NewReflectionModelError returns a ReflectionModelError for one member path.
func NewReflectionModelError(typ, path, msg string, err error) *ReflectionModelError {
	return &ReflectionModelError{ModelError: ModelError{Type: typ, Paths: []string{path}, Msg: msg, Err: err}}
}
