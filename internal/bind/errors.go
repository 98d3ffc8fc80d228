package bind

import (
	"errors"
	"fmt"
)

// ErrDataBind is the sentinel matched by every DataBindError.
var ErrDataBind = errors.New("data bind error")

// DataBindError reports data that cannot be bound at all: an unreadable
// instance or a missing or failed mandatory identity.
type DataBindError struct {
	Model string
	Path  string
	Msg   string
	Err   error
}

func (e *DataBindError) Error() string {
	msg := "bind " + e.Model
	if e.Path != "" {
		msg += "." + e.Path
	}

	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *DataBindError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDataBind.
func (e *DataBindError) Is(target error) bool { return target == ErrDataBind }

func bindErr(model, path string, err error, format string, args ...any) *DataBindError {
	return &DataBindError{Model: model, Path: path, Msg: fmt.Sprintf(format, args...), Err: err}
}
