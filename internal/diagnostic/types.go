package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"metabind/internal/common"
)

// Codes reported by the binder.
const (
	CodeAccessorFailed  = "accessor_failed"
	CodeDecodeFailed    = "decode_failed"
	CodeUnmapped        = "unmapped"
	CodeUnresolvedCodec = "unresolved_codec"
	CodeVersionFailed   = "version_failed"
)

// Diagnostics holds all diagnostic information from one operation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Model names the model the diagnostic relates to (if any).
	Model string
	// Path is the dot-delimited component path (if any).
	Path string
	// Suggestions are near-miss alternatives.
	Suggestions []string
	// Err is the underlying cause (if any).
	Err error
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic wrapping err.
func (d *Diagnostics) AddError(code, model, path string, err error) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  err.Error(),
		Model:    model,
		Path:     path,
		Err:      err,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, model, path string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    SeverityWarning,
		Code:        code,
		Message:     message,
		Model:       model,
		Path:        path,
		Suggestions: suggestions,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, model, path string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Model:    model,
		Path:     path,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// ForPath returns every diagnostic recorded for path, errors first.
func (d *Diagnostics) ForPath(path string) []Diagnostic {
	var out []Diagnostic

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			if diag.Path == path {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
// The combined error unwraps to every underlying cause.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, diagnosticError{e})
	}

	return errors.Join(errs...)
}

type diagnosticError struct {
	d Diagnostic
}

func (e diagnosticError) Error() string { return e.d.String() }
func (e diagnosticError) Unwrap() error { return e.d.Err }

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Model != "" {
		prefix = append(prefix, "["+d.Model+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
