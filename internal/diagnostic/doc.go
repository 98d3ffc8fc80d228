// Package diagnostic provides structured errors, warnings and notes
// collected while binding data against a component model.
//
// Key capabilities:
//   - Per-field bind problems keyed by component path
//   - Codes for programmatic handling
//   - Near-miss suggestions for unmapped data
package diagnostic
