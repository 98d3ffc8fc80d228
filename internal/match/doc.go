// Package match provides identifier normalization, component name
// derivation and near-miss suggestions for unmapped data.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy comparison
//   - DeriveName: turns a Go member name into a component name
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known paths by similarity to an unknown one
package match
