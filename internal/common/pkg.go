// Package common holds small helpers shared across internal packages.
package common

import "path"

// UnknownStr is the String() result for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}
