// Package provider turns declarative markers into model attributes and
// constraints.
//
// A Registry maps marker keys to factories. Markers whose key has no factory
// are skipped, so types may carry markers meant for other tools.
package provider
