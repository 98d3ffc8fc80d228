// Package registry caches derived models and registered domain models.
//
// GetOrDerive derives each type at most once, even under concurrent first
// access: callers for the same type share one in-flight derivation, and all
// derivations run under one lock so a derivation that needs nested types
// finds them cached or derives them in the same session.
//
// The model cache is bounded and evicts least recently used entries. Eviction
// only relieves memory; a later request derives a structurally identical
// model again.
//
// Domain models are append-only: registering an identity twice fails and
// leaves the first registration untouched. Discover gathers domain models from
// Model Providers on a bounded worker pool and exposes the outcome as a
// Discovery that can be awaited with a timeout.
package registry
