// Package codec converts component values to and from their binary and
// textual representations.
//
// Codecs are stateless and constructed from zero-argument factories held by a
// Registry. Any per-field configuration reaches a codec through the Field
// argument (the component model), never through the codec itself.
//
// Resolution for a component follows a fixed order: an explicit named codec,
// a binding for the declared type, then the default for the primitive storage
// kind. The introspector applies that order; the Registry only answers each
// individual question.
package codec
