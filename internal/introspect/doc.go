// Package introspect derives component models from type descriptors.
//
// Every non-operation member of a struct becomes a component. Its name comes
// from the tag override or is derived from the Go name; attributes and
// constraints come from the provider registry; scalar components get a codec
// resolved in this order:
//
//  1. the member's codec= marker
//  2. the codec= marker of the declared type
//  3. a codec bound to the declared type in the codec registry
//  4. the default codec of the primitive storage kind
//
// Struct-typed members, and struct elements of slices and maps, reference the
// nested type's root model. A first embedded struct makes the type a
// specialization of it: non-redeclared parent members are inherited by
// reference.
//
// One derivation runs as a session so mutually recursive types resolve to the
// models under construction instead of recursing forever.
package introspect
