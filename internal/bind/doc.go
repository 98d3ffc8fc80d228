// Package bind walks a component model against instance data and produces
// BoundData: the identity, optional version, bound values by path and every
// piece of data the model could not place.
//
// Three sources are supported: Go struct values reached through the model's
// reflect accessors, dynamic documents (map[string]any, as decoded from YAML
// or JSON) matched by name then alias, and framed stream records decoded
// through field codecs. Encode writes bound data back to a record.
package bind
