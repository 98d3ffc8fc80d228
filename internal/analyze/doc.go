// Package analyze provides type descriptors: the handle the introspector
// uses to enumerate a type's members, their declared value types and their
// declarative markers.
//
// Descriptors come from three sources:
//   - Analyzer walks Go types through reflect and reads `meta` struct tags
//   - SourceLoader reads Go source packages through go/packages
//   - Builder declares types explicitly (used by the YAML schema)
//
// Key types:
//   - TypeID: package path + type name, the descriptor identity
//   - TypeInfo: kind (struct/basic/alias/pointer/slice/map/external)
//   - FieldInfo: member name, type, markers, accessor index
//   - Marker: one declarative item of a `meta` tag
//
// # Tag syntax
//
//	type Order struct {
//		_        struct{}    `meta:"order,domain=shop:1"`
//		ID       int64       `meta:",id"`
//		Status   Status      `meta:"state,alias=status|st,oneof=NEW|PAID"`
//		Total    int64       `meta:",codec=int32,min=0"`
//		Internal func()      `meta:"-"`
//	}
//
// The first item overrides the component name; the remaining items are
// markers (key or key=value). A tag of "-" or an "op" item marks the member
// as an operation, excluded from the model. Tags on the blank field apply to
// the type itself.
package analyze
