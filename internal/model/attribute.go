package model

// Role classifies an attribute. Custom roles are provider-defined and told
// apart by key; sparse marks the catch-all for unmapped data and transient a
// member that is modeled but never bound.
type Role int

const (
	RoleCustom    Role = iota // custom
	RoleIdentity              // identity
	RoleVersion               // version
	RoleRequired              // required
	RoleSparse                // sparse
	RoleTransient             // transient
)

// Attribute tags a component with a role.
type Attribute struct {
	Role Role
	Key  string // marker key it was built from
	Arg  string // optional marker value
}

func (a Attribute) String() string {
	if a.Arg == "" {
		return a.Key
	}

	return a.Key + "=" + a.Arg
}

// Constraint is a pure predicate over a component value. A nil value means
// the component is absent.
type Constraint interface {
	Name() string
	Check(m *ComponentModel, v any) bool
}

type constraintFunc struct {
	name string
	fn   func(*ComponentModel, any) bool
}

// NewConstraint adapts fn into a Constraint.
func NewConstraint(name string, fn func(m *ComponentModel, v any) bool) Constraint {
	return constraintFunc{name: name, fn: fn}
}

func (c constraintFunc) Name() string { return c.name }

func (c constraintFunc) Check(m *ComponentModel, v any) bool { return c.fn(m, v) }
