package provider

import (
	"metabind/internal/analyze"
	"metabind/internal/model"
)

// Marker keys of the built-in attributes.
const (
	MarkerIdentity  = "id"
	MarkerVersion   = "version"
	MarkerRequired  = "required"
	MarkerSparse    = "sparse"
	MarkerTransient = "transient"
)

func role(r model.Role) AttributeFactory {
	return func(mk analyze.Marker) (model.Attribute, error) {
		return model.Attribute{Role: r, Key: mk.Key, Arg: mk.Value}, nil
	}
}

func builtinAttributes() map[string]AttributeFactory {
	return map[string]AttributeFactory{
		MarkerIdentity:  role(model.RoleIdentity),
		MarkerVersion:   role(model.RoleVersion),
		MarkerRequired:  role(model.RoleRequired),
		MarkerSparse:    role(model.RoleSparse),
		MarkerTransient: role(model.RoleTransient),
	}
}
