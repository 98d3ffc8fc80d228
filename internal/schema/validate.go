package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"metabind/internal/analyze"
	"metabind/internal/diagnostic"
	"metabind/internal/match"
	"metabind/internal/model"
	"metabind/primitive"
)

// Validate checks a schema structurally: names, type references, extends
// cycles and domains. It does not derive models.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "", "", errors.New("schema file is nil"))
		return res
	}

	declared := map[string]bool{}
	var names []string

	declare := func(name, what string) {
		switch {
		case name == "":
			res.AddError("empty_name", "", "", fmt.Errorf("%s without a name", what))
		case declared[name]:
			res.AddError("duplicate_type", name, "", fmt.Errorf("type %q declared twice", name))
		default:
			declared[name] = true
			names = append(names, name)
		}
	}

	for _, e := range f.Enums {
		declare(e.Name, "enum")

		if k := primitive.FromName(e.Kind); !k.IsValid() {
			res.AddError("invalid_enum_kind", e.Name, "", fmt.Errorf("unknown scalar kind %q", e.Kind))
		}
	}

	for _, t := range f.Types {
		declare(t.Name, "type")
	}

	unknown := func(typeName, path, ref string) {
		res.AddError("unknown_type", typeName, path, fmt.Errorf("type %q is not declared", ref))
		if s := match.Suggest(ref, names, match.DefaultMinScore, 1); len(s) > 0 {
			res.Errors[len(res.Errors)-1].Suggestions = []string{s[0].Path}
		}
	}

	for i := range f.Types {
		t := &f.Types[i]

		if t.Extends != "" && !isStruct(f, t.Extends) {
			unknown(t.Name, "extends", t.Extends)
		}

		if _, err := parseMarkers(t.Markers); err != nil {
			res.AddError("invalid_marker", t.Name, "", err)
		}

		members := map[string]bool{}

		for _, fd := range t.Fields {
			path := t.Name + "." + fd.Name

			switch {
			case fd.Name == "":
				res.AddError("empty_name", t.Name, "", errors.New("field without a name"))
				continue
			case members[fd.Name]:
				res.AddError("duplicate_field", t.Name, path, fmt.Errorf("field %q declared twice", fd.Name))
				continue
			}

			members[fd.Name] = true

			expr, err := parseType(fd.Type)
			if err != nil {
				res.AddError("invalid_type", t.Name, path, err)
				continue
			}

			for _, ref := range expr.names() {
				if !declared[ref] {
					unknown(t.Name, path, ref)
				}
			}

			if _, err := fieldTag(fd); err != nil {
				res.AddError("invalid_marker", t.Name, path, err)
			}
		}

		for _, op := range t.Operations {
			if members[op] {
				res.AddError("duplicate_field", t.Name, t.Name+"."+op, fmt.Errorf("operation %q shadows a field", op))
			}
		}
	}

	validateExtends(f, res)
	validateDomains(f, declared, res)

	return res
}

func isStruct(f *File, name string) bool {
	for _, t := range f.Types {
		if t.Name == name {
			return true
		}
	}

	return false
}

// validateExtends reports types taking part in an inheritance cycle.
func validateExtends(f *File, res *diagnostic.Diagnostics) {
	_, cyclic, err := extendsOrder(f)
	if err == nil {
		return
	}

	names := make([]string, len(cyclic))
	for i, idx := range cyclic {
		names[i] = f.Types[idx].Name
	}

	res.AddError("extends_cycle", names[0], "extends",
		fmt.Errorf("inheritance cycle through %s", strings.Join(names, ", ")))
}

// extendsOrder sorts type indices so that parents precede children.
func extendsOrder(f *File) ([]int, []int, error) {
	index := make(map[string]int, len(f.Types))
	for i, t := range f.Types {
		if _, dup := index[t.Name]; !dup {
			index[t.Name] = i
		}
	}

	return topoSort(len(f.Types), func(i int) []int {
		if p, ok := index[f.Types[i].Extends]; ok && f.Types[i].Extends != "" {
			return []int{p}
		}
		return nil
	})
}

func validateDomains(f *File, declared map[string]bool, res *diagnostic.Diagnostics) {
	seen := map[model.DomainIdentity]bool{}

	for _, d := range f.Domains {
		id, err := model.ParseDomainIdentity(d.Domain)
		if err != nil {
			res.AddError("invalid_domain", d.Domain, "", err)
			continue
		}

		if seen[id] {
			res.AddError("duplicate_domain", d.Domain, "", fmt.Errorf("domain %s declared twice", id))
		}

		seen[id] = true

		if len(d.Types) == 0 {
			res.AddWarning("empty_domain", "domain lists no types", d.Domain, "")
		}

		for _, name := range d.Types {
			if !declared[name] || !isStruct(f, name) {
				res.AddError("unknown_domain_type", d.Domain, name, fmt.Errorf("domain type %q is not a declared struct", name))
			}
		}
	}
}

func parseMarkers(items []string) (analyze.Markers, error) {
	markers := analyze.ParseMarkers(items)
	for _, mk := range markers {
		if mk.Key == "" {
			return nil, fmt.Errorf("empty marker in %v", items)
		}
	}

	return markers, nil
}

// fieldTag renders a field definition in `meta` tag syntax.
func fieldTag(fd FieldDef) (string, error) {
	markers, err := parseMarkers(slices.Concat(fd.Markers, fd.Constraints))
	if err != nil {
		return "", err
	}

	if len(fd.Alias) > 0 {
		markers = append(markers, analyze.Marker{Key: analyze.MarkerAlias, Value: strings.Join(fd.Alias, "|")})
	}

	if fd.Codec != "" {
		markers = append(markers, analyze.Marker{Key: analyze.MarkerCodec, Value: fd.Codec})
	}

	tag := fd.Name
	if len(markers) > 0 {
		tag += "," + markers.String()
	}

	return tag, nil
}
