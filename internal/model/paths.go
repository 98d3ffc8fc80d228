package model

import (
	"strings"
)

// Resolution is a path resolved against a model.
type Resolution struct {
	// Model is the component at the path; for collections of scalars it is
	// the element model.
	Model *ComponentModel
	// Path is the canonical path: every alias replaced by its member name.
	Path string
	// Repeated is true when the path crosses an array.
	Repeated bool
	// Keyed is true when the path crosses a map.
	Keyed bool
}

// Resolve finds the component addressed by a dot-delimited path, matching
// each segment by name, then alias. Paths ending at a composite resolve to
// the component referencing it.
func Resolve(root *ComponentModel, path string) (Resolution, bool) {
	if path == "" {
		return Resolution{}, false
	}

	var (
		res   Resolution
		canon []string
		cur   = root
	)

	segments := strings.Split(path, ".")
	for i, seg := range segments {
		if cur == nil {
			return Resolution{}, false
		}

		mem, ok := cur.Member(seg)
		if !ok {
			return Resolution{}, false
		}

		canon = append(canon, mem.name)
		c := mem.ComponentModel

		switch c.kind {
		case KindArray:
			res.Repeated = true
			c = c.elem
		case KindMap:
			res.Keyed = true
			c = c.elem
		}

		if i == len(segments)-1 {
			res.Model = c
			res.Path = strings.Join(canon, ".")

			return res, true
		}

		cur = c.ref
	}

	return Resolution{}, false
}

// Paths lists the canonical paths of every scalar position of m in
// declaration order. A recursive model is expanded once per chain.
func Paths(m *ComponentModel) []string {
	var out []string

	collectPaths(m, "", map[*ComponentModel]bool{}, &out)

	return out
}

func collectPaths(m *ComponentModel, prefix string, active map[*ComponentModel]bool, out *[]string) {
	if m == nil || active[m] {
		return
	}

	active[m] = true
	defer delete(active, m)

	for _, mem := range m.members {
		path := mem.name
		if prefix != "" {
			path = prefix + "." + mem.name
		}

		c := mem.ComponentModel
		if c.kind == KindArray || c.kind == KindMap {
			c = c.elem
		}

		if c.ref != nil {
			collectPaths(c.ref, path, active, out)
			continue
		}

		*out = append(*out, path)
	}
}
