package model

import (
	"fmt"
	"strings"

	"metabind/internal/analyze"
)

// Describe renders the model tree, one member per line. Nested composite
// models are named, not expanded, so recursive models render finitely. Equal
// descriptions mean structurally equal models.
func Describe(m *ComponentModel) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s %s", m.name, m.kind, analyze.TypeString(m.typ))
	if m.base != nil {
		fmt.Fprintf(&sb, " extends %s", m.base.name)
	}
	if id, ok := m.Identity(); ok {
		fmt.Fprintf(&sb, " identity=%s", id.name)
	}
	if v, ok := m.Version(); ok {
		fmt.Fprintf(&sb, " version=%s", v.name)
	}
	sb.WriteByte('\n')

	for _, mem := range m.Members() {
		describeMember(&sb, mem.ComponentModel, mem.Origin, 1)
	}

	return sb.String()
}

// DescribeTree renders m followed by every composite model it references,
// directly or through nested models, each once in order of first reference.
func DescribeTree(m *ComponentModel) string {
	var sb strings.Builder

	seen := map[*ComponentModel]bool{m: true}
	queue := []*ComponentModel{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur != m {
			sb.WriteByte('\n')
		}
		sb.WriteString(Describe(cur))

		for _, mem := range cur.Members() {
			for _, ref := range referenced(mem.ComponentModel) {
				if !seen[ref] {
					seen[ref] = true
					queue = append(queue, ref)
				}
			}
		}
	}

	return sb.String()
}

// referenced lists the root models a component points at, looking through
// collection keys and elements.
func referenced(c *ComponentModel) []*ComponentModel {
	var out []*ComponentModel
	for ; c != nil; c = c.elem {
		if c.ref != nil {
			out = append(out, c.ref)
		}
		if c.key != nil && c.key.ref != nil {
			out = append(out, c.key.ref)
		}
	}

	return out
}

func describeMember(sb *strings.Builder, m *ComponentModel, origin Origin, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s %s %s", m.name, m.kind, analyze.TypeString(m.typ))

	if origin != OriginLocal {
		fmt.Fprintf(sb, " (%s)", origin)
	}
	if len(m.aliases) > 0 {
		fmt.Fprintf(sb, " alias=%s", strings.Join(m.aliases, "|"))
	}
	if m.codec != nil {
		fmt.Fprintf(sb, " codec=%s", m.codec.Name())
	}
	if m.ref != nil {
		fmt.Fprintf(sb, " -> %s", m.ref.name)
	}
	for _, a := range m.attrs {
		fmt.Fprintf(sb, " @%s", a)
	}
	for _, c := range m.constraints {
		fmt.Fprintf(sb, " !%s", c.Name())
	}
	sb.WriteByte('\n')

	if m.key != nil {
		describeMember(sb, m.key, OriginLocal, depth+1)
	}
	if m.elem != nil {
		describeMember(sb, m.elem, OriginLocal, depth+1)
	}
}
