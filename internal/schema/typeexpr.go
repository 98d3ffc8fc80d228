package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"metabind/internal/analyze"
	"metabind/primitive"
)

type exprKind int

const (
	exprScalar exprKind = iota
	exprNamed
	exprAny
	exprSlice
	exprPointer
	exprMap
)

// typeExpr is a parsed field type.
type typeExpr struct {
	kind   exprKind
	scalar primitive.KindEnum
	name   string
	key    *typeExpr
	elem   *typeExpr
}

func parseType(s string) (*typeExpr, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return nil, errors.New("empty type")

	case strings.HasPrefix(s, "[]"):
		elem, err := parseType(s[2:])
		if err != nil {
			return nil, err
		}
		return &typeExpr{kind: exprSlice, elem: elem}, nil

	case strings.HasPrefix(s, "*"):
		elem, err := parseType(s[1:])
		if err != nil {
			return nil, err
		}
		return &typeExpr{kind: exprPointer, elem: elem}, nil

	case strings.HasPrefix(s, "map["):
		end := closing(s, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in %q", s)
		}

		key, err := parseType(s[len("map["):end])
		if err != nil {
			return nil, err
		}

		elem, err := parseType(s[end+1:])
		if err != nil {
			return nil, err
		}

		return &typeExpr{kind: exprMap, key: key, elem: elem}, nil

	case s == "any":
		return &typeExpr{kind: exprAny}, nil
	}

	if k := primitive.FromName(s); k.IsValid() {
		return &typeExpr{kind: exprScalar, scalar: k}, nil
	}

	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return nil, fmt.Errorf("invalid type name %q", s)
		}
	}

	return &typeExpr{kind: exprNamed, name: s}, nil
}

// closing returns the index of the bracket closing the one at open.
func closing(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// names lists the declared types the expression refers to.
func (e *typeExpr) names() []string {
	switch e.kind {
	case exprNamed:
		return []string{e.name}
	case exprSlice, exprPointer:
		return e.elem.names()
	case exprMap:
		return append(e.key.names(), e.elem.names()...)
	default:
		return nil
	}
}

// descriptor builds the analyze descriptor, resolving names through b.
func (e *typeExpr) descriptor(b *analyze.Builder) *analyze.TypeInfo {
	switch e.kind {
	case exprScalar:
		return analyze.Basic(e.scalar)
	case exprNamed:
		return b.Ref(e.name)
	case exprSlice:
		return analyze.SliceOf(e.elem.descriptor(b))
	case exprPointer:
		return analyze.PointerTo(e.elem.descriptor(b))
	case exprMap:
		return analyze.MapOf(e.key.descriptor(b), e.elem.descriptor(b))
	default:
		return &analyze.TypeInfo{ID: analyze.TypeID{Name: "any"}, Kind: analyze.TypeKindInterface, Dynamic: true}
	}
}
