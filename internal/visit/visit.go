// Package visit walks the component structure of a model, or of bound data,
// depth first in declaration order.
package visit

import (
	"errors"

	"metabind/internal/bind"
	"metabind/internal/model"
)

// SkipChildren returned from a callback skips the components below the
// current one.
var SkipChildren = errors.New("skip children")

// Structure is anything exposing the model it is shaped by.
type Structure interface {
	Model() *model.ComponentModel
}

// bound is a structure carrying bound data; walks follow its paths.
type bound interface {
	Structure
	Has(path string) bool
	Get(path string) []bind.BoundComponent
}

var _ bound = (*bind.BoundData)(nil)

type bare struct{ m *model.ComponentModel }

func (b bare) Model() *model.ComponentModel { return b.m }

// Model wraps a bare model as a Structure.
func Model(m *model.ComponentModel) Structure { return bare{m: m} }

// Position locates a component during a walk.
type Position struct {
	Path   string
	Depth  int
	Origin model.Origin
	// Values holds the components bound at Path when walking bound data.
	Values []bind.BoundComponent
}

// Visitor receives every component of a structure.
type Visitor interface {
	Component(pos Position, m *model.ComponentModel) error
	Array(pos Position, m, elem *model.ComponentModel) error
	Map(pos Position, m, key, value *model.ComponentModel) error
}

// Funcs adapts plain functions to a Visitor. Nil functions are skipped.
type Funcs struct {
	OnComponent func(pos Position, m *model.ComponentModel) error
	OnArray     func(pos Position, m, elem *model.ComponentModel) error
	OnMap       func(pos Position, m, key, value *model.ComponentModel) error
}

func (f Funcs) Component(pos Position, m *model.ComponentModel) error {
	if f.OnComponent == nil {
		return nil
	}
	return f.OnComponent(pos, m)
}

func (f Funcs) Array(pos Position, m, elem *model.ComponentModel) error {
	if f.OnArray == nil {
		return nil
	}
	return f.OnArray(pos, m, elem)
}

func (f Funcs) Map(pos Position, m, key, value *model.ComponentModel) error {
	if f.OnMap == nil {
		return nil
	}
	return f.OnMap(pos, m, key, value)
}

// Walk calls v for every member of s. A bare model is walked once per
// recursion chain; bound data is walked as deep as bound paths exist.
// The first error other than SkipChildren stops the walk.
func Walk(s Structure, v Visitor) error {
	w := &walker{v: v, active: map[*model.ComponentModel]bool{}}
	if b, ok := s.(bound); ok {
		w.data = b
	}

	return w.walk(s.Model(), "", 0)
}

type walker struct {
	v      Visitor
	data   bound
	active map[*model.ComponentModel]bool
}

func (w *walker) walk(m *model.ComponentModel, prefix string, depth int) error {
	if m == nil {
		return nil
	}

	if w.data == nil {
		key := m
		if m.Ref() != nil {
			key = m.Ref()
		}

		if w.active[key] {
			return nil
		}

		w.active[key] = true
		defer delete(w.active, key)
	}

	for _, mem := range m.Members() {
		path := mem.Name()
		if prefix != "" {
			path = prefix + "." + path
		}

		pos := Position{Path: path, Depth: depth, Origin: mem.Origin}
		if w.data != nil {
			pos.Values = w.data.Get(path)
		}

		c := mem.ComponentModel

		var (
			err    error
			nested *model.ComponentModel
		)

		switch c.Kind() {
		case model.KindArray:
			err = w.v.Array(pos, c, c.Elem())
			nested = c.Elem()
		case model.KindMap:
			err = w.v.Map(pos, c, c.Key(), c.Elem())
			nested = c.Elem()
		default:
			err = w.v.Component(pos, c)
			nested = c
		}

		switch {
		case errors.Is(err, SkipChildren):
			continue
		case err != nil:
			return err
		}

		// nested members come from the referenced model, as composited
		if nested.Ref() == nil || (w.data != nil && !w.data.Has(path)) {
			continue
		}

		if err := w.walk(nested, path, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// Paths returns every position of s in walk order.
func Paths(s Structure) []string {
	var out []string

	record := func(pos Position) error {
		out = append(out, pos.Path)
		return nil
	}

	_ = Walk(s, Funcs{
		OnComponent: func(pos Position, _ *model.ComponentModel) error { return record(pos) },
		OnArray:     func(pos Position, _, _ *model.ComponentModel) error { return record(pos) },
		OnMap:       func(pos Position, _, _, _ *model.ComponentModel) error { return record(pos) },
	})

	return out
}
