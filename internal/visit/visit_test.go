package visit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/analyze"
	"metabind/internal/bind"
	"metabind/internal/introspect"
	"metabind/internal/model"
)

type base struct {
	ID string `meta:",id"`
}

type line struct {
	SKU string
	Qty int32
}

type order struct {
	base
	Lines  []line
	Labels map[string]line
	Tags   []string
}

type node struct {
	Name string `meta:",id"`
	Next *node
}

func modelOf[T any](t *testing.T) *model.ComponentModel {
	t.Helper()

	m, err := introspect.New(nil, nil).Derive(analyze.Of[T]())
	require.NoError(t, err)

	return m
}

type recorder struct {
	calls []string
}

func (r *recorder) Component(pos Position, _ *model.ComponentModel) error {
	r.calls = append(r.calls, "component "+pos.Path)
	return nil
}

func (r *recorder) Array(pos Position, _, elem *model.ComponentModel) error {
	r.calls = append(r.calls, "array "+pos.Path+" of "+elem.Kind().String())
	return nil
}

func (r *recorder) Map(pos Position, _, key, _ *model.ComponentModel) error {
	r.calls = append(r.calls, "map "+pos.Path+" by "+key.Kind().String())
	return nil
}

func TestWalk_Model(t *testing.T) {
	m := modelOf[order](t)

	r := &recorder{}
	require.NoError(t, Walk(Model(m), r))

	assert.Equal(t, []string{
		"component id",
		"array lines of " + model.KindObject.String(),
		"component lines.sku",
		"component lines.qty",
		"map labels by " + model.KindScalar.String(),
		"component labels.sku",
		"component labels.qty",
		"array tags of " + model.KindScalar.String(),
	}, r.calls)
}

func TestWalk_RecursiveModelOncePerChain(t *testing.T) {
	m := modelOf[node](t)

	assert.Equal(t, []string{"name", "next"}, Paths(Model(m)))
}

func TestWalk_BoundDataFollowsPaths(t *testing.T) {
	m := modelOf[node](t)

	bd, err := bind.Bind(m, &node{Name: "a", Next: &node{Name: "b", Next: &node{Name: "c"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "next", "next.name", "next.next", "next.next.name", "next.next.next"}, Paths(bd))

	var values []any
	require.NoError(t, Walk(bd, Funcs{OnComponent: func(pos Position, _ *model.ComponentModel) error {
		for _, v := range pos.Values {
			values = append(values, v.Value)
		}
		return nil
	}}))
	assert.Equal(t, []any{"a", "b", "c"}, values)
}

func TestWalk_SkipAndStop(t *testing.T) {
	m := modelOf[order](t)

	var seen []string
	err := Walk(Model(m), Funcs{
		OnArray: func(pos Position, _, _ *model.ComponentModel) error {
			seen = append(seen, pos.Path)
			return SkipChildren
		},
		OnComponent: func(pos Position, _ *model.ComponentModel) error {
			seen = append(seen, pos.Path)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "lines", "labels.sku", "labels.qty", "tags"}, seen)

	stop := errors.New("stop")
	err = Walk(Model(m), Funcs{OnComponent: func(Position, *model.ComponentModel) error { return stop }})
	assert.ErrorIs(t, err, stop)
}

func TestWalk_Origins(t *testing.T) {
	m := modelOf[order](t)

	origins := map[string]model.Origin{}
	require.NoError(t, Walk(Model(m), Funcs{OnComponent: func(pos Position, _ *model.ComponentModel) error {
		origins[pos.Path] = pos.Origin
		return nil
	}}))

	assert.Equal(t, model.OriginInherited, origins["id"])
	assert.Equal(t, model.OriginComposited, origins["lines.sku"])
}
