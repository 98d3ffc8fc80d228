package validate

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/analyze"
	"metabind/internal/bind"
	"metabind/internal/introspect"
	"metabind/internal/model"
)

type item struct {
	SKU string `meta:"sku,notempty"`
	Qty int32  `meta:",min=1,max=100"`
}

type order struct {
	ID     string   `meta:",id,pattern=^o-[0-9]+$"`
	Buyer  string   `meta:",required,minlen=2"`
	Email  *string  `meta:",notnull"`
	Items  []item
	Tags   []string `meta:",maxlen=2"`
	Status string   `meta:",oneof=new|paid"`
	Memo   string   `meta:",transient,notempty"`
}

type part struct {
	Code string `meta:",id"`
	Name string
}

type kit struct {
	ID    string `meta:",id"`
	Main  *part
	Parts []part
}

func modelOf[T any](t *testing.T) *model.ComponentModel {
	t.Helper()

	m, err := introspect.New(nil, nil).Derive(analyze.Of[T]())
	require.NoError(t, err)

	return m
}

func TestValidateData_ReportsEveryViolation(t *testing.T) {
	m := modelOf[order](t)

	bd, err := bind.Bind(m, order{
		ID:     "x",
		Buyer:  "a",
		Items:  []item{{SKU: "", Qty: 0}, {SKU: "ok", Qty: 5}},
		Tags:   []string{"a", "b", "c"},
		Status: "old",
	})
	require.NoError(t, err)

	err = ValidateData(m, bd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataConstraint)

	var dce *DataConstraintError
	require.True(t, errors.As(err, &dce))
	assert.Equal(t, []string{"id", "buyer", "email", "items.sku", "items.qty", "tags", "status"}, dce.Paths(),
		spew.Sdump(dce.Violations))

	for _, v := range dce.Violations {
		switch v.Path {
		case "email":
			assert.Nil(t, v.Value)
			assert.Equal(t, "notnull", v.Constraint)
		case "items.qty":
			assert.Equal(t, int32(0), v.Value)
			assert.Equal(t, 0, v.Ordinal)
			assert.Equal(t, "min=1", v.Constraint)
		case "tags":
			assert.Equal(t, []any{"a", "b", "c"}, v.Value)
		}
	}
}

func TestValidateData_Valid(t *testing.T) {
	m := modelOf[order](t)
	email := "a@b.c"

	bd, err := bind.Bind(m, order{ID: "o-1", Buyer: "ann", Email: &email, Status: "new"})
	require.NoError(t, err)

	assert.NoError(t, ValidateData(m, bd))
	assert.NoError(t, Validate(m, bd))
}

func TestValidate_MissingRequired(t *testing.T) {
	m := modelOf[order](t)

	bd, err := bind.Bind(m, map[string]any{"id": "o-1"})
	require.NoError(t, err)

	err = Validate(m, bd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelConstraint)

	var mce *ModelConstraintError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"buyer"}, mce.Missing)
	assert.Empty(t, mce.Mismatch)
}

func TestValidate_NestedIdentity(t *testing.T) {
	m := modelOf[kit](t)

	bd, err := bind.Bind(m, map[string]any{"id": "k"})
	require.NoError(t, err)
	assert.NoError(t, Validate(m, bd), "absent composites are not descended")

	bd, err = bind.Bind(m, map[string]any{
		"id":    "k",
		"main":  map[string]any{"name": "x"},
		"parts": []any{map[string]any{"code": "p1"}},
	})
	require.NoError(t, err)

	var mce *ModelConstraintError
	require.True(t, errors.As(Validate(m, bd), &mce))
	assert.Equal(t, []string{"main.code"}, mce.Missing)
}

func TestValidate_ModelMismatch(t *testing.T) {
	orders := modelOf[order](t)
	kits := modelOf[kit](t)

	bd, err := bind.Bind(kits, kit{ID: "k"})
	require.NoError(t, err)

	var mce *ModelConstraintError
	require.True(t, errors.As(Validate(orders, bd), &mce))
	assert.Equal(t, "kit", mce.Mismatch)
}

func TestValidateInstance(t *testing.T) {
	m := modelOf[order](t)

	bd, err := ValidateInstance(m, order{ID: "o-2", Status: "paid"})
	require.NotNil(t, bd)
	assert.ErrorIs(t, err, ErrDataConstraint)
	assert.NotErrorIs(t, err, ErrModelConstraint, "empty strings are bound")
}
