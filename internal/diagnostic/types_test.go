package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	cause := errors.New("boom")
	d.AddError(CodeDecodeFailed, "Order", "items.sku", cause)
	d.AddWarning(CodeUnmapped, "unmapped data", "Order", "itemz", "items")

	require.True(t, d.HasErrors())
	err := d.Error()
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "[Order] items.sku: [decode_failed] boom")
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: CodeUnmapped, Message: "unmapped data", Path: "custmer", Suggestions: []string{"customer"}}
	assert.Equal(t, "custmer: [unmapped] unmapped data (did you mean customer?)", d.String())
}

func TestDiagnostics_ForPathAndMerge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("note", "first", "", "x")
	b.AddError(CodeAccessorFailed, "", "x", errors.New("bad"))
	b.AddWarning(CodeUnmapped, "other", "", "y")

	a.Merge(b)

	got := a.ForPath("x")
	require.Len(t, got, 2)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.Equal(t, SeverityInfo, got[1].Severity)
	assert.Equal(t, "warning", SeverityWarning.String())
}
