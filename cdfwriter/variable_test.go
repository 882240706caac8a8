package cdfwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVariableValidation(t *testing.T) {
	t.Parallel()

	w, err := New("TEST", WithOutputDir(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, w.AddVariable("Epoch", Epoch))
	require.ErrorIs(t, w.AddVariable("Epoch", Float64), ErrDuplicateVariable)

	require.Error(t, w.AddVariable("", Float64))
	require.Error(t, w.AddVariable("Bad", DataType(0)))
	require.Error(t, w.AddVariable("Bad", Float64, WithDims(0)))
	require.Error(t, w.AddVariable("Bad", Float64, WithDims(-3)))
}

func TestCloneVariable(t *testing.T) {
	t.Parallel()

	w, err := New("TEST", WithOutputDir(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, w.AddVariable("Density", Float32, WithDims(16)))
	require.NoError(t, w.AddVariableAttribute("Density", "UNITS", "cm^-3"))
	require.NoError(t, w.AddVariableAttribute("Density", "CATDESC", "Ion density"))

	require.NoError(t, w.CloneVariable("Density", "Density_bg"))

	src := w.varIndex["Density"]
	dst := w.varIndex["Density_bg"]
	assert.Equal(t, src.typ, dst.typ)
	assert.Equal(t, src.dims, dst.dims)
	assert.Equal(t, src.record, dst.record)
	assert.Equal(t, src.attrs, dst.attrs)

	// The copy is independent of the source.
	require.NoError(t, w.AddVariableAttribute("Density", "UNITS", "m^-3"))
	assert.True(t, dst.hasAttr("UNITS"))
	for _, a := range dst.attrs {
		if a.Name == "UNITS" {
			assert.Equal(t, "cm^-3", a.Value)
		}
	}
}

func TestCloneVariableOverrides(t *testing.T) {
	t.Parallel()

	w, err := New("TEST", WithOutputDir(t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, w.AddVariable("Density", Float32))
	require.NoError(t, w.AddVariableAttribute("Density", "CATDESC", "Ion density"))

	err = w.CloneVariable("Density", "Density_e",
		Attribute{"CATDESC", "Electron density"})
	require.NoError(t, err)

	dst := w.varIndex["Density_e"]
	for _, a := range dst.attrs {
		if a.Name == "CATDESC" {
			assert.Equal(t, "Electron density", a.Value)
		}
	}
}

func TestCloneVariableErrors(t *testing.T) {
	t.Parallel()

	w, err := New("TEST", WithOutputDir(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, w.AddVariable("Density", Float32))

	require.ErrorIs(t, w.CloneVariable("Missing", "X"), ErrUnknownVariable)
	require.ErrorIs(t, w.CloneVariable("Density", "Density"), ErrDuplicateVariable)
}
