package cdfwriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlotAttributes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	w, err := New("TEST", WithOutputDir(dir))
	require.NoError(t, err)
	require.NoError(t, w.AddVariable("Epoch", Epoch))
	require.NoError(t, w.AddVariable("Flux", Float32))

	err = w.AddPlotAttributes("Flux", PlotAttrs{
		ShortDescription: "Ion flux",
		LongDescription:  "Omnidirectional ion flux",
		DisplayType:      "time_series",
		Units:            "1/(cm^2 s sr)",
		LabelAxis:        "Flux",
		ValidMin:         float32(0),
		ValidMax:         float32(1e9),
	})
	require.NoError(t, err)

	require.NoError(t, w.AddVariableData("Epoch", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, w.AddVariableData("Flux", float32(12.5)))
	require.NoError(t, w.Close())

	f, _ := openCDF(t, w.LastFilename())
	assert.Equal(t, "Ion flux", f.Header.GetAttribute("Flux", "FIELDNAM"))
	assert.Equal(t, "Omnidirectional ion flux", f.Header.GetAttribute("Flux", "CATDESC"))
	assert.Equal(t, "data", f.Header.GetAttribute("Flux", "VAR_TYPE"))
	assert.Equal(t, "time_series", f.Header.GetAttribute("Flux", "DISPLAY_TYPE"))
	assert.Equal(t, "Epoch", f.Header.GetAttribute("Flux", "DEPEND_0"))
	assert.Equal(t, "BCS", f.Header.GetAttribute("Flux", "COORDINATE_SYSTEM"))
	assert.Equal(t, []float32{0}, f.Header.GetAttribute("Flux", "VALIDMIN"))
	assert.Equal(t, []float32{1e9}, f.Header.GetAttribute("Flux", "VALIDMAX"))
	assert.Equal(t, []float32{1e31}, f.Header.GetAttribute("Flux", "FILLVAL"))
	assert.Equal(t, "linear", f.Header.GetAttribute("Flux", "SCALETYP"))
}

func TestAddPlotAttributesNoFill(t *testing.T) {
	t.Parallel()

	w, err := New("TEST", WithOutputDir(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, w.AddVariable("Flux", Float32))

	require.NoError(t, w.AddPlotAttributes("Flux", PlotAttrs{NoFill: true}))
	assert.False(t, w.varIndex["Flux"].hasAttr("FILLVAL"))
}

func TestAddSupportAttributes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	w, err := New("TEST", WithOutputDir(dir))
	require.NoError(t, err)
	require.NoError(t, w.AddVariable("Epoch", Epoch))
	require.NoError(t, w.AddVariable("Energy_levels", Float32,
		WithDims(32), WithNoRecordVariance()))

	err = w.AddSupportAttributes("Energy_levels", SupportAttrs{
		ShortDescription: "Energy bins",
		Units:            "eV",
	})
	require.NoError(t, err)

	require.NoError(t, w.AddVariable("Ratio", Float32, WithNoRecordVariance()))
	require.NoError(t, w.AddSupportAttributes("Ratio", SupportAttrs{}))

	require.NoError(t, w.AddVariableData("Epoch", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, w.Close())

	f, _ := openCDF(t, w.LastFilename())
	assert.Equal(t, "support_data", f.Header.GetAttribute("Energy_levels", "VAR_TYPE"))
	assert.Equal(t, "eV", f.Header.GetAttribute("Energy_levels", "UNITS"))
	// Unitless quantities still get a UNITS attribute.
	assert.Equal(t, "unitless", f.Header.GetAttribute("Ratio", "UNITS"))

	require.ErrorIs(t, w.AddSupportAttributes("Missing", SupportAttrs{}), ErrUnknownVariable)
	require.ErrorIs(t, w.AddPlotAttributes("Missing", PlotAttrs{}), ErrUnknownVariable)
}
