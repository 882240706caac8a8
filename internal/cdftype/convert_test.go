package cdftype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceScalars(t *testing.T) {
	t.Parallel()

	got, err := Coerce(Int32, 42)
	require.NoError(t, err)
	assert.Equal(t, []int32{42}, got)

	got, err = Coerce(Float64, float32(1.5))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, got)

	got, err = Coerce(Int16, uint8(7))
	require.NoError(t, err)
	assert.Equal(t, []int16{7}, got)

	got, err = Coerce(Int8, 200)
	require.NoError(t, err)
	assert.Equal(t, []uint8{200}, got)
}

func TestCoerceSlices(t *testing.T) {
	t.Parallel()

	got, err := Coerce(Float32, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got)

	got, err = Coerce(Int32, []int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 5}, got)
}

func TestCoerceRangeChecks(t *testing.T) {
	t.Parallel()

	_, err := Coerce(Int8, 256)
	assert.Error(t, err)
	_, err = Coerce(Int16, 40000)
	assert.Error(t, err)
	_, err = Coerce(Int32, int64(1)<<40)
	assert.Error(t, err)
	_, err = Coerce(Int32, 1.5)
	assert.Error(t, err)
	_, err = Coerce(Int32, "nope")
	assert.Error(t, err)
}

func TestCoerceEpoch(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 1, 1, 12, 30, 0, 0, time.UTC)

	got, err := Coerce(Epoch, ts)
	require.NoError(t, err)
	assert.Equal(t, []float64{float64(ts.UnixMilli())}, got)

	got, err = Coerce(Epoch, []time.Time{ts, ts.Add(time.Second)})
	require.NoError(t, err)
	assert.Equal(t, []float64{
		float64(ts.UnixMilli()),
		float64(ts.UnixMilli() + 1000),
	}, got)

	// Raw epoch numbers pass through.
	got, err = Coerce(Epoch, 1672576200000.0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1672576200000.0}, got)

	assert.True(t, ts.Equal(EpochTime(EpochValue(ts))))
}

func TestCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, Count([]float64{1, 2, 3}))
	assert.Equal(t, 2, Count([]int16{1, 2}))
	assert.Equal(t, 0, Count(42))
}

func TestConcat(t *testing.T) {
	t.Parallel()

	got := Concat(Float32, []interface{}{[]float32{1, 2}, []float32{3}})
	assert.Equal(t, []float32{1, 2, 3}, got)

	got = Concat(Int32, []interface{}{[]int32{7}})
	assert.Equal(t, []int32{7}, got)
}

func TestAttrValue(t *testing.T) {
	t.Parallel()

	got, err := AttrValue("nT")
	require.NoError(t, err)
	assert.Equal(t, "nT", got)

	got, err = AttrValue(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T00:00:00Z", got)

	got, err = AttrValue(7)
	require.NoError(t, err)
	assert.Equal(t, []int32{7}, got)

	got, err = AttrValue(1.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, got)

	got, err = AttrValue(float32(2.5))
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5}, got)

	got, err = AttrValue([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)

	_, err = AttrValue(nil)
	assert.Error(t, err)
	_, err = AttrValue(struct{}{})
	assert.Error(t, err)
}

func TestFillValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float32{1e31}, Float32.FillValue())
	assert.Equal(t, []uint8{255}, Int8.FillValue())
	assert.Equal(t, []float64{1e31, 1e31}, Float64.FillSlice(2))
	assert.Equal(t, []int16{-32768}, Int16.FillSlice(1))
}

func TestTypeValidity(t *testing.T) {
	t.Parallel()

	for _, tt := range []Type{Int8, Int16, Int32, Float32, Float64, Epoch} {
		assert.True(t, tt.Valid(), tt.String())
		assert.NotNil(t, tt.Sample(), tt.String())
	}
	assert.False(t, Invalid.Valid())
	assert.False(t, Type(99).Valid())
}
