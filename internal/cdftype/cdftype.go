// Package cdftype defines the data types a CDF variable can hold and
// converts caller-supplied Go values into the storage slices the NetCDF
// encoder accepts ([]uint8, []int16, []int32, []float32, []float64, string).
package cdftype

import (
	"fmt"
	"time"
)

// Type identifies the storage type of a variable or attribute.
type Type int

const (
	Invalid Type = iota
	Int8
	Int16
	Int32
	Float32
	Float64

	// Epoch is a timestamp, stored as float64 milliseconds since the
	// Unix epoch. Callers supply time.Time values.
	Epoch
)

// EpochUnits is the value of the "units" attribute stamped on time variables.
const EpochUnits = "milliseconds since 1970-01-01T00:00:00.000Z"

func (t Type) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Epoch:
		return "epoch"
	}
	return fmt.Sprintf("invalid(%d)", int(t))
}

// Valid reports whether t is a declarable variable type.
func (t Type) Valid() bool {
	return t >= Int8 && t <= Epoch
}

// Sample returns a one-element storage slice of the type the NetCDF
// encoder uses to infer the variable's data type. The contents are ignored.
func (t Type) Sample() interface{} {
	switch t {
	case Int8:
		return []uint8{0}
	case Int16:
		return []int16{0}
	case Int32:
		return []int32{0}
	case Float32:
		return []float32{0}
	case Float64, Epoch:
		return []float64{0}
	}
	return nil
}

// FillValue returns the conventional fill value for t, used for the
// FILLVAL variable attribute on plot variables.
func (t Type) FillValue() interface{} {
	switch t {
	case Int8:
		return []uint8{255}
	case Int16:
		return []int16{-32768}
	case Int32:
		return []int32{-2147483648}
	case Float32:
		return []float32{1.0e31}
	case Float64, Epoch:
		return []float64{1.0e31}
	}
	return nil
}

// FillSlice returns a storage slice of n fill values.
func (t Type) FillSlice(n int) interface{} {
	switch t {
	case Int8:
		out := make([]uint8, n)
		for i := range out {
			out[i] = 255
		}
		return out
	case Int16:
		out := make([]int16, n)
		for i := range out {
			out[i] = -32768
		}
		return out
	case Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = -2147483648
		}
		return out
	case Float32:
		out := make([]float32, n)
		for i := range out {
			out[i] = 1.0e31
		}
		return out
	case Float64, Epoch:
		out := make([]float64, n)
		for i := range out {
			out[i] = 1.0e31
		}
		return out
	}
	return nil
}

// EpochValue converts a timestamp to its storage representation.
func EpochValue(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// EpochTime converts a stored epoch value back to a timestamp.
func EpochTime(v float64) time.Time {
	return time.UnixMilli(int64(v)).UTC()
}
