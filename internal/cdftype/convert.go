package cdftype

import (
	"fmt"
	"reflect"
	"time"
)

// Coerce converts a caller value into a storage slice for a variable of
// type t. Accepted inputs are numeric scalars, slices of numeric scalars,
// and (for Epoch) time.Time or []time.Time. Integer inputs are range
// checked against the target type.
func Coerce(t Type, v interface{}) (interface{}, error) {
	if t == Epoch {
		switch tv := v.(type) {
		case time.Time:
			return []float64{EpochValue(tv)}, nil
		case []time.Time:
			out := make([]float64, len(tv))
			for i, tt := range tv {
				out[i] = EpochValue(tt)
			}
			return out, nil
		}
		// Fall through: epochs may also be supplied as raw numbers.
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	var n int
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n = rv.Len()
	default:
		n = 1
		s := reflect.MakeSlice(reflect.SliceOf(rv.Type()), 1, 1)
		s.Index(0).Set(rv)
		rv = s
	}

	switch t {
	case Int8:
		out := make([]uint8, n)
		for i := 0; i < n; i++ {
			u, err := elemInt(rv.Index(i), 0, 255)
			if err != nil {
				return nil, err
			}
			out[i] = uint8(u)
		}
		return out, nil
	case Int16:
		out := make([]int16, n)
		for i := 0; i < n; i++ {
			u, err := elemInt(rv.Index(i), -32768, 32767)
			if err != nil {
				return nil, err
			}
			out[i] = int16(u)
		}
		return out, nil
	case Int32:
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			u, err := elemInt(rv.Index(i), -2147483648, 2147483647)
			if err != nil {
				return nil, err
			}
			out[i] = int32(u)
		}
		return out, nil
	case Float32:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			f, err := elemFloat(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = float32(f)
		}
		return out, nil
	case Float64, Epoch:
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			f, err := elemFloat(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, t)
}

func elemInt(v reflect.Value, min, max int64) (int64, error) {
	var i int64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(max) {
			return 0, fmt.Errorf("value %d out of range [%d,%d]", u, min, max)
		}
		i = int64(u)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != float64(int64(f)) {
			return 0, fmt.Errorf("value %v is not an integer", f)
		}
		i = int64(f)
	default:
		return 0, fmt.Errorf("cannot convert %s to integer", v.Kind())
	}
	if i < min || i > max {
		return 0, fmt.Errorf("value %d out of range [%d,%d]", i, min, max)
	}
	return i, nil
}

func elemFloat(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	default:
		return 0, fmt.Errorf("cannot convert %s to float", v.Kind())
	}
}

// Count returns the number of elements in a storage slice produced by Coerce.
func Count(v interface{}) int {
	switch s := v.(type) {
	case []uint8:
		return len(s)
	case []int16:
		return len(s)
	case []int32:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case string:
		return len(s)
	}
	return 0
}

// Concat flattens per-record storage slices into a single storage slice
// for a slab write. All chunks must be of the same storage type.
func Concat(t Type, chunks []interface{}) interface{} {
	switch t {
	case Int8:
		var out []uint8
		for _, c := range chunks {
			out = append(out, c.([]uint8)...)
		}
		return out
	case Int16:
		var out []int16
		for _, c := range chunks {
			out = append(out, c.([]int16)...)
		}
		return out
	case Int32:
		var out []int32
		for _, c := range chunks {
			out = append(out, c.([]int32)...)
		}
		return out
	case Float32:
		var out []float32
		for _, c := range chunks {
			out = append(out, c.([]float32)...)
		}
		return out
	case Float64, Epoch:
		var out []float64
		for _, c := range chunks {
			out = append(out, c.([]float64)...)
		}
		return out
	}
	return nil
}

// AttrValue converts an attribute value into one of the representations
// the NetCDF encoder stores: a string, or a storage slice. Timestamps
// become ISO 8601 strings. This is the boundary validation for the
// otherwise free-form attribute values callers may supply.
func AttrValue(v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil attribute value")
	case string:
		return tv, nil
	case time.Time:
		return tv.UTC().Format(time.RFC3339), nil
	case []uint8:
		return tv, nil
	case []int16:
		return tv, nil
	case []int32:
		return tv, nil
	case []float32:
		return tv, nil
	case []float64:
		return tv, nil
	}

	rv := reflect.ValueOf(v)
	elem := rv
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 0 {
			return nil, fmt.Errorf("empty attribute value slice")
		}
		elem = rv.Index(0)
	}

	switch elem.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Coerce(Int32, v)
	case reflect.Float32:
		return Coerce(Float32, v)
	case reflect.Float64:
		return Coerce(Float64, v)
	}
	return nil, fmt.Errorf("unsupported attribute value type %T", v)
}
