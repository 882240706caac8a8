package cdfwriter

import (
	"fmt"

	"github.com/robert-malhotra/go-cdfwriter/internal/cdftype"
	"github.com/robert-malhotra/go-cdfwriter/internal/netcdf"
)

// DataType identifies the storage type of a declared variable.
type DataType = cdftype.Type

// Variable data types.
const (
	Int8    = cdftype.Int8
	Int16   = cdftype.Int16
	Int32   = cdftype.Int32
	Float32 = cdftype.Float32
	Float64 = cdftype.Float64
	Epoch   = cdftype.Epoch
)

// variable is a declared variable: immutable after declaration except
// for attribute additions.
type variable struct {
	name   string
	typ    DataType
	dims   []int
	record bool
	attrs  []netcdf.Attr
}

// elemsPerRecord is the number of stored elements per record (or per
// file, for non-record variables).
func (v *variable) elemsPerRecord() int {
	n := 1
	for _, d := range v.dims {
		n *= d
	}
	return n
}

// setAttr adds or replaces an attribute, preserving insertion order.
func (v *variable) setAttr(name string, value interface{}) {
	for i := range v.attrs {
		if v.attrs[i].Name == name {
			v.attrs[i].Value = value
			return
		}
	}
	v.attrs = append(v.attrs, netcdf.Attr{Name: name, Value: value})
}

func (v *variable) hasAttr(name string) bool {
	for i := range v.attrs {
		if v.attrs[i].Name == name {
			return true
		}
	}
	return false
}

// VariableOption configures a variable declaration.
type VariableOption func(*variable)

// WithDims sets the element dimensions of each record. A variable
// without dimensions holds one scalar per record.
func WithDims(dims ...int) VariableOption {
	return func(v *variable) {
		v.dims = dims
	}
}

// WithNoRecordVariance declares a variable holding a single constant
// value for the whole file instead of one value per record.
func WithNoRecordVariance() VariableOption {
	return func(v *variable) {
		v.record = false
	}
}

// AddVariable declares a variable. Declarations are required before data
// or variable attributes can be added.
func (w *Writer) AddVariable(name string, typ DataType, opts ...VariableOption) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	if !typ.Valid() {
		return fmt.Errorf("variable %s: unsupported data type %s", name, typ)
	}
	if _, ok := w.varIndex[name]; ok {
		return fmt.Errorf("variable %s: %w", name, ErrDuplicateVariable)
	}

	v := &variable{name: name, typ: typ, record: true}
	for _, opt := range opts {
		opt(v)
	}
	for _, d := range v.dims {
		if d <= 0 {
			return fmt.Errorf("variable %s: dimension length %d must be positive", name, d)
		}
	}

	w.vars = append(w.vars, v)
	w.varIndex[name] = v
	return nil
}

// CloneVariable declares newName with the type, dimensions, record
// variance, and attributes of an existing declaration. Attributes given
// in overrides replace the copied ones.
func (w *Writer) CloneVariable(existing, newName string, overrides ...Attribute) error {
	src, ok := w.varIndex[existing]
	if !ok {
		return fmt.Errorf("variable %s: %w", existing, ErrUnknownVariable)
	}
	if _, ok := w.varIndex[newName]; ok {
		return fmt.Errorf("variable %s: %w", newName, ErrDuplicateVariable)
	}
	if newName == "" {
		return fmt.Errorf("variable name cannot be empty")
	}

	v := &variable{
		name:   newName,
		typ:    src.typ,
		dims:   append([]int(nil), src.dims...),
		record: src.record,
		attrs:  append([]netcdf.Attr(nil), src.attrs...),
	}
	for _, a := range overrides {
		val, err := cdftype.AttrValue(a.Value)
		if err != nil {
			return fmt.Errorf("attribute %s on %s: %w", a.Name, newName, err)
		}
		v.setAttr(a.Name, val)
	}

	w.vars = append(w.vars, v)
	w.varIndex[newName] = v
	return nil
}
