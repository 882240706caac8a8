package cdfwriter

import (
	"fmt"

	"github.com/robert-malhotra/go-cdfwriter/internal/cdftype"
	"github.com/robert-malhotra/go-cdfwriter/internal/netcdf"
)

// Attribute is a named metadata value. Values may be strings, numeric
// scalars or slices, or time.Time; they are validated and normalized
// when added.
type Attribute struct {
	Name  string
	Value interface{}
}

// AddGlobalAttribute sets file-level metadata. Attributes accumulate in
// the session and are materialized into each file when it is created;
// adding the same name again replaces the value for files not yet
// finalized.
func (w *Writer) AddGlobalAttribute(name string, value interface{}) error {
	if name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}
	val, err := cdftype.AttrValue(value)
	if err != nil {
		return fmt.Errorf("global attribute %s: %w", name, err)
	}
	for i := range w.globals {
		if w.globals[i].Name == name {
			w.globals[i].Value = val
			return nil
		}
	}
	w.globals = append(w.globals, netcdf.Attr{Name: name, Value: val})
	return nil
}

// AddVariableAttribute sets metadata on a declared variable.
func (w *Writer) AddVariableAttribute(variable, name string, value interface{}) error {
	v, ok := w.varIndex[variable]
	if !ok {
		return fmt.Errorf("variable %s: %w", variable, ErrUnknownVariable)
	}
	if name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}
	val, err := cdftype.AttrValue(value)
	if err != nil {
		return fmt.Errorf("attribute %s on %s: %w", name, variable, err)
	}
	v.setAttr(name, val)
	return nil
}
