package cdfwriter

import "fmt"

// SupportAttrs holds the standard ISTP attributes of a support variable
// (constants and other non-plottable quantities).
type SupportAttrs struct {
	ShortDescription string
	LongDescription  string
	Units            string
	Format           string
	ValidMin         interface{}
	ValidMax         interface{}
	LabelAxis        string
	SIConversion     string
	ScaleType        string
}

// PlotAttrs holds the standard ISTP attributes of a plot variable
// (time-varying quantities intended for display).
type PlotAttrs struct {
	ShortDescription string
	LongDescription  string
	DisplayType      string
	Units            string
	Format           string
	LabelAxis        string
	ValidMin         interface{}
	ValidMax         interface{}
	ScaleType        string

	// NoFill suppresses the FILLVAL attribute, which otherwise defaults
	// from the variable's data type.
	NoFill bool
}

// AddSupportAttributes populates the required ISTP attributes for a
// support variable. VAR_TYPE is set to "support_data".
func (w *Writer) AddSupportAttributes(variable string, a SupportAttrs) error {
	if _, ok := w.varIndex[variable]; !ok {
		return fmt.Errorf("variable %s: %w", variable, ErrUnknownVariable)
	}

	units := a.Units
	if units == "" {
		units = "unitless"
	}
	si := a.SIConversion
	if si == "" {
		si = " > "
	}
	label := a.LabelAxis
	if label == "" {
		label = " "
	}
	scale := a.ScaleType
	if scale == "" {
		scale = "linear"
	}

	attrs := []Attribute{
		{"FIELDNAM", a.ShortDescription},
		{"UNITS", units},
		{"FORMAT", a.Format},
		{"CATDESC", a.LongDescription},
		{"VAR_TYPE", "support_data"},
		{"SI_CONVERSION", si},
		{"LABLAXIS", label},
		{"SCALETYP", scale},
	}
	if a.ValidMin != nil {
		attrs = append(attrs, Attribute{"VALIDMIN", a.ValidMin})
	}
	if a.ValidMax != nil {
		attrs = append(attrs, Attribute{"VALIDMAX", a.ValidMax})
	}
	return w.addAttrs(variable, attrs)
}

// AddPlotAttributes populates the required ISTP attributes for a plot
// variable. VAR_TYPE is set to "data", DEPEND_0 to the session's time
// variable, and FILLVAL from the variable's data type unless suppressed.
func (w *Writer) AddPlotAttributes(variable string, a PlotAttrs) error {
	v, ok := w.varIndex[variable]
	if !ok {
		return fmt.Errorf("variable %s: %w", variable, ErrUnknownVariable)
	}

	units := a.Units
	if units == "" {
		units = "unitless"
	}
	scale := a.ScaleType
	if scale == "" {
		scale = "linear"
	}

	attrs := []Attribute{
		{"FIELDNAM", a.ShortDescription},
		{"LABLAXIS", a.LabelAxis},
		{"SCALETYP", scale},
		{"UNITS", units},
		{"FORMAT", a.Format},
		{"CATDESC", a.LongDescription},
		{"VAR_TYPE", "data"},
		{"DISPLAY_TYPE", a.DisplayType},
		{"SI_CONVERSION", " > "},
		{"DEPEND_0", w.timeVar},
		{"COORDINATE_SYSTEM", "BCS"},
	}
	if a.ValidMin != nil {
		attrs = append(attrs, Attribute{"VALIDMIN", a.ValidMin})
	}
	if a.ValidMax != nil {
		attrs = append(attrs, Attribute{"VALIDMAX", a.ValidMax})
	}
	if !a.NoFill {
		attrs = append(attrs, Attribute{"FILLVAL", v.typ.FillValue()})
	}
	return w.addAttrs(variable, attrs)
}

func (w *Writer) addAttrs(variable string, attrs []Attribute) error {
	for _, a := range attrs {
		if err := w.AddVariableAttribute(variable, a.Name, a.Value); err != nil {
			return err
		}
	}
	return nil
}
