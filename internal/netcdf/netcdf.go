// Package netcdf is the boundary to the underlying NetCDF encoding
// library. It turns a fully buffered file schema (variables, attributes,
// constant and record data) into a physical file. All binary layout,
// padding, and type storage are delegated to github.com/ctessum/cdf.
//
// The encoder's header is immutable once defined, so the entire schema
// crosses this boundary in a single Write call.
package netcdf

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"

	"github.com/robert-malhotra/go-cdfwriter/internal/cdftype"
)

// Attr is a named attribute value in storage representation
// (string or storage slice, see cdftype.AttrValue).
type Attr struct {
	Name  string
	Value interface{}
}

// Variable describes one variable of a file schema.
type Variable struct {
	Name   string
	Type   cdftype.Type
	Dims   []int // per-record element dimensions; nil for a scalar
	Record bool  // one value per record vs. one value per file
	Attrs  []Attr

	// Data is the flattened storage slice for the variable: all records
	// concatenated for record variables, the constant value otherwise.
	// Nil means no data was supplied.
	Data interface{}
}

// Schema is everything needed to materialize one file.
type Schema struct {
	// RecordDim names the unlimited record dimension.
	RecordDim string
	Globals   []Attr
	Vars      []Variable
}

// A File accepts one schema and produces one physical file.
type File interface {
	// Write lays down the header and all variable data, then finalizes
	// the record count in the header.
	Write(s *Schema) error
	Close() error
}

// Backend creates physical files. It is the injection point for tests.
type Backend interface {
	Create(path string) (File, error)
}

type backend struct{}

// New returns the production backend.
func New() Backend { return backend{} }

func (backend) Create(path string) (File, error) {
	ff, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &file{f: ff}, nil
}

type file struct {
	f *os.File
}

func (f *file) Write(s *Schema) error {
	h, err := buildHeader(s)
	if err != nil {
		return err
	}

	cf, err := cdf.Create(f.f, h)
	if err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// Record variables that received no data are written out as fill
	// values so every record slab has its full extent and the final
	// record count comes out right.
	nrecs := 0
	recvars := 0
	for i := range s.Vars {
		v := &s.Vars[i]
		if !v.Record {
			continue
		}
		recvars++
		if v.Data != nil {
			if n := cdftype.Count(v.Data) / elemsPer(v); n > nrecs {
				nrecs = n
			}
		}
	}

	// With more than one record variable, each variable's per-record
	// extent is padded to 4 bytes within the slab, but slab writes stop
	// at the raw extent of the last variable. The file would then end
	// short of the final slab and the size-derived record count would
	// drop the last record. Filling the last slab up front gives the
	// file its full extent; the data writes below overwrite the fill.
	if recvars > 1 && nrecs > 0 {
		if err := cf.FillRecord(nrecs - 1); err != nil {
			return fmt.Errorf("padding last record: %w", err)
		}
	}

	for i := range s.Vars {
		v := &s.Vars[i]
		data := v.Data
		if data == nil {
			if !v.Record {
				if err := cf.Fill(v.Name); err != nil {
					return fmt.Errorf("filling %s: %w", v.Name, err)
				}
				continue
			}
			if nrecs == 0 {
				continue
			}
			data = v.Type.FillSlice(nrecs * elemsPer(v))
		}
		w := cf.Writer(v.Name, nil, nil)
		n, err := w.Write(data)
		// A bounded write reports io.EOF when it ends exactly at the
		// variable's extent. Every element arrived, so it is not a
		// failure. Record variables are unbounded and never hit this.
		if err == io.EOF && n == cdftype.Count(data) {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", v.Name, err)
		}
	}

	if err := cdf.UpdateNumRecs(f.f); err != nil {
		return fmt.Errorf("finalizing record count: %w", err)
	}
	return nil
}

func (f *file) Close() error {
	if err := f.f.Sync(); err != nil {
		f.f.Close()
		return err
	}
	return f.f.Close()
}

// buildHeader assembles the immutable NetCDF header from the schema.
// Each variable gets private auxiliary dimensions for its element shape;
// record variables additionally lead with the shared record dimension.
func buildHeader(s *Schema) (h *cdf.Header, err error) {
	// The encoder signals definition mistakes by panicking. Anything it
	// rejects here is a schema bug surfaced as an error to the caller.
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("defining header: %v", r)
		}
	}()

	recordDim := s.RecordDim
	if recordDim == "" {
		recordDim = "record"
	}

	var dims []string
	var lengths []int
	hasRecord := false
	for i := range s.Vars {
		if s.Vars[i].Record {
			hasRecord = true
			break
		}
	}
	if hasRecord {
		dims = append(dims, recordDim)
		lengths = append(lengths, 0)
	}
	for i := range s.Vars {
		v := &s.Vars[i]
		for j, n := range varDims(v) {
			dims = append(dims, fmt.Sprintf("%s_d%d", v.Name, j))
			lengths = append(lengths, n)
		}
	}

	h = cdf.NewHeader(dims, lengths)

	for i := range s.Vars {
		v := &s.Vars[i]
		var vdims []string
		if v.Record {
			vdims = append(vdims, recordDim)
		}
		for j := range varDims(v) {
			vdims = append(vdims, fmt.Sprintf("%s_d%d", v.Name, j))
		}
		h.AddVariable(v.Name, vdims, v.Type.Sample())
		for _, a := range v.Attrs {
			h.AddAttribute(v.Name, a.Name, a.Value)
		}
	}
	for _, a := range s.Globals {
		h.AddAttribute("", a.Name, a.Value)
	}

	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("header check: %v", errs[0])
	}
	return h, nil
}

// elemsPer is the number of stored elements per record (or per file).
func elemsPer(v *Variable) int {
	n := 1
	for _, d := range varDims(v) {
		n *= d
	}
	return n
}

// varDims returns the auxiliary dimension lengths of a variable. Scalar
// constants get a single length-1 dimension so the data section always
// has a well-defined extent.
func varDims(v *Variable) []int {
	if len(v.Dims) == 0 {
		if v.Record {
			return nil
		}
		return []int{1}
	}
	return v.Dims
}
