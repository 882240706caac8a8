package cdfwriter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/robert-malhotra/go-cdfwriter/internal/cdftype"
	"github.com/robert-malhotra/go-cdfwriter/internal/netcdf"
)

// DefaultTimeVariable is the conventional name of the variable holding
// record timestamps.
const DefaultTimeVariable = "Epoch"

// Writer is a session producing one or more CDF files that share a
// prefix, a version, declared variables, and attributes. It is not safe
// for concurrent use; callers drive it from a single goroutine.
type Writer struct {
	prefix         string
	outDir         string
	version        string
	conventionTmpl string
	convention     Convention
	timeVar        string
	split          splitMode
	interval       time.Duration
	clock          clockwork.Clock
	log            *slog.Logger
	backend        netcdf.Backend

	vars     []*variable
	varIndex map[string]*variable
	globals  []netcdf.Attr

	cur          *openFile
	closed       bool
	lastFilename string
}

// openFile buffers everything destined for the file currently being
// assembled. Data is written out in one pass when the file closes,
// because the final filename derives from the file's first record time
// and the underlying header is immutable once defined.
type openFile struct {
	tmpPath string
	bf      netcdf.File

	key       string // filename key, set by the first timestamp
	firstTime time.Time
	lastTime  time.Time
	hasTime   bool

	records map[string][]interface{} // per-record storage chunks
	all     map[string]interface{}   // whole-column writes
	consts  map[string]interface{}   // non-record values
	counts  map[string]int
}

func (f *openFile) empty() bool {
	return len(f.records) == 0 && len(f.all) == 0 && len(f.consts) == 0
}

// New creates a session. Prefix is prepended to every generated
// filename and must be non-empty. Nothing touches the filesystem until
// the first data write.
func New(prefix string, opts ...Option) (*Writer, error) {
	if prefix == "" {
		return nil, fmt.Errorf("prefix cannot be empty")
	}

	w := &Writer{
		prefix:         prefix,
		outDir:         ".",
		version:        "0.0.0",
		conventionTmpl: DefaultConvention,
		timeVar:        DefaultTimeVariable,
		clock:          clockwork.NewRealClock(),
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		backend:        netcdf.New(),
		varIndex:       make(map[string]*variable),
	}
	for _, opt := range opts {
		opt(w)
	}

	if !validVersion(w.version) {
		return nil, fmt.Errorf("version %q: %w", w.version, ErrBadVersion)
	}
	conv, err := ParseConvention(w.conventionTmpl)
	if err != nil {
		return nil, err
	}
	w.convention = conv
	if w.split == splitOnInterval && w.interval <= 0 {
		return nil, fmt.Errorf("split interval must be positive")
	}
	return w, nil
}

// SetVersion changes the version string for files not yet finalized.
func (w *Writer) SetVersion(version string) error {
	if !validVersion(version) {
		return fmt.Errorf("version %q: %w", version, ErrBadVersion)
	}
	w.version = version
	return nil
}

// LastFilename returns the path of the most recently finalized file, or
// "" if the session has not produced a file yet.
func (w *Writer) LastFilename() string {
	return w.lastFilename
}

// AddVariableData appends one record's value for the named variable, or
// sets the value of a non-record variable. The value may be a numeric
// scalar, a slice matching the variable's declared dimensions, or a
// time.Time for Epoch-typed variables.
//
// The first write of a session (or after MakeNewFile) creates the
// physical file. Writes of the time variable drive the file boundary
// policy: with WithAutoSplit, a timestamp whose filename key differs
// from the open file's closes it and starts a new one. For that reason
// the time variable should be written first within each record.
func (w *Writer) AddVariableData(name string, value interface{}) error {
	if w.closed {
		return ErrClosed
	}
	v, ok := w.varIndex[name]
	if !ok {
		return fmt.Errorf("variable %s: %w", name, ErrUnknownVariable)
	}

	times, isTime := w.recordTimes(name, value)

	chunk, err := cdftype.Coerce(v.typ, value)
	if err != nil {
		return fmt.Errorf("variable %s: %w: %v", name, ErrBadValue, err)
	}
	if n := cdftype.Count(chunk); n != v.elemsPerRecord() {
		return fmt.Errorf("variable %s: %w: got %d elements, want %d",
			name, ErrBadValue, n, v.elemsPerRecord())
	}

	if w.cur != nil && w.split == splitOnKeyChange && isTime && w.cur.key != "" {
		if key := w.convention.Key(times[0]); key != w.cur.key {
			w.log.Debug("file boundary crossed", "from", w.cur.key, "to", key)
			if err := w.closeCurrent(); err != nil {
				return err
			}
		}
	}

	if err := w.ensureOpen(); err != nil {
		return err
	}

	if isTime {
		if err := w.noteTimes(times); err != nil {
			return err
		}
	}

	if !v.record {
		w.cur.consts[name] = chunk
		return nil
	}
	if _, ok := w.cur.all[name]; ok {
		return fmt.Errorf("variable %s: %w", name, ErrAllValuesWritten)
	}
	w.cur.records[name] = append(w.cur.records[name], chunk)
	w.cur.counts[name]++
	return nil
}

// AddVariableDataAll provides the values of every record of a record
// variable in one call, in record order. It cannot be combined with
// per-record writes of the same variable within one file.
//
// Whole-column writes bypass the boundary policy: even with
// WithAutoSplit, the entire column lands in the open file, whose name
// is keyed by the column's first timestamp. Callers that need one file
// per key must feed records individually through AddVariableData.
func (w *Writer) AddVariableDataAll(name string, values interface{}) error {
	if w.closed {
		return ErrClosed
	}
	v, ok := w.varIndex[name]
	if !ok {
		return fmt.Errorf("variable %s: %w", name, ErrUnknownVariable)
	}
	if !v.record {
		return fmt.Errorf("variable %s: whole-column write needs a record variable", name)
	}

	times, isTime := w.recordTimes(name, values)

	data, err := cdftype.Coerce(v.typ, values)
	if err != nil {
		return fmt.Errorf("variable %s: %w: %v", name, ErrBadValue, err)
	}
	n := cdftype.Count(data)
	per := v.elemsPerRecord()
	if n == 0 || n%per != 0 {
		return fmt.Errorf("variable %s: %w: %d elements do not divide into records of %d",
			name, ErrBadValue, n, per)
	}

	if err := w.ensureOpen(); err != nil {
		return err
	}
	if len(w.cur.records[name]) > 0 {
		return fmt.Errorf("variable %s: already has per-record data", name)
	}
	if _, ok := w.cur.all[name]; ok {
		return fmt.Errorf("variable %s: %w", name, ErrAllValuesWritten)
	}

	if isTime {
		if err := w.noteTimes(times); err != nil {
			return err
		}
	}

	w.cur.all[name] = data
	w.cur.counts[name] = n / per
	return nil
}

// CloseRecord marks the current record as complete. With
// WithSplitInterval, the boundary is evaluated here: once the open file
// spans the configured interval it is finalized and the next write
// starts a new file.
func (w *Writer) CloseRecord() error {
	if w.closed {
		return ErrClosed
	}
	if w.cur == nil || w.split != splitOnInterval || !w.cur.hasTime {
		return nil
	}
	if w.cur.lastTime.Sub(w.cur.firstTime) >= w.interval {
		w.log.Debug("split interval reached", "span", w.cur.lastTime.Sub(w.cur.firstTime))
		return w.closeCurrent()
	}
	return nil
}

// MakeNewFile finalizes any open file and immediately starts a fresh
// one, bypassing the boundary policy. It also reopens a session closed
// by Close.
func (w *Writer) MakeNewFile() error {
	if w.cur != nil {
		if err := w.closeCurrent(); err != nil {
			return err
		}
	}
	w.closed = false
	return w.ensureOpen()
}

// Close finalizes the open file, if any. The session only accepts
// further writes after MakeNewFile. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed && w.cur == nil {
		return nil
	}
	w.closed = true
	if w.cur == nil {
		return nil
	}
	return w.closeCurrent()
}

// recordTimes extracts timestamps when name is the session's time
// variable and the value carries time.Time data.
func (w *Writer) recordTimes(name string, value interface{}) ([]time.Time, bool) {
	if name != w.timeVar {
		return nil, false
	}
	switch tv := value.(type) {
	case time.Time:
		return []time.Time{tv}, true
	case []time.Time:
		if len(tv) == 0 {
			return nil, false
		}
		return tv, true
	}
	return nil, false
}

// noteTimes updates the open file's time span and, on the first
// timestamp, binds the file's final name and checks it is not taken.
func (w *Writer) noteTimes(times []time.Time) error {
	f := w.cur
	if !f.hasTime {
		f.firstTime = times[0]
		f.hasTime = true

		f.key = w.convention.Key(times[0])
		path := filepath.Join(w.outDir, fileName(w.prefix, f.key, w.version))
		if _, err := os.Stat(path); err == nil {
			w.discardCurrent()
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
	}
	f.lastTime = times[len(times)-1]
	return nil
}

// ensureOpen creates the temp file the next output file is assembled in.
func (w *Writer) ensureOpen() error {
	if w.cur != nil {
		return nil
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp := filepath.Join(w.outDir, "__tmp_"+uuid.NewString()+".cdf")
	bf, err := w.backend.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	w.log.Debug("opened file", "tmp", tmp)
	w.cur = &openFile{
		tmpPath: tmp,
		bf:      bf,
		records: make(map[string][]interface{}),
		all:     make(map[string]interface{}),
		consts:  make(map[string]interface{}),
		counts:  make(map[string]int),
	}
	return nil
}

// discardCurrent releases the open file without producing output.
func (w *Writer) discardCurrent() {
	if w.cur == nil {
		return
	}
	w.cur.bf.Close()
	os.Remove(w.cur.tmpPath)
	w.cur = nil
}

// closeCurrent finalizes the open file: checks record alignment, writes
// the buffered schema and data into the temp file, and renames it to
// its final versioned name. A file that received no data is discarded.
func (w *Writer) closeCurrent() error {
	f := w.cur

	if f.empty() {
		w.log.Debug("discarding empty file", "tmp", f.tmpPath)
		w.discardCurrent()
		return nil
	}

	// All record variables that received data must agree on the record
	// count. This is only decidable here.
	nrecs := -1
	for name, n := range f.counts {
		if nrecs == -1 {
			nrecs = n
		} else if n != nrecs {
			w.discardCurrent()
			return fmt.Errorf("%w: %s has %d records, expected %d",
				ErrRecordMisaligned, name, n, nrecs)
		}
	}

	final := filepath.Join(w.outDir, fileName(w.prefix, f.key, w.version))
	if _, err := os.Stat(final); err == nil {
		w.discardCurrent()
		return fmt.Errorf("%s: %w", final, ErrFileExists)
	}

	if err := f.bf.Write(w.buildSchema(f)); err != nil {
		w.discardCurrent()
		return fmt.Errorf("writing %s: %w", final, err)
	}
	if err := f.bf.Close(); err != nil {
		os.Remove(f.tmpPath)
		w.cur = nil
		return fmt.Errorf("closing %s: %w", final, err)
	}
	if err := os.Rename(f.tmpPath, final); err != nil {
		os.Remove(f.tmpPath)
		w.cur = nil
		return fmt.Errorf("renaming into place: %w", err)
	}

	w.log.Info("finalized file", "path", final, "records", max(nrecs, 0))
	w.lastFilename = final
	w.cur = nil
	return nil
}

// buildSchema assembles the schema for the closing file from the
// declarations, session attributes, and the file's buffered data.
func (w *Writer) buildSchema(f *openFile) *netcdf.Schema {
	s := &netcdf.Schema{RecordDim: w.timeVar}

	for _, v := range w.vars {
		nv := netcdf.Variable{
			Name:   v.name,
			Type:   v.typ,
			Dims:   v.dims,
			Record: v.record,
			Attrs:  append([]netcdf.Attr(nil), v.attrs...),
		}
		if v.name == w.timeVar && v.typ == Epoch && !v.hasAttr("units") {
			nv.Attrs = append(nv.Attrs, netcdf.Attr{Name: "units", Value: cdftype.EpochUnits})
		}
		if v.record {
			if data, ok := f.all[v.name]; ok {
				nv.Data = data
			} else if chunks := f.records[v.name]; len(chunks) > 0 {
				nv.Data = cdftype.Concat(v.typ, chunks)
			}
		} else if data, ok := f.consts[v.name]; ok {
			nv.Data = data
		}
		s.Vars = append(s.Vars, nv)
	}

	globals := append([]netcdf.Attr(nil), w.globals...)
	setGlobal := func(name, value string) {
		for i := range globals {
			if globals[i].Name == name {
				globals[i].Value = value
				return
			}
		}
		globals = append(globals, netcdf.Attr{Name: name, Value: value})
	}
	setGlobal("Generation_date", w.clock.Now().UTC().Format("20060102"))
	setGlobal("Data_version", "v"+w.version)
	setGlobal("Logical_source", w.prefix)
	if f.key != "" {
		setGlobal("Logical_file_id", w.prefix+"_"+f.key)
	}
	s.Globals = globals
	return s
}
