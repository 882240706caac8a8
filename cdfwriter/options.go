package cdfwriter

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/robert-malhotra/go-cdfwriter/internal/netcdf"
)

type splitMode int

const (
	splitNever splitMode = iota
	splitOnKeyChange
	splitOnInterval
)

// Option configures a session.
type Option func(*Writer)

// WithOutputDir sets the directory generated files are placed in. It is
// created on first file creation if it does not exist. Default "." .
func WithOutputDir(dir string) Option {
	return func(w *Writer) {
		w.outDir = dir
	}
}

// WithVersion sets the file version string, which must be three dotted
// integers (e.g. "1.0.0"). Default "0.0.0". Validated by New.
func WithVersion(version string) Option {
	return func(w *Writer) {
		w.version = version
	}
}

// WithNamingConvention sets the strftime-style template for the
// timestamp embedded in filenames. Default DefaultConvention.
// Validated by New.
func WithNamingConvention(tmpl string) Option {
	return func(w *Writer) {
		w.conventionTmpl = tmpl
	}
}

// WithAutoSplit starts a new file whenever a record's timestamp formats
// to a different filename key than the open file's. The naming
// convention therefore defines the split granularity. Without this
// option (or WithSplitInterval) a session produces a single file.
func WithAutoSplit() Option {
	return func(w *Writer) {
		w.split = splitOnKeyChange
	}
}

// WithSplitInterval starts a new file once the time span covered by the
// open file reaches d. The boundary is evaluated at record close.
func WithSplitInterval(d time.Duration) Option {
	return func(w *Writer) {
		w.split = splitOnInterval
		w.interval = d
	}
}

// WithTimeVariable sets the name of the variable whose values are the
// record timestamps. Default "Epoch".
func WithTimeVariable(name string) Option {
	return func(w *Writer) {
		w.timeVar = name
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(log *slog.Logger) Option {
	return func(w *Writer) {
		w.log = log
	}
}

// WithClock sets the clock used for the Generation_date stamp.
func WithClock(clock clockwork.Clock) Option {
	return func(w *Writer) {
		w.clock = clock
	}
}

// WithBackend replaces the file encoding backend. Intended for tests.
func WithBackend(b netcdf.Backend) Option {
	return func(w *Writer) {
		w.backend = b
	}
}
