// cdfgen converts a CSV of time-indexed columns into CDF files.
//
// The first CSV column holds RFC 3339 timestamps and becomes the time
// variable; every other column becomes a float64 record variable named
// after its header.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-cdfwriter/cdfwriter"
)

var (
	prefix        string
	outDir        string
	version       string
	convention    string
	autoSplit     bool
	splitInterval time.Duration
	verbose       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cdfgen <data.csv>",
	Short: "Convert a CSV of time-series data into CDF files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&prefix, "prefix", "p", "", "filename prefix (required)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	rootCmd.Flags().StringVar(&version, "version", "0.0.0", "file version (n.n.n)")
	rootCmd.Flags().StringVar(&convention, "convention", cdfwriter.DefaultConvention,
		"filename timestamp template")
	rootCmd.Flags().BoolVar(&autoSplit, "autosplit", false,
		"start a new file when the filename timestamp rolls over")
	rootCmd.Flags().DurationVar(&splitInterval, "split-interval", 0,
		"start a new file once this much time is covered")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.MarkFlagRequired("prefix")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

func run(path string) error {
	log := newLogger()

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	r := csv.NewReader(in)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) < 2 {
		return fmt.Errorf("CSV needs a time column and at least one data column")
	}

	opts := []cdfwriter.Option{
		cdfwriter.WithOutputDir(outDir),
		cdfwriter.WithVersion(version),
		cdfwriter.WithNamingConvention(convention),
		cdfwriter.WithTimeVariable(header[0]),
		cdfwriter.WithLogger(log),
	}
	if splitInterval > 0 {
		opts = append(opts, cdfwriter.WithSplitInterval(splitInterval))
	} else if autoSplit {
		opts = append(opts, cdfwriter.WithAutoSplit())
	}

	w, err := cdfwriter.New(prefix, opts...)
	if err != nil {
		return err
	}

	if err := w.AddVariable(header[0], cdfwriter.Epoch); err != nil {
		return err
	}
	for _, name := range header[1:] {
		if err := w.AddVariable(name, cdfwriter.Float64); err != nil {
			return err
		}
		err := w.AddPlotAttributes(name, cdfwriter.PlotAttrs{
			ShortDescription: name,
			DisplayType:      "time_series",
		})
		if err != nil {
			return err
		}
	}

	rows := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		t, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return fmt.Errorf("row %d: bad timestamp %q: %w", rows+2, row[0], err)
		}
		if err := w.AddVariableData(header[0], t); err != nil {
			return err
		}
		for i, name := range header[1:] {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", rows+2, name, err)
			}
			if err := w.AddVariableData(name, v); err != nil {
				return err
			}
		}
		if err := w.CloseRecord(); err != nil {
			return err
		}
		rows++
	}

	if err := w.Close(); err != nil {
		return err
	}
	log.Info("done", "rows", rows, "last", w.LastFilename())
	return nil
}
