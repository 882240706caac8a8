// Diagnostic tool for inspecting generated CDF files.
package main

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cdfdump <file.cdf>")
		os.Exit(1)
	}

	filename := os.Args[1]
	ff, err := os.Open(filename)
	if err != nil {
		fmt.Printf("ERROR: Failed to open file: %v\n", err)
		os.Exit(1)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		fmt.Printf("ERROR: Failed to parse file: %v\n", err)
		os.Exit(1)
	}

	fi, err := ff.Stat()
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s ===\n\n", filename)
	fmt.Printf("Records: %d\n\n", f.Header.NumRecs(fi.Size()))

	fmt.Println("Global attributes:")
	for _, a := range f.Header.Attributes("") {
		fmt.Printf("  %s = %v\n", a, f.Header.GetAttribute("", a))
	}
	fmt.Println()

	for _, v := range f.Header.Variables() {
		kind := "constant"
		if f.Header.IsRecordVariable(v) {
			kind = "record"
		}
		fmt.Printf("Variable %q (%s):\n", v, kind)
		fmt.Printf("  Dimensions: %v %v\n", f.Header.Dimensions(v), f.Header.Lengths(v))
		for _, a := range f.Header.Attributes(v) {
			fmt.Printf("  %s = %v\n", a, f.Header.GetAttribute(v, a))
		}
	}
}
