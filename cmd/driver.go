// Package cmd is the top-level "driver" package for the loom tool: it contains
// all the functionality for parsing command-line arguments, replaying build
// scripts, and emitting the resulting IR.
package cmd

import (
	"fmt"
	"os"

	"loom/lower"
	"loom/report"
	"loom/script"
)

// Driver represents the overall state and configuration of one build.
type Driver struct {
	// The path to the build script being replayed.
	scriptPath string

	// The path to write output to.  Empty means stdout.
	outputPath string

	// The emit mode: the kind of output the driver should produce.  This must
	// be one of the enumerated emit modes.
	emitMode int
}

// Enumeration of emit modes.
const (
	EmitIR   = iota // Emit the built module's textual IR (default).
	EmitLLVM        // Emit the lowered LLVM IR.
)

// RunDriver is the main entry point for the loom driver.  This should be
// called directly from main.
func RunDriver() int {
	// Create a new driver from the given command-line arguments.
	d := NewDriverFromArgs()

	// Load the build script.
	s, err := script.Load(d.scriptPath)
	if err != nil {
		report.PrintErrorMessage("Script Error", err)
		return 1
	}

	// Replay the script into a module.
	m, err := script.Run(s)
	if err != nil {
		report.PrintBuildError(err)
		return 1
	}

	// Produce the requested output.
	var output string
	switch d.emitMode {
	case EmitIR:
		output = m.Repr()
	case EmitLLVM:
		output = lower.NewLowerer(m).Lower().String()
	}

	if d.outputPath == "" {
		fmt.Print(output)
		return 0
	}

	if err := os.WriteFile(d.outputPath, []byte(output), 0644); err != nil {
		report.PrintErrorMessage("Output Error", err)
		return 1
	}

	report.PrintInfoMessage("Done", fmt.Sprintf("output written to `%s`", d.outputPath))
	return 0
}
