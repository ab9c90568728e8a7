package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const usage = `Usage: loom [flags|options] <path to build script>

Flags:
------
-h, --help      Displays usage information (ie. this text).
-v, --version   Displays the current loom version.

Options:
--------
-o, --outpath   Sets the path of the output file.  Output is printed to stdout
                if unspecified.
-e, --emit      Sets the kind of output the driver emits.  Valid values are:
                  - "ir" for the built module's textual IR (default)
                  - "llvm" for the lowered LLVM IR
`

// LoomVersion is the current version of loom.
const LoomVersion = "loom v0.2.0"

// Prints the usage message and exits the driver with the given exit code.
func printUsage(exitCode int) {
	fmt.Print(usage, "\n")
	os.Exit(exitCode)
}

// argParser is a command-line argument parser.
type argParser struct {
	// The arguments being parsed.
	args []string

	// The argument parser's position within those arguments.
	ndx int
}

// Set containing all the argument names that correspond to options.
var options = map[string]struct{}{
	"o":        {},
	"e":        {},
	"-outpath": {},
	"-emit":    {},
}

// argumentError displays an argument error and exits the program.
func argumentError(message string, args ...interface{}) {
	fmt.Print("argument error: ", fmt.Sprintf(message, args...), "\n\n")
	printUsage(1)
}

// nextArg parses the next command-line argument if one exists.  The first value
// is the name of the argument.  If this argument is positional, this value is
// empty.  The second value is the value of the argument.  If this value is
// empty, the argument is a flag.  If an argument exists, at least one of the
// returned values will be non-empty.  The final value indicates whether or not
// there was an argument to parse.
func (ap *argParser) nextArg() (string, string, bool) {
	if ap.ndx < len(ap.args) {
		arg := ap.args[ap.ndx]
		ap.ndx++

		if strings.HasPrefix(arg, "-") { // flag or option
			name := arg[1:]

			if _, ok := options[name]; ok { // option
				// Make sure the option value exists.
				if ap.ndx < len(ap.args) && !strings.HasPrefix(ap.args[ap.ndx], "-") {
					value := ap.args[ap.ndx]
					ap.ndx++
					return name, value, true
				} else {
					argumentError("option %s requires an argument", strings.TrimLeft(name, "-"))
				}
			} else { // flag
				return name, "", true
			}

		} else { // positional
			return "", arg, true
		}
	}

	// No arguments to parse.
	return "", "", false
}

// useArg attempts to use a single command-line argument to initialize the
// driver.  If the argument is invalid, the program will exit.
func useArg(d *Driver, name, value string) {
	switch name {
	case "h", "-help":
		printUsage(0)
	case "v", "-version":
		fmt.Println(LoomVersion)
		os.Exit(0)
	case "o", "-outpath":
		{
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid output path: %s", value)
			}

			d.outputPath = absPath
		}
	case "e", "-emit":
		switch value {
		case "ir":
			d.emitMode = EmitIR
		case "llvm":
			d.emitMode = EmitLLVM
		default:
			argumentError("invalid emit mode")
		}
	case "":
		if d.scriptPath == "" {
			absPath, err := filepath.Abs(value)
			if err != nil {
				argumentError("invalid script path: %s", value)
			}

			d.scriptPath = absPath
		} else {
			argumentError("script path specified multiple times")
		}
	default:
		argumentError("unknown flag: %s", name)
	}
}

// NewDriverFromArgs creates a new driver instance based on the given command
// line arguments if the arguments are valid and the build should continue: ie.
// if the user requests the loom version, then the build should not continue.
func NewDriverFromArgs() *Driver {
	d := &Driver{emitMode: EmitIR}

	ap := argParser{args: os.Args[1:], ndx: 0}

	// Parse all command line arguments.
	for {
		if name, value, ok := ap.nextArg(); ok {
			useArg(d, name, value)
		} else {
			break
		}
	}

	// Check to make sure a script path was specified.
	if d.scriptPath == "" {
		argumentError("a script path must be specified")
	}

	return d
}
