package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console.
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console.
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user.
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains the display functions for the error kinds a build can
// surface -- these are called by drivers to print the error to the screen.

// PrintBuildError prints a builder error with a tag matching its kind.
func PrintBuildError(err error) {
	switch e := err.(type) {
	case *StructuralError:
		PrintErrorMessage("Structural Error", e)
	case *UnresolvedReferenceError:
		PrintErrorMessage("Unresolved Reference", e)
	case *InternalInvariantError:
		PrintErrorMessage("Internal Error", e)
		fmt.Println("This error was not supposed to happen: it indicates a bug in the front end driving the builder.")
	default:
		PrintErrorMessage("Error", e)
	}
}
