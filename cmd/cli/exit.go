package main

import (
	"fmt"
	"io"

	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

// Process exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
	// exitNotBypassed reports a challenge submission that did not bypass
	// its level, so scripts can tell it apart from a usage error.
	exitNotBypassed = 3
)

// printError prints a formatted error line with the ERROR marker.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ui.ErrorStyle.Render(ui.ErrorMarker)+" "+fmt.Sprintf(format, args...))
}

// usageError prints an error message followed by a usage hint and returns
// exitUsage.
func usageError(w io.Writer, msg, usage string) int {
	printError(w, "%s", msg)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:", usage)
	return exitUsage
}
