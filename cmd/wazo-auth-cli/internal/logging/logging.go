// Package logging holds the pterm printers used for diagnostics. They write
// to stderr so stdout only carries command output.
package logging

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

var (
	// Debug traces what the CLI does. Silent unless SetDebug(true).
	Debug = pterm.Debug.WithWriter(os.Stderr)
	// Warning reports recoverable problems.
	Warning = pterm.Warning.WithWriter(os.Stderr)
)

// SetDebug toggles debug output.
func SetDebug(enabled bool) {
	if enabled {
		pterm.EnableDebugMessages()
		return
	}
	pterm.DisableDebugMessages()
}

// SetOutput redirects every diagnostic printer to w.
func SetOutput(w io.Writer) {
	Debug = pterm.Debug.WithWriter(w)
	Warning = pterm.Warning.WithWriter(w)
}
