// Package diag is the colored diagnostic writer the driver reports
// through: results and the --llvmir dump on one stream, every
// other diagnostic (errors, verbose trace) on another, so stdout can be
// piped or diffed without diagnostic noise mixed in. Grounded on
// repl/repl.go's direct use of github.com/fatih/color
// (blueColor/yellowColor/redColor/cyanColor package-level *color.Color
// values wrapping an io.Writer at each call site); color.Color already
// checks isatty internally through mattn/go-colorable/mattn/go-isatty
// when NoColor isn't forced, so this package only needs to expose the
// same small palette, not reimplement the TTY check.
package diag

import (
	"io"

	"github.com/fatih/color"
)

var (
	resultColor  = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	verboseColor = color.New(color.FgCyan)
)

// Logger writes leveled, colored diagnostics to two sinks: Out carries
// evaluation results and the --llvmir dump, Err carries everything else.
// Verbose lines (per-item trace, IR dumps outside of --llvmir, file-load
// messages) are suppressed unless Verbose is set, matching -v/--verbose
// in cmd/numc.
type Logger struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

// New creates a Logger writing results to out and everything else to err.
func New(out, err io.Writer) *Logger {
	return &Logger{Out: out, Err: err}
}

// Result prints a top-level expression's value, the REPL's normal
// successful-evaluation line (a `9.000000`-style printf %f).
func (l *Logger) Result(format string, args ...any) {
	resultColor.Fprintf(l.Out, format+"\n", args...)
}

// Error prints a recoverable error — parse failure, lowering failure,
// unknown symbol — without aborting the driver's read-loop.
func (l *Logger) Error(format string, args ...any) {
	errorColor.Fprintf(l.Err, format+"\n", args...)
}

// Verbosef prints a line only when Verbose is set, used for the read-item
// trace, IR dumps outside of --llvmir, and file-load messages.
func (l *Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	verboseColor.Fprintf(l.Err, format+"\n", args...)
}
