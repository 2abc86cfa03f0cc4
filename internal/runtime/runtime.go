// Package runtime supplies the handful of native Go functions the
// language can call as if they were externs: putchard and printd, the
// two process symbols the JIT's symbol table resolves without any IR
// behind them. Grounded on objects/builtins.go and objects/math.go's
// name-to-callback table (a []*Builtin slice assembled once and iterated
// at registration time), trimmed to this language's single value type and
// this module's single io.Writer sink instead of a variadic GoMixObject
// argument list.
package runtime

import (
	"fmt"
	"io"
)

// Fn is a native function's signature: it writes to w and receives its
// arguments already unpacked as f64s, since that is the only value type
// this language has.
type Fn func(w io.Writer, args []float64) float64

// Builtin names one native function for registration into the JIT's
// process-symbol table.
type Builtin struct {
	Name string
	Fn   Fn
}

// Builtins lists every native symbol the driver registers at startup.
var Builtins = []*Builtin{
	{Name: "putchard", Fn: putchard},
	{Name: "printd", Fn: printd},
}

// putchard prints its argument's truncated byte value as a single
// character and returns 0.0, matching the tutorial's canonical extern for
// exercising output without a string type.
func putchard(w io.Writer, args []float64) float64 {
	if len(args) != 1 {
		return 0
	}
	fmt.Fprintf(w, "%c", byte(args[0]))
	return 0
}

// printd prints its argument followed by a newline and returns 0.0.
func printd(w io.Writer, args []float64) float64 {
	if len(args) != 1 {
		return 0
	}
	fmt.Fprintf(w, "%g\n", args[0])
	return 0
}
