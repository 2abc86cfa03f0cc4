package driver

import (
	"errors"
	"os"
	"strings"

	"github.com/numc-lang/numc/internal/jit"
)

// RunFile reads and executes an entire source file, matching
// main.go's runFile/executeFileWithRecovery. Parse and lowering errors
// are recoverable — logged and skipped, exactly like the REPL — since
// the driver applies the same recoverable-error policy regardless of
// which input source it's reading. Only a JIT-class error (module
// install, symbol lookup, or a failure inside the JIT's own execution)
// is fatal and aborts the rest of the file.
func (d *Driver) RunFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		d.Log.Error("[FILE ERROR] could not read file %q: %v", path, err)
		return err
	}
	d.Log.Verbosef("loading file %q", path)
	d.Reset(strings.NewReader(string(content)))
	for !d.AtEOF() {
		if err := d.RunOne(); err != nil {
			d.Log.Error("%v", err)
			var jitErr *jit.Error
			if errors.As(err, &jitErr) {
				return err
			}
		}
	}
	d.Log.Verbosef("finished file %q", path)
	return nil
}
