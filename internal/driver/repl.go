package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/numc-lang/numc/internal/jit"
)

// RunREPL drives the interactive read-eval-print loop. Grounded on
// repl/repl.go's Start: a chzyer/readline instance for line editing and
// history, one line read per iteration, panic-recovery-wrapped execution
// that never aborts the loop on an ordinary error.
//
// Unlike a strictly one-statement-per-line REPL, a single line here may
// hold several ';'-separated top-level items: `4+5; extern sin(x);` on
// one line runs both. Each item still gets its own error recovery, so a
// mistake in the second item doesn't erase the first's result. Only a
// JIT-class error — module install, symbol lookup, or a failure inside
// the JIT's own execution — is fatal and ends the session.
//
// The line editor writes its prompt and echo to the diagnostic stream, so
// the result stream carries only evaluation results.
func (d *Driver) RunREPL(prompt string) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt, Stdout: d.Log.Err})
	if err != nil {
		err = fmt.Errorf("repl: could not start line editor: %w", err)
		d.Log.Error("%v", err)
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl-D) or readline.ErrInterrupt (Ctrl-C)
			fmt.Fprintln(d.Log.Err, "Good Bye!")
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		d.Reset(strings.NewReader(line))
		for !d.AtEOF() {
			if err := d.RunOne(); err != nil {
				d.Log.Error("%v", err)
				var jitErr *jit.Error
				if errors.As(err, &jitErr) {
					return err
				}
			}
		}
	}
}
