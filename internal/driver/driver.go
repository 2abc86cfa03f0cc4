// Package driver ties every other package together into the per-item
// compile/execute loop: parse one top-level item, lower it into a fresh
// module, optimize that module, then either install it into the JIT
// (definitions) or install-execute-release it (the anonymous top-level
// expression). Grounded on main/main.go's
// runFile/executeFileWithRecovery split and repl/repl.go's
// executeWithRecovery (panic recovery per item, colored result/error
// display, continue-after-error), adapted from an AST-walking evaluator's
// one-shot Eval to this module's parse-lower-optimize-install pipeline.
package driver

import (
	"fmt"
	"io"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/codegen"
	"github.com/numc-lang/numc/internal/diag"
	"github.com/numc-lang/numc/internal/ir"
	"github.com/numc-lang/numc/internal/jit"
	"github.com/numc-lang/numc/internal/lexer"
	"github.com/numc-lang/numc/internal/optimize"
	"github.com/numc-lang/numc/internal/parser"
	"github.com/numc-lang/numc/internal/runtime"
	"github.com/numc-lang/numc/internal/symtab"
)

// Driver holds the state that persists across top-level items within one
// session: the cross-module prototype registry, the operator-precedence
// table, and the JIT's process-lifetime symbol table. A fresh ir.Module
// is created per item; nothing about a module outlives the one item it
// was built for.
type Driver struct {
	Reg    *symtab.Registry
	Prec   *symtab.PrecedenceTable
	Engine *jit.Engine
	Log    *diag.Logger
	DumpIR bool

	lex *lexer.Lexer
	p   *parser.Parser
}

// New creates a Driver writing results and --llvmir dumps to out, and
// every other diagnostic (errors, verbose trace) to errOut.
func New(out, errOut io.Writer, dumpIR bool) *Driver {
	engine := jit.New(out)
	for _, b := range runtime.Builtins {
		engine.RegisterNative(b.Name, jit.NativeFunc(b.Fn))
	}
	return &Driver{
		Reg:    symtab.NewRegistry(),
		Prec:   symtab.NewPrecedenceTable(),
		Engine: engine,
		Log:    diag.New(out, errOut),
		DumpIR: dumpIR,
	}
}

// Reset points the driver at a new token source (the file-to-stdin lexer
// swap): a fresh Lexer is created and the parser is re-primed against it,
// while Reg/Prec/Engine — everything with session-wide lifetime — are
// left untouched.
func (d *Driver) Reset(r io.Reader) {
	d.lex = lexer.New(r)
	d.p = parser.New(d.lex, d.Prec)
}

// AtEOF reports whether the current token source is exhausted.
func (d *Driver) AtEOF() bool {
	return d.p.AtEOF()
}

// RunOne parses and executes exactly one top-level item, recovering from
// both parse errors and any panic raised
// while lowering or interpreting (an out-of-range interpreter bug, say)
// the same way main.go's executeFileWithRecovery recovers from evaluator
// panics. It reports whether an error occurred; the caller decides
// whether that is fatal (file mode) or just logged (REPL mode).
func (d *Driver) RunOne() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	top, perr := d.p.ParseTop()
	if perr != nil {
		d.p.SkipToken()
		return perr
	}
	d.Log.Verbosef("read %s", describeItem(top))
	return d.execute(top)
}

func describeItem(top *parser.TopLevel) string {
	switch top.Kind {
	case parser.ItemEmpty:
		return "empty item"
	case parser.ItemExternal:
		return fmt.Sprintf("extern %s", top.Ext.Name)
	case parser.ItemDefinition:
		return fmt.Sprintf("def %s", top.Def.Proto.Name)
	default:
		return "top-level expression"
	}
}

func (d *Driver) execute(top *parser.TopLevel) error {
	switch top.Kind {
	case parser.ItemEmpty:
		return nil
	case parser.ItemExternal:
		return d.executeExternal(top)
	case parser.ItemDefinition:
		return d.executeDefinition(top)
	default:
		return d.executeTopLevelExpr(top)
	}
}

func (d *Driver) executeExternal(top *parser.TopLevel) error {
	mod := ir.NewModule("extern")
	l := codegen.New(mod, d.Reg, d.Prec)
	if _, err := l.LowerExternal(top.Ext); err != nil {
		return err
	}
	d.dumpIfRequested(mod)
	return nil
}

func (d *Driver) executeDefinition(top *parser.TopLevel) error {
	mod := ir.NewModule("def")
	l := codegen.New(mod, d.Reg, d.Prec)
	if _, err := l.LowerFunction(top.Def); err != nil {
		return err
	}
	optimize.Module(mod)
	d.dumpIfRequested(mod)
	if d.DumpIR {
		return nil // --llvmir prints the IR in place of installing it
	}
	// Definitions persist in the JIT's symbol table for the rest of the
	// session; no handle is kept because nothing ever
	// releases them short of a later redefinition overwriting the name.
	d.Engine.AddModule(mod)
	return nil
}

func (d *Driver) executeTopLevelExpr(top *parser.TopLevel) error {
	mod := ir.NewModule("anon")
	l := codegen.New(mod, d.Reg, d.Prec)
	if _, err := l.LowerFunction(top.Def); err != nil {
		return err
	}
	optimize.Module(mod)
	d.dumpIfRequested(mod)
	if d.DumpIR {
		return nil // --llvmir prints the IR in place of running it
	}

	handle := d.Engine.AddModule(mod)
	// The anonymous expression's module is ephemeral: install, run once,
	// release, regardless of outcome.
	defer d.Engine.RemoveModule(handle)

	result, err := d.Engine.Call(ast.AnonExprName, nil)
	if err != nil {
		return err
	}
	d.Log.Result("%f", result)
	return nil
}

// dumpIfRequested prints mod's optimized IR to the result stream when
// --llvmir is set (the callers then skip installing and running it), or,
// failing that, to the diagnostic stream when -v is
// set — a verbose trace still gets to see the IR without it polluting
// the result stream's output.
func (d *Driver) dumpIfRequested(mod *ir.Module) {
	switch {
	case d.DumpIR:
		_ = mod.WriteTo(d.Log.Out)
	case d.Log.Verbose:
		_ = mod.WriteTo(d.Log.Err)
	}
}
