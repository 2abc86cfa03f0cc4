// Package jit stands in for the generic JIT toolchain that would lower a
// generic SSA IR to an executable in-process symbol. No such toolchain —
// no LLVM binding, no native assembler — exists anywhere in the corpus
// (see DESIGN.md), so this package plays that role itself: it installs
// optimized internal/ir modules into a process-lifetime symbol table and
// executes them by interpreting the IR directly, rather than emitting and
// linking real machine code. Its public shape
// (AddModule/LookupSymbol/RemoveModule) mirrors the resource-handle
// lifecycle a real toolchain would expose, so internal/driver's calling
// convention doesn't need to know the difference.
package jit

import (
	"errors"
	"fmt"
	"io"

	"github.com/numc-lang/numc/internal/ir"
)

// Error marks a failure raised by the engine itself — an unresolved
// symbol, a malformed block reached during interpretation, anything
// other than the program's own parse/lowering errors — so a caller can
// tell a JIT-class failure (fatal: abort the process) apart from an
// ordinary recoverable one with a single errors.As check.
type Error struct{ Err error }

func (e *Error) Error() string { return fmt.Sprintf("jit: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func asError(err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Err: err}
}

// NativeFunc is a process symbol that isn't backed by IR at all — a Go
// function registered directly, the way internal/runtime's putchard and
// printd are resolved.
type NativeFunc func(w io.Writer, args []float64) float64

// Handle is the resource token AddModule returns; RemoveModule releases
// every symbol it installed. The anonymous top-level expression's module
// must be released immediately after its one execution, which is exactly
// what the driver does with the handle this returns.
type Handle struct {
	names []string
}

// Engine is the JIT's process-lifetime state: the symbol table mapping
// names to either an IR function or a native Go function, shared across
// every module AddModule installs — function definitions persist in the
// JIT's symbol table across top-level items.
type Engine struct {
	out     io.Writer
	fns     map[string]*ir.Function
	natives map[string]NativeFunc
}

// New creates an Engine that writes native-symbol output (putchard,
// printd) to out.
func New(out io.Writer) *Engine {
	return &Engine{
		out:     out,
		fns:     make(map[string]*ir.Function),
		natives: make(map[string]NativeFunc),
	}
}

// RegisterNative installs a native process symbol, used once at driver
// startup to wire up internal/runtime's builtins.
func (e *Engine) RegisterNative(name string, fn NativeFunc) {
	e.natives[name] = fn
}

// AddModule installs every function *definition* (a function with a
// body; declarations contribute nothing callable) from mod into the
// engine's symbol table, overwriting any previous definition of the same
// name — the redefinition behavior a later top-level item triggers when
// it redefines an earlier function. It returns a Handle that RemoveModule
// can later use to tear the installation back down.
func (e *Engine) AddModule(mod *ir.Module) *Handle {
	h := &Handle{}
	for _, fn := range mod.Functions() {
		if fn.IsDeclaration() {
			continue
		}
		e.fns[fn.Name] = fn
		h.names = append(h.names, fn.Name)
	}
	return h
}

// RemoveModule deletes every symbol h installed. Safe to call once per
// handle; a nil or already-removed handle is a no-op.
func (e *Engine) RemoveModule(h *Handle) {
	if h == nil {
		return
	}
	for _, name := range h.names {
		delete(e.fns, name)
	}
	h.names = nil
}

// LookupSymbol reports whether name currently resolves to an installed IR
// function definition.
func (e *Engine) LookupSymbol(name string) (*ir.Function, bool) {
	fn, ok := e.fns[name]
	return fn, ok
}

// Call executes the named symbol (IR function or native) with args and
// returns its f64 result, recursing through Call instructions in the
// interpreted IR the same way a real compiled call would.
func (e *Engine) Call(name string, args []float64) (float64, error) {
	if fn, ok := e.fns[name]; ok {
		result, err := e.execFunction(fn, args)
		if err != nil {
			return 0, asError(err)
		}
		return result, nil
	}
	if native, ok := e.natives[name]; ok {
		return native(e.out, args), nil
	}
	return 0, &Error{Err: fmt.Errorf("unresolved symbol %q", name)}
}
