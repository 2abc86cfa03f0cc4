// Package codegen implements the IR lowering pass: a walk over the AST
// that materialises control flow as SSA basic blocks and mutable locals
// as stack-slot allocas, grounded on go-mix's eval package —
// eval/evaluator_expressions.go's Eval(n
// parser.Node) central type-switch dispatcher and eval/eval_controls.go's
// per-construct sub-evaluators are the same shape this package reuses,
// with IR construction standing in for value production.
package codegen

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/ir"
	"github.com/numc-lang/numc/internal/symtab"
)

// Lowerer holds the per-module state the lowering pass needs: the module
// currently being emitted into, and the two cross-item tables owned by
// the driver.
type Lowerer struct {
	Module     *ir.Module
	Registry   *symtab.Registry
	Precedence *symtab.PrecedenceTable

	// per-function state, valid only while lowering one function's body
	fn      *ir.Function
	builder *ir.Builder
	env     map[string]*ir.Instr // name -> alloca slot
}

// New creates a Lowerer emitting into mod.
func New(mod *ir.Module, reg *symtab.Registry, prec *symtab.PrecedenceTable) *Lowerer {
	return &Lowerer{Module: mod, Registry: reg, Precedence: prec}
}

// resolveFunction resolves a callee across module boundaries: (a) a
// Function of that name in the current module, (b) else rematerialise a
// declaration from the registry, (c) else fail.
func (l *Lowerer) resolveFunction(name string) (*ir.Function, error) {
	if fn, ok := l.Module.GetFunction(name); ok {
		return fn, nil
	}
	proto, ok := l.Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown function referenced: %s", name)
	}
	return l.Module.DeclareFunction(proto.OperatorName(), proto.Params), nil
}

// LowerExternal lowers an extern declaration: registers the prototype and
// emits a declaration into the current module.
func (l *Lowerer) LowerExternal(proto *ast.Prototype) (*ir.Function, error) {
	l.Registry.Register(proto)
	return l.Module.DeclareFunction(proto.OperatorName(), proto.Params), nil
}

// LowerFunction lowers a full function definition: move the prototype
// into the registry so the function can call itself, obtain/create the
// Function in the current module, install any declared operator
// precedence before lowering the body, lower the body, and on failure
// roll back both the partially-built function and the precedence install.
func (l *Lowerer) LowerFunction(def *ast.Function) (*ir.Function, error) {
	proto := def.Proto
	opName := proto.OperatorName()

	if existing, ok := l.Module.GetFunction(opName); ok && !existing.IsDeclaration() {
		return nil, fmt.Errorf("function cannot be redefined: %s", proto.Name)
	}

	l.Registry.Register(proto)

	var rollbackPrecedence func()
	if proto.IsBinaryOp() {
		rollbackPrecedence = l.Precedence.Install(proto.OpChar, proto.Precedence)
	}

	fn := l.Module.DeclareFunction(opName, proto.Params)
	// DeclareFunction returns any existing declaration; give it fresh
	// blocks for this definition.
	fn.Blocks = nil

	entry := fn.NewBlock("entry")
	builder := ir.NewBuilder(fn)
	builder.SetInsertBlock(entry)

	env := make(map[string]*ir.Instr, len(proto.Params))
	for i, name := range proto.Params {
		slot := builder.CreateAlloca(name)
		builder.CreateStore(slot, &ir.Param{Name: name, Idx: i})
		env[name] = slot
	}

	l.fn = fn
	l.builder = builder
	l.env = env

	result, err := l.LowerExpr(def.Body)
	if err != nil {
		l.Module.RemoveFunction(opName)
		if rollbackPrecedence != nil {
			rollbackPrecedence()
		}
		return nil, err
	}
	if !l.builder.Cur.IsTerminated() {
		l.builder.CreateRet(result)
	}
	return fn, nil
}

// lookupSlot finds a name's stack slot in the current lexical
// environment.
func (l *Lowerer) lookupSlot(name string) (*ir.Instr, bool) {
	slot, ok := l.env[name]
	return slot, ok
}
