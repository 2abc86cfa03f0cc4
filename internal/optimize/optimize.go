// Package optimize runs a fixed optimization pipeline: the lowerer
// always spills locals to stack slots and never tries to keep values in
// registers itself, pushing that entire concern onto this package so the
// lowerer's control-flow construction stays simple. Three passes run, in
// order, grounded on the tutorial's own fixed LLVM pass list
// (original_source/codegen.cpp's FunctionPassManager setup): register
// promotion (mem2reg), constant folding, and unreachable-block
// elimination. Constant folding and dead-block elimination are iterated to
// a local fixpoint, since folding a block's branch condition to a literal
// can make a further block unreachable.
package optimize

import "github.com/numc-lang/numc/internal/ir"

// maxFixpointRounds bounds the constant-fold/dead-block iteration so a
// pathological input can't loop forever; any real function in this
// language converges in one or two rounds.
const maxFixpointRounds = 16

// Function runs the full pipeline over a single function definition.
// Declarations (externs, forward references) have no blocks and are left
// untouched.
func Function(fn *ir.Function) {
	if fn.IsDeclaration() {
		return
	}
	promoteAllocas(fn)
	for i := 0; i < maxFixpointRounds; i++ {
		changed := foldConstants(fn)
		changed = eliminateDeadBlocks(fn) || changed
		if !changed {
			break
		}
	}
}

// Module runs the pipeline over every function definition in mod, in
// insertion order: each top-level item's lowering output is optimized
// before being handed to the JIT driver.
func Module(mod *ir.Module) {
	for _, fn := range mod.Functions() {
		Function(fn)
	}
}
