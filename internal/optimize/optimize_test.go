package optimize_test

import (
	"testing"

	"github.com/numc-lang/numc/internal/ir"
	"github.com/numc-lang/numc/internal/optimize"
	"github.com/stretchr/testify/require"
)

func newFn(name string, params ...string) *ir.Function {
	mod := ir.NewModule("m")
	return mod.DeclareFunction(name, params)
}

func countOps(fn *ir.Function, op ir.Op) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == op {
				n++
			}
		}
	}
	return n
}

func TestPromoteSimpleParamSlot(t *testing.T) {
	fn := newFn("f", "x")
	entry := fn.NewBlock("entry")
	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)

	slot := b.CreateAlloca("x")
	b.CreateStore(slot, &ir.Param{Name: "x", Idx: 0})
	loaded := b.CreateLoad(slot)
	sum := b.CreateFAdd(loaded, &ir.ConstF64{F: 1})
	b.CreateRet(sum)

	optimize.Function(fn)

	require.Zero(t, countOps(fn, ir.OpAlloca))
	require.Zero(t, countOps(fn, ir.OpLoad))
	require.Zero(t, countOps(fn, ir.OpStore))

	ret := entry.Terminator()
	require.Equal(t, ir.OpRet, ret.Op)
	sumInstr, ok := ret.Operands[0].(*ir.Instr)
	require.True(t, ok)
	require.Equal(t, ir.OpFAdd, sumInstr.Op)
	param, ok := sumInstr.Operands[0].(*ir.Param)
	require.True(t, ok)
	require.Equal(t, "x", param.Name)
}

func TestConstantFoldingCollapsesArithmeticChain(t *testing.T) {
	fn := newFn("f")
	entry := fn.NewBlock("entry")
	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)

	sum := b.CreateFAdd(&ir.ConstF64{F: 2}, &ir.ConstF64{F: 3})
	prod := b.CreateFMul(sum, &ir.ConstF64{F: 4})
	b.CreateRet(prod)

	optimize.Function(fn)

	ret := entry.Terminator()
	c, ok := ret.Operands[0].(*ir.ConstF64)
	require.True(t, ok, "fully-constant chain should fold to a literal")
	require.Equal(t, float64(20), c.F)
}

func TestConstantBranchFoldingDeletesDeadArm(t *testing.T) {
	fn := newFn("f")
	entry := fn.NewBlock("entry")
	thenBlk := fn.NewBlock("then")
	elseBlk := fn.NewBlock("else")

	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)
	cmp := b.CreateFCmpONE(&ir.ConstF64{F: 1}, &ir.ConstF64{F: 0})
	b.CreateCondBr(cmp, thenBlk, elseBlk)

	b.SetInsertBlock(thenBlk)
	b.CreateRet(&ir.ConstF64{F: 1})

	b.SetInsertBlock(elseBlk)
	b.CreateRet(&ir.ConstF64{F: 2})

	optimize.Function(fn)

	require.Len(t, fn.Blocks, 2, "the else block is unreachable once the branch folds")
	term := fn.Blocks[0].Terminator()
	require.Equal(t, ir.OpBr, term.Op)
	require.Equal(t, thenBlk, term.Target)
}

func TestPromotionAcrossDiamondInsertsPhi(t *testing.T) {
	fn := newFn("f", "cond")
	entry := fn.NewBlock("entry")
	thenBlk := fn.NewBlock("then")
	elseBlk := fn.NewBlock("else")
	mergeBlk := fn.NewBlock("merge")

	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)
	slot := b.CreateAlloca("x")
	b.CreateStore(slot, &ir.ConstF64{F: 0})
	cmp := b.CreateFCmpONE(&ir.Param{Name: "cond", Idx: 0}, &ir.ConstF64{F: 0})
	b.CreateCondBr(cmp, thenBlk, elseBlk)

	b.SetInsertBlock(thenBlk)
	b.CreateStore(slot, &ir.ConstF64{F: 1})
	b.CreateBr(mergeBlk)

	b.SetInsertBlock(elseBlk)
	b.CreateStore(slot, &ir.ConstF64{F: 2})
	b.CreateBr(mergeBlk)

	b.SetInsertBlock(mergeBlk)
	loaded := b.CreateLoad(slot)
	b.CreateRet(loaded)

	optimize.Function(fn)

	require.Zero(t, countOps(fn, ir.OpLoad))
	require.Zero(t, countOps(fn, ir.OpStore))
	require.Zero(t, countOps(fn, ir.OpAlloca))

	ret := mergeBlk.Terminator()
	phi, ok := ret.Operands[0].(*ir.Instr)
	require.True(t, ok)
	require.Equal(t, ir.OpPhi, phi.Op)
	require.Len(t, phi.Incoming, 2)
}

func TestDeclarationsAreUntouched(t *testing.T) {
	fn := newFn("extern_fn", "x")
	optimize.Function(fn) // must not panic on a function with no blocks
	require.True(t, fn.IsDeclaration())
}
