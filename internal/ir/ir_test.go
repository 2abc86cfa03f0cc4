package ir_test

import (
	"strings"
	"testing"

	"github.com/numc-lang/numc/internal/ir"
	"github.com/stretchr/testify/require"
)

func TestBuildSimpleAddFunction(t *testing.T) {
	m := ir.NewModule("m")
	fn := m.DeclareFunction("add", []string{"a", "b"})
	entry := fn.NewBlock("entry")
	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)

	sum := b.CreateFAdd(&ir.Param{Name: "a", Idx: 0}, &ir.Param{Name: "b", Idx: 1})
	b.CreateRet(sum)

	require.False(t, fn.IsDeclaration())
	require.True(t, entry.IsTerminated())

	var sb strings.Builder
	require.NoError(t, m.WriteTo(&sb))
	out := sb.String()
	require.Contains(t, out, "define @add(%a, %b)")
	require.Contains(t, out, "fadd %a, %b")
	require.Contains(t, out, "ret %1")
}

func TestDeclarationHasNoBlocks(t *testing.T) {
	m := ir.NewModule("m")
	fn := m.DeclareFunction("sin", []string{"x"})
	require.True(t, fn.IsDeclaration())

	var sb strings.Builder
	require.NoError(t, m.WriteTo(&sb))
	require.Contains(t, sb.String(), "declare @sin(%x)")
}

func TestRemoveFunctionAndBlock(t *testing.T) {
	m := ir.NewModule("m")
	fn := m.DeclareFunction("f", nil)
	blk := fn.NewBlock("entry")
	fn.RemoveBlock(blk)
	require.Empty(t, fn.Blocks)

	m.RemoveFunction("f")
	_, ok := m.GetFunction("f")
	require.False(t, ok)
}

func TestPhiIncomingBlocksAreWhateverIsCurrentAtJoin(t *testing.T) {
	// Regression: phi incoming blocks must be whichever block was current
	// when each arm finished, which may not be the block the arm started
	// lowering in.
	m := ir.NewModule("m")
	fn := m.DeclareFunction("f", nil)
	entry := fn.NewBlock("entry")
	thenBlk := fn.NewBlock("then")
	nestedBlk := fn.NewBlock("nested") // simulates nested control flow moving the cursor
	elseBlk := fn.NewBlock("else")
	merge := fn.NewBlock("merge")

	b := ir.NewBuilder(fn)
	b.SetInsertBlock(entry)
	b.CreateCondBr(&ir.ConstF64{F: 1}, thenBlk, elseBlk)

	b.SetInsertBlock(thenBlk)
	b.CreateBr(nestedBlk)
	b.SetInsertBlock(nestedBlk) // the "then" arm's value is produced here, not in thenBlk
	thenVal := &ir.ConstF64{F: 1}
	thenEndBlock := b.Cur
	b.CreateBr(merge)

	b.SetInsertBlock(elseBlk)
	elseVal := &ir.ConstF64{F: 2}
	elseEndBlock := b.Cur
	b.CreateBr(merge)

	b.SetInsertBlock(merge)
	phi := b.CreatePhi([]ir.PhiIncoming{
		{Block: thenEndBlock, Value: thenVal},
		{Block: elseEndBlock, Value: elseVal},
	})

	require.Equal(t, nestedBlk, phi.Incoming[0].Block)
	require.Equal(t, elseBlk, phi.Incoming[1].Block)
}
