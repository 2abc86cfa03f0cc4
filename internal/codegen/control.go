package codegen

import (
	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/ir"
)

// lowerIf lowers an if/then/else expression into a diamond of blocks
// joined by a phi. The phi's incoming blocks are whichever blocks were
// current at the end of lowering each arm — nested
// control flow inside an arm may have moved the insertion point forward,
// so thenEnd/elseEnd are read back from the builder after lowering each
// arm, never assumed to equal thenBlk/elseBlk themselves.
func (l *Lowerer) lowerIf(n *ast.If) (ir.Value, error) {
	condVal, err := l.LowerExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	cmp := l.builder.CreateFCmpONE(condVal, &ir.ConstF64{F: 0})

	thenBlk := l.fn.NewBlock("then")
	elseBlk := l.fn.NewBlock("else")
	mergeBlk := l.fn.NewBlock("ifcont")
	l.builder.CreateCondBr(cmp, thenBlk, elseBlk)

	l.builder.SetInsertBlock(thenBlk)
	thenVal, err := l.LowerExpr(n.Then)
	if err != nil {
		return nil, err
	}
	thenEnd := l.builder.Cur
	if !thenEnd.IsTerminated() {
		l.builder.CreateBr(mergeBlk)
	}

	l.builder.SetInsertBlock(elseBlk)
	elseVal, err := l.LowerExpr(n.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := l.builder.Cur
	if !elseEnd.IsTerminated() {
		l.builder.CreateBr(mergeBlk)
	}

	l.builder.SetInsertBlock(mergeBlk)
	phi := l.builder.CreatePhi([]ir.PhiIncoming{
		{Block: thenEnd, Value: thenVal},
		{Block: elseEnd, Value: elseVal},
	})
	return phi, nil
}

// lowerFor lowers a for loop, following the classic instruction order:
// body, then step, then end-condition (evaluated against the
// pre-increment induction value), then increment, then the conditional
// branch back to loop or forward to afterloop.
func (l *Lowerer) lowerFor(n *ast.For) (ir.Value, error) {
	slot := l.builder.CreateAlloca(n.Var)
	startVal, err := l.LowerExpr(n.Start)
	if err != nil {
		return nil, err
	}
	l.builder.CreateStore(slot, startVal)

	loopBlk := l.fn.NewBlock("loop")
	afterBlk := l.fn.NewBlock("afterloop")
	l.builder.CreateBr(loopBlk)
	l.builder.SetInsertBlock(loopBlk)

	prevSlot, hadPrev := l.env[n.Var]
	l.env[n.Var] = slot
	restore := func() {
		if hadPrev {
			l.env[n.Var] = prevSlot
		} else {
			delete(l.env, n.Var)
		}
	}

	if _, err := l.LowerExpr(n.Body); err != nil { // value discarded
		restore()
		return nil, err
	}

	var stepVal ir.Value
	if n.Step != nil {
		stepVal, err = l.LowerExpr(n.Step)
	} else {
		stepVal = &ir.ConstF64{F: 1.0}
	}
	if err != nil {
		restore()
		return nil, err
	}

	endVal, err := l.LowerExpr(n.End)
	if err != nil {
		restore()
		return nil, err
	}

	curVal := l.builder.CreateLoad(slot)
	nextVal := l.builder.CreateFAdd(curVal, stepVal)
	l.builder.CreateStore(slot, nextVal)

	endCond := l.builder.CreateFCmpONE(endVal, &ir.ConstF64{F: 0})
	l.builder.CreateCondBr(endCond, loopBlk, afterBlk)

	restore()
	l.builder.SetInsertBlock(afterBlk)
	return &ir.ConstF64{F: 0.0}, nil
}
