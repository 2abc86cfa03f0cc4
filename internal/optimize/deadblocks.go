package optimize

import "github.com/numc-lang/numc/internal/ir"

// eliminateDeadBlocks runs the dead-block-elimination pass. It first
// folds any conditional branch whose condition constant-folded to a
// literal bool into an unconditional branch (this is what lets a constant
// `if` condition — typically arising after mem2reg turns a var-bound
// literal into a direct constant — actually delete one of its arms rather
// than merely simplify its condition), then removes every block no longer
// reachable from the entry block, pruning dangling phi incoming entries
// that pointed at a removed predecessor.
func eliminateDeadBlocks(fn *ir.Function) bool {
	if fn.IsDeclaration() {
		return false
	}
	changed := foldConstantBranches(fn)
	changed = pruneUnreachableBlocks(fn) || changed
	return changed
}

func foldConstantBranches(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil || term.Op != ir.OpCondBr {
			continue
		}
		cond, ok := term.Operands[0].(*ir.ConstBool)
		if !ok {
			continue
		}
		target := term.Else
		if cond.B {
			target = term.Then
		}
		term.Op = ir.OpBr
		term.Target = target
		term.Then = nil
		term.Else = nil
		term.Operands = nil
		changed = true
	}
	return changed
}

func pruneUnreachableBlocks(fn *ir.Function) bool {
	entry := fn.EntryBlock()
	if entry == nil {
		return false
	}
	reachable := map[*ir.BasicBlock]bool{entry: true}
	worklist := []*ir.BasicBlock{entry}
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		term := b.Terminator()
		if term == nil {
			continue
		}
		var succs []*ir.BasicBlock
		switch term.Op {
		case ir.OpBr:
			succs = []*ir.BasicBlock{term.Target}
		case ir.OpCondBr:
			succs = []*ir.BasicBlock{term.Then, term.Else}
		}
		for _, s := range succs {
			if !reachable[s] {
				reachable[s] = true
				worklist = append(worklist, s)
			}
		}
	}

	changed := false
	kept := fn.Blocks[:0:0]
	for _, b := range fn.Blocks {
		if reachable[b] {
			kept = append(kept, b)
			continue
		}
		changed = true
	}
	fn.Blocks = kept

	if changed {
		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				if instr.Op != ir.OpPhi {
					continue
				}
				live := instr.Incoming[:0:0]
				for _, in := range instr.Incoming {
					if reachable[in.Block] {
						live = append(live, in)
					}
				}
				instr.Incoming = live
			}
		}
	}
	return changed
}
