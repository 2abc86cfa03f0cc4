package ir

// The methods in this file exist for internal/optimize: mem2reg needs to
// fabricate phi nodes at block entries after the fact (not while a
// Builder's cursor sits there) and to rewire every consumer of a value it
// is eliminating, and the constant-folding and dead-block passes need to
// delete instructions and blocks outright. None of this is needed by the
// lowerer, which appends at a single cursor (allocas aside: the Builder
// itself places those at the top of the entry block).

// NewDetachedPhi allocates a phi instruction not yet attached to any
// block; the caller fills in Incoming and attaches it with
// (*BasicBlock).Prepend.
func (f *Function) NewDetachedPhi() *Instr {
	return &Instr{ID: f.nextID(), Op: OpPhi}
}

// Prepend inserts i as the first instruction of b (ahead of any
// instruction already there), used to place a phi mem2reg discovers it
// needs after the block's other instructions already exist.
func (b *BasicBlock) Prepend(i *Instr) {
	i.Block = b
	b.Instrs = append([]*Instr{i}, b.Instrs...)
}

// RemoveInstr deletes i from b's instruction list. It is the caller's
// responsibility to have already redirected every use of i (see
// ReplaceAllUses) before calling this.
func (b *BasicBlock) RemoveInstr(i *Instr) {
	for idx, instr := range b.Instrs {
		if instr == i {
			b.Instrs = append(b.Instrs[:idx], b.Instrs[idx+1:]...)
			return
		}
	}
}

// ReplaceAllUses rewrites every operand, phi incoming value, and call/ret
// argument across fn that refers to old (by pointer identity) to refer to
// replacement instead. It does not touch old itself, so old can still be
// removed from its block afterward.
func (f *Function) ReplaceAllUses(old, replacement Value) {
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			for i, operand := range instr.Operands {
				if operand == old {
					instr.Operands[i] = replacement
				}
			}
			for i, in := range instr.Incoming {
				if in.Value == old {
					instr.Incoming[i].Value = replacement
				}
			}
		}
	}
}
