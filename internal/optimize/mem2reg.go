package optimize

import "github.com/numc-lang/numc/internal/ir"

// promoteAllocas runs the mem2reg pass: the lowerer deliberately
// puts every local (parameters, var-bindings, the for-loop induction
// variable) on a stack slot and never builds a phi for a plain variable
// itself (only lowerIf does, for the if-expression's own value); this pass
// is what turns those slots back into real SSA values with phis inserted
// at the blocks where control flow actually merges.
//
// An alloca is promotable when every one of its uses is the address
// operand of a Load or the destination operand of a Store — i.e. its
// address is never itself passed around as a value (never a Call
// argument, never a Phi incoming, never stored into another slot). Every
// alloca the lowerer emits satisfies this, since this language has no
// pointers, but the check is kept general rather than hard-coded to the
// lowerer's current behavior.
func promoteAllocas(fn *ir.Function) bool {
	if fn.IsDeclaration() {
		return false
	}
	promotable := findPromotableAllocas(fn)
	if len(promotable) == 0 {
		return false
	}

	preds := computePredecessors(fn)
	p := &promoter{fn: fn, preds: preds, slots: promotable}
	p.run()
	return true
}

func findPromotableAllocas(fn *ir.Function) map[*ir.Instr]bool {
	entry := fn.EntryBlock()
	candidates := make(map[*ir.Instr]bool)
	for _, instr := range entry.Instrs {
		if instr.Op == ir.OpAlloca {
			candidates[instr] = true
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	disqualify := func(v ir.Value) {
		if instr, ok := v.(*ir.Instr); ok {
			delete(candidates, instr)
		}
	}
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch instr.Op {
			case ir.OpLoad:
				// Operands[0] is an address use in the position mem2reg
				// understands; nothing else about a Load disqualifies its slot.
			case ir.OpStore:
				// Operands[0] (the destination) is fine; Operands[1] (the
				// stored value) escaping as a slot would mean the slot's
				// address was itself stored somewhere, which disqualifies it.
				disqualify(instr.Operands[1])
			default:
				for _, operand := range instr.Operands {
					disqualify(operand)
				}
				for _, in := range instr.Incoming {
					disqualify(in.Value)
				}
			}
		}
	}
	return candidates
}

func computePredecessors(fn *ir.Function) map[*ir.BasicBlock][]*ir.BasicBlock {
	preds := make(map[*ir.BasicBlock][]*ir.BasicBlock, len(fn.Blocks))
	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		switch term.Op {
		case ir.OpBr:
			preds[term.Target] = append(preds[term.Target], b)
		case ir.OpCondBr:
			preds[term.Then] = append(preds[term.Then], b)
			preds[term.Else] = append(preds[term.Else], b)
		}
	}
	return preds
}

// promoter carries the per-function state of one mem2reg run: the set of
// slots being promoted and the memoized entry/exit SSA value of each slot
// at each block, computed on demand and cached to break the cycles loop
// back-edges would otherwise cause.
type promoter struct {
	fn    *ir.Function
	preds map[*ir.BasicBlock][]*ir.BasicBlock
	slots map[*ir.Instr]bool

	entryVal map[*ir.BasicBlock]map[*ir.Instr]ir.Value
	exitVal  map[*ir.BasicBlock]map[*ir.Instr]ir.Value
}

func (p *promoter) run() {
	p.entryVal = make(map[*ir.BasicBlock]map[*ir.Instr]ir.Value)
	p.exitVal = make(map[*ir.BasicBlock]map[*ir.Instr]ir.Value)

	// Force evaluation of every block's exit value for every slot so the
	// whole function's phi network exists before any rewriting happens.
	for _, b := range p.fn.Blocks {
		for slot := range p.slots {
			p.blockExitValue(b, slot)
		}
	}

	// Loads already dropped, mapped to the value that replaced them: a
	// memoized entry value or a stored operand may still name one.
	repl := make(map[*ir.Instr]ir.Value)
	resolve := func(v ir.Value) ir.Value {
		for {
			instr, ok := v.(*ir.Instr)
			if !ok || repl[instr] == nil {
				return v
			}
			v = repl[instr]
		}
	}

	for _, b := range p.fn.Blocks {
		cur := make(map[*ir.Instr]ir.Value, len(p.slots))
		for slot := range p.slots {
			cur[slot] = resolve(p.blockEntryValue(b, slot))
		}
		kept := b.Instrs[:0:0]
		for _, instr := range b.Instrs {
			switch {
			case instr.Op == ir.OpLoad:
				if slot, ok := instr.Operands[0].(*ir.Instr); ok && p.slots[slot] {
					v := resolve(cur[slot])
					p.fn.ReplaceAllUses(instr, v)
					repl[instr] = v
					continue // drop the load
				}
			case instr.Op == ir.OpStore:
				if slot, ok := instr.Operands[0].(*ir.Instr); ok && p.slots[slot] {
					cur[slot] = resolve(instr.Operands[1])
					continue // drop the store
				}
			case instr.Op == ir.OpAlloca:
				if p.slots[instr] {
					continue // drop the alloca itself
				}
			}
			kept = append(kept, instr)
		}
		b.Instrs = kept
	}
}

func (p *promoter) blockEntryValue(b *ir.BasicBlock, slot *ir.Instr) ir.Value {
	if m, ok := p.entryVal[b]; ok {
		if v, ok := m[slot]; ok {
			return v
		}
	} else {
		p.entryVal[b] = make(map[*ir.Instr]ir.Value)
	}

	preds := p.preds[b]
	switch len(preds) {
	case 0:
		// Entry block (or an unreachable block dead-block-elim will remove
		// later): an undefined read, which cannot occur for any slot the
		// lowerer emits, since every promotable alloca is stored to before
		// any possible load. Default to 0.0 rather than panicking.
		v := ir.Value(&ir.ConstF64{F: 0})
		p.entryVal[b][slot] = v
		return v
	case 1:
		v := p.blockExitValue(preds[0], slot)
		p.entryVal[b][slot] = v
		return v
	default:
		phi := p.fn.NewDetachedPhi()
		p.entryVal[b][slot] = phi // memoize before recursing: breaks back-edge cycles
		incoming := make([]ir.PhiIncoming, 0, len(preds))
		for _, pred := range preds {
			incoming = append(incoming, ir.PhiIncoming{Block: pred, Value: p.blockExitValue(pred, slot)})
		}
		if same, ok := trivialPhiValue(phi, incoming); ok {
			p.entryVal[b][slot] = same
			return same
		}
		phi.Incoming = incoming
		b.Prepend(phi)
		return phi
	}
}

func (p *promoter) blockExitValue(b *ir.BasicBlock, slot *ir.Instr) ir.Value {
	if m, ok := p.exitVal[b]; ok {
		if v, ok := m[slot]; ok {
			return v
		}
	} else {
		p.exitVal[b] = make(map[*ir.Instr]ir.Value)
	}

	cur := p.blockEntryValue(b, slot)
	for _, instr := range b.Instrs {
		if instr.Op == ir.OpStore {
			if dst, ok := instr.Operands[0].(*ir.Instr); ok && dst == slot {
				cur = instr.Operands[1]
			}
		}
	}
	p.exitVal[b][slot] = cur
	return cur
}

// trivialPhiValue reports whether every incoming value is either the phi
// itself (a self-referential back edge) or one single other value, in
// which case the phi is redundant and that other value can stand in for
// it directly.
func trivialPhiValue(phi *ir.Instr, incoming []ir.PhiIncoming) (ir.Value, bool) {
	var same ir.Value
	for _, in := range incoming {
		if in.Value == ir.Value(phi) {
			continue
		}
		if same == nil {
			same = in.Value
			continue
		}
		if same != in.Value {
			return nil, false
		}
	}
	if same == nil {
		return &ir.ConstF64{F: 0}, true
	}
	return same, true
}
