package optimize

import "github.com/numc-lang/numc/internal/ir"

// foldConstants runs a constant-folding pass over f64 arithmetic and
// comparisons: wherever every operand of an instruction is
// already a literal, replace every use of that instruction with the
// folded literal and drop the instruction. Runs to a local fixpoint within
// one call (folding can cascade: `2 + 3` folds to `5`, which can then feed
// another fold downstream), reporting whether anything changed so the
// pipeline knows whether another pass of dead-block elimination is worth
// trying.
func foldConstants(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		kept := b.Instrs[:0:0]
		for _, instr := range b.Instrs {
			if folded, ok := foldInstr(instr); ok {
				fn.ReplaceAllUses(instr, folded)
				changed = true
				continue
			}
			kept = append(kept, instr)
		}
		b.Instrs = kept
	}
	return changed
}

func asConstF64(v ir.Value) (float64, bool) {
	c, ok := v.(*ir.ConstF64)
	if !ok {
		return 0, false
	}
	return c.F, true
}

func asConstBool(v ir.Value) (bool, bool) {
	c, ok := v.(*ir.ConstBool)
	if !ok {
		return false, false
	}
	return c.B, true
}

func foldInstr(instr *ir.Instr) (ir.Value, bool) {
	switch instr.Op {
	case ir.OpFAdd, ir.OpFSub, ir.OpFMul:
		lhs, ok1 := asConstF64(instr.Operands[0])
		rhs, ok2 := asConstF64(instr.Operands[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		switch instr.Op {
		case ir.OpFAdd:
			return &ir.ConstF64{F: lhs + rhs}, true
		case ir.OpFSub:
			return &ir.ConstF64{F: lhs - rhs}, true
		default:
			return &ir.ConstF64{F: lhs * rhs}, true
		}
	case ir.OpFCmpULT:
		lhs, ok1 := asConstF64(instr.Operands[0])
		rhs, ok2 := asConstF64(instr.Operands[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return &ir.ConstBool{B: !(lhs >= rhs)}, true // unordered: true on NaN
	case ir.OpFCmpONE:
		lhs, ok1 := asConstF64(instr.Operands[0])
		rhs, ok2 := asConstF64(instr.Operands[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return &ir.ConstBool{B: lhs < rhs || lhs > rhs}, true // ordered: false on NaN
	case ir.OpBoolToF64:
		b, ok := asConstBool(instr.Operands[0])
		if !ok {
			return nil, false
		}
		if b {
			return &ir.ConstF64{F: 1}, true
		}
		return &ir.ConstF64{F: 0}, true
	default:
		return nil, false
	}
}
