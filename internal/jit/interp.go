package jit

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ir"
)

// frame is one call's interpreter state: each alloca gets a memory cell
// (mem, keyed by the alloca instruction's identity) and every
// value-producing instruction has the result of its most recent
// execution recorded (vals) — the interpreter's stand-in for a register file,
// since this engine has no real registers to allocate.
type frame struct {
	fn   *ir.Function
	args []float64
	mem  map[*ir.Instr]float64
	vals map[*ir.Instr]float64
}

func (e *Engine) execFunction(fn *ir.Function, args []float64) (float64, error) {
	f := &frame{fn: fn, args: args, mem: make(map[*ir.Instr]float64), vals: make(map[*ir.Instr]float64)}

	cur := fn.EntryBlock()
	var prev *ir.BasicBlock
	for {
		// The phis at the head of a block all read their incoming values
		// as of the edge from prev, before any of them is updated.
		var phiVals []float64
		for _, instr := range cur.Instrs {
			if instr.Op != ir.OpPhi {
				break
			}
			phiVals = append(phiVals, f.valueOf(incomingFor(instr, prev)))
		}
		for i, v := range phiVals {
			f.vals[cur.Instrs[i]] = v
		}
		for _, instr := range cur.Instrs[len(phiVals):] {
			switch instr.Op {
			case ir.OpAlloca:
				f.mem[instr] = 0
			case ir.OpLoad:
				addr := instr.Operands[0].(*ir.Instr)
				f.vals[instr] = f.mem[addr]
			case ir.OpStore:
				addr := instr.Operands[0].(*ir.Instr)
				f.mem[addr] = f.valueOf(instr.Operands[1])
			case ir.OpFAdd:
				f.vals[instr] = f.valueOf(instr.Operands[0]) + f.valueOf(instr.Operands[1])
			case ir.OpFSub:
				f.vals[instr] = f.valueOf(instr.Operands[0]) - f.valueOf(instr.Operands[1])
			case ir.OpFMul:
				f.vals[instr] = f.valueOf(instr.Operands[0]) * f.valueOf(instr.Operands[1])
			case ir.OpFCmpULT:
				// unordered: true when either operand is NaN
				if !(f.valueOf(instr.Operands[0]) >= f.valueOf(instr.Operands[1])) {
					f.vals[instr] = 1
				} else {
					f.vals[instr] = 0
				}
			case ir.OpFCmpONE:
				// ordered: false when either operand is NaN
				if lhs, rhs := f.valueOf(instr.Operands[0]), f.valueOf(instr.Operands[1]); lhs < rhs || lhs > rhs {
					f.vals[instr] = 1
				} else {
					f.vals[instr] = 0
				}
			case ir.OpBoolToF64:
				f.vals[instr] = f.valueOf(instr.Operands[0])
			case ir.OpCall:
				args := make([]float64, len(instr.Operands))
				for i, operand := range instr.Operands {
					args[i] = f.valueOf(operand)
				}
				result, err := e.Call(instr.CallName, args)
				if err != nil {
					return 0, err
				}
				f.vals[instr] = result
			case ir.OpBr:
				prev, cur = cur, instr.Target
				goto nextBlock
			case ir.OpCondBr:
				prev = cur
				if f.valueOf(instr.Operands[0]) != 0 {
					cur = instr.Then
				} else {
					cur = instr.Else
				}
				goto nextBlock
			case ir.OpRet:
				return f.valueOf(instr.Operands[0]), nil
			}
		}
		return 0, fmt.Errorf("jit: block %q in %q fell through without a terminator", cur.Name, fn.Name)
	nextBlock:
	}
}

func incomingFor(phi *ir.Instr, prev *ir.BasicBlock) ir.Value {
	for _, in := range phi.Incoming {
		if in.Block == prev {
			return in.Value
		}
	}
	return &ir.ConstF64{F: 0}
}

func (f *frame) valueOf(v ir.Value) float64 {
	switch t := v.(type) {
	case *ir.ConstF64:
		return t.F
	case *ir.ConstBool:
		if t.B {
			return 1
		}
		return 0
	case *ir.Param:
		return f.args[t.Idx]
	case *ir.Instr:
		if t.Op == ir.OpAlloca {
			return f.mem[t]
		}
		return f.vals[t]
	default:
		return 0
	}
}
