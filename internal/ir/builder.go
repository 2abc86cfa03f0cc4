package ir

import "fmt"

// Builder emits instructions at a single cursor position ("the current
// insertion block"), the same discipline the lowerer's stack-slot builder
// follows: positioned at the entry block initially, retargeted explicitly
// whenever control-flow constructs open a new block.
type Builder struct {
	Fn  *Function
	Cur *BasicBlock
}

// NewBuilder creates a Builder positioned at fn's entry block. fn must
// already have at least one block (callers create the entry block with
// fn.NewBlock("entry") first).
func NewBuilder(fn *Function) *Builder {
	return &Builder{Fn: fn, Cur: fn.EntryBlock()}
}

// SetInsertBlock retargets the builder's insertion cursor. Control-flow
// lowering (If, For) calls this whenever it opens a new block, and the
// "current block at the end of lowering each arm" a phi needs is simply
// whatever b.Cur equals right before the caller reads it back.
func (b *Builder) SetInsertBlock(blk *BasicBlock) {
	b.Cur = blk
}

func (b *Builder) emit(op Op) *Instr {
	instr := &Instr{ID: b.Fn.nextID(), Op: op, Block: b.Cur}
	b.Cur.Instrs = append(b.Cur.Instrs, instr)
	return instr
}

// CreateAlloca emits a stack-slot allocation at the top of the function's
// entry block, wherever the cursor currently is: every binding is realized
// as an alloca there.
func (b *Builder) CreateAlloca(name string) *Instr {
	entry := b.Fn.EntryBlock()
	i := &Instr{ID: b.Fn.nextID(), Op: OpAlloca, Block: entry, SlotName: name}
	entry.Instrs = append([]*Instr{i}, entry.Instrs...)
	return i
}

// CreateLoad reads the current value out of a slot produced by
// CreateAlloca.
func (b *Builder) CreateLoad(slot Value) *Instr {
	i := b.emit(OpLoad)
	i.Operands = []Value{slot}
	return i
}

// CreateStore writes val into slot. Stores produce no result value.
func (b *Builder) CreateStore(slot, val Value) *Instr {
	i := b.emit(OpStore)
	i.Operands = []Value{slot, val}
	return i
}

// CreateFAdd/CreateFSub/CreateFMul emit the three built-in arithmetic
// binary ops: +, -, *.
func (b *Builder) CreateFAdd(lhs, rhs Value) *Instr { return b.binop(OpFAdd, lhs, rhs) }
func (b *Builder) CreateFSub(lhs, rhs Value) *Instr { return b.binop(OpFSub, lhs, rhs) }
func (b *Builder) CreateFMul(lhs, rhs Value) *Instr { return b.binop(OpFMul, lhs, rhs) }

func (b *Builder) binop(op Op, lhs, rhs Value) *Instr {
	i := b.emit(op)
	i.Operands = []Value{lhs, rhs}
	return i
}

// CreateFCmpULT emits the unordered less-than compare used for '<'. Its
// result must be converted with CreateBoolToF64 to produce the 0.0/1.0
// the source language expects a '<' expression to yield.
func (b *Builder) CreateFCmpULT(lhs, rhs Value) *Instr { return b.binop(OpFCmpULT, lhs, rhs) }

// CreateFCmpONE emits the ordered not-equal compare used to turn an f64
// condition into a branchable bool: cond != 0.0.
func (b *Builder) CreateFCmpONE(lhs, rhs Value) *Instr { return b.binop(OpFCmpONE, lhs, rhs) }

// CreateBoolToF64 converts a bool-producing instruction's result to 0.0/1.0.
func (b *Builder) CreateBoolToF64(cond Value) *Instr {
	i := b.emit(OpBoolToF64)
	i.Operands = []Value{cond}
	return i
}

// CreateCall emits a call to callee with the given argument values.
func (b *Builder) CreateCall(callee string, args []Value) *Instr {
	i := b.emit(OpCall)
	i.CallName = callee
	i.Operands = args
	return i
}

// CreateBr emits an unconditional branch and terminates the current
// block.
func (b *Builder) CreateBr(target *BasicBlock) *Instr {
	i := b.emit(OpBr)
	i.Target = target
	return i
}

// CreateCondBr emits a conditional branch and terminates the current
// block.
func (b *Builder) CreateCondBr(cond Value, then, els *BasicBlock) *Instr {
	i := b.emit(OpCondBr)
	i.Operands = []Value{cond}
	i.Then = then
	i.Else = els
	return i
}

// CreateRet emits a return and terminates the current block.
func (b *Builder) CreateRet(val Value) *Instr {
	i := b.emit(OpRet)
	i.Operands = []Value{val}
	return i
}

// CreatePhi emits a phi node joining values from multiple predecessor
// blocks. The incoming blocks must be whichever blocks were *current* at
// the end of lowering each arm, not the original then/else blocks — so
// callers must pass the builder's actual Cur at the time each arm
// finished, not the block the arm started in.
func (b *Builder) CreatePhi(incoming []PhiIncoming) *Instr {
	i := b.emit(OpPhi)
	i.Incoming = incoming
	return i
}

// DebugString renders an instruction in a small, generic SSA textual form used
// for the --llvmir dump. It is not LLVM's own IR syntax since no LLVM
// toolchain is linked into this module (see DESIGN.md).
func (i *Instr) DebugString() string {
	switch i.Op {
	case OpAlloca:
		return fmt.Sprintf("%%%d = alloca f64 ; %s", i.ID, i.SlotName)
	case OpLoad:
		return fmt.Sprintf("%%%d = load %s", i.ID, i.Operands[0])
	case OpStore:
		return fmt.Sprintf("store %s, %s", i.Operands[1], i.Operands[0])
	case OpFAdd, OpFSub, OpFMul, OpFCmpULT, OpFCmpONE:
		return fmt.Sprintf("%%%d = %s %s, %s", i.ID, i.Op, i.Operands[0], i.Operands[1])
	case OpBoolToF64:
		return fmt.Sprintf("%%%d = uitofp %s", i.ID, i.Operands[0])
	case OpCall:
		args := ""
		for idx, a := range i.Operands {
			if idx > 0 {
				args += ", "
			}
			args += a.String()
		}
		return fmt.Sprintf("%%%d = call @%s(%s)", i.ID, i.CallName, args)
	case OpBr:
		return fmt.Sprintf("br label %%%s", i.Target.Name)
	case OpCondBr:
		return fmt.Sprintf("condbr %s, label %%%s, label %%%s", i.Operands[0], i.Then.Name, i.Else.Name)
	case OpRet:
		return fmt.Sprintf("ret %s", i.Operands[0])
	case OpPhi:
		s := fmt.Sprintf("%%%d = phi f64 ", i.ID)
		for idx, in := range i.Incoming {
			if idx > 0 {
				s += ", "
			}
			s += fmt.Sprintf("[ %s, %%%s ]", in.Value, in.Block.Name)
		}
		return s
	default:
		return "?"
	}
}
