package codegen

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/ir"
)

// lowerBinary lowers a binary operator expression. '=' is handled
// specially (its LHS must be a Variable); +, -, * map directly to IR
// arithmetic; <
// compares then promotes the bool result to f64; any other operator is a
// call to the registered "binary"+op function.
func (l *Lowerer) lowerBinary(n *ast.Binary) (ir.Value, error) {
	if n.Op == '=' {
		return l.lowerAssign(n)
	}

	lhs, err := l.LowerExpr(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := l.LowerExpr(n.RHS)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case '+':
		return l.builder.CreateFAdd(lhs, rhs), nil
	case '-':
		return l.builder.CreateFSub(lhs, rhs), nil
	case '*':
		return l.builder.CreateFMul(lhs, rhs), nil
	case '<':
		cmp := l.builder.CreateFCmpULT(lhs, rhs)
		return l.builder.CreateBoolToF64(cmp), nil
	default:
		return l.callOperator("binary"+string(n.Op), []ir.Value{lhs, rhs})
	}
}

// lowerAssign implements the '=' special case: the destination must be a
// bare Variable; the RHS is evaluated, stored into the destination's
// slot, and the stored value is yielded.
func (l *Lowerer) lowerAssign(n *ast.Binary) (ir.Value, error) {
	dest, ok := n.LHS.(*ast.Variable)
	if !ok {
		return nil, fmt.Errorf("destination of '=' must be a variable")
	}
	slot, ok := l.lookupSlot(dest.Name)
	if !ok {
		return nil, fmt.Errorf("Unknown variable name: %s", dest.Name)
	}
	val, err := l.LowerExpr(n.RHS)
	if err != nil {
		return nil, err
	}
	l.builder.CreateStore(slot, val)
	return val, nil
}

// lowerUnary lowers a prefix unary operator into a call to "unary"+op,
// failing if no such function is registered.
func (l *Lowerer) lowerUnary(n *ast.Unary) (ir.Value, error) {
	operand, err := l.LowerExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	return l.callOperator("unary"+string(n.Op), []ir.Value{operand})
}

func (l *Lowerer) callOperator(name string, args []ir.Value) (ir.Value, error) {
	fn, err := l.resolveFunction(name)
	if err != nil {
		return nil, fmt.Errorf("Unknown operator: %s", name)
	}
	return l.builder.CreateCall(fn.Name, args), nil
}
