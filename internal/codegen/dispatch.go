package codegen

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/ir"
)

// LowerExpr is the central dispatcher, a match-style replacement for
// virtual codegen() dispatch, grounded directly on
// eval/evaluator_expressions.go's Eval(n parser.Node) type switch.
func (l *Lowerer) LowerExpr(e ast.Expr) (ir.Value, error) {
	switch n := e.(type) {
	case *ast.Number:
		return &ir.ConstF64{F: n.Value}, nil
	case *ast.Variable:
		return l.lowerVariable(n)
	case *ast.Unary:
		return l.lowerUnary(n)
	case *ast.Binary:
		return l.lowerBinary(n)
	case *ast.Call:
		return l.lowerCall(n)
	case *ast.If:
		return l.lowerIf(n)
	case *ast.For:
		return l.lowerFor(n)
	case *ast.Var:
		return l.lowerVar(n)
	default:
		return nil, fmt.Errorf("codegen: unhandled expression type %T", e)
	}
}

func (l *Lowerer) lowerVariable(n *ast.Variable) (ir.Value, error) {
	slot, ok := l.lookupSlot(n.Name)
	if !ok {
		return nil, fmt.Errorf("Unknown variable name: %s", n.Name)
	}
	return l.builder.CreateLoad(slot), nil
}

func (l *Lowerer) lowerCall(n *ast.Call) (ir.Value, error) {
	fn, err := l.resolveFunction(n.Callee)
	if err != nil {
		return nil, fmt.Errorf("unknown function referenced: %s", n.Callee)
	}
	if len(fn.ParamNames) != len(n.Args) {
		return nil, fmt.Errorf("Incorrect # arguments passed")
	}
	args := make([]ir.Value, len(n.Args))
	for i, argExpr := range n.Args {
		// Evaluate arguments left-to-right, each exactly once — a classic
		// historical bug in interpreters like this is to evaluate an
		// operand twice; calling LowerExpr exactly once per argument here
		// avoids that class of mistake entirely.
		v, err := l.LowerExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return l.builder.CreateCall(fn.Name, args), nil
}
