package parser_test

import (
	"strings"
	"testing"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/lexer"
	"github.com/numc-lang/numc/internal/parser"
	"github.com/numc-lang/numc/internal/symtab"
	"github.com/stretchr/testify/require"
)

func newParser(src string) *parser.Parser {
	return parser.New(lexer.New(strings.NewReader(src)), symtab.NewPrecedenceTable())
}

func TestPrecedenceClimbing(t *testing.T) {
	// "4 + 2 * 3" == 10.0: * binds tighter than +, so the tree is
	// 4 + (2*3), not (4+2)*3.
	p := newParser("4 + 2 * 3")
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('+'), bin.Op)
	require.IsType(t, &ast.Number{}, bin.LHS)

	rhs, ok := bin.RHS.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('*'), rhs.Op)
}

func TestLessThanPrecedesOverAssignment(t *testing.T) {
	// '=' (prec 2) binds looser than '<' (prec 10), so
	// "a = b < 1" parses as "a = (b < 1)".
	p := newParser("a = b < 1")
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	assign, ok := expr.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('='), assign.Op)

	rhs, ok := assign.RHS.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('<'), rhs.Op)
}

func TestLeftAssociativity(t *testing.T) {
	// same-precedence operators fold left: "1 - 2 - 3" is "(1-2)-3".
	p := newParser("1 - 2 - 3")
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	outer, ok := expr.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('-'), outer.Op)
	inner, ok := outer.LHS.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, byte('-'), inner.Op)
	require.IsType(t, &ast.Number{}, outer.RHS)
}

func TestUnaryBindsTighterThanAnyBinary(t *testing.T) {
	p := newParser("-1 + 2")
	expr, err := p.ParseExpression()
	require.NoError(t, err)

	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	require.IsType(t, &ast.Unary{}, bin.LHS)
}

func TestCallExpression(t *testing.T) {
	p := newParser("foo(1, 2+3)")
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "foo", call.Callee)
	require.Len(t, call.Args, 2)
}

func TestIfRequiresThenAndElse(t *testing.T) {
	p := newParser("if x then 1 else 2")
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	ifExpr, ok := expr.(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Then)
	require.NotNil(t, ifExpr.Else)

	p2 := newParser("if x then 1")
	_, err = p2.ParseExpression()
	require.Error(t, err)
}

func TestForWithAndWithoutStep(t *testing.T) {
	p := newParser("for i = 0, i < 10 in i")
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	forExpr, ok := expr.(*ast.For)
	require.True(t, ok)
	require.Equal(t, "i", forExpr.Var)
	require.Nil(t, forExpr.Step)

	p2 := newParser("for i = 0, i < 10, 2 in i")
	expr2, err := p2.ParseExpression()
	require.NoError(t, err)
	forExpr2 := expr2.(*ast.For)
	require.NotNil(t, forExpr2.Step)
}

func TestVarMultipleBindings(t *testing.T) {
	p := newParser("var a = 1, b in a + b")
	expr, err := p.ParseExpression()
	require.NoError(t, err)
	v, ok := expr.(*ast.Var)
	require.True(t, ok)
	require.Len(t, v.Bindings, 2)
	require.NotNil(t, v.Bindings[0].Init)
	require.Nil(t, v.Bindings[1].Init)
}

func TestPrototypeForms(t *testing.T) {
	p := newParser("foo(a b)")
	proto, err := p.ParsePrototype()
	require.NoError(t, err)
	require.Equal(t, "foo", proto.Name)
	require.Equal(t, []string{"a", "b"}, proto.Params)

	p2 := newParser("unary! (v)")
	proto2, err := p2.ParsePrototype()
	require.NoError(t, err)
	require.True(t, proto2.IsUnaryOp())
	require.Equal(t, "unary!", proto2.OperatorName())

	p3 := newParser("binary: 1 (x y)")
	proto3, err := p3.ParsePrototype()
	require.NoError(t, err)
	require.True(t, proto3.IsBinaryOp())
	require.Equal(t, 1, proto3.Precedence)
	require.Equal(t, "binary:", proto3.OperatorName())
}

func TestInvalidPrecedenceRejected(t *testing.T) {
	for _, src := range []string{"binary: 0 (x y)", "binary: 101 (x y)"} {
		p := newParser(src)
		_, err := p.ParsePrototype()
		require.Error(t, err, src)
	}
}

func TestUnaryWrongArityRejected(t *testing.T) {
	p := newParser("unary! (a b)")
	_, err := p.ParsePrototype()
	require.Error(t, err)
}

func TestTopLevelSemicolonIsEmptyItem(t *testing.T) {
	p := newParser(";")
	item, err := p.ParseTop()
	require.NoError(t, err)
	require.Equal(t, parser.ItemEmpty, item.Kind)
}

func TestBareExpressionWrappedInAnonProto(t *testing.T) {
	p := newParser("4 + 5")
	item, err := p.ParseTop()
	require.NoError(t, err)
	require.Equal(t, parser.ItemTopLevelExpr, item.Kind)
	require.Equal(t, ast.AnonExprName, item.Def.Proto.Name)
	require.Empty(t, item.Def.Proto.Params)
}
