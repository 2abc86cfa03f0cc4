package parser

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/token"
)

// ParseExpression parses `expression := unary (binop unary)*`, climbed by
// the standard precedence-climbing algorithm.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRHS(1, lhs)
}

// currentOpPrecedence looks up CurTok's binary precedence, returning -1
// unless CurTok is a single-char operator with a positive table entry.
func (p *Parser) currentOpPrecedence() int {
	if p.CurTok.Kind != token.Char {
		return -1
	}
	return p.Prec.Lookup(p.CurTok.Ch)
}

func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		prec := p.currentOpPrecedence()
		if prec < minPrec {
			return lhs, nil
		}
		op := p.CurTok.Ch
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		nextPrec := p.currentOpPrecedence()
		if prec < nextPrec {
			rhs, err = p.parseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}
		lhs = &ast.Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseUnary parses a (possibly empty) chain of prefix unary operators
// around a primary expression. Unary operators have no declared
// precedence slot: they always bind tighter than any binary
// operator, so this recurses directly into another unary rather than
// consulting the precedence table.
func (p *Parser) parseUnary() (ast.Expr, error) {
	isOperatorStart := p.CurTok.Kind == token.Char && p.CurTok.Ch != '(' && p.CurTok.Ch != ','
	if !isOperatorStart {
		return p.parsePrimary()
	}
	op := p.CurTok.Ch
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Operand: operand}, nil
}

// parsePrimary parses a primary expression: number, identifier (bare or
// call-form), parenthesized expression, if, for, var.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.CurTok.Kind == token.Number:
		v := p.CurTok.Num
		p.advance()
		return &ast.Number{Value: v}, nil

	case p.CurTok.Kind == token.Ident:
		name := p.CurTok.Lexeme
		p.advance()
		if !p.CurTok.IsChar('(') {
			return &ast.Variable{Name: name}, nil
		}
		p.advance() // consume '('
		var args []ast.Expr
		if !p.CurTok.IsChar(')') {
			for {
				arg, err := p.ParseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.CurTok.IsChar(',') {
					p.advance()
					continue
				}
				break
			}
		}
		if err := p.expectChar(')', "end of call arguments"); err != nil {
			return nil, err
		}
		return &ast.Call{Callee: name, Args: args}, nil

	case p.CurTok.IsChar('('):
		p.advance()
		inner, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(')', "closing parenthesis"); err != nil {
			return nil, err
		}
		return inner, nil

	case p.CurTok.IsKeyword(token.KwIf):
		return p.parseIf()

	case p.CurTok.IsKeyword(token.KwFor):
		return p.parseFor()

	case p.CurTok.IsKeyword(token.KwVar):
		return p.parseVar()

	default:
		return nil, fmt.Errorf("unknown token when expecting an expression: %s", p.CurTok)
	}
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.CurTok.IsKeyword(kw) {
		return fmt.Errorf("expected %q, got %s", kw, p.CurTok)
	}
	p.advance()
	return nil
}

func (p *Parser) parseIf() (ast.Expr, error) {
	p.advance() // 'if'
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.KwThen); err != nil {
		return nil, err
	}
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.KwElse); err != nil {
		return nil, err
	}
	els, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	p.advance() // 'for'
	if p.CurTok.Kind != token.Ident {
		return nil, fmt.Errorf("expected induction variable name after 'for', got %s", p.CurTok)
	}
	name := p.CurTok.Lexeme
	p.advance()
	if err := p.expectChar('=', "for-loop start assignment"); err != nil {
		return nil, err
	}
	start, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectChar(',', "for-loop end expression separator"); err != nil {
		return nil, err
	}
	end, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	if p.CurTok.IsChar(',') {
		p.advance()
		step, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword(token.KwIn); err != nil {
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.For{Var: name, Start: start, End: end, Step: step, Body: body}, nil
}

func (p *Parser) parseVar() (ast.Expr, error) {
	p.advance() // 'var'
	var bindings []ast.VarBinding
	for {
		if p.CurTok.Kind != token.Ident {
			return nil, fmt.Errorf("expected identifier after 'var', got %s", p.CurTok)
		}
		name := p.CurTok.Lexeme
		p.advance()
		var init ast.Expr
		if p.CurTok.IsChar('=') {
			p.advance()
			var err error
			init, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
		bindings = append(bindings, ast.VarBinding{Name: name, Init: init})
		if p.CurTok.IsChar(',') {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectKeyword(token.KwIn); err != nil {
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Var{Bindings: bindings, Body: body}, nil
}
