package parser

import (
	"fmt"

	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/token"
)

// ParsePrototype parses a function prototype:
//
//	prototype := id '(' id* ')'
//	           | 'unary'  op          '(' id ')'
//	           | 'binary' op [number] '(' id id ')'
func (p *Parser) ParsePrototype() (*ast.Prototype, error) {
	switch {
	case p.CurTok.IsKeyword(token.KwUnary):
		p.advance()
		if p.CurTok.Kind != token.Char {
			return nil, fmt.Errorf("expected unary operator character, got %s", p.CurTok)
		}
		op := p.CurTok.Ch
		p.advance()
		params, err := p.parseParamList(1, "unary")
		if err != nil {
			return nil, err
		}
		return &ast.Prototype{
			Name:   "unary" + string(op),
			Params: params,
			Kind:   ast.UnaryOperator,
			OpChar: op,
		}, nil

	case p.CurTok.IsKeyword(token.KwBinary):
		p.advance()
		if p.CurTok.Kind != token.Char {
			return nil, fmt.Errorf("expected binary operator character, got %s", p.CurTok)
		}
		op := p.CurTok.Ch
		p.advance()
		prec := 30 // default precedence when none is declared
		if p.CurTok.Kind == token.Number {
			v := int(p.CurTok.Num)
			if float64(v) != p.CurTok.Num || v < 1 || v > 100 {
				return nil, fmt.Errorf("Invalid Precedence")
			}
			prec = v
			p.advance()
		}
		params, err := p.parseParamList(2, "binary")
		if err != nil {
			return nil, err
		}
		return &ast.Prototype{
			Name:       "binary" + string(op),
			Params:     params,
			Kind:       ast.BinaryOperator,
			OpChar:     op,
			Precedence: prec,
		}, nil

	case p.CurTok.Kind == token.Ident:
		name := p.CurTok.Lexeme
		p.advance()
		params, err := p.parseParamList(-1, "function")
		if err != nil {
			return nil, err
		}
		return &ast.Prototype{Name: name, Params: params, Kind: ast.NotOperator}, nil

	default:
		return nil, fmt.Errorf("expected function name in prototype, got %s", p.CurTok)
	}
}

// parseParamList parses the '(' id* ')' parameter list shared by every
// prototype form and enforces the fixed arity wanted is >= 0 (wanted < 0
// means "any arity", used for plain function prototypes).
func (p *Parser) parseParamList(wanted int, what string) ([]string, error) {
	if err := p.expectChar('(', what+" prototype parameter list"); err != nil {
		return nil, err
	}
	var params []string
	for p.CurTok.Kind == token.Ident {
		params = append(params, p.CurTok.Lexeme)
		p.advance()
	}
	if err := p.expectChar(')', what+" prototype parameter list"); err != nil {
		return nil, err
	}
	if wanted >= 0 && len(params) != wanted {
		return nil, fmt.Errorf("%s operator must have exactly %d parameter(s), got %d", what, wanted, len(params))
	}
	return params, nil
}

// ParseDefinition parses `definition := 'def' prototype expression`.
func (p *Parser) ParseDefinition() (*ast.Function, error) {
	p.advance() // 'def'
	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Proto: proto, Body: body}, nil
}

// ParseExternal parses `external := 'extern' prototype`.
func (p *Parser) ParseExternal() (*ast.Prototype, error) {
	p.advance() // 'extern'
	return p.ParsePrototype()
}

// ParseTopLevelExpr parses a bare expression and wraps it in the
// synthetic zero-argument __anon_expr prototype.
func (p *Parser) ParseTopLevelExpr() (*ast.Function, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	proto := &ast.Prototype{Name: ast.AnonExprName, Kind: ast.NotOperator}
	return &ast.Function{Proto: proto, Body: body}, nil
}

// TopLevel represents one parsed top-level construct: a definition, an
// external declaration, a bare expression, or an empty ';'.
type TopLevel struct {
	Kind ItemKind
	Def  *ast.Function  // ItemDefinition or ItemTopLevelExpr
	Ext  *ast.Prototype // ItemExternal
}

// ParseTop parses one top-level construct.
func (p *Parser) ParseTop() (*TopLevel, error) {
	switch {
	case p.CurTok.IsChar(';'):
		p.advance()
		return &TopLevel{Kind: ItemEmpty}, nil

	case p.CurTok.IsKeyword(token.KwDef):
		fn, err := p.ParseDefinition()
		if err != nil {
			return nil, err
		}
		return &TopLevel{Kind: ItemDefinition, Def: fn}, nil

	case p.CurTok.IsKeyword(token.KwExtern):
		proto, err := p.ParseExternal()
		if err != nil {
			return nil, err
		}
		return &TopLevel{Kind: ItemExternal, Ext: proto}, nil

	default:
		fn, err := p.ParseTopLevelExpr()
		if err != nil {
			return nil, err
		}
		return &TopLevel{Kind: ItemTopLevelExpr, Def: fn}, nil
	}
}
