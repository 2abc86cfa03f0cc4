// Package parser implements an operator-precedence (Pratt-style)
// expression parser, extensible at parse time by user-declared
// binary/unary operator prototypes.
//
// The parser maintains CurTok, the one-token lookahead; every production
// leaves CurTok pointing at the first token after the production, exactly
// as go-mix's Parser keeps CurrToken/NextToken in lock-step with the
// lexer (parser/parser.go), simplified here to a single token of
// lookahead since this grammar never needs two-token lookahead.
package parser

import (
	"fmt"

	"github.com/numc-lang/numc/internal/lexer"
	"github.com/numc-lang/numc/internal/symtab"
	"github.com/numc-lang/numc/internal/token"
)

// Parser converts a token stream into top-level items (Prototype+Expr
// pairs for def, bare Prototype for extern, or a synthesized zero-arg
// Prototype+Expr for a bare expression).
type Parser struct {
	lex    *lexer.Lexer
	CurTok token.Token
	Prec   *symtab.PrecedenceTable
}

// New creates a Parser reading tokens from lex and consulting prec for
// binary-operator precedence. The first token is primed immediately so
// CurTok is valid on return.
func New(lex *lexer.Lexer, prec *symtab.PrecedenceTable) *Parser {
	p := &Parser{lex: lex, Prec: prec}
	p.advance()
	return p
}

// advance consumes CurTok and reads the next one from the lexer.
func (p *Parser) advance() {
	p.CurTok = p.lex.Next()
}

// expectChar consumes CurTok if it is the single-character token c,
// otherwise returns a diagnostic. Together with expectKeyword it is the
// parser's recovery-free "must match" primitive: return absent plus a
// diagnostic on first mismatch.
func (p *Parser) expectChar(c byte, what string) error {
	if !p.CurTok.IsChar(c) {
		return fmt.Errorf("expected %q (%s), got %s", c, what, p.CurTok)
	}
	p.advance()
	return nil
}

// ItemKind distinguishes the three top-level productions and the empty
// ';' item.
type ItemKind int

const (
	// ItemEmpty is a lone ';' with nothing else — skip silently.
	ItemEmpty ItemKind = iota
	ItemDefinition
	ItemExternal
	ItemTopLevelExpr
)

// AtEOF reports whether the parser has reached end of input.
func (p *Parser) AtEOF() bool {
	return p.CurTok.Kind == token.EOF
}

// SkipToken consumes exactly one token, the parser's whole error-recovery
// strategy: skip one token and resume at the next top-level item, with no
// larger recovery attempted.
func (p *Parser) SkipToken() {
	if !p.AtEOF() {
		p.advance()
	}
}
