// Package symtab holds two pieces of process-lifetime shared state: the
// operator-precedence table and the global prototype registry. Both are
// owned by the driver and mutated only from its single thread; the
// map-based lookup/insert shape mirrors scope.Scope's LookUp/Bind/Assign
// discipline, simplified because neither table is lexically nested.
package symtab

import "github.com/numc-lang/numc/internal/ast"

// Builtin operator precedences installed at startup.
var builtinPrecedence = map[byte]int{
	'=': 2,
	'<': 10,
	'+': 20,
	'-': 20,
	'*': 40,
}

// PrecedenceTable maps a single-character binary operator to its
// precedence. At any point its keys are exactly the built-in operators
// plus the user-binary operators whose defining function is currently
// installed in some module.
type PrecedenceTable struct {
	prec map[byte]int
}

// NewPrecedenceTable seeds the table with the built-in operators.
func NewPrecedenceTable() *PrecedenceTable {
	t := &PrecedenceTable{prec: make(map[byte]int, len(builtinPrecedence)+4)}
	for op, p := range builtinPrecedence {
		t.prec[op] = p
	}
	return t
}

// Lookup returns an operator's precedence, or -1 if it has none (forcing
// expression termination).
func (t *PrecedenceTable) Lookup(op byte) int {
	if p, ok := t.prec[op]; ok && p > 0 {
		return p
	}
	return -1
}

// Install records a user-declared binary operator's precedence. Returns a
// rollback function that restores the table to its pre-Install state, for
// when lowering the defining function body fails.
func (t *PrecedenceTable) Install(op byte, prec int) (rollback func()) {
	old, had := t.prec[op]
	t.prec[op] = prec
	return func() {
		if had {
			t.prec[op] = old
		} else {
			delete(t.prec, op)
		}
	}
}

// Registry is the cross-module prototype registry: a mapping from
// function name to its most-recently-seen prototype,
// populated by every parsed extern and def, and consulted by the lowerer
// to rematerialise declarations in new modules on forward reference.
type Registry struct {
	protos map[string]*ast.Prototype
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{protos: make(map[string]*ast.Prototype)}
}

// Lookup returns the most-recently-registered prototype for name, if any.
func (r *Registry) Lookup(name string) (*ast.Prototype, bool) {
	p, ok := r.protos[name]
	return p, ok
}

// Register installs or replaces the prototype for its OperatorName()/Name.
func (r *Registry) Register(p *ast.Prototype) {
	r.protos[p.OperatorName()] = p
}

// Remove deletes a name's registration. A failed def does not call it:
// the lowerer rolls back only the precedence install, and the prototype
// stays registered.
func (r *Registry) Remove(name string) {
	delete(r.protos, name)
}
