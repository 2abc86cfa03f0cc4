package codegen

import (
	"github.com/numc-lang/numc/internal/ast"
	"github.com/numc-lang/numc/internal/ir"
)

type savedBinding struct {
	name string
	slot *ir.Instr
	had  bool
}

// lowerVar lowers a var/in binding form: each initializer is evaluated
// against the *outer* scope before its own binding is introduced, so
// `var x = x in ...` sees the outer x, not the one being declared.
func (l *Lowerer) lowerVar(n *ast.Var) (ir.Value, error) {
	snapshot := make([]savedBinding, 0, len(n.Bindings))
	restore := func() {
		for i := len(snapshot) - 1; i >= 0; i-- {
			s := snapshot[i]
			if s.had {
				l.env[s.name] = s.slot
			} else {
				delete(l.env, s.name)
			}
		}
	}

	for _, b := range n.Bindings {
		var initVal ir.Value
		var err error
		if b.Init != nil {
			initVal, err = l.LowerExpr(b.Init)
		} else {
			initVal = &ir.ConstF64{F: 0.0}
		}
		if err != nil {
			restore()
			return nil, err
		}

		slot := l.builder.CreateAlloca(b.Name)
		l.builder.CreateStore(slot, initVal)

		prevSlot, had := l.env[b.Name]
		snapshot = append(snapshot, savedBinding{name: b.Name, slot: prevSlot, had: had})
		l.env[b.Name] = slot
	}

	bodyVal, err := l.LowerExpr(n.Body)
	restore()
	if err != nil {
		return nil, err
	}
	return bodyVal, nil
}
