package ir

import (
	"fmt"
	"io"
)

// WriteTo renders the module's functions in the generic textual form
// DebugString uses per instruction. This backs the --llvmir CLI flag: the
// tutorial driver this derives from calls Module::print after every
// successful top-level item; here the driver calls WriteTo instead of
// installing/executing whenever --llvmir is set.
func (m *Module) WriteTo(w io.Writer) error {
	for _, fn := range m.Functions() {
		if fn.IsDeclaration() {
			if _, err := fmt.Fprintf(w, "declare @%s(%s)\n", fn.Name, paramList(fn)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "define @%s(%s) {\n", fn.Name, paramList(fn)); err != nil {
			return err
		}
		for _, blk := range fn.Blocks {
			if _, err := fmt.Fprintf(w, "%s:\n", blk.Name); err != nil {
				return err
			}
			for _, instr := range blk.Instrs {
				if _, err := fmt.Fprintf(w, "  %s\n", instr.DebugString()); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w, "}"); err != nil {
			return err
		}
	}
	return nil
}

func paramList(fn *Function) string {
	s := ""
	for i, p := range fn.ParamNames {
		if i > 0 {
			s += ", "
		}
		s += "%" + p
	}
	return s
}
