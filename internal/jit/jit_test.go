package jit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/numc-lang/numc/internal/codegen"
	"github.com/numc-lang/numc/internal/ir"
	"github.com/numc-lang/numc/internal/jit"
	"github.com/numc-lang/numc/internal/lexer"
	"github.com/numc-lang/numc/internal/optimize"
	"github.com/numc-lang/numc/internal/parser"
	"github.com/numc-lang/numc/internal/runtime"
	"github.com/numc-lang/numc/internal/symtab"
	"github.com/stretchr/testify/require"
)

// compileDef parses and lowers one top-level definition into a fresh module,
// running it through the same optimize.Module step the driver would.
func compileDef(t *testing.T, src string) (*ir.Module, *symtab.Registry, *symtab.PrecedenceTable) {
	t.Helper()
	reg := symtab.NewRegistry()
	prec := symtab.NewPrecedenceTable()
	lx := lexer.New(strings.NewReader(src))
	p := parser.New(lx, prec)
	top, err := p.ParseTop()
	require.NoError(t, err)
	require.NotNil(t, top.Def)

	mod := ir.NewModule("test")
	l := codegen.New(mod, reg, prec)
	_, err = l.LowerFunction(top.Def)
	require.NoError(t, err)

	optimize.Module(mod)
	return mod, reg, prec
}

func TestRecursiveFibonacciExecutesCorrectly(t *testing.T) {
	mod, _, _ := compileDef(t, "def fib(x) if x < 2 then x else fib(x-1)+fib(x-2) ;")

	engine := jit.New(&bytes.Buffer{})
	handle := engine.AddModule(mod)
	defer engine.RemoveModule(handle)

	result, err := engine.Call("fib", []float64{10})
	require.NoError(t, err)
	require.Equal(t, float64(55), result)
}

func TestRemoveModuleReleasesSymbols(t *testing.T) {
	mod, _, _ := compileDef(t, "def addone(x) x + 1 ;")

	engine := jit.New(&bytes.Buffer{})
	handle := engine.AddModule(mod)

	_, ok := engine.LookupSymbol("addone")
	require.True(t, ok)

	engine.RemoveModule(handle)
	_, ok = engine.LookupSymbol("addone")
	require.False(t, ok)

	_, err := engine.Call("addone", []float64{1})
	require.Error(t, err)
}

func TestRedefinitionOverwritesTheInstalledSymbol(t *testing.T) {
	engine := jit.New(&bytes.Buffer{})

	mod1, _, _ := compileDef(t, "def twice(x) x + x ;")
	engine.AddModule(mod1)
	result, err := engine.Call("twice", []float64{3})
	require.NoError(t, err)
	require.Equal(t, float64(6), result)

	mod2, _, _ := compileDef(t, "def twice(x) x * x ;")
	engine.AddModule(mod2)
	result, err = engine.Call("twice", []float64{3})
	require.NoError(t, err)
	require.Equal(t, float64(9), result)
}

func TestNativeRuntimeSymbols(t *testing.T) {
	var buf bytes.Buffer
	engine := jit.New(&buf)
	for _, b := range runtime.Builtins {
		engine.RegisterNative(b.Name, jit.NativeFunc(b.Fn))
	}

	_, err := engine.Call("putchard", []float64{65})
	require.NoError(t, err)
	require.Equal(t, "A", buf.String())

	buf.Reset()
	_, err = engine.Call("printd", []float64{3})
	require.NoError(t, err)
	require.Equal(t, "3\n", buf.String())
}

func TestUnresolvedSymbolFails(t *testing.T) {
	engine := jit.New(&bytes.Buffer{})
	_, err := engine.Call("nope", nil)
	require.Error(t, err)
}
