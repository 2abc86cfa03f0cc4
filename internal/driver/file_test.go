package driver_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/numc-lang/numc/internal/driver"
	"github.com/numc-lang/numc/internal/jit"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.numc")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunFileContinuesPastRecoverableErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut, false)

	path := writeSource(t, `
		x ;
		10 - 3 ;
	`)
	err := d.RunFile(path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "7.000000")
	require.Contains(t, errOut.String(), "Unknown variable")
}

func TestRunFileAbortsOnJITError(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut, false)

	path := writeSource(t, `
		extern foo(x) ;
		foo(1) ;
		4 + 5 ;
	`)
	err := d.RunFile(path)
	require.Error(t, err)

	var jitErr *jit.Error
	require.True(t, errors.As(err, &jitErr))
	require.NotContains(t, out.String(), "9.000000")
}

func TestRunFileSeparatesResultsFromDiagnostics(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut, false)

	path := writeSource(t, `
		x ;
		4 + 5 ;
	`)
	require.NoError(t, d.RunFile(path))

	require.Contains(t, out.String(), "9.000000")
	require.NotContains(t, out.String(), "Unknown variable")
	require.Contains(t, errOut.String(), "Unknown variable")
}

func TestVerboseModeTracesEachItemAndFileLoad(t *testing.T) {
	var out, errOut bytes.Buffer
	d := driver.New(&out, &errOut, false)
	d.Log.Verbose = true

	path := writeSource(t, "4 + 5 ;")
	require.NoError(t, d.RunFile(path))

	require.Contains(t, errOut.String(), "loading file")
	require.Contains(t, errOut.String(), "read top-level expression")
	require.NotContains(t, out.String(), "loading file")
}
