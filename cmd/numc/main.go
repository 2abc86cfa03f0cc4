// Command numc is the JIT driver's command-line entry point: run a file,
// or fall back to an interactive REPL when no file is given. Grounded on
// main/main.go's flag dispatch (--help/--version handling ahead of the
// file-vs-REPL branch) and its colored showHelp/showVersion text, trimmed
// to the flags this language actually needs.
package main

import (
	"flag"
	"os"

	"github.com/fatih/color"
	"github.com/numc-lang/numc/internal/driver"
)

const (
	version = "v0.1.0"
	prompt  = "> "
)

var (
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

func main() {
	var help, verbose, dumpIR bool
	flag.BoolVar(&help, "h", false, "show this help message")
	flag.BoolVar(&help, "help", false, "show this help message")
	flag.BoolVar(&verbose, "v", false, "enable verbose diagnostics")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose diagnostics")
	flag.BoolVar(&dumpIR, "llvmir", false, "print each top-level item's optimized IR instead of running it")
	flag.Usage = showHelp
	flag.Parse()

	if help {
		showHelp()
		return
	}

	d := driver.New(os.Stdout, os.Stderr, dumpIR)
	d.Log.Verbose = verbose

	if args := flag.Args(); len(args) > 0 {
		if err := d.RunFile(args[0]); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := d.RunREPL(prompt); err != nil {
		os.Exit(1)
	}
}

func showHelp() {
	cyanColor.Println("numc - a small JIT-compiled expression language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  numc                  start the interactive REPL")
	yellowColor.Println("  numc <path>           compile and run a source file")
	yellowColor.Println("  numc --llvmir <path>  print optimized IR for each item instead of running it")
	yellowColor.Println("  numc -v, --verbose    enable verbose diagnostics")
	yellowColor.Println("  numc -h, --help       show this help message")
	cyanColor.Println("")
	cyanColor.Printf("version %s\n", version)
}
