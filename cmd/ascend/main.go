// Command ascend is a small debug driver over this module's
// code-generation core: it has no text-format parser of its own (that is
// explicitly out of scope for the core, see SPEC_FULL.md §1), so "compile"
// runs one of a handful of built-in fixture programs through Compile and
// writes the resulting WebAssembly binary, the way cmd/wazero's "compile"
// subcommand exists to exercise the runtime rather than to be a general
// toolchain front end.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ascendlang/ascend"
)

const version = "0.1.0"

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated from main for unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "Prints usage.")
	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		return 0
	}

	switch subCmd := flag.Arg(0); subCmd {
	case "compile":
		return doCompile(flag.Args()[1:], stdErr)
	case "version":
		fmt.Fprintln(stdOut, version)
		return 0
	default:
		fmt.Fprintf(stdErr, "invalid command %q\n", subCmd)
		printUsage(stdErr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ascend - a WebAssembly code generator for the Ascend surface language")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:\tascend <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "\tcompile\tCompiles a built-in fixture program and writes it as a wasm binary.")
	fmt.Fprintln(w, "\tversion\tPrints the version.")
}

func doCompile(args []string, stdErr io.Writer) int {
	flags := flag.NewFlagSet("compile", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "Prints usage.")

	var fixtureName string
	flags.StringVar(&fixtureName, "fixture", "", "Name of the built-in fixture program to compile. Run with -h to list them.")

	var outPath string
	flags.StringVar(&outPath, "o", "", "Output path for the compiled wasm binary. Defaults to stdout.")

	var wasm64 bool
	flags.BoolVar(&wasm64, "wasm64", false, "Resolves usize as a 64-bit pointer width instead of the default 32-bit.")

	var noTreeShaking bool
	flags.BoolVar(&noTreeShaking, "no-tree-shaking", false, "Compiles every top-level declaration instead of only what is reachable from an export.")

	_ = flags.Parse(args)

	if help || fixtureName == "" {
		fmt.Fprintln(stdErr, "Usage:\tascend compile -fixture <name> [-o <path>] [-wasm64] [-no-tree-shaking]")
		fmt.Fprintln(stdErr)
		fmt.Fprintln(stdErr, "Available fixtures:")
		for _, name := range fixtureNames() {
			fmt.Fprintf(stdErr, "\t%s\n", name)
		}
		if fixtureName == "" {
			return 1
		}
		return 0
	}

	p, ok := fixture(fixtureName)
	if !ok {
		fmt.Fprintf(stdErr, "unknown fixture %q\n", fixtureName)
		return 1
	}

	config := ascend.NewCompilerConfig()
	if wasm64 {
		config = config.WithTarget(targetWasm64())
	}
	if noTreeShaking {
		config = config.WithNoTreeShaking()
	}

	result := ascend.Compile(p, config)
	for _, d := range result.Diagnostics.Diagnostics() {
		fmt.Fprintln(stdErr, d.String())
	}
	if result.Diagnostics.HasErrors() {
		return 1
	}

	out := result.Module.Encode()
	if outPath == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			fmt.Fprintf(stdErr, "error writing wasm binary: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		fmt.Fprintf(stdErr, "error writing wasm binary: %v\n", err)
		return 1
	}
	return 0
}
