/*
Command bracket is the CLI entry point for the Bracket interpreter: a
REPL (no file argument) or a batch file driver (-input, or a trailing
positional path), wired up exactly as the teacher's trepl/main.go wires
its own REPL -- flag-based trace level, an init file, and a pterm
welcome banner.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/stdlib"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.cmd")
}

type features []string

func (f *features) String() string     { return strings.Join(*f, ",") }
func (f *features) Set(v string) error { *f = append(*f, v); return nil }

func main() {
	input := flag.String("input", "", "Source file to run in batch mode")
	check := flag.Bool("check", false, "Parse only, do not evaluate (syntax check)")
	trace := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initFile := flag.String("init", "", "Init file of Bracket forms loaded before the REPL starts")
	var feats features
	flag.Var(&feats, "feature", "Enable a feature flag (repeatable)")
	flag.Parse()

	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*trace))

	env := lang.NewRootEnvironment(os.Stdout)
	if err := stdlib.Register(env); err != nil {
		tracer().Errorf("registering stdlib: %v", err)
		os.Exit(1)
	}
	for _, f := range feats {
		env.Ctx.EnableFeature(f)
	}

	path := *input
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if path != "" {
		os.Exit(runBatch(path, env, *check))
	}

	pterm.Info.Println("Welcome to the Bracket REPL")
	runREPL(env, *initFile)
}
