/*
The batch file driver: run a whole source file non-interactively and
exit 0 on success, 1 on a hard error, per spec §6's "batch driver"
contract. -check parses the file without evaluating it, for a plain
syntax check.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package main

import (
	"os"

	"github.com/bracket-lang/bracket/internal/interp"
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/parser"
	"github.com/pterm/pterm"
)

func runBatch(path string, env *lang.Environment, check bool) int {
	if check {
		return runCheck(path, env)
	}

	last, err := interp.RunFile(path, env)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	if last.IsError() {
		pterm.Error.Println(last.Literal)
		return 1
	}
	return 0
}

// runCheck parses every top-level form of path without evaluating any
// of them, reporting the first syntax error encountered.
func runCheck(path string, env *lang.Environment) int {
	src, err := os.ReadFile(path)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	lex := lexer.New(string(src), env.Ctx)
	p := parser.New(lex)
	for {
		_, isEOF, code := p.ReadForm()
		if isEOF {
			return 0
		}
		if code != parser.Success {
			pterm.Error.Println(p.Err().Error())
			return 1
		}
	}
}
