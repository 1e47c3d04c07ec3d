/*
Package interp implements Bracket's program driver (component I): the
read -> expand -> evaluate pipeline applied to a whole source text or a
single incremental form, in the shape of the teacher's
terexlang.Parse + terexlang.AST + terexlang.QuoteAST + terex.Eval chain
as wired together by trepl's Intp.Eval.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package interp

import (
	"fmt"
	"os"

	"github.com/bracket-lang/bracket/internal/eval"
	"github.com/bracket-lang/bracket/internal/expander"
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/parser"
	"github.com/bracket-lang/bracket/internal/token"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.interp")
}

// Result is one top-level form's outcome: its value token and, if that
// value is an Error (from parsing, expansion, or evaluation), the
// matching Go error.
type Result struct {
	Value token.Token
	Err   error
}

// Run parses, expands, and evaluates every top-level form of source in
// env, in order. A syntax Error in one form does not prevent later
// forms from running (spec §7: "the driver continues with the next
// top-level form after an Error"); an Incomplete result (source ended
// mid-form) stops the run and is returned as Run's error, since there
// is no more source to complete it with.
func Run(source string, env *lang.Environment) ([]Result, error) {
	lex := lexer.New(source, env.Ctx)
	p := parser.New(lex)

	var results []Result
	for {
		node, isEOF, code := p.ReadForm()
		if isEOF {
			break
		}
		if code == parser.Incomplete {
			return results, fmt.Errorf("incomplete input: %w", p.Err())
		}
		if code == parser.Error {
			results = append(results, Result{Value: token.NewError(p.Err().Error()), Err: p.Err()})
			continue
		}
		results = append(results, evalForm(node, env))
	}
	return results, nil
}

// RunFile reads path and runs it as a batch program; returns the last
// non-Void result (spec §4.I "Values consumed by callers": batch mode
// surfaces only the final value) and the first hard error encountered.
func RunFile(path string, env *lang.Environment) (token.Token, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return token.Token{}, fmt.Errorf("reading %s: %w", path, err)
	}
	results, err := Run(string(src), env)
	if err != nil {
		return token.Token{}, err
	}
	var last token.Token
	for _, r := range results {
		if r.Err != nil {
			return r.Value, r.Err
		}
		if r.Value.Tag != token.Void {
			last = r.Value
		}
	}
	return last, nil
}

// ReadEvalForm parses exactly one form starting at the parser's current
// position and evaluates it -- the REPL's incremental-read entry point
// (spec §6 "core exposes a readForm operation").
func ReadEvalForm(p *parser.Parser, env *lang.Environment) (node lang.Node, isEOF bool, result Result, code parser.ExitCode) {
	n, isEOF, readCode := p.ReadForm()
	if isEOF || readCode != parser.Success {
		return nil, isEOF, Result{}, readCode
	}
	return n, false, evalForm(n, env), parser.Success
}

func evalForm(node lang.Node, env *lang.Environment) Result {
	expanded, err := expander.Expand(node, env)
	if err != nil {
		tracer().Errorf("macro expansion failed: %v", err)
		return Result{Value: token.NewError(err.Error(), node.Pos()), Err: err}
	}
	val := eval.Eval(expanded, env)
	if val.IsError() {
		err := fmt.Errorf("%s", val.Literal)
		env.Error(err)
		return Result{Value: val, Err: err}
	}
	return Result{Value: val}
}
