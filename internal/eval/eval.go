/*
Package eval implements Bracket's evaluator (component H): a
native-Go-stack recursive interpreter over the already-macro-expanded
AST, modeled on the teacher's `terex/eval.go` Eval/evalList/evalAtom
shape (atom-vs-list dispatch, environment-based symbol resolution).

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package eval

import (
	"fmt"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.eval")
}

// callStack is a process-wide diagnostic call chain (procedure name,
// call-site position), consulted only to build readable error messages
// ("in call to fact, called from ...") — never for control flow, since
// Bracket has no continuations (spec Non-goals).
var callStack = arraystack.New()

type frame struct {
	Name string
	Pos  token.Position
}

func pushFrame(name string, pos token.Position) { callStack.Push(frame{Name: name, Pos: pos}) }
func popFrame()                                 { callStack.Pop() }

// CallStackTrace renders the current diagnostic call chain, innermost
// call first, for inclusion in an error message.
func CallStackTrace() string {
	s := ""
	it := callStack.Values() // LIFO order: the innermost frame comes first
	for i := 0; i < len(it); i++ {
		f := it[i].(frame)
		s += fmt.Sprintf("  in call to %s (at %d:%d)\n", f.Name, f.Pos.Row+1, f.Pos.Col+1)
	}
	return s
}

// Eval evaluates an already-expanded AST node in env, per spec §4.H.
func Eval(n lang.Node, env *lang.Environment) token.Token {
	switch v := n.(type) {
	case *lang.Literal:
		return evalLiteral(v, env)
	case *lang.Procedure:
		return token.NewProcedure(v, v.Pos())
	case *lang.SExpr:
		return evalSExpr(v, env)
	default:
		return token.NewError("eval: unknown node kind", n.Pos())
	}
}

func evalLiteral(lit *lang.Literal, env *lang.Environment) token.Token {
	tok := lit.Tok
	if tok.Tag != token.Ident {
		return tok
	}
	sym := token.Intern(tok.Literal)
	if bound, ok := env.Get(sym); ok {
		return nodeToken(bound, tok.Meta.Position)
	}
	if b, ok := env.LookupBuiltin(tok.Literal); ok {
		switch b.Kind {
		case lang.ConstantKind:
			return b.Value.At(tok.Meta.Position)
		case lang.SpecialKind:
			return b.SpecialFn(nil, env, tok.Meta)
		default:
			return tok
		}
	}
	return token.NewError(fmt.Sprintf("undefined identifier: %s", tok.Literal), tok.Meta.Position)
}

// nodeToken extracts the Token a bound environment entry represents: a
// Literal's wrapped token, or a Procedure wrapped as a Procedure token.
func nodeToken(n lang.Node, pos token.Position) token.Token {
	switch v := n.(type) {
	case *lang.Literal:
		return v.Tok
	case *lang.Procedure:
		return token.NewProcedure(v, pos)
	default:
		return token.NewError("internal: unrenderable binding", pos)
	}
}

func evalSExpr(s *lang.SExpr, env *lang.Environment) token.Token {
	if s.Empty() {
		return token.NewError("illegal empty application", s.Pos())
	}
	head := s.First()

	if lit, ok := head.(*lang.Literal); ok && lit.IsIdent() {
		name := lit.Tok.Literal
		if b, found := env.LookupBuiltin(name); found {
			switch b.Kind {
			case lang.ConstantKind:
				return token.NewError(fmt.Sprintf("%s is a constant, not callable", name), s.Pos())
			case lang.SpecialKind:
				return b.SpecialFn(s.Rest().Children, env, token.Meta{Position: s.Pos()})
			case lang.MacroKind:
				return token.NewError(fmt.Sprintf("internal error: macro %q reached the evaluator unexpanded", name), s.Pos())
			case lang.FunctionKind:
				return dispatchFunction(b, s.Rest().Children, env, s.Pos())
			}
		}
		sym := token.Intern(name)
		bound, ok := env.Get(sym)
		if !ok {
			return token.NewError(fmt.Sprintf("undefined identifier: %s", name), s.Pos())
		}
		proc, ok := procedureOf(bound)
		if !ok {
			return token.NewError(fmt.Sprintf("%s is not callable", name), s.Pos())
		}
		return applyProcedure(proc, s.Rest().Children, env, s.Pos())
	}

	headTok := Eval(head, env)
	if headTok.IsError() {
		return headTok
	}
	if headTok.Tag != token.Procedure {
		return token.NewError("head of application is not callable", s.Pos())
	}
	proc, _ := headTok.Value.(*lang.Procedure)
	return applyProcedure(proc, s.Rest().Children, env, s.Pos())
}

func procedureOf(n lang.Node) (*lang.Procedure, bool) {
	switch v := n.(type) {
	case *lang.Procedure:
		return v, true
	case *lang.Literal:
		if v.Tok.Tag == token.Procedure {
			p, ok := v.Tok.Value.(*lang.Procedure)
			return p, ok
		}
	}
	return nil, false
}

// applyProcedure evaluates argNodes left to right in callerEnv and
// applies proc to the resulting tokens (spec §4.H "Procedure
// application").
func applyProcedure(proc *lang.Procedure, argNodes []lang.Node, callerEnv *lang.Environment, pos token.Position) token.Token {
	args := make([]token.Token, len(argNodes))
	for i, a := range argNodes {
		t := Eval(a, callerEnv)
		if t.IsError() {
			return t
		}
		args[i] = t
	}
	return ApplyTokens(proc, args, pos)
}

// ApplyTokens applies proc to already-evaluated argument tokens — the
// shared path used both by direct application and by a Callable view
// handed to a higher-order builtin (spec §4.H "callable view").
func ApplyTokens(proc *lang.Procedure, args []token.Token, pos token.Position) token.Token {
	if len(args) != len(proc.Params) {
		return token.NewError(fmt.Sprintf("procedure %s expects %d argument(s), got %d", procName(proc), len(proc.Params), len(args)), pos)
	}
	pushFrame(procName(proc), pos)
	defer popFrame()

	child := lang.NewEnvironment(procName(proc), proc.Closure)
	for i, p := range proc.Params {
		child.Define(p, lang.NewLiteral(args[i]))
	}
	var result token.Token
	for _, form := range proc.Body {
		result = Eval(form, child)
		if result.IsError() {
			return result
		}
	}
	return result
}

func procName(proc *lang.Procedure) string {
	if proc.Name == "" {
		return "#<anonymous>"
	}
	return proc.Name
}
