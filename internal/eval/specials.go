package eval

import (
	"errors"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

var errNotAnIdentParam = errors.New("every parameter must be an identifier")

// The functions in this file implement spec §4.H's "Special forms
// (contracts)" table: if, define, lambda, set!. Each has the
// lang.SpecialFn shape and receives its arguments unevaluated, deciding
// its own evaluation order.

// isTruthy implements Bracket's single falsy value: #f. Everything else
// -- 0, "", an empty list, void -- is truthy.
func isTruthy(t token.Token) bool {
	if t.Tag != token.Bool {
		return true
	}
	b, _ := t.Value.(bool)
	return b
}

// If evaluates exactly (if test then else).
func If(args []lang.Node, env *lang.Environment, meta token.Meta) token.Token {
	if len(args) != 3 {
		return token.NewError("if requires exactly 3 arguments: test, then, else", meta.Position)
	}
	test := Eval(args[0], env)
	if test.IsError() {
		return test
	}
	if isTruthy(test) {
		return Eval(args[1], env)
	}
	return Eval(args[2], env)
}

// Define implements both forms: `(define id expr)` and
// `(define (f params...) body...)`.
func Define(args []lang.Node, env *lang.Environment, meta token.Meta) token.Token {
	if len(args) < 1 {
		return token.NewError("define requires at least a target", meta.Position)
	}
	switch head := args[0].(type) {
	case *lang.Literal:
		if !head.IsIdent() {
			return token.NewError("define target must be an identifier or a procedure header", meta.Position)
		}
		if len(args) != 2 {
			return token.NewError("define id form requires exactly one value expression", meta.Position)
		}
		sym := token.Intern(head.Tok.Literal)
		val := Eval(args[1], env)
		if val.IsError() {
			return val
		}
		env.Define(sym, lang.NewLiteral(val))
		return token.NewVoid(meta.Position)
	case *lang.SExpr:
		if head.Empty() {
			return token.NewError("define procedure header must name the procedure", meta.Position)
		}
		nameLit, ok := head.First().(*lang.Literal)
		if !ok || !nameLit.IsIdent() {
			return token.NewError("define procedure header's first element must be an identifier", meta.Position)
		}
		name := nameLit.Tok.Literal
		sym := token.Intern(name)
		params, err := paramSymbols(head.Rest().Children)
		if err != nil {
			return token.NewError(err.Error(), meta.Position)
		}
		body := args[1:]
		if len(body) == 0 {
			return token.NewError("define procedure requires at least one body form", meta.Position)
		}
		// Pre-bind the name to Void so a recursive call inside body resolves
		// through the closure once the real Procedure below replaces it.
		env.Define(sym, lang.NewLiteral(token.NewVoid()))
		proc := lang.NewProcedure(name, params, body, env, meta.Position)
		env.Define(sym, proc)
		return token.NewVoid(meta.Position)
	default:
		return token.NewError("define target must be an identifier or a procedure header", meta.Position)
	}
}

// Lambda implements `(lambda (params...) body...)`.
func Lambda(args []lang.Node, env *lang.Environment, meta token.Meta) token.Token {
	if len(args) < 2 {
		return token.NewError("lambda requires a parameter list and at least one body form", meta.Position)
	}
	paramList, ok := args[0].(*lang.SExpr)
	if !ok {
		return token.NewError("lambda's first argument must be a parameter list", meta.Position)
	}
	params, err := paramSymbols(paramList.Children)
	if err != nil {
		return token.NewError(err.Error(), meta.Position)
	}
	body := args[1:]
	proc := lang.NewProcedure("", params, body, env, meta.Position)
	return token.NewProcedure(proc, meta.Position)
}

func paramSymbols(nodes []lang.Node) ([]*token.RuntimeSymbol, error) {
	params := make([]*token.RuntimeSymbol, len(nodes))
	for i, n := range nodes {
		lit, ok := n.(*lang.Literal)
		if !ok || !lit.IsIdent() {
			return nil, errNotAnIdentParam
		}
		params[i] = token.Intern(lit.Tok.Literal)
	}
	return params, nil
}

// Set implements `(set! id expr)`, mutating the nearest enclosing
// binding of id.
func Set(args []lang.Node, env *lang.Environment, meta token.Meta) token.Token {
	if len(args) != 2 {
		return token.NewError("set! requires exactly an identifier and a value expression", meta.Position)
	}
	lit, ok := args[0].(*lang.Literal)
	if !ok || !lit.IsIdent() {
		return token.NewError("set! target must be an identifier", meta.Position)
	}
	sym := token.Intern(lit.Tok.Literal)
	val := Eval(args[1], env)
	if val.IsError() {
		return val
	}
	if !env.Set(sym, lang.NewLiteral(val)) {
		return token.NewError("set!: cannot set variable before its definition", meta.Position)
	}
	return token.NewVoid(meta.Position)
}
