package expander

import (
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

// The functions in this file implement the rewrite rules spec §4.G
// prescribes for Bracket's builtin macros. Each has the MacroExpander
// shape (lang.MacroExpander): it receives its call's *unexpanded*
// argument nodes and the invoking environment, and returns a
// replacement node that the expander re-expands to a fixpoint.

// And implements `(and a b c ...)`:
// zero args -> #t; one -> arg; more -> (if a (and b c ...) #f).
func And(args []lang.Node, env *lang.Environment) lang.Node {
	switch len(args) {
	case 0:
		return Bool(true)
	case 1:
		return args[0]
	default:
		return List(Ident("if"), args[0], List(append([]lang.Node{Ident("and")}, args[1:]...)...), Bool(false))
	}
}

// Or implements `(or a b c ...)`: zero -> #f; n -> (if a #t (or b c ...)).
func Or(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return Bool(false)
	}
	if len(args) == 1 {
		return args[0]
	}
	return List(Ident("if"), args[0], Bool(true), List(append([]lang.Node{Ident("or")}, args[1:]...)...))
}

// When implements `(when test body...)` -> `(if test (begin body...) #v)`.
func When(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return lang.NewLiteral(token.NewError("when requires a test expression"))
	}
	test := args[0]
	body := args[1:]
	return List(Ident("if"), test, beginOf(body), voidLiteral())
}

// Unless implements `(unless test body...)` -> `(if (not test) (begin body...) #v)`.
func Unless(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return lang.NewLiteral(token.NewError("unless requires a test expression"))
	}
	test := args[0]
	body := args[1:]
	return List(Ident("if"), List(Ident("not"), test), beginOf(body), voidLiteral())
}

// Cond implements `(cond (test expr...) ... (else expr...))` as a
// right-nested if chain. Per spec.md's explicit instruction (kept as a
// documented, intentional R7RS deviation, see SPEC_FULL.md §9 item 4):
// only the *last* form of a clause's body survives expansion — earlier
// forms in a multi-form clause are dropped, not sequenced.
func Cond(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return voidLiteral()
	}
	clause, ok := args[0].(*lang.SExpr)
	if !ok || clause.Empty() {
		return lang.NewLiteral(token.NewError("cond clause must be a non-empty list"))
	}
	rest := args[1:]
	if lit, ok := clause.First().(*lang.Literal); ok && lit.IsIdent() && lit.Tok.Literal == "else" {
		return clause.Last()
	}
	test := clause.First()
	value := clause.Last()
	if len(rest) == 0 {
		return List(Ident("if"), test, value, voidLiteral())
	}
	return List(Ident("if"), test, value, Cond(rest, env))
}

// Begin implements `(begin body...)` -> `((lambda () body...))`, with a
// single-argument passthrough (no need to allocate a closure for one
// form).
func Begin(args []lang.Node, env *lang.Environment) lang.Node {
	return beginOf(args)
}

func beginOf(body []lang.Node) lang.Node {
	if len(body) == 0 {
		return voidLiteral()
	}
	if len(body) == 1 {
		return body[0]
	}
	thunk := List(append([]lang.Node{Ident("lambda"), List()}, body...)...)
	return List(thunk)
}

// Let implements `(let ((id val) ...) body...)` ->
// `((lambda (id...) body...) val...)`.
func Let(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return lang.NewLiteral(token.NewError("let requires a binding list"))
	}
	bindings, ok := args[0].(*lang.SExpr)
	if !ok {
		return lang.NewLiteral(token.NewError("let's first argument must be a binding list"))
	}
	body := args[1:]
	var ids []lang.Node
	var vals []lang.Node
	for _, b := range bindings.Children {
		pair, ok := b.(*lang.SExpr)
		if !ok || pair.Len() != 2 {
			return lang.NewLiteral(token.NewError("each let binding must be (id value)"))
		}
		ids = append(ids, pair.First())
		vals = append(vals, pair.Last())
	}
	lambda := List(append([]lang.Node{Ident("lambda"), List(ids...)}, body...)...)
	return List(append([]lang.Node{lambda}, vals...)...)
}

// Swap implements `(swap! a b)` ->
// `(let ((t~N a)) (set! a b) (set! b t~N))`, using a fresh, uninterned
// temporary symbol so repeated expansions never collide.
func Swap(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) != 2 {
		return lang.NewLiteral(token.NewError("swap! requires exactly two arguments"))
	}
	a, b := args[0], args[1]
	tmp := token.Gensym("t")
	tmpLit := lang.NewLiteral(token.NewSym(tmp))
	binding := List(List(tmpLit, a))
	body := []lang.Node{
		List(Ident("set!"), a, b),
		List(Ident("set!"), b, tmpLit),
	}
	return List(append([]lang.Node{Ident("let"), binding}, body...)...)
}

// Local implements `(local (def...) body...)` -> `(begin def... body...)`,
// after checking that every definition head is `define`.
func Local(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) == 0 {
		return lang.NewLiteral(token.NewError("local requires a definition list"))
	}
	defs, ok := args[0].(*lang.SExpr)
	if !ok {
		return lang.NewLiteral(token.NewError("local's first argument must be a list of definitions"))
	}
	for _, d := range defs.Children {
		sx, ok := d.(*lang.SExpr)
		if !ok || sx.Empty() {
			return lang.NewLiteral(token.NewError("local definitions must be (define ...) forms"))
		}
		lit, ok := sx.First().(*lang.Literal)
		if !ok || !lit.IsIdent() || lit.Tok.Literal != "define" {
			return lang.NewLiteral(token.NewError("local definitions must begin with define"))
		}
	}
	body := args[1:]
	all := append(append([]lang.Node{}, defs.Children...), body...)
	return List(append([]lang.Node{Ident("begin")}, all...)...)
}

// CheckExpect implements `(check-expect actual expected)` ->
// `(if (equal? actual expected) #v (error "check-expect failed: ..."))`.
func CheckExpect(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) != 2 {
		return lang.NewLiteral(token.NewError("check-expect requires exactly two arguments"))
	}
	actual, expected := args[0], args[1]
	msg := lang.NewLiteral(token.NewStr("check-expect failed: " + actual.String() + " != " + expected.String()))
	return List(Ident("if"), List(Ident("equal?"), actual, expected), voidLiteral(), List(Ident("error"), msg))
}

// CheckSatisfied implements `(check-satisfied actual pred)` ->
// `(if (pred actual) #v (error "check-satisfied failed: ..."))`.
func CheckSatisfied(args []lang.Node, env *lang.Environment) lang.Node {
	if len(args) != 2 {
		return lang.NewLiteral(token.NewError("check-satisfied requires exactly two arguments"))
	}
	actual, pred := args[0], args[1]
	msg := lang.NewLiteral(token.NewStr("check-satisfied failed: " + actual.String() + " did not satisfy " + pred.String()))
	return List(Ident("if"), List(pred, actual), voidLiteral(), List(Ident("error"), msg))
}

func voidLiteral() *lang.Literal {
	return lang.NewLiteral(token.NewVoid())
}
