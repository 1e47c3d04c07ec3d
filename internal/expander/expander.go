/*
Package expander implements Bracket's macro expander (component G): a
fixed-point AST rewrite pass modeled on the teacher's `terex/termr`
Rewriter shape (`func(*GCons, *Environment) Element`), dispatched here by
a bound macro identifier rather than by grammar symbol, since Bracket
has no grammar layer to key off of.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package expander

import (
	"fmt"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.expander")
}

// maxRounds bounds the fixpoint loop so a misbehaving (non-terminating)
// macro fails loudly instead of hanging the interpreter.
const maxRounds = 200

// Expand rewrites n to a fixpoint: each round applies every bound macro
// once (spec §4.G); rounds repeat until a round's structural hash
// matches the previous round's, which is P3's fixpoint property.
func Expand(n lang.Node, env *lang.Environment) (lang.Node, error) {
	cur := n
	prevHash := hashOf(cur)
	for round := 0; round < maxRounds; round++ {
		next := expandPass(cur, env)
		h := hashOf(next)
		if h == prevHash {
			return next, nil
		}
		prevHash = h
		cur = next
	}
	return cur, fmt.Errorf("expander: macro expansion of %s did not reach a fixpoint after %d rounds", n.String(), maxRounds)
}

// hashOf hashes a node's rendered text (not its internal struct layout,
// which may carry *Environment/func fields structhash cannot reflect
// safely over) via cnf/structhash, per spec §4.G's fixpoint-detection
// design.
func hashOf(n lang.Node) string {
	h, err := structhash.Hash(struct{ Rendered string }{Rendered: n.String()}, 1)
	if err != nil {
		return n.String()
	}
	return h
}

func expandPass(n lang.Node, env *lang.Environment) lang.Node {
	switch v := n.(type) {
	case *lang.Literal:
		return v
	case *lang.Procedure:
		return v
	case *lang.SExpr:
		return expandSExpr(v, env)
	default:
		return n
	}
}

func expandSExpr(s *lang.SExpr, env *lang.Environment) lang.Node {
	if s.Empty() {
		return s
	}
	head := expandPass(s.First(), env)
	if lit, ok := head.(*lang.Literal); ok && lit.IsIdent() {
		if b, found := env.LookupBuiltin(lit.Tok.Literal); found && b.Kind == lang.MacroKind {
			tracer().Debugf("expanding macro %s", b.Name)
			rewritten := b.Expander(s.Rest().Children, env)
			return tagMacro(rewritten, b.Name)
		}
	}
	children := make([]lang.Node, len(s.Children))
	children[0] = head
	for i := 1; i < len(s.Children); i++ {
		children[i] = expandPass(s.Children[i], env)
	}
	return lang.NewSExpr(children...)
}

// tagMacro records the originating macro's name on a synthesized node's
// metadata (spec §4.G: "records ... the __macro key"), so a future
// decompiler could trace a rewritten form back to its source macro. Only
// Literal tokens carry a Meta map; for an SExpr result the tag is
// attached to its head token, which is where a decompiler would look
// first to identify the call that produced the form.
func tagMacro(n lang.Node, macroName string) lang.Node {
	switch v := n.(type) {
	case *lang.Literal:
		v.Tok.Meta = v.Tok.Meta.With("__macro", macroName)
		return v
	case *lang.SExpr:
		if head, ok := v.First().(*lang.Literal); ok {
			head.Tok.Meta = head.Tok.Meta.With("__macro", macroName)
		}
		return v
	default:
		return n
	}
}

// --- syntax-construction helpers shared by the builtin macro rewriters --

// Ident builds a bare-identifier literal node for name, used to splice
// special-form heads (if, lambda, set!, ...) into synthesized code.
func Ident(name string) *lang.Literal {
	return lang.NewLiteral(token.NewIdent(name))
}

// Bool builds a boolean literal node.
func Bool(v bool) *lang.Literal {
	return lang.NewLiteral(token.NewBool(v))
}

// List builds an SExpr from the given nodes, skipping the variadic
// ellipsis noise at call sites (a thin, readable wrapper over
// lang.NewSExpr).
func List(nodes ...lang.Node) *lang.SExpr {
	return lang.NewSExpr(nodes...)
}
