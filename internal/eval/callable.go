package eval

import (
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

// Callable is the view a Procedure-typed builtin argument is handed
// through, so a higher-order function like `map` can invoke either a
// user Procedure or a registered builtin function identically (spec
// §4.H "callable view").
type Callable interface {
	Call(args []token.Token) token.Token
}

// MakeCallable resolves tok (a Procedure token or a bare Ident naming a
// builtin function) into a Callable, at the position the argument was
// passed. Returns (nil, errorToken) on failure.
func MakeCallable(tok token.Token, env *lang.Environment) (Callable, token.Token) {
	switch tok.Tag {
	case token.Procedure:
		proc, ok := tok.Value.(*lang.Procedure)
		if !ok {
			return nil, token.NewError("internal: Procedure token without a Procedure value", tok.Meta.Position)
		}
		return procCallable{proc: proc}, token.Token{}
	case token.Ident:
		name := tok.Literal
		if b, found := env.LookupBuiltin(name); found && b.Kind == lang.FunctionKind {
			return builtinCallable{b: b, env: env}, token.Token{}
		}
		sym := token.Intern(name)
		if bound, ok := env.Get(sym); ok {
			if p, ok := procedureOf(bound); ok {
				return procCallable{proc: p}, token.Token{}
			}
		}
		return nil, token.NewError("identifier does not name a callable: "+name, tok.Meta.Position)
	default:
		return nil, token.NewError("value is not callable", tok.Meta.Position)
	}
}

type procCallable struct{ proc *lang.Procedure }

func (c procCallable) Call(args []token.Token) token.Token {
	return ApplyTokens(c.proc, args, c.proc.Pos())
}

type builtinCallable struct {
	b   *lang.Builtin
	env *lang.Environment
}

func (c builtinCallable) Call(args []token.Token) token.Token {
	return dispatchOnTokens(c.b, args, c.env, token.NoPosition)
}
