package stdlib

import (
	"strconv"
	"strings"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

func registerCoreFunctions(env *lang.Environment) error {
	tokenArg := []token.Tag{token.Any}
	tokenRaw := []string{"token"}

	if err := defRaw(env, coreModule, "not", 1, false, tokenArg, tokenRaw, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return !truthy(args[0].(token.Token)), nil
	}); err != nil {
		return err
	}
	if err := defRaw(env, coreModule, "equal?", 2, false, tokenArg, tokenRaw, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return tokensEqual(args[0].(token.Token), args[1].(token.Token)), nil
	}); err != nil {
		return err
	}
	if err := defRaw(env, coreModule, "eq?", 2, false, tokenArg, tokenRaw, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return tokensIdentical(args[0].(token.Token), args[1].(token.Token)), nil
	}); err != nil {
		return err
	}
	if err := defRaw(env, coreModule, "error", 1, true, tokenArg, tokenRaw, token.Any, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.(token.Token).ListRenderString()
		}
		return token.NewError(strings.Join(parts, " ")), nil
	}); err != nil {
		return err
	}

	// gensym exposes token.Gensym to user code (it already backs swap!'s
	// internally-generated temporary, internal/expander/builtins.go); two
	// calls with the same base name are never eq? (spec §8 scenario 8).
	return def(env, coreModule, "gensym", 0, true, []token.Tag{token.Str}, token.Sym, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		base := "g"
		if len(args) > 0 {
			base = str(args[0])
		}
		return token.Gensym(base), nil
	})
}

// truthy mirrors internal/eval's isTruthy: #f is the only falsy value.
func truthy(t token.Token) bool {
	if t.Tag != token.Bool {
		return true
	}
	b, _ := t.Value.(bool)
	return b
}

// tokensEqual implements equal?'s deep structural comparison.
func tokensEqual(a, b token.Token) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case token.Num:
		fa, erra := strconv.ParseFloat(a.Literal, 64)
		fb, errb := strconv.ParseFloat(b.Literal, 64)
		if erra != nil || errb != nil {
			return a.Literal == b.Literal
		}
		return fa == fb
	case token.Str, token.Sym:
		return a.Literal == b.Literal
	case token.Bool, token.Char:
		return a.Value == b.Value
	case token.Void:
		return true
	case token.List:
		la, lb := a.List(), b.List()
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !tokensEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	default:
		return a.Literal == b.Literal
	}
}

// tokensIdentical implements eq?'s identity comparison: symbols compare
// by interned Id, everything else falls back to equal?'s value compare
// (Bracket has no mutable pairs to make eq?/equal? diverge further).
func tokensIdentical(a, b token.Token) bool {
	if a.Tag == token.Sym && b.Tag == token.Sym {
		sa, sb := a.Sym(), b.Sym()
		if sa == nil || sb == nil {
			return sa == sb
		}
		return sa.Eq(sb)
	}
	return tokensEqual(a, b)
}
