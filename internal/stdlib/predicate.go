package stdlib

import (
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

const predicateModule = "bracket.predicate"

// RegisterPredicate installs bracket.predicate: type tests and the
// zero/positive/negative numeric tests.
func RegisterPredicate(env *lang.Environment) error {
	anyArg := []token.Tag{token.Any}
	anyRaw := []string{"token"}

	tagTests := map[string]token.Tag{
		"number?":    token.Num,
		"string?":    token.Str,
		"boolean?":   token.Bool,
		"symbol?":    token.Sym,
		"char?":      token.Char,
		"procedure?": token.Procedure,
		"void?":      token.Void,
	}
	for name, tag := range tagTests {
		tag := tag
		if err := defRaw(env, predicateModule, name, 1, false, anyArg, anyRaw, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			t := args[0].(token.Token)
			if tag == token.Procedure {
				return t.Tag == token.Procedure || t.Tag == token.Ident, nil
			}
			return t.Tag == tag, nil
		}); err != nil {
			return err
		}
	}

	numArg := []token.Tag{token.Num}
	numTests := map[string]func(float64) bool{
		"zero?":     func(f float64) bool { return f == 0 },
		"positive?": func(f float64) bool { return f > 0 },
		"negative?": func(f float64) bool { return f < 0 },
		"odd?":      func(f float64) bool { return int64(f)%2 != 0 },
		"even?":     func(f float64) bool { return int64(f)%2 == 0 },
	}
	for name, fn := range numTests {
		fn := fn
		if err := def(env, predicateModule, name, 1, false, numArg, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			return fn(num(args[0])), nil
		}); err != nil {
			return err
		}
	}

	return nil
}
