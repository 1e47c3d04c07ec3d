package stdlib

import (
	"errors"

	"github.com/bracket-lang/bracket/internal/eval"
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

const listModule = "bracket.list"

var errEmptyList = errors.New("cdr: empty list")

// RegisterList installs bracket.list: construction, access, and
// predicate operations over Bracket's List token (an ordered token
// sequence, produced by `'(...)` quoting or by `list`).
func RegisterList(env *lang.Environment) error {
	anyRaw := []string{"token"}
	anyArg := []token.Tag{token.Any}

	if err := defRaw(env, listModule, "list", 0, true, anyArg, anyRaw, token.List, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		items := make([]token.Token, len(args))
		for i, a := range args {
			items[i] = a.(token.Token)
		}
		return items, nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "cons", 2, false, []token.Tag{token.Any, token.List}, []string{"token", "token"}, token.List, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		head := args[0].(token.Token)
		tail := args[1].(token.Token).List()
		items := make([]token.Token, 0, len(tail)+1)
		items = append(items, head)
		items = append(items, tail...)
		return items, nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "car", 1, false, []token.Tag{token.List}, []string{"token"}, token.Any, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		items := args[0].(token.Token).List()
		if len(items) == 0 {
			return token.NewError("car: empty list"), nil
		}
		return items[0], nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "cdr", 1, false, []token.Tag{token.List}, []string{"token"}, token.List, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		items := args[0].(token.Token).List()
		if len(items) == 0 {
			return nil, errEmptyList
		}
		return append([]token.Token{}, items[1:]...), nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "length", 1, false, []token.Tag{token.List}, []string{"token"}, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return float64(len(args[0].(token.Token).List())), nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "append", 0, true, []token.Tag{token.List}, []string{"token"}, token.List, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		var out []token.Token
		for _, a := range args {
			out = append(out, a.(token.Token).List()...)
		}
		return out, nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "reverse", 1, false, []token.Tag{token.List}, []string{"token"}, token.List, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		items := args[0].(token.Token).List()
		out := make([]token.Token, len(items))
		for i, t := range items {
			out[len(items)-1-i] = t
		}
		return out, nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "list-ref", 2, false, []token.Tag{token.List, token.Num}, []string{"token", "normal"}, token.Any, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		items := args[0].(token.Token).List()
		idx := int(args[1].(float64))
		if idx < 0 || idx >= len(items) {
			return token.NewError("list-ref: index out of range"), nil
		}
		return items[idx], nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "null?", 1, false, []token.Tag{token.List}, []string{"token"}, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return len(args[0].(token.Token).List()) == 0, nil
	}); err != nil {
		return err
	}

	if err := defRaw(env, listModule, "pair?", 1, false, anyArg, anyRaw, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		t := args[0].(token.Token)
		return t.Tag == token.List && len(t.List()) > 0, nil
	}); err != nil {
		return err
	}

	// map hands its Procedure argument through eval.MakeCallable's
	// "callable view" (spec §4.H), so it applies equally to a user
	// lambda and to a registered Function builtin passed by name.
	return defRaw(env, listModule, "map", 2, false,
		[]token.Tag{token.Procedure, token.List},
		[]string{"normal", "token"},
		token.List,
		func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			fn := args[0].(eval.Callable)
			items := args[1].(token.Token).List()
			out := make([]token.Token, len(items))
			for i, item := range items {
				result := fn.Call([]token.Token{item})
				if result.IsError() {
					return nil, errors.New(result.Literal)
				}
				out[i] = result
			}
			return out, nil
		})
}
