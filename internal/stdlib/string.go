package stdlib

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

const stringModule = "bracket.string"

var errSubstringRange = errors.New("substring: index out of range")

// RegisterString installs bracket.string: length, concatenation,
// substring extraction, case conversion, equality, and conversions
// to/from Bracket's numeric type.
func RegisterString(env *lang.Environment) error {
	strArg := []token.Tag{token.Str}

	if err := def(env, stringModule, "string-length", 1, false, strArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return float64(len([]rune(str(args[0])))), nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "string-append", 0, true, strArg, token.Str, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteString(str(a))
		}
		return b.String(), nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "substring", 3, false, []token.Tag{token.Str, token.Num, token.Num}, token.Str, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		r := []rune(str(args[0]))
		start, end := int(num(args[1])), int(num(args[2]))
		if start < 0 || end > len(r) || start > end {
			return nil, errSubstringRange
		}
		return string(r[start:end]), nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "string-upcase", 1, false, strArg, token.Str, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return strings.ToUpper(str(args[0])), nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "string-downcase", 1, false, strArg, token.Str, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return strings.ToLower(str(args[0])), nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "string=?", 2, true, strArg, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		for i := 1; i < len(args); i++ {
			if str(args[i]) != str(args[0]) {
				return false, nil
			}
		}
		return true, nil
	}); err != nil {
		return err
	}

	if err := def(env, stringModule, "number->string", 1, false, []token.Tag{token.Num}, token.Str, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return strconv.FormatFloat(num(args[0]), 'g', -1, 64), nil
	}); err != nil {
		return err
	}

	return def(env, stringModule, "string->number", 1, false, strArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return strconv.ParseFloat(str(args[0]), 64)
	})
}
