package stdlib

import (
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

// def registers a single Function builtin into module, reducing the
// boilerplate of a repeated struct literal across the numeric/list/
// string tables below, in the spirit of the teacher's env.Defn(name,
// func) one-liner registrations in trepl/repl.go's makeTreeOps.
func def(env *lang.Environment, module, name string, minArgs int, variadic bool, argTypes []token.Tag, retType token.Tag, fn lang.Func) error {
	return env.SetBuiltin(module, &lang.Builtin{
		Name:     name,
		Kind:     lang.FunctionKind,
		MinArgs:  minArgs,
		Variadic: variadic,
		ArgTypes: argTypes,
		RetType:  retType,
		Fn:       fn,
	})
}

func defRaw(env *lang.Environment, module, name string, minArgs int, variadic bool, argTypes []token.Tag, raw []string, retType token.Tag, fn lang.Func) error {
	return env.SetBuiltin(module, &lang.Builtin{
		Name:     name,
		Kind:     lang.FunctionKind,
		MinArgs:  minArgs,
		Variadic: variadic,
		ArgTypes: argTypes,
		Raw:      raw,
		RetType:  retType,
		Fn:       fn,
	})
}

func num(v interface{}) float64 { return v.(float64) }
func str(v interface{}) string  { return v.(string) }
