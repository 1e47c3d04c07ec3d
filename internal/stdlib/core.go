/*
Package stdlib registers Bracket's builtin modules (component F content)
into a lang.Registry: bracket.core, bracket.math, bracket.math.trig,
bracket.list, bracket.string, bracket.predicate, bracket.io, bracket.test.
Each module is a Register(env) function, in the spirit of the teacher's
trepl.makeTreeOps(env) registering ad-hoc commands onto an environment.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package stdlib

import (
	"github.com/bracket-lang/bracket/internal/eval"
	"github.com/bracket-lang/bracket/internal/expander"
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.stdlib")
}

const coreModule = "bracket.core"

// RegisterCore installs the special forms, macros, and constants every
// Bracket program needs: if/define/lambda/set!, nine of the builtin
// macros from internal/expander (check-expect and check-satisfied are
// registered by RegisterTest), and #t/#f/void.
func RegisterCore(env *lang.Environment) error {
	specials := map[string]lang.SpecialFn{
		"if":     eval.If,
		"define": eval.Define,
		"lambda": eval.Lambda,
		"set!":   eval.Set,
	}
	for name, fn := range specials {
		if err := env.SetBuiltin(coreModule, &lang.Builtin{
			Name: name, Kind: lang.SpecialKind, SpecialFn: fn,
			Doc: "special form",
		}); err != nil {
			return err
		}
	}

	macros := map[string]lang.MacroExpander{
		"and":    expander.And,
		"or":     expander.Or,
		"when":   expander.When,
		"unless": expander.Unless,
		"cond":   expander.Cond,
		"begin":  expander.Begin,
		"let":    expander.Let,
		"swap!":  expander.Swap,
		"local":  expander.Local,
	}
	for name, fn := range macros {
		if err := env.SetBuiltin(coreModule, &lang.Builtin{
			Name: name, Kind: lang.MacroKind, Expander: fn,
			Doc: "macro",
		}); err != nil {
			return err
		}
	}

	constants := []struct {
		name string
		tok  token.Token
	}{
		{"#t", token.NewBool(true)},
		{"#f", token.NewBool(false)},
		{"void", token.NewVoid()},
	}
	for _, c := range constants {
		if err := env.SetBuiltin(coreModule, &lang.Builtin{
			Name: c.name, Kind: lang.ConstantKind, Value: c.tok,
		}); err != nil {
			return err
		}
	}

	return registerCoreFunctions(env)
}
