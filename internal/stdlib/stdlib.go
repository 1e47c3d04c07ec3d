package stdlib

import "github.com/bracket-lang/bracket/internal/lang"

// Register installs every builtin module (bracket.core, bracket.math,
// bracket.math.trig, bracket.list, bracket.string, bracket.predicate,
// bracket.io, bracket.test) into env's shared registry. RegisterMath
// registers bracket.math.trig itself, since the trig module is a
// dotted extension of the same concern.
func Register(env *lang.Environment) error {
	registrars := []func(*lang.Environment) error{
		RegisterCore,
		RegisterMath,
		RegisterList,
		RegisterString,
		RegisterPredicate,
		RegisterIO,
		RegisterTest,
	}
	for _, r := range registrars {
		if err := r(env); err != nil {
			return err
		}
	}
	tracer().Debugf("registered %d bracket stdlib modules", len(env.Builtins.ModuleNames()))
	return nil
}
