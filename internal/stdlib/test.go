package stdlib

import (
	"github.com/bracket-lang/bracket/internal/expander"
	"github.com/bracket-lang/bracket/internal/lang"
)

const testModule = "bracket.test"

// RegisterTest installs bracket.test: the check-expect/check-satisfied
// macros (spec §4.G "Test macros"), which expand into if/equal?/error
// calls against bracket.core.
func RegisterTest(env *lang.Environment) error {
	macros := map[string]lang.MacroExpander{
		"check-expect":    expander.CheckExpect,
		"check-satisfied": expander.CheckSatisfied,
	}
	for name, fn := range macros {
		if err := env.SetBuiltin(testModule, &lang.Builtin{
			Name: name, Kind: lang.MacroKind, Expander: fn,
			Doc: "test macro",
		}); err != nil {
			return err
		}
	}
	return nil
}
