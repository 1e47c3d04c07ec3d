package stdlib

import (
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

const ioModule = "bracket.io"

// RegisterIO installs bracket.io: display (write a value's rendering to
// the environment's output sink, no trailing newline), newline, and
// display-line (display followed by newline).
func RegisterIO(env *lang.Environment) error {
	anyArg := []token.Tag{token.Any}
	anyRaw := []string{"token"}

	if err := defRaw(env, ioModule, "display", 1, false, anyArg, anyRaw, token.Void, func(args []interface{}, e *lang.Environment) (interface{}, error) {
		_, err := e.Write([]byte(args[0].(token.Token).ListRenderString()))
		return nil, err
	}); err != nil {
		return err
	}

	if err := def(env, ioModule, "newline", 0, false, nil, token.Void, func(_ []interface{}, e *lang.Environment) (interface{}, error) {
		_, err := e.Write([]byte("\n"))
		return nil, err
	}); err != nil {
		return err
	}

	return defRaw(env, ioModule, "display-line", 1, false, anyArg, anyRaw, token.Void, func(args []interface{}, e *lang.Environment) (interface{}, error) {
		if _, err := e.Write([]byte(args[0].(token.Token).ListRenderString())); err != nil {
			return nil, err
		}
		_, err := e.Write([]byte("\n"))
		return nil, err
	})
}
