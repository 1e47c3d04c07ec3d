package stdlib

import (
	"math"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

const mathModule = "bracket.math"

// RegisterMath installs bracket.math: the arithmetic and comparison
// operators, plus a handful of single-argument numeric functions.
func RegisterMath(env *lang.Environment) error {
	numArg := []token.Tag{token.Num}

	variadic := map[string]func(args []float64) float64{
		"+": func(a []float64) float64 {
			sum := 0.0
			for _, v := range a {
				sum += v
			}
			return sum
		},
		"*": func(a []float64) float64 {
			prod := 1.0
			for _, v := range a {
				prod *= v
			}
			return prod
		},
		"-": func(a []float64) float64 {
			if len(a) == 1 {
				return -a[0]
			}
			r := a[0]
			for _, v := range a[1:] {
				r -= v
			}
			return r
		},
		"/": func(a []float64) float64 {
			if len(a) == 1 {
				return 1 / a[0]
			}
			r := a[0]
			for _, v := range a[1:] {
				r /= v
			}
			return r
		},
		"min": func(a []float64) float64 {
			m := a[0]
			for _, v := range a[1:] {
				if v < m {
					m = v
				}
			}
			return m
		},
		"max": func(a []float64) float64 {
			m := a[0]
			for _, v := range a[1:] {
				if v > m {
					m = v
				}
			}
			return m
		},
	}
	for name, op := range variadic {
		op := op
		minArgs := 1
		if name == "+" || name == "*" {
			minArgs = 0
		}
		if err := def(env, mathModule, name, minArgs, true, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			vals := make([]float64, len(args))
			for i, a := range args {
				vals[i] = num(a)
			}
			return op(vals), nil
		}); err != nil {
			return err
		}
	}

	compares := map[string]func(a, b float64) bool{
		"=":  func(a, b float64) bool { return a == b },
		"<":  func(a, b float64) bool { return a < b },
		">":  func(a, b float64) bool { return a > b },
		"<=": func(a, b float64) bool { return a <= b },
		">=": func(a, b float64) bool { return a >= b },
	}
	for name, cmp := range compares {
		cmp := cmp
		if err := def(env, mathModule, name, 2, true, numArg, token.Bool, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			for i := 0; i+1 < len(args); i++ {
				if !cmp(num(args[i]), num(args[i+1])) {
					return false, nil
				}
			}
			return true, nil
		}); err != nil {
			return err
		}
	}

	unary := map[string]func(float64) float64{
		"abs":      math.Abs,
		"floor":    math.Floor,
		"ceiling":  math.Ceil,
		"round":    math.Round,
		"truncate": math.Trunc,
		"sqrt":     math.Sqrt,
	}
	for name, fn := range unary {
		fn := fn
		if err := def(env, mathModule, name, 1, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			return fn(num(args[0])), nil
		}); err != nil {
			return err
		}
	}

	if err := def(env, mathModule, "expt", 2, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return math.Pow(num(args[0]), num(args[1])), nil
	}); err != nil {
		return err
	}
	if err := def(env, mathModule, "quotient", 2, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return math.Trunc(num(args[0]) / num(args[1])), nil
	}); err != nil {
		return err
	}
	if err := def(env, mathModule, "remainder", 2, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		return math.Mod(num(args[0]), num(args[1])), nil
	}); err != nil {
		return err
	}
	if err := def(env, mathModule, "modulo", 2, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
		a, b := num(args[0]), num(args[1])
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	}); err != nil {
		return err
	}

	return registerTrig(env)
}

const trigModule = "bracket.math.trig"

// registerTrig installs bracket.math.trig, the ordinary circular
// trigonometric functions over radians.
func registerTrig(env *lang.Environment) error {
	numArg := []token.Tag{token.Num}
	trig := map[string]func(float64) float64{
		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"asin": math.Asin,
		"acos": math.Acos,
		"atan": math.Atan,
	}
	for name, fn := range trig {
		fn := fn
		if err := def(env, trigModule, name, 1, false, numArg, token.Num, func(args []interface{}, _ *lang.Environment) (interface{}, error) {
			return fn(num(args[0])), nil
		}); err != nil {
			return err
		}
	}
	return nil
}
