package eval

import (
	"fmt"
	"strconv"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

// dispatchFunction implements spec §4.F's argument-handling contract for
// a Function builtin, starting from the call's unevaluated argument
// nodes (so that Ident-typed parameters can bypass evaluation per
// §4.H's evaluator rule).
func dispatchFunction(b *lang.Builtin, argNodes []lang.Node, env *lang.Environment, pos token.Position) token.Token {
	if len(argNodes) < b.MinArgs {
		return token.NewError(fmt.Sprintf("%s requires at least %d argument(s), got %d", b.Name, b.MinArgs, len(argNodes)), pos)
	}
	if !b.Variadic && len(argNodes) > b.MinArgs {
		return token.NewError(fmt.Sprintf("%s takes exactly %d argument(s), got %d", b.Name, b.MinArgs, len(argNodes)), pos)
	}

	toks := make([]token.Token, len(argNodes))
	for i, an := range argNodes {
		if b.TypeAt(i) == token.Ident {
			lit, ok := an.(*lang.Literal)
			if !ok || lit.Tok.Tag != token.Ident {
				return token.NewError(fmt.Sprintf("%s: argument %d must be an identifier", b.Name, i+1), pos)
			}
			toks[i] = lit.Tok
			continue
		}
		t := Eval(an, env)
		if t.IsError() {
			return t
		}
		toks[i] = t
	}
	return dispatchOnTokens(b, toks, env, pos)
}

// dispatchOnTokens runs the type-check/coercion/invoke steps (spec §4.F
// steps 2-7) over already-evaluated argument tokens — shared with
// builtinCallable.Call, whose caller has already evaluated its tokens.
func dispatchOnTokens(b *lang.Builtin, toks []token.Token, env *lang.Environment, pos token.Position) token.Token {
	args := make([]interface{}, len(toks))
	for i, t := range toks {
		expected := b.TypeAt(i)
		switch expected {
		case token.Ident:
			args[i] = t
		case token.Any:
			if !b.RawAt(i) {
				return token.NewError(fmt.Sprintf("%s: argument %d declared Any must be raw", b.Name, i+1), pos)
			}
			args[i] = t
		case token.Procedure:
			if t.Tag != token.Procedure && t.Tag != token.Ident {
				return token.NewError(fmt.Sprintf("%s: argument %d must be a procedure, got %s", b.Name, i+1, t.Tag), pos)
			}
			if b.RawAt(i) {
				args[i] = t
				continue
			}
			c, errTok := MakeCallable(t, env)
			if c == nil {
				return errTok
			}
			args[i] = c
		default:
			if t.Tag != expected {
				return token.NewError(fmt.Sprintf("%s: argument %d must be %s, got %s", b.Name, i+1, expected, t.Tag), pos)
			}
			if b.RawAt(i) {
				args[i] = t
				continue
			}
			v, err := toNative(t)
			if err != nil {
				return token.NewError(fmt.Sprintf("%s: %s", b.Name, err), pos)
			}
			args[i] = v
		}
	}

	result, err := func() (out interface{}, outErr error) {
		defer func() {
			if r := recover(); r != nil {
				outErr = fmt.Errorf("%v", r)
			}
		}()
		return b.Fn(args, env)
	}()
	if err != nil {
		return token.NewError(fmt.Sprintf("%s: %s", b.Name, err), pos)
	}
	return coerceReturn(b.RetType, result, pos)
}

func toNative(t token.Token) (interface{}, error) {
	switch t.Tag {
	case token.Num:
		return strconv.ParseFloat(t.Literal, 64)
	case token.Str:
		return t.Literal, nil
	case token.Bool:
		b, _ := t.Value.(bool)
		return b, nil
	case token.Char:
		r, _ := t.Value.(rune)
		return r, nil
	case token.Sym:
		return t.Value.(*token.RuntimeSymbol), nil
	case token.List:
		return t.List(), nil
	case token.Void:
		return nil, nil
	case token.Ident:
		return t.Literal, nil
	default:
		return t, nil
	}
}

func coerceReturn(ret token.Tag, v interface{}, pos token.Position) token.Token {
	switch ret {
	case token.Any:
		if t, ok := v.(token.Token); ok {
			return t.At(pos)
		}
		return token.NewError("builtin return type Any requires a token.Token result", pos)
	case token.Void:
		return token.NewVoid(pos)
	case token.List:
		if toks, ok := v.([]token.Token); ok {
			return token.NewList(toks, pos)
		}
		return token.NewError("builtin return type List requires []token.Token", pos)
	case token.Num:
		switch n := v.(type) {
		case float64:
			return token.NewNum(strconv.FormatFloat(n, 'g', -1, 64), pos)
		case int:
			return token.NewNum(strconv.Itoa(n), pos)
		}
		return token.NewError("builtin return type Num requires a numeric result", pos)
	case token.Str:
		if s, ok := v.(string); ok {
			return token.NewStr(s, pos)
		}
	case token.Bool:
		if b, ok := v.(bool); ok {
			return token.NewBool(b, pos)
		}
	case token.Char:
		if r, ok := v.(rune); ok {
			return token.NewChar(r, pos)
		}
	case token.Sym:
		if s, ok := v.(*token.RuntimeSymbol); ok {
			return token.NewSym(s, pos)
		}
	case token.Procedure:
		if p, ok := v.(*lang.Procedure); ok {
			return token.NewProcedure(p, pos)
		}
	}
	return token.NewError(fmt.Sprintf("builtin return coercion failed for declared type %s", ret), pos)
}
