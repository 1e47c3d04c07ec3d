package expander

import (
	"bytes"
	"testing"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/token"
)

func testEnv(t *testing.T) *lang.Environment {
	t.Helper()
	env := lang.NewRootEnvironment(&bytes.Buffer{})
	register := map[string]lang.MacroExpander{
		"and":             And,
		"or":              Or,
		"when":            When,
		"unless":          Unless,
		"cond":            Cond,
		"begin":           Begin,
		"let":             Let,
		"swap!":           Swap,
		"local":           Local,
		"check-expect":    CheckExpect,
		"check-satisfied": CheckSatisfied,
	}
	for name, fn := range register {
		if err := env.SetBuiltin("bracket.core", &lang.Builtin{Name: name, Kind: lang.MacroKind, Expander: fn}); err != nil {
			t.Fatalf("registering %s: %v", name, err)
		}
	}
	return env
}

func ident(name string) *lang.Literal { return lang.NewLiteral(token.NewIdent(name)) }
func num(lit string) *lang.Literal    { return lang.NewLiteral(token.NewNum(lit)) }

func call(head string, args ...lang.Node) *lang.SExpr {
	return lang.NewSExpr(append([]lang.Node{ident(head)}, args...)...)
}

func TestAndExpansion(t *testing.T) {
	env := testEnv(t)
	form := call("and", ident("a"), ident("b"))
	got, err := Expand(form, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(if a b #f)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestAndZeroArgsIsTrue(t *testing.T) {
	env := testEnv(t)
	got, err := Expand(call("and"), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "#t" {
		t.Fatalf("got %s, want #t", got.String())
	}
}

func TestOrExpansion(t *testing.T) {
	env := testEnv(t)
	got, err := Expand(call("or", ident("a"), ident("b")), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(if a #t b)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestWhenExpansion(t *testing.T) {
	env := testEnv(t)
	got, err := Expand(call("when", ident("test"), ident("body")), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(if test body #<void>)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestCondWithElse(t *testing.T) {
	env := testEnv(t)
	clause1 := lang.NewSExpr(ident("test1"), ident("result1"))
	clauseElse := lang.NewSExpr(ident("else"), ident("fallback"))
	got, err := Expand(call("cond", clause1, clauseElse), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(if test1 result1 fallback)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestCondMultiFormClauseKeepsOnlyLast(t *testing.T) {
	env := testEnv(t)
	clause := lang.NewSExpr(ident("test"), ident("dropped"), ident("kept"))
	got, err := Expand(call("cond", clause), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(if test kept #<void>)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestLetExpansion(t *testing.T) {
	env := testEnv(t)
	bindings := lang.NewSExpr(lang.NewSExpr(ident("x"), num("1")))
	got, err := Expand(call("let", bindings, ident("x")), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `((lambda (x) x) 1)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}

func TestSwapProducesDistinctTempEachExpansion(t *testing.T) {
	env := testEnv(t)
	got1, err := Expand(call("swap!", ident("a"), ident("b")), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got2, err := Expand(call("swap!", ident("a"), ident("b")), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got1.String() == got2.String() {
		t.Fatalf("expected distinct gensym'd temporaries across expansions, both rendered as %s", got1.String())
	}
}

func TestMacroFixpointIsIdempotent(t *testing.T) {
	env := testEnv(t)
	form := call("and", ident("a"), ident("b"), ident("c"))
	once, err := Expand(form, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Expand(once, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once.String() != twice.String() {
		t.Fatalf("expand(expand(x)) != expand(x): %s vs %s", once.String(), twice.String())
	}
}

func TestNonMacroSExprRebuildsChildren(t *testing.T) {
	env := testEnv(t)
	form := call("f", call("and", ident("a")))
	got, err := Expand(form, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `(f a)`
	if got.String() != want {
		t.Fatalf("got %s, want %s", got.String(), want)
	}
}
