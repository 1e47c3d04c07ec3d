package lang

import (
	"bytes"
	"testing"

	"github.com/bracket-lang/bracket/internal/token"
)

func TestDefineGetHas(t *testing.T) {
	root := NewRootEnvironment(&bytes.Buffer{})
	sym := token.Intern("x")
	if root.Has(sym) {
		t.Fatalf("expected unbound symbol")
	}
	root.Define(sym, NewLiteral(token.NewNum("1")))
	if !root.Has(sym) {
		t.Fatalf("expected bound symbol")
	}
	n, ok := root.Get(sym)
	if !ok || n.String() != "1" {
		t.Fatalf("unexpected get result: %v %v", n, ok)
	}
}

func TestChildEnvironmentShadowsButParentSurvives(t *testing.T) {
	root := NewRootEnvironment(&bytes.Buffer{})
	sym := token.Intern("y")
	root.Define(sym, NewLiteral(token.NewNum("1")))
	child := NewEnvironment("child", root)
	child.Define(sym, NewLiteral(token.NewNum("2")))
	n, _ := child.Get(sym)
	if n.String() != "2" {
		t.Fatalf("expected child binding to shadow, got %s", n.String())
	}
	pn, _ := root.Get(sym)
	if pn.String() != "1" {
		t.Fatalf("expected parent binding unaffected, got %s", pn.String())
	}
}

func TestSetWalksChainAndFailsWhenUnbound(t *testing.T) {
	root := NewRootEnvironment(&bytes.Buffer{})
	child := NewEnvironment("child", root)
	sym := token.Intern("z")
	if child.Set(sym, NewLiteral(token.NewNum("9"))) {
		t.Fatalf("expected set! on unbound symbol to fail")
	}
	root.Define(sym, NewLiteral(token.NewNum("1")))
	if !child.Set(sym, NewLiteral(token.NewNum("9"))) {
		t.Fatalf("expected set! to find parent binding")
	}
	n, _ := root.Get(sym)
	if n.String() != "9" {
		t.Fatalf("expected mutation visible in defining frame, got %s", n.String())
	}
}

func TestCopySharesParentButIsolatesBindings(t *testing.T) {
	root := NewRootEnvironment(&bytes.Buffer{})
	sym := token.Intern("w")
	root.Define(sym, NewLiteral(token.NewNum("1")))
	cp := root.Copy()
	cp.Define(sym, NewLiteral(token.NewNum("2")))
	n, _ := root.Get(sym)
	if n.String() != "1" {
		t.Fatalf("expected original environment unaffected by copy mutation")
	}
	if cp.Parent != root.Parent {
		t.Fatalf("expected copy to share the same parent pointer")
	}
}

func TestRegistryModuleGuards(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Module("__internal"); err == nil {
		t.Fatalf("expected error for __-prefixed module name")
	}
	if _, err := r.Module("bracket.math"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := &Builtin{Name: "sin", Kind: FunctionKind}
	if err := r.Define("bracket.math.trig", b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.Lookup("sin")
	if !ok || got != b {
		t.Fatalf("expected to find registered builtin")
	}
}
