package token

import "testing"

func TestInternIdentity(t *testing.T) {
	tbl := NewTable()
	a := tbl.Intern("foo")
	b := tbl.Intern("foo")
	if a.Id != b.Id {
		t.Fatalf("expected equal ids for equal names, got %d vs %d", a.Id, b.Id)
	}
	c := tbl.Intern("bar")
	if a.Id == c.Id {
		t.Fatalf("expected distinct ids for distinct names")
	}
}

func TestGensymNeverCollidesWithIntern(t *testing.T) {
	tbl := NewTable()
	sym := tbl.Intern("x")
	g := tbl.Gensym("x")
	if g.Eq(sym) {
		t.Fatalf("gensym collided with interned symbol id")
	}
	g2 := tbl.Gensym("x")
	if g.Eq(g2) {
		t.Fatalf("two gensyms compared equal")
	}
}

func TestNumRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "3.5", "-3.5", "0.25"}
	for _, lit := range cases {
		tok := NewNum(lit)
		s := tok.String()
		if s != lit {
			t.Fatalf("rendering of %q did not round-trip, got %q", lit, s)
		}
	}
}

func TestBoolRendering(t *testing.T) {
	if NewBool(true).String() != "#t" {
		t.Fatalf("expected #t")
	}
	if NewBool(false).String() != "#f" {
		t.Fatalf("expected #f")
	}
}

func TestSymRenderingQuotesIllegalNames(t *testing.T) {
	sym := Intern("has space")
	tok := NewSym(sym)
	if got := tok.String(); got != "|has space|" {
		t.Fatalf("expected piped rendering, got %q", got)
	}
	plain := NewSym(Intern("plain-name?"))
	if got := plain.String(); got != "'plain-name?" {
		t.Fatalf("expected quoted bare symbol, got %q", got)
	}
	if got := plain.ListRenderString(); got != "plain-name?" {
		t.Fatalf("expected unquoted nested symbol, got %q", got)
	}
}

func TestStringEscaping(t *testing.T) {
	tok := NewStr("a\nb\tc\"d")
	got := tok.String()
	want := `"a\nb\tc\"d"`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCharRendering(t *testing.T) {
	if NewChar(' ').String() != "#\\space" {
		t.Fatalf("expected #\\space")
	}
	if NewChar('a').String() != "#\\a" {
		t.Fatalf("expected #\\a")
	}
	if NewChar('\n').String() != "#\\newline" {
		t.Fatalf("expected #\\newline")
	}
}

func TestVoidAndProcedureAndErrorRendering(t *testing.T) {
	if NewVoid().String() != "#<void>" {
		t.Fatalf("expected #<void>")
	}
	if NewProcedure(nil).String() != "#<procedure>" {
		t.Fatalf("expected #<procedure>")
	}
	e := NewError("boom", Position{Row: 0, Col: 0})
	if got := e.String(); got != "#<error:boom at 1:1>" {
		t.Fatalf("got %q", got)
	}
}

func TestEOFRenderingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic rendering EOF")
		}
	}()
	_ = NewEOF().String()
}

func TestListRendering(t *testing.T) {
	items := []Token{NewNum("1"), NewNum("2"), NewNum("3")}
	l := NewList(items)
	if got := l.String(); got != "'(1 2 3)" {
		t.Fatalf("got %q", got)
	}
	if got := l.ListRenderString(); got != "(1 2 3)" {
		t.Fatalf("got %q", got)
	}
}
