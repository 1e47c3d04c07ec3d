package lexer

import (
	"testing"

	"github.com/bracket-lang/bracket/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, nil)
	var out []token.Token
	for {
		tok, code := l.NextToken()
		if code == Error {
			t.Fatalf("unexpected lex error at token %d: %s", len(out), tok.Literal)
		}
		if code == Incomplete {
			t.Fatalf("unexpected incomplete input: %s", tok.Literal)
		}
		out = append(out, tok)
		if tok.Tag == token.EOF {
			break
		}
	}
	return out
}

func TestParenAndAtoms(t *testing.T) {
	toks := scanAll(t, `(+ 1 2.5 "hi")`)
	wantTags := []token.Tag{token.LParen, token.Ident, token.Num, token.Num, token.Str, token.RParen, token.EOF}
	if len(toks) != len(wantTags) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTags), toks)
	}
	for i, want := range wantTags {
		if toks[i].Tag != want {
			t.Fatalf("token %d: got tag %s, want %s", i, toks[i].Tag, want)
		}
	}
}

func TestLineComment(t *testing.T) {
	toks := scanAll(t, "1 ; this is ignored\n2")
	if len(toks) != 3 || toks[0].Literal != "1" || toks[1].Literal != "2" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestBooleanDispatch(t *testing.T) {
	toks := scanAll(t, "#t #f #T #F")
	for i, want := range []bool{true, false, true, false} {
		if toks[i].Tag != token.Bool || toks[i].Value.(bool) != want {
			t.Fatalf("token %d: %+v", i, toks[i])
		}
	}
}

func TestVoidDispatch(t *testing.T) {
	toks := scanAll(t, "#v")
	if toks[0].Tag != token.Void {
		t.Fatalf("expected void token, got %+v", toks[0])
	}
}

func TestDatumComment(t *testing.T) {
	toks := scanAll(t, "(a #;(b c) d)")
	var lits []string
	for _, tk := range toks {
		if tk.Tag == token.Ident {
			lits = append(lits, tk.Literal)
		}
	}
	if len(lits) != 2 || lits[0] != "a" || lits[1] != "d" {
		t.Fatalf("datum comment did not discard (b c): %+v", lits)
	}
}

func TestBlockComment(t *testing.T) {
	toks := scanAll(t, "a #| nested #| comment |# still |# b")
	var lits []string
	for _, tk := range toks {
		if tk.Tag == token.Ident {
			lits = append(lits, tk.Literal)
		}
	}
	if len(lits) != 2 || lits[0] != "a" || lits[1] != "b" {
		t.Fatalf("nested block comment not balanced correctly: %+v", lits)
	}
}

func TestRadixLiterals(t *testing.T) {
	cases := map[string]string{
		"#r 2 1010": "10",
		"#b 1010":   "10",
		"#o 17":     "15",
		"#x ff":     "255",
	}
	for src, want := range cases {
		toks := scanAll(t, src)
		if toks[0].Tag != token.Num || toks[0].Literal != want {
			t.Fatalf("%q: got %+v, want Num %q", src, toks[0], want)
		}
	}
}

func TestFeaturePlusMinusInjection(t *testing.T) {
	l := New(`#+arch:amd64 (yes) #-arch:amd64 (no) tail`, nil)
	l.ctx.EnableFeature("arch:amd64")
	var lits []string
	for {
		tok, code := l.NextToken()
		if code != Success {
			t.Fatalf("unexpected code %s", code)
		}
		if tok.Tag == token.EOF {
			break
		}
		if tok.Tag == token.Ident {
			lits = append(lits, tok.Literal)
		}
	}
	for _, want := range []string{"yes"} {
		found := false
		for _, l := range lits {
			if l == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %q to be injected, got %v", want, lits)
		}
	}
	for _, notWant := range []string{"no"} {
		for _, l := range lits {
			if l == notWant {
				t.Fatalf("did not expect %q to be injected, got %v", notWant, lits)
			}
		}
	}
}

func TestCondInjectDispatch(t *testing.T) {
	l := New(`#?(has-thing yes no)`, nil)
	tok, code := l.NextToken()
	if code != Success || tok.Tag != token.Ident || tok.Literal != "no" {
		t.Fatalf("expected else-branch injection, got %+v code=%s", tok, code)
	}
}

func TestCharLiteral(t *testing.T) {
	toks := scanAll(t, `#\a #\space #\newline`)
	if toks[0].Value.(rune) != 'a' {
		t.Fatalf("expected char 'a', got %+v", toks[0])
	}
	if toks[1].Value.(rune) != ' ' {
		t.Fatalf("expected space char, got %+v", toks[1])
	}
	if toks[2].Value.(rune) != '\n' {
		t.Fatalf("expected newline char, got %+v", toks[2])
	}
}

func TestStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\tb\n\x41"`)
	want := "a\tb\nA"
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestPipedIdentifier(t *testing.T) {
	toks := scanAll(t, `|hello world|`)
	if toks[0].Tag != token.Sym || toks[0].Value.(*token.RuntimeSymbol).Name != "hello world" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestUnterminatedStringIsIncomplete(t *testing.T) {
	l := New(`"abc`, nil)
	_, code := l.NextToken()
	if code != Incomplete {
		t.Fatalf("expected Incomplete, got %s", code)
	}
}

func TestFeatRequireYieldsErrorWhenMissing(t *testing.T) {
	l := New(`#feat-require (no-such-feature "nope")`, nil)
	tok, code := l.NextToken()
	if code != Error || !tok.IsError() {
		t.Fatalf("expected error token, got %+v code=%s", tok, code)
	}
}
