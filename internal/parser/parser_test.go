package parser

import (
	"testing"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/token"
)

func parseOne(t *testing.T, src string) lang.Node {
	t.Helper()
	p := New(lexer.New(src, nil))
	node, isEOF, code := p.ReadForm()
	if code != Success {
		t.Fatalf("parse error: %v (code %s)", p.Err(), code)
	}
	if isEOF {
		t.Fatalf("expected a form, got EOF")
	}
	return node
}

func TestParsesAtomAsLiteral(t *testing.T) {
	node := parseOne(t, "42")
	lit, ok := node.(*lang.Literal)
	if !ok || lit.Tok.Tag != token.Num {
		t.Fatalf("expected Num literal, got %T %+v", node, node)
	}
}

func TestParsesListAsSExpr(t *testing.T) {
	node := parseOne(t, "(+ 1 2)")
	sx, ok := node.(*lang.SExpr)
	if !ok || sx.Len() != 3 {
		t.Fatalf("expected 3-element SExpr, got %T %+v", node, node)
	}
}

func TestProgramMultipleForms(t *testing.T) {
	p := New(lexer.New("1 2 (f 3)", nil))
	prog, code := p.ParseProgram()
	if code != Success {
		t.Fatalf("parse error: %v", p.Err())
	}
	if len(prog.Forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(prog.Forms))
	}
}

func TestExtraneousClosingParenIsError(t *testing.T) {
	p := New(lexer.New(")", nil))
	_, _, code := p.ReadForm()
	if code != Error {
		t.Fatalf("expected Error, got %s", code)
	}
}

func TestMissingClosingParenIsIncomplete(t *testing.T) {
	p := New(lexer.New("(+ 1 2", nil))
	_, _, code := p.ReadForm()
	if code != Incomplete {
		t.Fatalf("expected Incomplete, got %s", code)
	}
}

func TestMismatchedParenKindIsError(t *testing.T) {
	p := New(lexer.New("(+ 1 2]", nil))
	_, _, code := p.ReadForm()
	if code != Error {
		t.Fatalf("expected Error, got %s", code)
	}
}

func TestQuotedSymbol(t *testing.T) {
	node := parseOne(t, "'foo")
	lit, ok := node.(*lang.Literal)
	if !ok || lit.Tok.Tag != token.Sym || lit.Tok.Literal != "foo" {
		t.Fatalf("expected quoted symbol foo, got %T %+v", node, node)
	}
}

func TestQuotedList(t *testing.T) {
	node := parseOne(t, "'(a b 3)")
	lit, ok := node.(*lang.Literal)
	if !ok || lit.Tok.Tag != token.List {
		t.Fatalf("expected a List literal, got %T %+v", node, node)
	}
	items := lit.Tok.List()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Tag != token.Sym || items[0].Literal != "a" {
		t.Fatalf("expected first item to be symbol a, got %+v", items[0])
	}
	if items[2].Tag != token.Num {
		t.Fatalf("expected third item to be a number, got %+v", items[2])
	}
}

func TestDocMetaAttachesToNextToken(t *testing.T) {
	node := parseOne(t, `#doc "greets the world" greet`)
	lit, ok := node.(*lang.Literal)
	if !ok {
		t.Fatalf("expected literal, got %T", node)
	}
	doc, present := lit.Tok.Meta.Get("doc")
	if !present || doc != "greets the world" {
		t.Fatalf("expected doc metadata attached, got %v present=%v", doc, present)
	}
}
