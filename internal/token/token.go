/*
Package token implements the lexeme and symbol model for Bracket (see
component A of the language design). A Token is a small tagged union
carrying a printable literal, positional/extensible metadata, and a
tag-dependent payload. Symbols are interned so that identical names
share an id process-wide.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package token

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tag identifies the kind of lexeme a Token represents.
//
//go:generate stringer -type Tag
type Tag int

const (
	Any Tag = iota
	Error
	EOF
	Void
	LParen
	RParen
	Num
	Sym
	Bool
	Str
	Ident
	Char
	Procedure
	List
	Quote
	Form
	Meta
)

var tagNames = [...]string{
	Any: "Any", Error: "Error", EOF: "EOF", Void: "Void",
	LParen: "LParen", RParen: "RParen", Num: "Num", Sym: "Sym",
	Bool: "Bool", Str: "Str", Ident: "Ident", Char: "Char",
	Procedure: "Procedure", List: "List", Quote: "Quote", Form: "Form",
	Meta: "Meta",
}

// String renders a Tag's name (hand-written in the stringer style rather
// than go:generate'd, since this module never invokes the Go toolchain).
func (t Tag) String() string {
	if int(t) >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Position is a zero-based (row, col) pair. NoPosition (-1,-1) marks
// an unpositioned, freshly constructed token (Open Question #1 in
// SPEC_FULL.md §9: positions are zero-based everywhere except at the
// point error messages are rendered, where they become one-based).
type Position struct {
	Row, Col int
}

// NoPosition is the default position for constructed tokens.
var NoPosition = Position{-1, -1}

// Meta carries positional info plus an extensible key/value map (reader
// macros attach e.g. "doc" or "__macro" here).
type Meta struct {
	Position
	Extra map[string]interface{}
}

// Get returns an extra metadata value and whether it was present.
func (m Meta) Get(key string) (interface{}, bool) {
	if m.Extra == nil {
		return nil, false
	}
	v, ok := m.Extra[key]
	return v, ok
}

// With returns a copy of m with key set to value.
func (m Meta) With(key string, value interface{}) Meta {
	out := Meta{Position: m.Position, Extra: make(map[string]interface{}, len(m.Extra)+1)}
	for k, v := range m.Extra {
		out.Extra[k] = v
	}
	out.Extra[key] = value
	return out
}

// Injector is the payload of a Meta token: metadata to attach to the
// next produced token, gated by an optional predicate.
type Injector struct {
	Meta map[string]interface{}
	Pred func(Token) bool
}

// Token is a tagged union over the lexeme kinds the lexer/parser/
// evaluator exchange.
type Token struct {
	Tag     Tag
	Literal string
	Meta    Meta
	Value   interface{}
}

func makeTok(tag Tag, literal string, pos ...Position) Token {
	p := NoPosition
	if len(pos) > 0 {
		p = pos[0]
	}
	return Token{Tag: tag, Literal: literal, Meta: Meta{Position: p}}
}

// NewEOF constructs the (singleton-in-spirit) end-of-input token.
func NewEOF(pos ...Position) Token { return makeTok(EOF, "", pos...) }

// NewVoid constructs the unit value.
func NewVoid(pos ...Position) Token { return makeTok(Void, "", pos...) }

// NewLParen constructs an opening-paren token; kind is one of '(', '[', '{'.
func NewLParen(kind byte, pos ...Position) Token {
	t := makeTok(LParen, string(kind), pos...)
	t.Value = kind
	return t
}

// NewRParen constructs a closing-paren token; kind is one of ')', ']', '}'.
func NewRParen(kind byte, pos ...Position) Token {
	t := makeTok(RParen, string(kind), pos...)
	t.Value = kind
	return t
}

// NewNum constructs a numeric literal token from its source lexeme.
func NewNum(literal string, pos ...Position) Token { return makeTok(Num, literal, pos...) }

// NewBool constructs a boolean literal; value selects between #t and #f.
func NewBool(value bool, pos ...Position) Token {
	lit := "#f"
	if value {
		lit = "#t"
	}
	t := makeTok(Bool, lit, pos...)
	t.Value = value
	return t
}

// NewStr constructs a string literal token. literal is the *unescaped*
// string value; String() re-escapes it for display.
func NewStr(literal string, pos ...Position) Token { return makeTok(Str, literal, pos...) }

// NewChar constructs a character literal token.
func NewChar(r rune, pos ...Position) Token {
	t := makeTok(Char, string(r), pos...)
	t.Value = r
	return t
}

// NewIdent constructs a bare identifier token (not yet known to be a symbol
// reference vs. a special-form/macro name — that is a parser/evaluator
// concern).
func NewIdent(name string, pos ...Position) Token { return makeTok(Ident, name, pos...) }

// NewSym constructs a token wrapping an interned (or gensym'd) runtime symbol.
func NewSym(sym *RuntimeSymbol, pos ...Position) Token {
	t := makeTok(Sym, sym.Name, pos...)
	t.Value = sym
	return t
}

// NewProcedure wraps an opaque procedure value (an *lang.Procedure, kept as
// interface{} here to avoid a token<->lang import cycle).
func NewProcedure(proc interface{}, pos ...Position) Token {
	t := makeTok(Procedure, "", pos...)
	t.Value = proc
	return t
}

// NewList constructs a List value token: quoted list data built by the
// parser, or a list built at runtime by a builtin.
func NewList(items []Token, pos ...Position) Token {
	t := makeTok(List, "", pos...)
	t.Value = items
	return t
}

// NewQuote constructs a bare-quote marker token (the `'` prefix character).
func NewQuote(pos ...Position) Token { return makeTok(Quote, "'", pos...) }

// NewForm wraps an already-assembled token sequence representing one
// top-level form. The built-in injecting reader macros (#?, #+/#-) do
// not use it; they inject the form's raw tokens instead.
func NewForm(items []Token, pos ...Position) Token {
	t := makeTok(Form, "", pos...)
	t.Value = items
	return t
}

// NewMeta constructs a Meta-tagged token carrying an Injector.
func NewMeta(inj Injector, pos ...Position) Token {
	t := makeTok(Meta, "", pos...)
	t.Value = inj
	return t
}

// NewError constructs an error token carrying a human-readable message.
func NewError(msg string, pos ...Position) Token { return makeTok(Error, msg, pos...) }

// IsError reports whether t is an Error token.
func (t Token) IsError() bool { return t.Tag == Error }

// Sym returns the RuntimeSymbol payload of a Sym token, or nil.
func (t Token) Sym() *RuntimeSymbol {
	if t.Tag != Sym {
		return nil
	}
	s, _ := t.Value.(*RuntimeSymbol)
	return s
}

// List returns the token slice payload of a List/Form token, or nil.
func (t Token) List() []Token {
	if t.Tag != List && t.Tag != Form {
		return nil
	}
	items, _ := t.Value.([]Token)
	return items
}

// At returns a copy of t positioned at pos.
func (t Token) At(pos Position) Token {
	t.Meta.Position = pos
	return t
}

// --- Rendering --------------------------------------------------------

// illegalIdentChar reports whether r may never appear in a bare (unpiped)
// identifier. SPEC_FULL.md §9 Open Question #2: the stricter variant is
// chosen, so '.' and '\'' are illegal here too.
func illegalIdentChar(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', ',', '\'', ';', '|', '.', '\\':
		return true
	}
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

func needsPipeQuoting(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		if illegalIdentChar(r) {
			return true
		}
	}
	return false
}

// charNames maps the canonical #\name spellings required by spec §4.A.
var charNames = map[rune]string{
	0:    "nul",
	8:    "backspace",
	9:    "tab",
	10:   "newline",
	11:   "vtab",
	12:   "page",
	13:   "return",
	' ':  "space",
	0x7f: "rubout",
}

// String renders t deterministically, in its top-level form; see
// ListRenderString for the nested-in-a-list form (the two differ only
// for List and for the leading quote of a Sym).
func (t Token) String() string {
	return t.render(false)
}

// ListRenderString renders t as it should appear nested inside a list.
func (t Token) ListRenderString() string {
	return t.render(true)
}

func (t Token) render(nested bool) string {
	switch t.Tag {
	case Num:
		f, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return t.Literal
		}
		return formatFloat(f)
	case Sym:
		name := t.Literal
		if needsPipeQuoting(name) {
			return "|" + name + "|"
		}
		if nested {
			return name
		}
		return "'" + name
	case Ident:
		return t.Literal
	case Bool:
		if b, _ := t.Value.(bool); b {
			return "#t"
		}
		return "#f"
	case Str:
		return quoteString(t.Literal)
	case Char:
		r, _ := t.Value.(rune)
		return renderChar(r)
	case List:
		items := t.List()
		var b bytes.Buffer
		if !nested {
			b.WriteString("'")
		}
		b.WriteString("(")
		for i, it := range items {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(it.ListRenderString())
		}
		b.WriteString(")")
		return b.String()
	case Void:
		return "#<void>"
	case Procedure:
		return "#<procedure>"
	case Error:
		return fmt.Sprintf("#<error:%s at %d:%d>", t.Literal, t.Meta.Row+1, t.Meta.Col+1)
	case Any:
		return "#<any>"
	case EOF:
		panic("token: rendering EOF is a programming error")
	}
	return t.Literal
}

func quoteString(s string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case 0x1b:
			b.WriteString(`\e`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func renderChar(r rune) string {
	if name, ok := charNames[r]; ok {
		return "#\\" + name
	}
	if strconv.IsPrint(r) {
		return "#\\" + string(r)
	}
	if r <= 0xffff {
		return fmt.Sprintf("#\\u{%x}", r)
	}
	return fmt.Sprintf("#\\U{%x}", r)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "+inf.0"
	}
	if math.IsInf(f, -1) {
		return "-inf.0"
	}
	if math.IsNaN(f) {
		return "+nan.0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Avoid Go's "1e+06"-style exponent notation — the reader has no
	// exponent syntax (spec §4.B), so round-tripping requires plain
	// decimal notation.
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
