package lexer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bracket-lang/bracket/internal/token"
)

// Cursor describes whether a reader macro's dispatch key is a fixed
// prefix consumed before the macro runs ("prefix") or whether the macro
// itself is responsible for consuming everything past '#' ("manual").
// Every macro implemented below uses the prefix convention; the type is
// kept to document the table's contract (spec §4.B) for future entries
// that need to look ahead before deciding how much of the key to eat.
type Cursor int

const (
	PrefixCursor Cursor = iota
	ManualCursor
)

// macroFn runs after the dispatch key has been consumed and returns the
// token the macro yields. Macros that act purely by injection or side
// effect (#;, #!, #|, #lang, #?, #+, #-) return the next token of the
// stream instead.
type macroFn func(l *Lexer, start token.Position) (token.Token, ExitCode)

type macroEntry struct {
	key    string
	cursor Cursor
	fn     macroFn
}

var readerMacros = map[string]*macroEntry{}
var sortedMacroKeys []string

func registerMacro(key string, cursor Cursor, fn macroFn) {
	readerMacros[key] = &macroEntry{key: key, cursor: cursor, fn: fn}
}

func init() {
	registerMacro("t", PrefixCursor, macroBool(true))
	registerMacro("T", PrefixCursor, macroBool(true))
	registerMacro("f", PrefixCursor, macroBool(false))
	registerMacro("F", PrefixCursor, macroBool(false))
	registerMacro("v", PrefixCursor, macroVoid)
	registerMacro(`\`, PrefixCursor, macroCharLiteral)
	registerMacro(";", PrefixCursor, macroDatumComment)
	registerMacro("!", PrefixCursor, macroShebang)
	registerMacro("|", PrefixCursor, macroBlockComment)
	registerMacro("meta", PrefixCursor, macroMeta)
	registerMacro("doc", PrefixCursor, macroDoc)
	registerMacro("lang", PrefixCursor, macroLang)
	registerMacro("feat-require", PrefixCursor, macroFeatRequire)
	registerMacro("?", PrefixCursor, macroCondInject)
	registerMacro("+", PrefixCursor, macroFeaturePlusMinus(true))
	registerMacro("-", PrefixCursor, macroFeaturePlusMinus(false))
	registerMacro("r", PrefixCursor, macroRadixExplicit)
	registerMacro("b", PrefixCursor, macroRadixFixed(2))
	registerMacro("o", PrefixCursor, macroRadixFixed(8))
	registerMacro("x", PrefixCursor, macroRadixFixed(16))

	keys := make([]string, 0, len(readerMacros))
	for k := range readerMacros {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	sortedMacroKeys = keys
}

// scanDispatch consumes the leading '#' and resolves the longest matching
// key in the reader-macro table starting at the next character (spec
// §4.B: "longest-key-match resolution").
func (l *Lexer) scanDispatch(start token.Position) (token.Token, ExitCode) {
	l.advance() // '#'
	if l.eof() {
		return token.NewError("unterminated # dispatch", start), Incomplete
	}
	rest := string(l.src[l.pos:])
	for _, key := range sortedMacroKeys {
		if strings.HasPrefix(rest, key) {
			entry := readerMacros[key]
			for range key {
				l.advance()
			}
			tok, code := entry.fn(l, start)
			return tok, code
		}
	}
	return token.NewError(fmt.Sprintf("unknown reader macro dispatch at %q", rest), start), Error
}

func macroBool(v bool) macroFn {
	return func(l *Lexer, start token.Position) (token.Token, ExitCode) {
		return token.NewBool(v, start), Success
	}
}

func macroVoid(l *Lexer, start token.Position) (token.Token, ExitCode) {
	return token.NewVoid(start), Success
}

func macroCharLiteral(l *Lexer, start token.Position) (token.Token, ExitCode) {
	return l.scanCharLiteral(start)
}

func macroDatumComment(l *Lexer, start token.Position) (token.Token, ExitCode) {
	if _, code := l.readRawForm(); code != Success {
		return token.NewError("unterminated datum comment", start), code
	}
	return l.NextToken()
}

func macroShebang(l *Lexer, start token.Position) (token.Token, ExitCode) {
	var b strings.Builder
	for !l.eof() && l.peek() != '\n' {
		b.WriteRune(l.advance())
	}
	l.ctx.SetDirective("exec_with", strings.TrimSpace(b.String()))
	return l.NextToken()
}

func macroBlockComment(l *Lexer, start token.Position) (token.Token, ExitCode) {
	depth := 1
	for depth > 0 {
		if l.eof() {
			return token.NewError("unterminated block comment", start), Incomplete
		}
		if l.peek() == '#' && l.peekAt(1) == '|' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '|' && l.peekAt(1) == '#' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
	return l.NextToken()
}

func macroMeta(l *Lexer, start token.Position) (token.Token, ExitCode) {
	key, code := l.readRawForm()
	if code != Success {
		return token.NewError("malformed #meta key", start), code
	}
	val, code := l.readRawForm()
	if code != Success {
		return token.NewError("malformed #meta value", start), code
	}
	keyStr := formRenderKey(key)
	valStr := formRenderKey(val)
	inj := token.Injector{Meta: map[string]interface{}{keyStr: valStr}}
	return token.NewMeta(inj, start), Success
}

func macroDoc(l *Lexer, start token.Position) (token.Token, ExitCode) {
	body, code := l.readRawForm()
	if code != Success {
		return token.NewError("malformed #doc text", start), code
	}
	inj := token.Injector{Meta: map[string]interface{}{"doc": formRenderKey(body)}}
	return token.NewMeta(inj, start), Success
}

func macroLang(l *Lexer, start token.Position) (token.Token, ExitCode) {
	l.skipWhitespaceAndLineComments()
	tok, code := l.NextToken()
	if code != Success {
		return tok, code
	}
	l.ctx.SetDirective("language", tok.Literal)
	return l.NextToken()
}

// macroFeatRequire implements "#feat-require (feature [err])": yields
// Void if the named feature is present, else an Error token.
func macroFeatRequire(l *Lexer, start token.Position) (token.Token, ExitCode) {
	form, code := l.readRawForm()
	if code != Success {
		return token.NewError("malformed #feat-require form", start), code
	}
	inner := innerOfParenForm(form)
	parts := splitTopLevelForms(inner)
	if len(parts) == 0 {
		return token.NewError("#feat-require requires a feature name", start), Error
	}
	featureName := formRenderKey(parts[0])
	if l.ctx.HasFeature(featureName) {
		return token.NewVoid(start), Success
	}
	msg := fmt.Sprintf("required feature %q is not present", featureName)
	if len(parts) > 1 {
		msg = formRenderKey(parts[1])
	}
	return token.NewError(msg, start), Error
}

// macroCondInject implements "#?(feature then [else])".
func macroCondInject(l *Lexer, start token.Position) (token.Token, ExitCode) {
	form, code := l.readRawForm()
	if code != Success {
		return token.NewError("malformed #? form", start), code
	}
	inner := innerOfParenForm(form)
	parts := splitTopLevelForms(inner)
	if len(parts) < 2 {
		return token.NewError("#? requires (feature then [else])", start), Error
	}
	featureName := formRenderKey(parts[0])
	if l.ctx.HasFeature(featureName) {
		l.inj(parts[1]...)
	} else if len(parts) > 2 {
		l.inj(parts[2]...)
	}
	return l.NextToken()
}

// macroFeaturePlusMinus implements "#+feature form" / "#-feature form":
// inject form iff the feature is (want=true) or is not (want=false)
// present.
func macroFeaturePlusMinus(want bool) macroFn {
	return func(l *Lexer, start token.Position) (token.Token, ExitCode) {
		l.skipWhitespaceAndLineComments()
		nameTok, code := l.NextToken()
		if code != Success {
			return nameTok, code
		}
		body, code := l.readRawForm()
		if code != Success {
			return token.NewError("malformed conditional body", start), code
		}
		if l.ctx.HasFeature(nameTok.Literal) == want {
			l.inj(body...)
		}
		return l.NextToken()
	}
}

func macroRadixExplicit(l *Lexer, start token.Position) (token.Token, ExitCode) {
	l.skipWhitespaceAndLineComments()
	radixTok, code := l.NextToken()
	if code != Success {
		return radixTok, code
	}
	radix, err := strconv.Atoi(radixTok.Literal)
	if err != nil {
		return token.NewError("#r requires a numeric radix", start), Error
	}
	return l.scanRadixDigits(start, radix)
}

func macroRadixFixed(radix int) macroFn {
	return func(l *Lexer, start token.Position) (token.Token, ExitCode) {
		return l.scanRadixDigits(start, radix)
	}
}

func (l *Lexer) scanRadixDigits(start token.Position, radix int) (token.Token, ExitCode) {
	l.skipWhitespaceAndLineComments()
	digitsTok, code := l.NextToken()
	if code != Success {
		return digitsTok, code
	}
	v, err := strconv.ParseInt(digitsTok.Literal, radix, 64)
	if err != nil {
		return token.NewError(fmt.Sprintf("invalid base-%d literal %q", radix, digitsTok.Literal), start), Error
	}
	return token.NewNum(strconv.FormatInt(v, 10), start), Success
}

// --- raw-form reading, shared by #;, #meta, #doc, #feat-require, #? ----

// readRawForm reads exactly one token if it is not an opening paren, or a
// fully matched paren group (including both delimiters) otherwise. It
// does not attempt to build an AST; callers that need sub-forms use
// innerOfParenForm + splitTopLevelForms.
func (l *Lexer) readRawForm() ([]token.Token, ExitCode) {
	l.skipWhitespaceAndLineComments()
	first, code := l.NextToken()
	if code != Success {
		return nil, code
	}
	if first.Tag == token.EOF {
		return nil, Incomplete
	}
	if first.Tag != token.LParen {
		return []token.Token{first}, Success
	}
	forms := []token.Token{first}
	depth := 1
	for depth > 0 {
		t, c := l.NextToken()
		if c != Success {
			return nil, c
		}
		if t.Tag == token.EOF {
			return nil, Incomplete
		}
		forms = append(forms, t)
		switch t.Tag {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
	}
	return forms, Success
}

// innerOfParenForm strips the outer paren pair from a form produced by
// readRawForm, returning it unchanged if it was not parenthesized.
func innerOfParenForm(form []token.Token) []token.Token {
	if len(form) >= 2 && form[0].Tag == token.LParen && form[len(form)-1].Tag == token.RParen {
		return form[1 : len(form)-1]
	}
	return form
}

// splitTopLevelForms splits a flat token slice into its top-level forms,
// where a form is either one non-paren token or a balanced paren run.
func splitTopLevelForms(tokens []token.Token) [][]token.Token {
	var out [][]token.Token
	i := 0
	for i < len(tokens) {
		if tokens[i].Tag == token.LParen {
			depth := 1
			j := i + 1
			for j < len(tokens) && depth > 0 {
				switch tokens[j].Tag {
				case token.LParen:
					depth++
				case token.RParen:
					depth--
				}
				j++
			}
			out = append(out, tokens[i:j])
			i = j
			continue
		}
		out = append(out, tokens[i:i+1])
		i++
	}
	return out
}

// formRenderKey renders a single-token form as plain text for use as a
// feature name, doc string, or metadata value; a parenthesized form
// renders with spaces between its flattened tokens.
func formRenderKey(form []token.Token) string {
	if len(form) == 1 {
		return form[0].Literal
	}
	var parts []string
	for _, t := range form {
		if t.Tag == token.LParen || t.Tag == token.RParen {
			continue
		}
		parts = append(parts, t.Literal)
	}
	return strings.Join(parts, " ")
}
