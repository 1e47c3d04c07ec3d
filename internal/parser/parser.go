/*
Package parser implements Bracket's token-stream-to-AST reader
(component C): a hand-written recursive-descent parser, in the shape
of the teacher's scanner/parser split (`lr/scanner` feeds a stream of
tokens to a consumer) but without a grammar-compiled backend, matching
the lexer it sits on top of.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package parser

import (
	"fmt"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/token"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("bracket.parser")
}

// ExitCode mirrors the lexer's exit codes; a parse inherits Error or
// Incomplete from whichever layer first produced it (spec §4.C: "exit
// codes propagate; first non-Success short-circuits").
type ExitCode = lexer.ExitCode

const (
	Success   = lexer.Success
	Error     = lexer.Error
	Incomplete = lexer.Incomplete
)

// Parser folds a lexer's token stream into lang.Node trees.
type Parser struct {
	lex *lexer.Lexer

	pendingMeta  *token.Meta
	injectorPred func(token.Token) bool
	err          error
}

// New creates a parser over lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// Err returns the most recent parse error's detail, if any.
func (p *Parser) Err() error { return p.err }

// next reads the next non-Meta token, folding any Meta tokens
// encountered in between into pendingMeta, then attaches pendingMeta (if
// its predicate, when present, accepts the token) to the returned token.
func (p *Parser) next() (token.Token, ExitCode) {
	for {
		tok, code := p.lex.NextToken()
		if code != Success {
			p.err = fmt.Errorf("%s", tok.Literal)
			return tok, code
		}
		if tok.Tag == token.Meta {
			inj, _ := tok.Value.(token.Injector)
			p.mergeMeta(inj)
			continue
		}
		if p.pendingMeta != nil {
			if p.injectorApplies(tok) {
				for k, v := range p.pendingMeta.Extra {
					tok.Meta = tok.Meta.With(k, v)
				}
			}
			p.pendingMeta = nil
			p.injectorPred = nil
		}
		return tok, Success
	}
}

func (p *Parser) mergeMeta(inj token.Injector) {
	if p.pendingMeta == nil {
		p.pendingMeta = &token.Meta{Extra: make(map[string]interface{})}
	}
	for k, v := range inj.Meta {
		p.pendingMeta.Extra[k] = v
	}
	p.injectorPred = inj.Pred
}

func (p *Parser) injectorApplies(tok token.Token) bool {
	if p.injectorPred == nil {
		return true
	}
	return p.injectorPred(tok)
}

// ParseProgram reads every top-level form up to EOF.
func (p *Parser) ParseProgram() (*lang.Program, ExitCode) {
	var forms []lang.Node
	for {
		node, isEOF, code := p.ReadForm()
		if code != Success {
			return nil, code
		}
		if isEOF {
			break
		}
		forms = append(forms, node)
	}
	return &lang.Program{Forms: forms}, Success
}

// ReadForm reads a single top-level form (spec §6: "core exposes a
// readForm operation", used by the REPL for incremental reads). isEOF
// is true (with node nil, code Success) when the stream is exhausted.
func (p *Parser) ReadForm() (node lang.Node, isEOF bool, code ExitCode) {
	tok, code := p.next()
	if code != Success {
		return nil, false, code
	}
	if tok.Tag == token.EOF {
		return nil, true, Success
	}
	n, code := p.parseExprFrom(tok)
	return n, false, code
}

func (p *Parser) parseExprFrom(tok token.Token) (lang.Node, ExitCode) {
	switch tok.Tag {
	case token.Error:
		p.err = fmt.Errorf("%s", tok.Literal)
		return nil, Error
	case token.LParen:
		return p.parseList(tok)
	case token.RParen:
		p.err = fmt.Errorf("extraneous closing paren %q at %d:%d", tok.Literal, tok.Meta.Row, tok.Meta.Col)
		return nil, Error
	case token.Quote:
		inner, code := p.readNextExpr()
		if code != Success {
			return nil, code
		}
		return quoteDatum(inner), Success
	default:
		return lang.NewLiteral(tok), Success
	}
}

// readNextExpr reads and parses the next token as an expression (used by
// quote handling, which needs to recurse into the expression following
// a bare Quote marker).
func (p *Parser) readNextExpr() (lang.Node, ExitCode) {
	tok, code := p.next()
	if code != Success {
		return nil, code
	}
	if tok.Tag == token.EOF {
		p.err = fmt.Errorf("expected an expression after quote, found EOF")
		return nil, Incomplete
	}
	return p.parseExprFrom(tok)
}

func matchingCloseKind(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

func (p *Parser) parseList(open token.Token) (lang.Node, ExitCode) {
	openKind, _ := open.Value.(byte)
	expected := matchingCloseKind(openKind)
	var children []lang.Node
	for {
		tok, code := p.next()
		if code != Success {
			return nil, code
		}
		if tok.Tag == token.EOF {
			p.err = fmt.Errorf("missing closing paren for %q opened at %d:%d", string(openKind), open.Meta.Row, open.Meta.Col)
			return nil, Incomplete
		}
		if tok.Tag == token.RParen {
			closeKind, _ := tok.Value.(byte)
			if closeKind != expected {
				p.err = fmt.Errorf("mismatched paren: expected %q, got %q", string(expected), string(closeKind))
				return nil, Error
			}
			return lang.NewSExpr(children...), Success
		}
		child, code := p.parseExprFrom(tok)
		if code != Success {
			return nil, code
		}
		children = append(children, child)
	}
}

// quoteDatum converts a parsed expression tree into quoted literal data:
// bare identifiers become symbol literals (not variable references) and
// nested s-expressions become literal token.List values, recursively —
// the usual Scheme quote semantics ('foo is the symbol foo, '(a b) is a
// two-element list of symbols).
func quoteDatum(n lang.Node) lang.Node {
	switch v := n.(type) {
	case *lang.Literal:
		if v.Tok.Tag == token.Ident {
			sym := token.Intern(v.Tok.Literal)
			return lang.NewLiteral(token.NewSym(sym, v.Tok.Meta.Position))
		}
		return v
	case *lang.SExpr:
		items := make([]token.Token, 0, len(v.Children))
		for _, c := range v.Children {
			q := quoteDatum(c)
			if lit, ok := q.(*lang.Literal); ok {
				items = append(items, lit.Tok)
			}
		}
		return lang.NewLiteral(token.NewList(items, v.Pos()))
	default:
		return n
	}
}
