/*
Package lang holds the parts of Bracket that are mutually referential and
therefore cannot be split across package boundaries without an interface
seam: the AST (a Procedure's closure is an *Environment), the Environment
itself (its bindings map to AST nodes and it carries a builtin Registry),
and the builtin Registry's types (a Special builtin's signature takes an
*Environment). The teacher package this mirrors is `terex`, which keeps
Atom/GCons/Environment/Operator together for the identical reason.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package lang

import (
	"bytes"
	"fmt"

	"github.com/bracket-lang/bracket/internal/token"
)

// Node is a Bracket AST node: a Literal, an SExpr, or a Procedure.
type Node interface {
	Pos() token.Position
	String() string
	node()
}

// Literal wraps a single Token.
type Literal struct {
	Tok token.Token
}

func NewLiteral(tok token.Token) *Literal { return &Literal{Tok: tok} }

func (l *Literal) Pos() token.Position { return l.Tok.Meta.Position }
func (l *Literal) String() string      { return l.Tok.String() }
func (*Literal) node()                 {}

// IsIdent reports whether the wrapped token is a bare identifier.
func (l *Literal) IsIdent() bool { return l.Tok.Tag == token.Ident }

// SExpr is an ordered list of child AST nodes.
type SExpr struct {
	Children []Node
}

func NewSExpr(children ...Node) *SExpr { return &SExpr{Children: children} }

func (s *SExpr) Pos() token.Position {
	if len(s.Children) == 0 {
		return token.NoPosition
	}
	return s.Children[0].Pos()
}

func (s *SExpr) String() string {
	var b bytes.Buffer
	b.WriteString("(")
	for i, c := range s.Children {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

func (*SExpr) node() {}

// Empty reports whether s has no children.
func (s *SExpr) Empty() bool { return s == nil || len(s.Children) == 0 }

// First returns the head child, or nil if s is empty.
func (s *SExpr) First() Node {
	if s.Empty() {
		return nil
	}
	return s.Children[0]
}

// Rest returns all children after the head, as a new SExpr.
func (s *SExpr) Rest() *SExpr {
	if s.Empty() || len(s.Children) == 1 {
		return &SExpr{}
	}
	return &SExpr{Children: s.Children[1:]}
}

// Last returns the tail child, or nil if s is empty.
func (s *SExpr) Last() Node {
	if s.Empty() {
		return nil
	}
	return s.Children[len(s.Children)-1]
}

// Len returns the number of children.
func (s *SExpr) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Children)
}

// Procedure is a first-class closure: parameters, a body (sequence of
// forms evaluated in order), and the environment active at the point of
// construction. Per spec §3, the closure pre-defines the procedure's own
// name (bound to Void) so that a `define`-bound recursive function can
// refer to itself; `define` overwrites that binding with the real
// Procedure once construction completes (see internal/eval).
type Procedure struct {
	Name    string
	Params  []*token.RuntimeSymbol
	Body    []Node
	Closure *Environment
	pos     token.Position
}

func NewProcedure(name string, params []*token.RuntimeSymbol, body []Node, closure *Environment, pos token.Position) *Procedure {
	return &Procedure{Name: name, Params: params, Body: body, Closure: closure, pos: pos}
}

func (p *Procedure) Pos() token.Position { return p.pos }
func (p *Procedure) String() string      { return "#<procedure>" }
func (*Procedure) node()                 {}

func (p *Procedure) Arity() int { return len(p.Params) }

// Program is the root of the reader/parser output: the top-level forms of
// a source text, in source order.
type Program struct {
	Name  string
	Forms []Node
}

func (p *Program) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Program: %s\n", p.Name)
	for _, f := range p.Forms {
		fmt.Fprintf(&b, "\t%s\n", f.String())
	}
	return b.String()
}
