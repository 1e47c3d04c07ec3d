package lang

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/bracket-lang/bracket/internal/token"
)

type binding struct {
	Sym  *token.RuntimeSymbol
	Node Node
}

// Environment is a lexically chained mapping from symbol id to bound AST
// node (spec §3/§4.E). Bindings are keyed by symbol Id, never by name, so
// shadowing is name-independent and gensym'd symbols can never collide
// with an interned identifier.
type Environment struct {
	Label    string
	Parent   *Environment
	Bindings *linkedhashmap.Map // uint64 -> *binding, insertion order preserved
	Builtins *Registry
	Stdout   io.Writer
	Ctx      *Context

	lastError error
}

// NewRootEnvironment creates a fresh root environment, owning a new
// builtin registry and a new interpreter context. Root environments are
// created once per program or REPL session (spec §4.E lifecycle).
func NewRootEnvironment(stdout io.Writer) *Environment {
	return &Environment{
		Label:    "root",
		Bindings: linkedhashmap.New(),
		Builtins: NewRegistry(),
		Stdout:   stdout,
		Ctx:      NewContext(),
	}
}

// NewEnvironment creates a child environment, inheriting the parent's
// builtin registry, output sink, and interpreter context (spec §3: "child
// envs inherit the parent's sink").
func NewEnvironment(label string, parent *Environment) *Environment {
	env := &Environment{
		Label:    label,
		Parent:   parent,
		Bindings: linkedhashmap.New(),
	}
	if parent != nil {
		env.Builtins = parent.Builtins
		env.Stdout = parent.Stdout
		env.Ctx = parent.Ctx
	}
	return env
}

// Define binds sym to node in the current frame only (spec §4.E).
func (e *Environment) Define(sym *token.RuntimeSymbol, n Node) {
	e.Bindings.Put(sym.Id, &binding{Sym: sym, Node: n})
}

// Get walks the parent chain and returns the bound node, or false if sym
// is unbound anywhere in the chain.
func (e *Environment) Get(sym *token.RuntimeSymbol) (Node, bool) {
	for env := e; env != nil; env = env.Parent {
		if v, ok := env.Bindings.Get(sym.Id); ok {
			return v.(*binding).Node, true
		}
	}
	return nil, false
}

// Has reports whether sym is bound anywhere in the chain.
func (e *Environment) Has(sym *token.RuntimeSymbol) bool {
	_, ok := e.Get(sym)
	return ok
}

// Set walks the chain and mutates the nearest enclosing binding of sym
// (spec §4.H set!). Returns false if sym is unbound anywhere.
func (e *Environment) Set(sym *token.RuntimeSymbol, n Node) bool {
	for env := e; env != nil; env = env.Parent {
		if v, ok := env.Bindings.Get(sym.Id); ok {
			b := v.(*binding)
			b.Node = n
			return true
		}
	}
	return false
}

// Copy returns a shallow clone of e's bindings, sharing the same parent
// pointer — used when the macro expander needs an isolated frame (spec
// §4.E).
func (e *Environment) Copy() *Environment {
	clone := NewEnvironment(e.Label+"*", e.Parent)
	clone.Builtins = e.Builtins
	clone.Stdout = e.Stdout
	clone.Ctx = e.Ctx
	it := e.Bindings.Iterator()
	for it.Next() {
		clone.Bindings.Put(it.Key(), it.Value())
	}
	return clone
}

// SetBuiltin registers b into the shared registry (affects every
// environment sharing this registry, per spec §4.E).
func (e *Environment) SetBuiltin(module string, b *Builtin) error {
	return e.Builtins.Define(module, b)
}

// RemoveBuiltin removes a builtin from the shared registry by name.
func (e *Environment) RemoveBuiltin(name string) {
	e.Builtins.Remove(name)
}

// LookupBuiltin finds a builtin by name in the shared registry.
func (e *Environment) LookupBuiltin(name string) (*Builtin, bool) {
	if e.Builtins == nil {
		return nil, false
	}
	return e.Builtins.Lookup(name)
}

// Error records the most recent evaluation error (nil clears it), mirroring
// the teacher's env.lastError/env.Error(err) bookkeeping in terex.
func (e *Environment) Error(err error) {
	e.lastError = err
}

// LastError returns the most recently recorded error, if any.
func (e *Environment) LastError() error {
	return e.lastError
}

// Write implements io.Writer, appending to the environment's output sink.
func (e *Environment) Write(p []byte) (int, error) {
	if e.Stdout == nil {
		return len(p), nil
	}
	return e.Stdout.Write(p)
}

// Dump renders all bindings reachable from e, innermost frame first, in
// deterministic (insertion) order — used by the REPL's ",env" command.
func (e *Environment) Dump() string {
	var b bytes.Buffer
	for env := e; env != nil; env = env.Parent {
		fmt.Fprintf(&b, "[%s]\n", env.Label)
		it := env.Bindings.Iterator()
		for it.Next() {
			bd := it.Value().(*binding)
			fmt.Fprintf(&b, "  %s = %s\n", bd.Sym.Name, bd.Node.String())
		}
	}
	return b.String()
}
