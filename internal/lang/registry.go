package lang

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/bracket-lang/bracket/internal/token"
)

// Kind distinguishes the four shapes a builtin may take (spec §4.F).
type Kind int

const (
	ConstantKind Kind = iota
	SpecialKind
	MacroKind
	FunctionKind
)

func (k Kind) String() string {
	switch k {
	case ConstantKind:
		return "constant"
	case SpecialKind:
		return "special"
	case MacroKind:
		return "macro"
	case FunctionKind:
		return "function"
	}
	return "unknown"
}

// ValueType reuses the token tag set to describe a builtin's declared
// argument/return types (Any, Num, Str, Bool, List, Procedure, Void, ...).
type ValueType = token.Tag

// SpecialFn is the signature of a special-form builtin: it receives its
// arguments *unevaluated* and decides its own evaluation strategy.
type SpecialFn func(args []Node, env *Environment, meta token.Meta) token.Token

// MacroExpander is the signature of a macro builtin: AST -> AST rewrite.
type MacroExpander func(args []Node, env *Environment) Node

// Func is the signature of a function builtin body, once the registry's
// dispatcher has already performed arity/type coercion (spec §4.F steps
// 1-5). Each element of args is either a raw token.Token (when the
// corresponding ArgTypes/Raw pairing demands it) or a coerced native Go
// value (float64, string, bool, []token.Token, a Callable, ...).
type Func func(args []interface{}, env *Environment) (interface{}, error)

// Builtin is one entry in the registry: a constant, a special form, a
// macro, or a function, per spec §4.F.
type Builtin struct {
	Name string
	Kind Kind
	Doc  string

	// Constant
	Value token.Token

	// Special
	SpecialFn SpecialFn

	// Macro
	Expander MacroExpander

	// Function
	Fn       Func
	RetType  ValueType
	ArgTypes []ValueType
	Raw      []string // "token" | "normal", parallel to ArgTypes
	MinArgs  int
	Variadic bool
}

// rawAt returns whether argument index i should be delivered raw
// ("token"), indexing Raw the same way ArgTypes is indexed: the last
// entry repeats for variadic positions.
func (b *Builtin) rawAt(i int) bool {
	if len(b.Raw) == 0 {
		return false
	}
	idx := i
	if idx >= len(b.Raw) {
		idx = len(b.Raw) - 1
	}
	return b.Raw[idx] == "token"
}

// TypeAt returns the declared argument type for position i (the last
// entry of ArgTypes repeats for variadic positions, spec §4.F step 2).
func (b *Builtin) TypeAt(i int) ValueType {
	if len(b.ArgTypes) == 0 {
		return token.Any
	}
	idx := i
	if idx >= len(b.ArgTypes) {
		idx = len(b.ArgTypes) - 1
	}
	return b.ArgTypes[idx]
}

// RawAt is the exported form of rawAt, used by internal/eval's dispatcher.
func (b *Builtin) RawAt(i int) bool { return b.rawAt(i) }

// Module groups related builtins under a dot-joined name, e.g.
// "bracket.math.trig". Module names may not start with "__" or contain
// "." themselves in their own (non-dotted) component — spec §4.F.
type Module struct {
	Name     string
	Builtins *linkedhashmap.Map // string -> *Builtin, insertion order preserved
}

func newModule(name string) *Module {
	return &Module{Name: name, Builtins: linkedhashmap.New()}
}

func (m *Module) define(b *Builtin) {
	m.Builtins.Put(b.Name, b)
}

// Registry is the shared, process/session-wide builtin table (spec §4.F).
// It is referenced by a root Environment and shared by all of its
// children; only setBuiltin/removeBuiltin (startup or explicit calls) may
// mutate it, never concurrently with evaluation (spec §5).
type Registry struct {
	modules      *linkedhashmap.Map // string -> *Module, insertion order
	associations map[string]string  // builtin name -> owning module name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:      linkedhashmap.New(),
		associations: make(map[string]string),
	}
}

// Module returns (creating if absent) the named module. An empty name or
// one starting with "__" is rejected. Dot-joined names such as
// "bracket.math.trig" are accepted; no other check is made on ".".
func (r *Registry) Module(name string) (*Module, error) {
	if name == "" || strings.HasPrefix(name, "__") {
		return nil, fmt.Errorf("registry: illegal module name %q", name)
	}
	if v, ok := r.modules.Get(name); ok {
		return v.(*Module), nil
	}
	m := newModule(name)
	r.modules.Put(name, m)
	return m, nil
}

// Define registers a builtin into the named module, overwriting any
// previous definition of the same name (in any module).
func (r *Registry) Define(moduleName string, b *Builtin) error {
	m, err := r.Module(moduleName)
	if err != nil {
		return err
	}
	m.define(b)
	r.associations[b.Name] = moduleName
	return nil
}

// Lookup finds a builtin by identifier name, consulting the
// name -> module association (spec §4.F: "Identifier lookup consults
// associations (name -> module)").
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	modName, ok := r.associations[name]
	if !ok {
		return nil, false
	}
	mv, ok := r.modules.Get(modName)
	if !ok {
		return nil, false
	}
	bv, ok := mv.(*Module).Builtins.Get(name)
	if !ok {
		return nil, false
	}
	return bv.(*Builtin), true
}

// Remove deletes a builtin by name, wherever it is registered.
func (r *Registry) Remove(name string) {
	modName, ok := r.associations[name]
	if !ok {
		return
	}
	if mv, ok := r.modules.Get(modName); ok {
		mv.(*Module).Builtins.Remove(name)
	}
	delete(r.associations, name)
}

// ModuleNames returns registered module names in registration order.
func (r *Registry) ModuleNames() []string {
	keys := r.modules.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}
