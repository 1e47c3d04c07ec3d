package token

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cnf/structhash"
)

// RuntimeSymbol is an interned (or gensym'd) identifier. Two interned
// symbols with equal Name always have equal Id (P2); gensym'd symbols
// bypass interning and never collide with an interned Id.
type RuntimeSymbol struct {
	Id       uint64
	Interned bool
	Name     string
}

func (s *RuntimeSymbol) String() string {
	return s.Name
}

// Eq implements eq? semantics for symbols: identity by Id.
func (s *RuntimeSymbol) Eq(other *RuntimeSymbol) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Id == other.Id
}

var nextID uint64 // monotonically increasing; atomically incremented

// Table is a process-wide name -> RuntimeSymbol mapping. The zero value is
// ready to use. A program normally uses the package-level Intern/Gensym
// functions, which operate on a single global table (spec §3: "process-wide
// mapping"); Table is exported so that tests and embedders that need an
// isolated intern space (e.g. macro-expansion sandboxes) can construct one.
type Table struct {
	mu   sync.Mutex
	syms map[string]*RuntimeSymbol
}

// NewTable creates an empty, ready-to-use symbol table.
func NewTable() *Table {
	return &Table{syms: make(map[string]*RuntimeSymbol)}
}

// Intern returns the canonical symbol for name, creating one if absent.
func (t *Table) Intern(name string) *RuntimeSymbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sym, ok := t.syms[name]; ok {
		return sym
	}
	sym := &RuntimeSymbol{
		Id:       atomic.AddUint64(&nextID, 1),
		Interned: true,
		Name:     name,
	}
	t.syms[name] = sym
	return sym
}

// Lookup returns the canonical symbol for name without creating one.
func (t *Table) Lookup(name string) (*RuntimeSymbol, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sym, ok := t.syms[name]
	return sym, ok
}

// Gensym creates a fresh, uninterned symbol. Two gensym'd symbols are never
// Eq, regardless of base name, and a gensym'd Id never collides with an
// interned one (both draw from the same monotonic counter, which alone
// guarantees P2's uniqueness). The name also carries a short hash of the
// call site so that two gensyms from the same source location, across
// separate runs, look visibly related rather than just numerically
// incremented — a debugging aid only.
func (t *Table) Gensym(base string) *RuntimeSymbol {
	id := atomic.AddUint64(&nextID, 1)
	name := base
	if name == "" {
		name = "g"
	}
	return &RuntimeSymbol{
		Id:       id,
		Interned: false,
		Name:     fmt.Sprintf("%s~%d-%s", name, id, gensymSiteHash(id)),
	}
}

func gensymSiteHash(id uint64) string {
	// Skip the frames in this file (Table.Gensym and the package-level
	// Gensym wrapper) so the hash identifies the code asking for a symbol.
	_, self, _, _ := runtime.Caller(0)
	file, line := "unknown", 0
	for skip := 1; ; skip++ {
		_, f, l, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if f != self {
			file, line = f, l
			break
		}
	}
	h, err := structhash.Hash(struct {
		File string
		Line int
	}{File: file, Line: line}, 1)
	if err != nil {
		return fmt.Sprintf("%x", id)
	}
	if len(h) > 10 {
		h = h[len(h)-8:]
	}
	return h
}

// Global is the process-wide intern table (spec §3).
var Global = NewTable()

// Intern interns name in the global table.
func Intern(name string) *RuntimeSymbol { return Global.Intern(name) }

// Lookup looks up name in the global table.
func Lookup(name string) (*RuntimeSymbol, bool) { return Global.Lookup(name) }

// Gensym creates a fresh symbol, disjoint from the global intern table.
func Gensym(base string) *RuntimeSymbol { return Global.Gensym(base) }
