package lang

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/emirpasic/gods/sets/hashset"
)

// Context is the interpreter context threaded through reading and
// evaluation: file directives set by reader macros (#lang, #!shebang) and
// the enabled-feature set consulted by #feat-require / #? / #+ / #-.
type Context struct {
	Directives map[string]interface{}
	Features   *hashset.Set
}

// NewContext creates a context pre-populated with the baseline feature set
// spec §6 requires (arch/os/endian/impl identifiers plus the always-on
// syntax features of this implementation).
func NewContext() *Context {
	c := &Context{
		Directives: make(map[string]interface{}),
		Features:   hashset.New(),
	}
	c.Features.Add(
		fmt.Sprintf("arch:%s", runtime.GOARCH),
		fmt.Sprintf("os:%s", runtime.GOOS),
		fmt.Sprintf("endian:%s", nativeEndian()),
		"impl:name:bracket",
		"impl:version:0",
		"shebang",
		"unicode",
		"vbars",
		"comments-semicolon",
		"comments-block",
		"comments-nested",
		"comments-datum",
	)
	return c
}

func nativeEndian() string {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return "little"
	}
	return "big"
}

// HasFeature reports whether name is enabled.
func (c *Context) HasFeature(name string) bool {
	if c == nil || c.Features == nil {
		return false
	}
	return c.Features.Contains(name)
}

// EnableFeature turns a feature flag on. Embedders use this to add io,
// load, sys-exec, repl, debug, sandboxed, per spec §6.
func (c *Context) EnableFeature(name string) {
	c.Features.Add(name)
}

// DisableFeature turns a feature flag off.
func (c *Context) DisableFeature(name string) {
	c.Features.Remove(name)
}

// SetDirective records a file directive (exec_with, language, ...).
func (c *Context) SetDirective(key string, value interface{}) {
	c.Directives[key] = value
}

// Directive reads a file directive.
func (c *Context) Directive(key string) (interface{}, bool) {
	v, ok := c.Directives[key]
	return v, ok
}
