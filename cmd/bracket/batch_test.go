package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/stdlib"
)

func testEnv(t *testing.T) *lang.Environment {
	t.Helper()
	env := lang.NewRootEnvironment(&bytes.Buffer{})
	if err := stdlib.Register(env); err != nil {
		t.Fatalf("registering stdlib: %v", err)
	}
	return env
}

func writeFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bkt")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	return path
}

func TestRunBatchExitsZeroOnSuccess(t *testing.T) {
	path := writeFile(t, "(define x 1) (+ x 1)")
	if code := runBatch(path, testEnv(t), false); code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
}

func TestRunBatchExitsOneOnError(t *testing.T) {
	path := writeFile(t, `(error "boom")`)
	if code := runBatch(path, testEnv(t), false); code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
}

func TestRunBatchExitsOneOnMissingFile(t *testing.T) {
	if code := runBatch(filepath.Join(t.TempDir(), "nope.bkt"), testEnv(t), false); code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
}

func TestRunCheckAcceptsWellFormedSyntax(t *testing.T) {
	path := writeFile(t, "(define x 1) (+ x (undefined-but-syntactically-fine))")
	if code := runBatch(path, testEnv(t), true); code != 0 {
		t.Fatalf("got exit code %d, want 0 (check mode never evaluates)", code)
	}
}

func TestRunCheckRejectsMismatchedParens(t *testing.T) {
	path := writeFile(t, "(define x 1")
	if code := runBatch(path, testEnv(t), true); code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
}
