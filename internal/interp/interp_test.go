package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/parser"
	"github.com/bracket-lang/bracket/internal/stdlib"
)

func testEnv(t *testing.T) (*lang.Environment, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	env := lang.NewRootEnvironment(&out)
	if err := stdlib.Register(env); err != nil {
		t.Fatalf("registering stdlib: %v", err)
	}
	return env, &out
}

func TestRunEvaluatesEachTopLevelForm(t *testing.T) {
	env, _ := testEnv(t)
	results, err := Run("(define x 1) (+ x 1) (+ x 2)", env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	last := results[2]
	if last.Err != nil || last.Value.String() != "3" {
		t.Fatalf("got %+v", last)
	}
}

func TestRunContinuesAfterError(t *testing.T) {
	env, _ := testEnv(t)
	results, err := Run("(undefined-name) (+ 1 1)", env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Value.IsError() {
		t.Fatalf("expected first form to error, got %+v", results[0])
	}
	if results[0].Err == nil {
		t.Fatalf("expected Result.Err to be set for an Error-token result")
	}
	if results[1].Value.String() != "2" {
		t.Fatalf("expected second form to still evaluate, got %+v", results[1])
	}
}

func TestRunStopsOnIncomplete(t *testing.T) {
	env, _ := testEnv(t)
	_, err := Run("(+ 1 2", env)
	if err == nil {
		t.Fatalf("expected incomplete-input error")
	}
}

func TestRunFileSurfacesLastValue(t *testing.T) {
	env, _ := testEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bkt")
	if err := os.WriteFile(path, []byte("(define x 10) (* x x)"), 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	last, err := RunFile(path, env)
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if last.String() != "100" {
		t.Fatalf("got %s, want 100", last.String())
	}
}

func TestRunFileStopsAtFirstError(t *testing.T) {
	env, _ := testEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bkt")
	if err := os.WriteFile(path, []byte("(error \"boom\") (+ 1 1)"), 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	_, err := RunFile(path, env)
	if err == nil {
		t.Fatalf("expected an error from the failing form")
	}
}

func TestReadEvalFormIncremental(t *testing.T) {
	env, _ := testEnv(t)
	lex := lexer.New("(+ 1 2) (+ 3 4)", env.Ctx)
	p := parser.New(lex)

	node, isEOF, result, code := ReadEvalForm(p, env)
	if isEOF || code != parser.Success || node == nil {
		t.Fatalf("first form: isEOF=%v code=%v node=%v", isEOF, code, node)
	}
	if result.Value.String() != "3" {
		t.Fatalf("first form got %s, want 3", result.Value.String())
	}

	node, isEOF, result, code = ReadEvalForm(p, env)
	if isEOF || code != parser.Success || node == nil {
		t.Fatalf("second form: isEOF=%v code=%v node=%v", isEOF, code, node)
	}
	if result.Value.String() != "7" {
		t.Fatalf("second form got %s, want 7", result.Value.String())
	}

	_, isEOF, _, code = ReadEvalForm(p, env)
	if !isEOF || code != parser.Success {
		t.Fatalf("expected EOF, got isEOF=%v code=%v", isEOF, code)
	}
}
