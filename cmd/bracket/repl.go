/*
The interactive REPL, modeled directly on the teacher's trepl.Intp/
trepl.REPL(): chzyer/readline for line editing and history, pterm for
colored Info/Error prefixes and a ",ast" tree dump, and an init file
loaded before the prompt opens. Unlike TeREx's one-shot terex.Eval, a
Bracket form can span several physical lines, so each Readline call
accumulates into a pending buffer until the parser reports something
other than Incomplete.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/bracket-lang/bracket/internal/interp"
	"github.com/bracket-lang/bracket/internal/lang"
	"github.com/bracket-lang/bracket/internal/lexer"
	"github.com/bracket-lang/bracket/internal/parser"
	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
)

const (
	promptDefault = "bracket> "
	promptCont    = "     ... "
)

func runREPL(env *lang.Environment, initFile string) {
	pterm.Info.Prefix = pterm.Prefix{Text: " INFO ", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: " ERROR ", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}

	loadInitFile(initFile, env)

	rl, err := readline.New(promptDefault)
	if err != nil {
		tracer().Errorf("readline init failed: %v", err)
		return
	}
	defer rl.Close()

	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if pending.Len() == 0 {
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, ",") {
				if runCommand(line, env) {
					break
				}
				continue
			}
		}
		pending.WriteString(line)
		pending.WriteString("\n")

		lex := lexer.New(pending.String(), env.Ctx)
		p := parser.New(lex)
		node, isEOF, result, code := interp.ReadEvalForm(p, env)

		if code == parser.Incomplete {
			rl.SetPrompt(promptCont)
			continue
		}
		pending.Reset()
		rl.SetPrompt(promptDefault)
		if code == parser.Error {
			pterm.Error.Println(p.Err().Error())
			continue
		}
		if isEOF || node == nil {
			continue
		}
		if result.Err != nil {
			pterm.Error.Println(result.Err.Error())
			continue
		}
		if result.Value.IsError() {
			pterm.Error.Println(result.Value.Literal)
			continue
		}
		pterm.Info.Println(result.Value.String())
	}
	pterm.Info.Println("Good bye!")
}

// runCommand handles a leading-comma debug command line (",ast", ",env",
// ",quit"); returns true when the REPL should exit.
func runCommand(line string, env *lang.Environment) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ",quit", ",exit":
		return true
	case ",env":
		pterm.Println(env.Dump())
	case ",ast":
		src := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		if src == "" {
			pterm.Error.Println(",ast requires a form to parse")
			return false
		}
		lex := lexer.New(src+"\n", env.Ctx)
		p := parser.New(lex)
		node, _, code := p.ReadForm()
		if code != parser.Success || node == nil {
			pterm.Error.Println("could not parse form for ,ast")
			return false
		}
		root := astTreeNode(node)
		pterm.DefaultTree.WithRoot(root).Render()
	default:
		pterm.Error.Printfln("unknown command %q", fields[0])
	}
	return false
}

// astTreeNode renders node as a pterm tree, recursing into SExpr
// children the way the teacher's indentedListFrom walks a GCons chain.
func astTreeNode(node lang.Node) pterm.TreeNode {
	sexpr, ok := node.(*lang.SExpr)
	if !ok {
		return pterm.TreeNode{Text: node.String()}
	}
	children := make([]pterm.TreeNode, 0, sexpr.Len())
	for _, c := range sexpr.Children {
		children = append(children, astTreeNode(c))
	}
	return pterm.TreeNode{Text: "(...)", Children: children}
}

func loadInitFile(filename string, env *lang.Environment) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("unable to open init file %s: %v", filename, err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			lineno++
			continue
		}
		lex := lexer.New(line+"\n", env.Ctx)
		p := parser.New(lex)
		_, isEOF, result, code := interp.ReadEvalForm(p, env)
		if code != parser.Success || isEOF {
			tracer().Errorf("init file %s: bad form at line %d", filename, lineno)
			lineno++
			continue
		}
		if result.Err != nil {
			tracer().Errorf("init file %s line %d: %v", filename, lineno, result.Err)
		} else if result.Value.IsError() {
			tracer().Errorf("init file %s line %d: %s", filename, lineno, result.Value.Literal)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("error reading init file %s: %v", filename, err)
	}
}
