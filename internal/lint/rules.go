package lint

import (
	"fmt"

	"luast/internal/diag"
	"luast/internal/token"
	"luast/internal/vm"
)

type sym struct {
	name string
	tok  token.Token
	used bool
}

type Runner struct {
	diags []diag.Diagnostic
	opts  Options

	// locals in declaration order; lookups go newest-first.
	locals   []*sym
	assigned map[string]bool
	reported map[string]bool
	builtins map[string]bool
}

func newRunner(opts Options) *Runner {
	r := &Runner{
		opts:     opts,
		assigned: map[string]bool{},
		reported: map[string]bool{},
		builtins: map[string]bool{},
	}
	for _, name := range vm.Builtins() {
		r.builtins[name] = true
	}
	return r
}

func (r *Runner) warn(tok token.Token, code string, msg string) {
	r.diags = append(r.diags, diag.Diagnostic{
		Code:     code,
		Message:  msg,
		Severity: diag.SeverityWarning,
		Range: diag.Range{
			Line:   tok.Line,
			Col:    tok.Col,
			Length: tokLength(tok),
		},
	})
}

func tokLength(tok token.Token) int {
	if tok.Raw != "" {
		return len(tok.Raw)
	}
	if tok.Literal == "" {
		return 1
	}
	return len(tok.Literal)
}

func (r *Runner) lookup(name string) *sym {
	for i := len(r.locals) - 1; i >= 0; i-- {
		if r.locals[i].name == name {
			return r.locals[i]
		}
	}
	return nil
}

func (r *Runner) declare(tok token.Token) {
	if r.opts.CheckShadowing && tok.Literal != "_" {
		if prev := r.lookup(tok.Literal); prev != nil {
			r.warn(tok, CodeShadowing, fmt.Sprintf("local '%s' shadows the local declared at %d:%d",
				tok.Literal, prev.tok.Line, prev.tok.Col))
		}
	}
	r.locals = append(r.locals, &sym{name: tok.Literal, tok: tok})
}

// read marks a name as used when tok is one.
func (r *Runner) read(tok token.Token) {
	if tok.Type != token.NAME {
		return
	}
	if sm := r.lookup(tok.Literal); sm != nil {
		sm.used = true
		return
	}
	if !r.opts.CheckUndefined || r.builtins[tok.Literal] || r.assigned[tok.Literal] || r.reported[tok.Literal] {
		return
	}
	r.reported[tok.Literal] = true
	r.warn(tok, CodeUnsetGlobal, fmt.Sprintf("global '%s' is read before any assignment and is nil", tok.Literal))
}

func (r *Runner) write(tok token.Token) {
	if r.lookup(tok.Literal) != nil {
		return
	}
	r.assigned[tok.Literal] = true
}

// walk follows the statement grammar over the token stream. It stops at
// the first token it does not expect.
func (r *Runner) walk(toks []token.Token) {
	at := func(i int) token.Token {
		if i < len(toks) {
			return toks[i]
		}
		return token.Token{Type: token.EOF}
	}

	for i := 0; i < len(toks); {
		tok := toks[i]
		switch {
		case tok.Type == token.SEMICOLON:
			i++

		case tok.Type == token.LOCAL:
			name := at(i + 1)
			if name.Type != token.NAME || at(i+2).Type != token.ASSIGN {
				return
			}
			// The initializer is resolved before the new local exists.
			r.read(at(i + 3))
			r.declare(name)
			i += 4

		case tok.Type == token.NAME && at(i+1).Type == token.ASSIGN:
			rhs := at(i + 2)
			if rhs.Type == token.NAME && rhs.Literal == tok.Literal {
				r.warn(tok, CodeSelfAssign, fmt.Sprintf("assigning '%s' to itself has no effect", tok.Literal))
			}
			r.read(rhs)
			r.write(tok)
			i += 3

		case tok.Type == token.NAME:
			r.read(tok)
			switch at(i + 1).Type {
			case token.STRING:
				i += 2
			case token.LPAREN:
				r.read(at(i + 2))
				i += 4
			default:
				return
			}

		default:
			return
		}
	}
}

func (r *Runner) finish() {
	for _, sm := range r.locals {
		if sm.used || sm.name == "_" {
			continue
		}
		r.warn(sm.tok, CodeUnusedLocal, fmt.Sprintf("unused local: %s", sm.name))
	}
}
