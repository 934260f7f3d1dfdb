package lsp

import (
	"slices"

	"luast/internal/lexer"
	"luast/internal/token"
	"luast/internal/vm"
)

type NameKind int

const (
	NameGlobal NameKind = iota
	NameLocal
	NameBuiltin
)

// Name is one occurrence of an identifier and what it resolves to.
type Name struct {
	Tok  token.Token
	Kind NameKind
	// Slot is the stack slot of a local, or -1.
	Slot int
	Decl bool
	// Callee is set when the name is called.
	Callee bool
}

type Analysis struct {
	Tokens []token.Token
	Names  []Name
	// Err is the lexical fault that cut the token stream short, if any.
	Err error
}

// Analyze resolves names the way the compiler does: `local` declares a
// slot only after its initializer, and later declarations shadow earlier
// ones. Source that does not compile is analyzed as far as it lexes.
func Analyze(text string) *Analysis {
	toks, err := lexer.NewString(text).All()
	an := &Analysis{Tokens: toks, Err: err}

	builtins := vm.Builtins()
	var locals []string
	resolve := func(name string) int {
		for i := len(locals) - 1; i >= 0; i-- {
			if locals[i] == name {
				return i
			}
		}
		return -1
	}

	declAt := -1 // index of a pending declaration's name token
	for i, tok := range toks {
		if tok.Type == token.LOCAL && i+1 < len(toks) && toks[i+1].Type == token.NAME {
			declAt = i + 1
			continue
		}
		if tok.Type == token.NAME {
			n := Name{Tok: tok, Slot: -1}
			if i+1 < len(toks) && (toks[i+1].Type == token.LPAREN || toks[i+1].Type == token.STRING) {
				n.Callee = true
			}
			switch {
			case i == declAt:
				n.Kind = NameLocal
				n.Slot = len(locals)
				n.Decl = true
			case resolve(tok.Literal) >= 0:
				n.Kind = NameLocal
				n.Slot = resolve(tok.Literal)
			case slices.Contains(builtins, tok.Literal):
				n.Kind = NameBuiltin
			default:
				n.Kind = NameGlobal
			}
			an.Names = append(an.Names, n)
		}
		// `local x = expr` commits x once expr is consumed.
		if declAt >= 0 && i == declAt+2 {
			locals = append(locals, toks[declAt].Literal)
			declAt = -1
		}
	}
	return an
}

// NameAt returns the name occurrence covering p.
func (an *Analysis) NameAt(p Pos) (Name, bool) {
	for _, n := range an.Names {
		if n.Tok.Line == p.Line && p.Col >= n.Tok.Col && p.Col < n.Tok.Col+len(n.Tok.Literal) {
			return n, true
		}
	}
	return Name{}, false
}

// Declaration returns the declaration of the local in slot.
func (an *Analysis) Declaration(slot int) (Name, bool) {
	for _, n := range an.Names {
		if n.Decl && n.Slot == slot {
			return n, true
		}
	}
	return Name{}, false
}
