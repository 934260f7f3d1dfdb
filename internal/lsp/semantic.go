package lsp

import (
	"luast/internal/token"
)

// semantic token type indices (must match legend order in server)
const (
	ttKeyword  = 0
	ttString   = 1
	ttNumber   = 2
	ttOperator = 3
	ttFunction = 4
	ttVariable = 5
	ttComment  = 6
)

const (
	modDecl       = 1 << 0
	modReadonly   = 1 << 1
	modDefaultLib = 1 << 2
)

// TokenTypes and TokenModifiers are the legend, in index order.
var (
	TokenTypes     = []string{"keyword", "string", "number", "operator", "function", "variable", "comment"}
	TokenModifiers = []string{"declaration", "readonly", "defaultLibrary"}
)

type SemTok struct {
	Line   int
	Col    int
	Length int
	Type   int
	Mods   int
}

func Classify(tok token.Token) (int, bool) {
	switch {
	case token.IsKeyword(tok.Type):
		return ttKeyword, true
	case tok.Type == token.STRING:
		return ttString, true
	case tok.Type == token.INT, tok.Type == token.FLOAT:
		return ttNumber, true
	case tok.Type == token.NAME:
		return ttVariable, true
	case tok.Type == token.EOF:
		return 0, false
	}

	switch tok.Type {
	case token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.SEMICOLON, token.COMMA:
		return 0, false
	}
	return ttOperator, true
}

// SemanticTokensForText returns unencoded semantic tokens for text. Names
// are colored by what they resolve to; comments are found by a separate
// scan since the lexer drops them.
func SemanticTokensForText(text string) []SemTok {
	an := Analyze(text)
	names := make(map[Pos]Name, len(an.Names))
	for _, n := range an.Names {
		names[Pos{Line: n.Tok.Line, Col: n.Tok.Col}] = n
	}

	sem := make([]SemTok, 0, len(an.Tokens))
	for _, tok := range an.Tokens {
		tt, ok := Classify(tok)
		if !ok {
			continue
		}
		length := len(tok.Literal)
		if tok.Raw != "" {
			length = len(tok.Raw)
		}
		st := SemTok{Line: tok.Line, Col: tok.Col, Length: length, Type: tt}

		if n, ok := names[Pos{Line: tok.Line, Col: tok.Col}]; ok {
			if n.Callee {
				st.Type = ttFunction
			}
			if n.Decl {
				st.Mods |= modDecl
			}
			if n.Kind == NameBuiltin {
				st.Mods |= modReadonly | modDefaultLib
			}
		}
		sem = append(sem, st)
	}

	return append(sem, commentTokens(text)...)
}

// commentTokens finds `--` comments outside string literals.
func commentTokens(text string) []SemTok {
	var out []SemTok
	for i, line := range newDocument(text) {
		var quote byte
		for j := 0; j < len(line); j++ {
			ch := line[j]
			if quote != 0 {
				switch ch {
				case '\\':
					j++
				case quote:
					quote = 0
				}
				continue
			}
			if ch == '"' || ch == '\'' {
				quote = ch
				continue
			}
			if ch == '-' && j+1 < len(line) && line[j+1] == '-' {
				out = append(out, SemTok{Line: i + 1, Col: j + 1, Length: len(line) - j, Type: ttComment})
				break
			}
		}
	}
	return out
}
