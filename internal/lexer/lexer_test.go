package lexer

import (
	"errors"
	"testing"

	"luast/internal/token"
)

func TestLexer_HelloProgram(t *testing.T) {
	input := `print "hello, world!"`

	tests := []struct {
		typ token.Type
		lit string
	}{
		{token.NAME, "print"},
		{token.STRING, "hello, world!"},
		{token.EOF, ""},
	}

	l := NewString(input)
	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.typ {
			t.Fatalf("tests[%d] - wrong type. expected=%q got=%q", i, tt.typ, tok.Type)
		}
		if tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - wrong literal. expected=%q got=%q", i, tt.lit, tok.Literal)
		}
	}
}

func TestLexer_AllTokens(t *testing.T) {
	input := `and       break     do        else      elseif    end
false     for       function  goto      if        in
local     nil       not       or        repeat    return
then      true      until     while

+     -     *     /     %     ^     #
&     ~     |     <<    >>    //
==    ~=    <=    >=    <     >     =
(     )     {     }     [     ]     ::
;     :     ,     .     ..    ...

-- constant values
111   0.123   "hello"

hello -- a name`

	want := []token.Type{
		token.AND, token.BREAK, token.DO, token.ELSE, token.ELSEIF, token.END,
		token.FALSE, token.FOR, token.FUNCTION, token.GOTO, token.IF, token.IN,
		token.LOCAL, token.NIL, token.NOT, token.OR, token.REPEAT, token.RETURN,
		token.THEN, token.TRUE, token.UNTIL, token.WHILE,

		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET, token.HASH,
		token.BITAND, token.TILDE, token.BITOR, token.SHL, token.SHR, token.IDIV,
		token.EQ, token.NE, token.LE, token.GE, token.LT, token.GT, token.ASSIGN,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET, token.DOUBLE_COLON,
		token.SEMICOLON, token.COLON, token.COMMA, token.DOT, token.CONCAT, token.DOTS,

		token.INT, token.FLOAT, token.STRING,
		token.NAME,
	}

	toks, err := NewString(input).All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != len(want) {
		t.Fatalf("wrong token count. expected=%d got=%d (%v)", len(want), len(toks), toks)
	}
	for i, typ := range want {
		if toks[i].Type != typ {
			t.Fatalf("tokens[%d] - wrong type. expected=%q got=%q", i, typ, toks[i].Type)
		}
	}

	n := len(want)
	if toks[n-4].Int != 111 {
		t.Fatalf("expected integer 111, got %d", toks[n-4].Int)
	}
	if toks[n-3].Float != 0.123 {
		t.Fatalf("expected float 0.123, got %v", toks[n-3].Float)
	}
	if toks[n-2].Literal != "hello" || toks[n-1].Literal != "hello" {
		t.Fatalf("unexpected literals: %q %q", toks[n-2].Literal, toks[n-1].Literal)
	}
}

func TestLexer_KeywordsAreNotNames(t *testing.T) {
	for _, kw := range []string{"local", "nil", "true", "false", "function", "while"} {
		tok, err := NewString(kw).Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kw, err)
		}
		if tok.Type == token.NAME {
			t.Fatalf("%s lexed as a name", kw)
		}
		if tok.Type != token.Type(kw) {
			t.Fatalf("%s: expected keyword token, got %q", kw, tok.Type)
		}
	}

	tok, err := NewString("locals").Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.NAME || tok.Literal != "locals" {
		t.Fatalf("expected Name(locals), got %s", tok)
	}
}

func TestLexer_ShortOperatorKeepsNextChar(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Type
	}{
		{"<", []token.Type{token.LT}},
		{"<=", []token.Type{token.LE}},
		{"<<", []token.Type{token.SHL}},
		{"<x", []token.Type{token.LT, token.NAME}},
		{"~x", []token.Type{token.TILDE, token.NAME}},
		{"/1", []token.Type{token.SLASH, token.INT}},
		{":a", []token.Type{token.COLON, token.NAME}},
		{"=(", []token.Type{token.ASSIGN, token.LPAREN}},
		{".a", []token.Type{token.DOT, token.NAME}},
		{"..a", []token.Type{token.CONCAT, token.NAME}},
		{"-1", []token.Type{token.MINUS, token.INT}},
	}

	for _, tt := range tests {
		toks, err := NewString(tt.input).All()
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if len(toks) != len(tt.want) {
			t.Fatalf("%q: expected %d tokens, got %v", tt.input, len(tt.want), toks)
		}
		for i, typ := range tt.want {
			if toks[i].Type != typ {
				t.Fatalf("%q: token %d expected %q got %q", tt.input, i, typ, toks[i].Type)
			}
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
		i     int64
		f     float64
	}{
		{"0", token.INT, 0, 0},
		{"123", token.INT, 123, 0},
		{"3.14", token.FLOAT, 0, 3.14},
		{"3.", token.FLOAT, 0, 3.0},
		{".5", token.FLOAT, 0, 0.5},
		{"1e3", token.FLOAT, 0, 1000},
		{"2.5E-1", token.FLOAT, 0, 0.25},
		{"0x1F", token.INT, 31, 0},
		{"0Xff", token.INT, 255, 0},
		{"0xffffffffffffffff", token.INT, -1, 0},
		{"9223372036854775807", token.INT, 9223372036854775807, 0},
		{"9223372036854775808", token.FLOAT, 0, 9223372036854775808},
	}

	for _, tt := range tests {
		tok, err := NewString(tt.input).Next()
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != tt.typ {
			t.Fatalf("%q: expected %q, got %q", tt.input, tt.typ, tok.Type)
		}
		if tt.typ == token.INT && tok.Int != tt.i {
			t.Fatalf("%q: expected %d, got %d", tt.input, tt.i, tok.Int)
		}
		if tt.typ == token.FLOAT && tok.Float != tt.f {
			t.Fatalf("%q: expected %v, got %v", tt.input, tt.f, tok.Float)
		}
	}
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"abc"`, "abc"},
		{`'abc'`, "abc"},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`"a\tb\n"`, "a\tb\n"},
		{`"q\"q"`, `q"q`},
		{`"\65\066"`, "AB"},
		{`"\x41\x62"`, "Ab"},
		{`"back\\slash"`, `back\slash`},
		{"\"line\\\nnext\"", "line\nnext"},
	}

	for _, tt := range tests {
		tok, err := NewString(tt.input).Next()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		if tok.Type != token.STRING {
			t.Fatalf("%s: expected STRING, got %q", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.input, tt.want, tok.Literal)
		}
		if tok.Raw != tt.input {
			t.Fatalf("%s: raw lexeme not preserved, got %q", tt.input, tok.Raw)
		}
	}
}

func TestLexer_Faults(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{`"abc`, CodeUnterminated},
		{"'abc\n'", CodeUnterminated},
		{"@", CodeInvalidChar},
		{"print $", CodeInvalidChar},
		{"12abc", CodeMalformedNumber},
		{"1.2.3", CodeMalformedNumber},
		{"1..2", CodeMalformedNumber},
		{"0x", CodeMalformedNumber},
		{"0x1g", CodeMalformedNumber},
		{"1e", CodeMalformedNumber},
		{`"\q"`, CodeInvalidEscape},
		{`"\x4"`, CodeInvalidEscape},
		{`"\300"`, CodeInvalidEscape},
	}

	for _, tt := range tests {
		_, err := NewString(tt.input).All()
		if err == nil {
			t.Fatalf("%q: expected error", tt.input)
		}
		var lexErr *Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("%q: expected *Error, got %T", tt.input, err)
		}
		if lexErr.Code != tt.code {
			t.Fatalf("%q: expected code %s, got %s (%v)", tt.input, tt.code, lexErr.Code, err)
		}
	}
}

func TestLexer_CommentsAndPositions(t *testing.T) {
	input := "-- leading comment\nlocal x = 1 -- trailing\n  print(x)"

	toks, err := NewString(input).All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		typ       token.Type
		line, col int
	}{
		{token.LOCAL, 2, 1},
		{token.NAME, 2, 7},
		{token.ASSIGN, 2, 9},
		{token.INT, 2, 11},
		{token.NAME, 3, 3},
		{token.LPAREN, 3, 8},
		{token.NAME, 3, 9},
		{token.RPAREN, 3, 10},
	}
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %v", len(tests), toks)
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Type != tt.typ || tok.Line != tt.line || tok.Col != tt.col {
			t.Fatalf("tokens[%d] - expected %q at %d:%d, got %q at %d:%d",
				i, tt.typ, tt.line, tt.col, tok.Type, tok.Line, tok.Col)
		}
	}
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	l := NewString("x = 1")

	peeked, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := l.Peek()
	if peeked != again {
		t.Fatalf("second peek differs: %s vs %s", peeked, again)
	}

	next, _ := l.Next()
	if next != peeked {
		t.Fatalf("next should return the peeked token, got %s", next)
	}

	next, _ = l.Next()
	if next.Type != token.ASSIGN {
		t.Fatalf("expected '=', got %s", next)
	}
}
