package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"luast/internal/diag"
	"luast/internal/numlit"
	"luast/internal/token"
)

const (
	CodeInvalidChar     = "LX0001"
	CodeUnterminated    = "LX0002"
	CodeMalformedNumber = "LX0003"
	CodeInvalidEscape   = "LX0004"
	CodeRead            = "LX0005"
)

// Error is a lexical fault. Lexing cannot continue past one.
type Error struct {
	Code   string
	Msg    string
	Line   int
	Col    int
	Length int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *Error) Diagnostic() diag.Diagnostic {
	length := e.Length
	if length <= 0 {
		length = 1
	}
	return diag.Diagnostic{
		Code:     e.Code,
		Message:  e.Msg,
		Severity: diag.SeverityError,
		Range:    diag.Range{Line: e.Line, Col: e.Col, Length: length},
	}
}

type Lexer struct {
	r *bufio.Reader

	// ahead is the one-token lookahead slot filled by Peek.
	ahead *token.Token

	line int // 1-based line of the last byte read
	col  int // 1-based column of the last byte read

	prevLine int
	prevCol  int
	eof      bool // the last read hit end of stream

	readErr error
}

func New(r io.Reader) *Lexer {
	return &Lexer{
		r:    bufio.NewReader(r),
		line: 1,
		col:  0, // readChar() will advance to col=1 for first char
	}
}

func NewString(src string) *Lexer {
	return New(strings.NewReader(src))
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (token.Token, error) {
	if l.ahead != nil {
		tok := *l.ahead
		l.ahead = nil
		return tok, nil
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (token.Token, error) {
	if l.ahead == nil {
		tok, err := l.scan()
		if err != nil {
			return token.Token{}, err
		}
		l.ahead = &tok
	}
	return *l.ahead, nil
}

// All drains the lexer, returning every token up to but excluding EOF.
func (l *Lexer) All() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		if tok.Type == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) scan() (token.Token, error) {
	for {
		ch := l.readChar()
		if l.readErr != nil {
			return token.Token{}, &Error{Code: CodeRead, Msg: l.readErr.Error(), Line: l.line, Col: l.col}
		}
		startLine, startCol := l.line, l.col

		switch ch {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			continue
		case 0:
			if l.eof {
				return l.newToken(token.EOF, "", startLine, startCol+1), nil
			}
			return token.Token{}, l.errorf(CodeInvalidChar, startLine, startCol, "invalid character: %q", ch)

		case '-':
			if l.readChar() == '-' {
				l.skipLineComment()
				continue
			}
			l.unreadChar()
			return l.newToken(token.MINUS, "-", startLine, startCol), nil

		case '+':
			return l.newToken(token.PLUS, "+", startLine, startCol), nil
		case '*':
			return l.newToken(token.STAR, "*", startLine, startCol), nil
		case '%':
			return l.newToken(token.PERCENT, "%", startLine, startCol), nil
		case '^':
			return l.newToken(token.CARET, "^", startLine, startCol), nil
		case '#':
			return l.newToken(token.HASH, "#", startLine, startCol), nil
		case '&':
			return l.newToken(token.BITAND, "&", startLine, startCol), nil
		case '|':
			return l.newToken(token.BITOR, "|", startLine, startCol), nil
		case '(':
			return l.newToken(token.LPAREN, "(", startLine, startCol), nil
		case ')':
			return l.newToken(token.RPAREN, ")", startLine, startCol), nil
		case '{':
			return l.newToken(token.LBRACE, "{", startLine, startCol), nil
		case '}':
			return l.newToken(token.RBRACE, "}", startLine, startCol), nil
		case '[':
			return l.newToken(token.LBRACKET, "[", startLine, startCol), nil
		case ']':
			return l.newToken(token.RBRACKET, "]", startLine, startCol), nil
		case ';':
			return l.newToken(token.SEMICOLON, ";", startLine, startCol), nil
		case ',':
			return l.newToken(token.COMMA, ",", startLine, startCol), nil

		case '/':
			return l.twoChar('/', token.IDIV, token.SLASH, startLine, startCol), nil
		case '=':
			return l.twoChar('=', token.EQ, token.ASSIGN, startLine, startCol), nil
		case '~':
			return l.twoChar('=', token.NE, token.TILDE, startLine, startCol), nil
		case ':':
			return l.twoChar(':', token.DOUBLE_COLON, token.COLON, startLine, startCol), nil
		case '<':
			switch l.readChar() {
			case '=':
				return l.newToken(token.LE, "<=", startLine, startCol), nil
			case '<':
				return l.newToken(token.SHL, "<<", startLine, startCol), nil
			}
			l.unreadChar()
			return l.newToken(token.LT, "<", startLine, startCol), nil
		case '>':
			switch l.readChar() {
			case '=':
				return l.newToken(token.GE, ">=", startLine, startCol), nil
			case '>':
				return l.newToken(token.SHR, ">>", startLine, startCol), nil
			}
			l.unreadChar()
			return l.newToken(token.GT, ">", startLine, startCol), nil

		case '.':
			next := l.readChar()
			if next == '.' {
				if l.readChar() == '.' {
					return l.newToken(token.DOTS, "...", startLine, startCol), nil
				}
				l.unreadChar()
				return l.newToken(token.CONCAT, "..", startLine, startCol), nil
			}
			if isDigit(next) {
				var b strings.Builder
				b.WriteByte('.')
				b.WriteByte(next)
				return l.readNumberTail(&b, true, startLine, startCol)
			}
			l.unreadChar()
			return l.newToken(token.DOT, ".", startLine, startCol), nil

		case '"', '\'':
			return l.readString(ch, startLine, startCol)
		}

		if isIdentStart(ch) {
			lit := l.readIdentifier(ch)
			return l.newToken(token.LookupIdent(lit), lit, startLine, startCol), nil
		}

		if isDigit(ch) {
			return l.readNumber(ch, startLine, startCol)
		}

		return token.Token{}, l.errorf(CodeInvalidChar, startLine, startCol, "invalid character: %q", ch)
	}
}

// twoChar resolves an operator that may be followed by one more byte.
func (l *Lexer) twoChar(second byte, long, short token.Type, line, col int) token.Token {
	if l.readChar() == second {
		return l.newToken(long, string(long), line, col)
	}
	l.unreadChar()
	return l.newToken(short, string(short), line, col)
}

func (l *Lexer) newToken(t token.Type, lit string, line, col int) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Line:    line,
		Col:     col,
	}
}

func (l *Lexer) errorf(code string, line, col int, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// readChar returns the next byte, or 0 at end of stream.
func (l *Lexer) readChar() byte {
	l.prevLine, l.prevCol = l.line, l.col
	ch, err := l.r.ReadByte()
	if err != nil {
		if err != io.EOF && l.readErr == nil {
			l.readErr = err
		}
		l.eof = true
		return 0
	}
	l.eof = false

	// Track line/col for current char
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

// unreadChar puts back the byte returned by the last readChar.
func (l *Lexer) unreadChar() {
	if l.eof {
		return
	}
	_ = l.r.UnreadByte()
	l.line, l.col = l.prevLine, l.prevCol
}

func (l *Lexer) skipLineComment() {
	for {
		ch := l.readChar()
		if ch == '\n' || l.eof {
			return
		}
	}
}

func (l *Lexer) readIdentifier(first byte) string {
	var b strings.Builder
	b.WriteByte(first)
	for {
		ch := l.readChar()
		if !isIdentPart(ch) {
			l.unreadChar()
			return b.String()
		}
		b.WriteByte(ch)
	}
}

func (l *Lexer) readDigits(b *strings.Builder, base int) int {
	n := 0
	for {
		ch := l.readChar()
		if !numlit.IsDigitForBase(ch, base) {
			l.unreadChar()
			return n
		}
		b.WriteByte(ch)
		n++
	}
}

func (l *Lexer) readNumber(first byte, line, col int) (token.Token, error) {
	var b strings.Builder
	b.WriteByte(first)

	if first == '0' {
		ch := l.readChar()
		if ch == 'x' || ch == 'X' {
			b.WriteByte(ch)
			return l.readHex(&b, line, col)
		}
		l.unreadChar()
	}

	l.readDigits(&b, 10)
	isFloat := false
	if l.readChar() == '.' {
		isFloat = true
		b.WriteByte('.')
	} else {
		l.unreadChar()
	}
	return l.readNumberTail(&b, isFloat, line, col)
}

// readNumberTail continues a decimal literal after its integer part (or
// after ".digit"), handling the fraction, the exponent and the check that
// nothing name-like is glued to the end.
func (l *Lexer) readNumberTail(b *strings.Builder, isFloat bool, line, col int) (token.Token, error) {
	if isFloat {
		l.readDigits(b, 10)
	}

	ch := l.readChar()
	if ch == 'e' || ch == 'E' {
		isFloat = true
		b.WriteByte(ch)
		ch = l.readChar()
		if ch == '+' || ch == '-' {
			b.WriteByte(ch)
			ch = l.readChar()
		}
		if !isDigit(ch) {
			return token.Token{}, l.malformed(b.String(), ch, line, col)
		}
		b.WriteByte(ch)
		l.readDigits(b, 10)
		ch = l.readChar()
	}
	if isIdentPart(ch) || ch == '.' {
		return token.Token{}, l.malformed(b.String(), ch, line, col)
	}
	l.unreadChar()

	lit := b.String()
	if !isFloat {
		v, err := numlit.ParseIntLiteral(lit)
		if err == nil {
			tok := l.newToken(token.INT, lit, line, col)
			tok.Int = v
			return tok, nil
		}
		if err != numlit.ErrIntRange {
			return token.Token{}, l.malformed(lit, 0, line, col)
		}
		// Too large for an integer: read it as a float instead.
	}
	f, err := numlit.ParseFloatLiteral(lit)
	if err != nil {
		return token.Token{}, l.malformed(lit, 0, line, col)
	}
	tok := l.newToken(token.FLOAT, lit, line, col)
	tok.Float = f
	return tok, nil
}

func (l *Lexer) readHex(b *strings.Builder, line, col int) (token.Token, error) {
	n := l.readDigits(b, 16)
	ch := l.readChar()
	if n == 0 || isIdentPart(ch) || ch == '.' {
		return token.Token{}, l.malformed(b.String(), ch, line, col)
	}
	l.unreadChar()

	lit := b.String()
	v, err := numlit.ParseIntLiteral(lit)
	if err != nil {
		return token.Token{}, l.malformed(lit, 0, line, col)
	}
	tok := l.newToken(token.INT, lit, line, col)
	tok.Int = v
	return tok, nil
}

func (l *Lexer) malformed(lit string, next byte, line, col int) *Error {
	if next != 0 {
		lit += string(next)
	}
	e := l.errorf(CodeMalformedNumber, line, col, "malformed number near '%s'", lit)
	e.Length = len(lit)
	return e
}

func (l *Lexer) readString(quote byte, line, col int) (token.Token, error) {
	var b strings.Builder
	var raw strings.Builder
	raw.WriteByte(quote)

	for {
		ch := l.readChar()
		if l.eof || ch == '\n' {
			e := l.errorf(CodeUnterminated, line, col, "unfinished string")
			e.Length = raw.Len()
			return token.Token{}, e
		}
		raw.WriteByte(ch)
		if ch == quote {
			break
		}
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		if err := l.readEscape(&b, &raw); err != nil {
			return token.Token{}, err
		}
	}

	tok := l.newToken(token.STRING, b.String(), line, col)
	tok.Raw = raw.String()
	return tok, nil
}

var simpleEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'\n': '\n',
}

// readEscape decodes one escape sequence; the backslash is already consumed.
func (l *Lexer) readEscape(b, raw *strings.Builder) error {
	escLine, escCol := l.line, l.col
	ch := l.readChar()
	if l.eof {
		return l.errorf(CodeUnterminated, escLine, escCol, "unfinished string")
	}
	raw.WriteByte(ch)

	if out, ok := simpleEscapes[ch]; ok {
		b.WriteByte(out)
		return nil
	}

	switch {
	case ch == 'x':
		var v byte
		for i := 0; i < 2; i++ {
			h := l.readChar()
			if !numlit.IsDigitForBase(h, 16) {
				return l.errorf(CodeInvalidEscape, escLine, escCol, "hexadecimal digit expected in escape sequence")
			}
			raw.WriteByte(h)
			v = v<<4 | numlit.HexValue(h)
		}
		b.WriteByte(v)
		return nil

	case isDigit(ch):
		v := int(ch - '0')
		for i := 0; i < 2; i++ {
			d := l.readChar()
			if !isDigit(d) {
				l.unreadChar()
				break
			}
			raw.WriteByte(d)
			v = v*10 + int(d-'0')
		}
		if v > 255 {
			return l.errorf(CodeInvalidEscape, escLine, escCol, "decimal escape too large")
		}
		b.WriteByte(byte(v))
		return nil
	}

	return l.errorf(CodeInvalidEscape, escLine, escCol, "invalid escape sequence '\\%c'", ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
