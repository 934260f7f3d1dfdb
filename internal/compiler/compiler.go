package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"

	"luast/internal/code"
	"luast/internal/diag"
	"luast/internal/lexer"
	"luast/internal/object"
	"luast/internal/token"
)

const (
	CodeUnexpectedToken = "CP0001"
	CodeExpected        = "CP0002"
	CodeInvalidArgument = "CP0003"
	CodeArgCount        = "CP0004"
	CodeTooManyConsts   = "CP0005"
	CodeTooManyLocals   = "CP0006"
)

var log = commonlog.GetLogger("luast.compiler")

// Error is a syntactic fault. Compilation stops at the first one.
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

// Bytecode is a compiled program: everything the VM needs to run it.
type Bytecode struct {
	Instructions code.Instructions
	Constants    []object.Object
	NumLocals    int
	Debug        DebugInfo
}

type SourcePos = code.SourcePos

type DebugInfo struct {
	File string
	Pos  []SourcePos
}

// PosAt returns the source position of the instruction at offset.
func (d DebugInfo) PosAt(offset int) (SourcePos, bool) {
	for i := len(d.Pos) - 1; i >= 0; i-- {
		if d.Pos[i].Offset <= offset {
			return d.Pos[i], true
		}
	}
	return SourcePos{}, false
}

type Compiler struct {
	lex *lexer.Lexer

	constants  []object.Object
	constIndex map[object.HashKey]int
	symbols    *SymbolTable

	instructions code.Instructions
	pos          []SourcePos

	file    string
	curLine int
	curCol  int
}

func New(l *lexer.Lexer) *Compiler {
	return &Compiler{
		lex:          l,
		constants:    []object.Object{},
		constIndex:   map[object.HashKey]int{},
		symbols:      NewSymbolTable(),
		instructions: code.Instructions{},
	}
}

func NewWithFile(l *lexer.Lexer, file string) *Compiler {
	c := New(l)
	c.file = file
	return c
}

// Compile compiles source read from r into a program.
func Compile(r io.Reader) (*Bytecode, error) {
	c := New(lexer.New(r))
	if err := c.Compile(); err != nil {
		return nil, err
	}
	return c.Bytecode(), nil
}

func CompileString(src string) (*Bytecode, error) {
	return Compile(strings.NewReader(src))
}

// Reset points the compiler at a new token stream while keeping its
// locals, constants and instructions, so compilation can continue.
func (c *Compiler) Reset(l *lexer.Lexer) {
	c.lex = l
}

func (c *Compiler) Bytecode() *Bytecode {
	return &Bytecode{
		Instructions: c.instructions,
		Constants:    c.constants,
		NumLocals:    c.symbols.Len(),
		Debug: DebugInfo{
			File: c.file,
			Pos:  c.pos,
		},
	}
}

// Mark records how far compilation has got, for Rollback.
type Mark struct {
	instructions int
	pos          int
	constants    int
	locals       int
}

func (c *Compiler) Mark() Mark {
	return Mark{
		instructions: len(c.instructions),
		pos:          len(c.pos),
		constants:    len(c.constants),
		locals:       c.symbols.Len(),
	}
}

// Rollback discards everything compiled since m.
func (c *Compiler) Rollback(m Mark) {
	c.instructions = c.instructions[:m.instructions]
	c.pos = c.pos[:m.pos]
	for _, obj := range c.constants[m.constants:] {
		if h, ok := obj.(object.Hashable); ok {
			if idx, ok := c.constIndex[h.HashKey()]; ok && idx >= m.constants {
				delete(c.constIndex, h.HashKey())
			}
		}
	}
	c.constants = c.constants[:m.constants]
	c.symbols.truncate(m.locals)
}

// Compile reads statements until the end of the stream.
func (c *Compiler) Compile() error {
	for {
		tok, err := c.lex.Peek()
		if err != nil {
			return err
		}
		if tok.Type == token.EOF {
			_, _ = c.lex.Next()
			break
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	log.Debugf("compiled %d bytes of bytecode, %d constants, %d locals",
		len(c.instructions), len(c.constants), c.symbols.Len())
	return nil
}

func (c *Compiler) statement() error {
	tok, err := c.lex.Next()
	if err != nil {
		return err
	}
	c.setPosFromToken(tok)

	switch tok.Type {
	case token.NAME:
		next, err := c.lex.Peek()
		if err != nil {
			return err
		}
		if next.Type == token.ASSIGN {
			_, _ = c.lex.Next()
			return c.assignment(tok)
		}
		return c.callStatement(tok)

	case token.LOCAL:
		return c.localStatement()

	case token.SEMICOLON:
		return nil
	}

	return c.errorAt(tok, CodeUnexpectedToken, "unexpected token %s", describe(tok))
}

// assignment compiles `name = expr`; the '=' is already consumed.
func (c *Compiler) assignment(target token.Token) error {
	if sym, ok := c.symbols.Resolve(target.Literal); ok {
		return c.loadExpr(sym.Index)
	}

	name, err := c.nameConstant(target)
	if err != nil {
		return err
	}

	rhs, err := c.lex.Next()
	if err != nil {
		return err
	}
	c.setPosFromToken(rhs)

	switch rhs.Type {
	case token.NIL, token.TRUE, token.FALSE, token.INT, token.FLOAT, token.STRING:
		idx := c.addConstant(literalValue(rhs))
		if idx > code.MaxNameConst {
			return c.errorAt(rhs, CodeTooManyConsts, "too many constants")
		}
		c.emit(code.OpSetGlobalConst, name, idx)
		return nil

	case token.NAME:
		if sym, ok := c.symbols.Resolve(rhs.Literal); ok {
			c.emit(code.OpSetGlobal, name, sym.Index)
			return nil
		}
		src, err := c.nameConstant(rhs)
		if err != nil {
			return err
		}
		c.emit(code.OpSetGlobalGlobal, name, src)
		return nil
	}

	return c.errorAt(rhs, CodeInvalidArgument, "invalid argument %s", describe(rhs))
}

// callStatement compiles `name(expr)` and `name "string"`.
func (c *Compiler) callStatement(callee token.Token) error {
	fn := c.symbols.Len()
	if err := c.checkSlot(callee, fn+1); err != nil {
		return err
	}
	if err := c.loadName(fn, callee); err != nil {
		return err
	}

	tok, err := c.lex.Next()
	if err != nil {
		return err
	}

	switch tok.Type {
	case token.LPAREN:
		next, err := c.lex.Peek()
		if err != nil {
			return err
		}
		if next.Type == token.RPAREN {
			return c.errorAt(next, CodeArgCount, "%s expects exactly one argument", callee.Literal)
		}
		if err := c.loadExpr(fn + 1); err != nil {
			return err
		}
		closing, err := c.lex.Next()
		if err != nil {
			return err
		}
		switch closing.Type {
		case token.RPAREN:
		case token.COMMA:
			return c.errorAt(closing, CodeArgCount, "%s expects exactly one argument", callee.Literal)
		default:
			return c.errorAt(closing, CodeExpected, "expected ')' near %s", describe(closing))
		}

	case token.STRING:
		c.setPosFromToken(tok)
		if err := c.loadConst(fn+1, &object.String{Value: tok.Literal}, tok); err != nil {
			return err
		}

	default:
		return c.errorAt(tok, CodeUnexpectedToken, "unexpected token %s", describe(tok))
	}

	c.setPosFromToken(callee)
	c.emit(code.OpCall, fn, 1)
	return nil
}

// localStatement compiles `local name = expr`. The name is only declared
// after its initializer, so `local x = x` reads the outer x.
func (c *Compiler) localStatement() error {
	name, err := c.expect(token.NAME, "name")
	if err != nil {
		return err
	}
	if _, err := c.expect(token.ASSIGN, "'='"); err != nil {
		return err
	}

	dst := c.symbols.Len()
	if err := c.checkSlot(name, dst); err != nil {
		return err
	}
	if err := c.loadExpr(dst); err != nil {
		return err
	}
	c.symbols.Define(name.Literal)
	return nil
}

// loadExpr compiles the next expression into stack slot dst. It is the
// only place that decides between inline immediates and the constant pool.
func (c *Compiler) loadExpr(dst int) error {
	tok, err := c.lex.Next()
	if err != nil {
		return err
	}
	c.setPosFromToken(tok)

	switch tok.Type {
	case token.NAME:
		return c.loadName(dst, tok)
	case token.NIL:
		c.emit(code.OpLoadNil, dst)
	case token.TRUE:
		c.emit(code.OpLoadBool, dst, 1)
	case token.FALSE:
		c.emit(code.OpLoadBool, dst, 0)
	case token.INT:
		if tok.Int >= code.MinImmediate && tok.Int <= code.MaxImmediate {
			c.emit(code.OpLoadInt, dst, int(tok.Int))
			return nil
		}
		return c.loadConst(dst, &object.Integer{Value: tok.Int}, tok)
	case token.FLOAT:
		return c.loadConst(dst, &object.Float{Value: tok.Float}, tok)
	case token.STRING:
		return c.loadConst(dst, &object.String{Value: tok.Literal}, tok)
	default:
		return c.errorAt(tok, CodeInvalidArgument, "invalid argument %s", describe(tok))
	}
	return nil
}

// loadName reads a variable into dst: locals by Move, globals by name.
func (c *Compiler) loadName(dst int, tok token.Token) error {
	if sym, ok := c.symbols.Resolve(tok.Literal); ok {
		c.emit(code.OpMove, dst, sym.Index)
		return nil
	}
	idx, err := c.nameConstant(tok)
	if err != nil {
		return err
	}
	c.emit(code.OpGetGlobal, dst, idx)
	return nil
}

func (c *Compiler) loadConst(dst int, obj object.Object, tok token.Token) error {
	idx := c.addConstant(obj)
	if idx > code.MaxConst {
		return c.errorAt(tok, CodeTooManyConsts, "too many constants")
	}
	c.emit(code.OpLoadConst, dst, idx)
	return nil
}

// nameConstant interns a variable name. Name operands are one byte wide.
func (c *Compiler) nameConstant(tok token.Token) (int, error) {
	idx := c.addConstant(&object.String{Value: tok.Literal})
	if idx > code.MaxNameConst {
		return 0, c.errorAt(tok, CodeTooManyConsts, "too many constants: cannot reference global %q", tok.Literal)
	}
	return idx, nil
}

func (c *Compiler) checkSlot(tok token.Token, slot int) error {
	if slot > code.MaxSlot {
		return c.errorAt(tok, CodeTooManyLocals, "too many local variables")
	}
	return nil
}

func (c *Compiler) expect(t token.Type, what string) (token.Token, error) {
	tok, err := c.lex.Next()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Type != t {
		return token.Token{}, c.errorAt(tok, CodeExpected, "expected %s near %s", what, describe(tok))
	}
	return tok, nil
}

func (c *Compiler) emit(op code.Opcode, operands ...int) int {
	ins := code.Make(op, operands...)
	pos := len(c.instructions)
	c.instructions = append(c.instructions, ins...)
	if c.curLine != 0 {
		c.pos = append(c.pos, SourcePos{
			Offset: pos,
			Line:   c.curLine,
			Col:    c.curCol,
		})
	}
	return pos
}

// addConstant interns obj, returning the index of an equal constant if
// one is already in the pool.
func (c *Compiler) addConstant(obj object.Object) int {
	h, hashable := obj.(object.Hashable)
	scan := !hashable
	if hashable {
		idx, ok := c.constIndex[h.HashKey()]
		if ok && object.Equal(c.constants[idx], obj) {
			return idx
		}
		// A taken key holding a different value is a hash collision.
		scan = ok
	}
	if scan {
		for i, existing := range c.constants {
			if object.Equal(existing, obj) {
				return i
			}
		}
	}
	c.constants = append(c.constants, obj)
	idx := len(c.constants) - 1
	if hashable {
		if _, taken := c.constIndex[h.HashKey()]; !taken {
			c.constIndex[h.HashKey()] = idx
		}
	}
	return idx
}

func (c *Compiler) setPosFromToken(tok token.Token) {
	c.curLine = tok.Line
	c.curCol = tok.Col
}

func (c *Compiler) errorAt(tok token.Token, errCode, format string, args ...any) *Error {
	length := len(tok.Literal)
	if tok.Raw != "" {
		length = len(tok.Raw)
	}
	return &Error{
		Code:   errCode,
		Msg:    fmt.Sprintf(format, args...),
		Line:   tok.Line,
		Col:    tok.Col,
		Length: length,
	}
}

func literalValue(tok token.Token) object.Object {
	switch tok.Type {
	case token.TRUE:
		return object.True
	case token.FALSE:
		return object.False
	case token.INT:
		return &object.Integer{Value: tok.Int}
	case token.FLOAT:
		return &object.Float{Value: tok.Float}
	case token.STRING:
		return &object.String{Value: tok.Literal}
	default:
		return object.NilValue
	}
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "<eof>"
	case token.STRING:
		return fmt.Sprintf("%q", tok.Literal)
	case token.NAME, token.INT, token.FLOAT:
		return fmt.Sprintf("'%s'", tok.Literal)
	default:
		return fmt.Sprintf("'%s'", tok.Type)
	}
}
