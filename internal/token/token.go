package token

import "fmt"

type Type string

type Token struct {
	Type Type
	// Literal holds the decoded text of NAME and STRING tokens and the
	// source spelling of everything else.
	Literal string
	// Raw preserves the original lexeme when Literal is normalized (e.g., strings).
	Raw   string
	Int   int64
	Float float64
	Line  int
	Col   int
}

const (
	// Special
	EOF Type = "EOF"

	// Names + literals
	NAME   Type = "NAME"
	INT    Type = "INT"
	FLOAT  Type = "FLOAT"
	STRING Type = "STRING"

	// Keywords
	AND      Type = "and"
	BREAK    Type = "break"
	DO       Type = "do"
	ELSE     Type = "else"
	ELSEIF   Type = "elseif"
	END      Type = "end"
	FALSE    Type = "false"
	FOR      Type = "for"
	FUNCTION Type = "function"
	GOTO     Type = "goto"
	IF       Type = "if"
	IN       Type = "in"
	LOCAL    Type = "local"
	NIL      Type = "nil"
	NOT      Type = "not"
	OR       Type = "or"
	REPEAT   Type = "repeat"
	RETURN   Type = "return"
	THEN     Type = "then"
	TRUE     Type = "true"
	UNTIL    Type = "until"
	WHILE    Type = "while"

	// Operators
	PLUS    Type = "+"
	MINUS   Type = "-"
	STAR    Type = "*"
	SLASH   Type = "/"
	PERCENT Type = "%"
	CARET   Type = "^"
	HASH    Type = "#"
	BITAND  Type = "&"
	TILDE   Type = "~"
	BITOR   Type = "|"
	SHL     Type = "<<"
	SHR     Type = ">>"
	IDIV    Type = "//"

	EQ     Type = "=="
	NE     Type = "~="
	LE     Type = "<="
	GE     Type = ">="
	LT     Type = "<"
	GT     Type = ">"
	ASSIGN Type = "="

	// Delimiters
	LPAREN       Type = "("
	RPAREN       Type = ")"
	LBRACE       Type = "{"
	RBRACE       Type = "}"
	LBRACKET     Type = "["
	RBRACKET     Type = "]"
	DOUBLE_COLON Type = "::"
	SEMICOLON    Type = ";"
	COLON        Type = ":"
	COMMA        Type = ","
	DOT          Type = "."
	CONCAT       Type = ".."
	DOTS         Type = "..."
)

var keywords = map[string]Type{
	"and":      AND,
	"break":    BREAK,
	"do":       DO,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"end":      END,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"goto":     GOTO,
	"if":       IF,
	"in":       IN,
	"local":    LOCAL,
	"nil":      NIL,
	"not":      NOT,
	"or":       OR,
	"repeat":   REPEAT,
	"return":   RETURN,
	"then":     THEN,
	"true":     TRUE,
	"until":    UNTIL,
	"while":    WHILE,
}

func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return NAME
}

// IsKeyword reports whether t is one of the reserved words.
func IsKeyword(t Type) bool {
	_, ok := keywords[string(t)]
	return ok
}

func (t Token) String() string {
	switch t.Type {
	case NAME:
		return fmt.Sprintf("Name(%s)", t.Literal)
	case STRING:
		return fmt.Sprintf("String(%q)", t.Literal)
	case INT:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case FLOAT:
		return fmt.Sprintf("Float(%v)", t.Float)
	case EOF:
		return "Eos"
	default:
		return string(t.Type)
	}
}
