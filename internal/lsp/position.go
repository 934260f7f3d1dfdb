package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Pos is a 1-based line and byte column, the lexer's coordinates.
type Pos struct {
	Line int
	Col  int
}

// document converts between lexer positions and protocol positions, which
// count UTF-16 code units from 0.
type document []string

func newDocument(text string) document {
	return strings.Split(text, "\n")
}

func (d document) line(n int) (string, bool) {
	if n < 1 || n > len(d) {
		return "", false
	}
	return d[n-1], true
}

func units(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// character returns the UTF-16 offset of 1-based byte column col.
func character(lineText string, col int) uint32 {
	end := min(max(col-1, 0), len(lineText))
	n := 0
	for _, r := range lineText[:end] {
		n += units(r)
	}
	return uint32(n)
}

func (d document) toProtocol(line, col int) protocol.Position {
	text, ok := d.line(line)
	if !ok {
		return protocol.Position{Line: uint32(max(line-1, 0)), Character: uint32(max(col-1, 0))}
	}
	return protocol.Position{Line: uint32(line - 1), Character: character(text, col)}
}

// fromProtocol maps a protocol position back to a byte column. A position
// inside a surrogate pair lands on the rune that owns it.
func (d document) fromProtocol(p protocol.Position) (Pos, bool) {
	line := int(p.Line) + 1
	text, ok := d.line(line)
	if !ok {
		return Pos{}, false
	}
	n := 0
	for i, r := range text {
		n += units(r)
		if n > int(p.Character) {
			return Pos{Line: line, Col: i + 1}, true
		}
	}
	return Pos{Line: line, Col: len(text) + 1}, true
}

// span is the range of a lexeme of length bytes at line:col. It is never
// empty.
func (d document) span(line, col, length int) protocol.Range {
	start := d.toProtocol(line, col)
	end := d.toProtocol(line, col+max(length, 1))
	if end.Character <= start.Character {
		end.Character = start.Character + 1
	}
	return protocol.Range{Start: start, End: end}
}
