package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func HoverAt(text string, pos protocol.Position) (*protocol.Hover, error) {
	doc := newDocument(text)
	p, ok := doc.fromProtocol(pos)
	if !ok {
		return nil, nil
	}
	an := Analyze(text)
	n, ok := an.NameAt(p)
	if !ok {
		return nil, nil
	}

	lines := []string{}
	switch n.Kind {
	case NameLocal:
		lines = append(lines, fmt.Sprintf("local: %s", n.Tok.Literal), fmt.Sprintf("stack slot %d", n.Slot))
		if decl, ok := an.Declaration(n.Slot); ok && !n.Decl {
			lines = append(lines, fmt.Sprintf("declared at %d:%d", decl.Tok.Line, decl.Tok.Col))
		}
	case NameBuiltin:
		lines = append(lines, fmt.Sprintf("builtin: %s", n.Tok.Literal), fmt.Sprintf("%s(value)", n.Tok.Literal))
	default:
		lines = append(lines, fmt.Sprintf("global: %s", n.Tok.Literal))
	}

	rng := doc.span(n.Tok.Line, n.Tok.Col, len(n.Tok.Literal))
	contents := protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: strings.Join(lines, "\n")}
	return &protocol.Hover{Contents: contents, Range: &rng}, nil
}
