package lsp

import (
	"cmp"
	"slices"
)

// EncodeSemanticTokens packs toks into the protocol's relative form: five
// integers per token with line and start as deltas from the previous
// token. Byte columns and lengths are converted to UTF-16 units using text.
func EncodeSemanticTokens(text string, toks []SemTok) []uint32 {
	slices.SortFunc(toks, func(a, b SemTok) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	doc := newDocument(text)
	data := make([]uint32, 0, len(toks)*5)
	var prev struct{ line, char uint32 }
	for _, t := range toks {
		if t.Length <= 0 {
			continue
		}
		rng := doc.span(t.Line, t.Col, t.Length)
		start := rng.Start
		delta := start.Character
		if start.Line == prev.line {
			delta -= prev.char
		}
		data = append(data,
			start.Line-prev.line,
			delta,
			rng.End.Character-start.Character,
			uint32(t.Type),
			uint32(t.Mods),
		)
		prev.line, prev.char = start.Line, start.Character
	}
	return data
}
