package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"luast/internal/compiler"
	"luast/internal/diag"
	"luast/internal/lint"
)

// Check compiles text and reports the first fault. Text that compiles is
// linted instead. Programs are never executed.
func Check(text string) []diag.Diagnostic {
	_, err := compiler.CompileString(text)
	if err == nil {
		if ds := lint.Run(text); len(ds) > 0 {
			return ds
		}
		return []diag.Diagnostic{}
	}
	if d, ok := diag.From(err); ok {
		return []diag.Diagnostic{d}
	}
	return []diag.Diagnostic{{Message: err.Error(), Severity: diag.SeverityError}}
}

// ToLspDiagnostics converts diagnostics to protocol form. Columns are
// translated from bytes to UTF-16 units using text.
func ToLspDiagnostics(text string, ds []diag.Diagnostic) []protocol.Diagnostic {
	doc := newDocument(text)
	out := make([]protocol.Diagnostic, 0, len(ds))
	for _, d := range ds {
		rng := doc.span(d.Range.Line, d.Range.Col, d.Range.Length)

		severity := protocol.DiagnosticSeverityError
		switch d.Severity {
		case diag.SeverityWarning:
			severity = protocol.DiagnosticSeverityWarning
		case diag.SeverityInfo:
			severity = protocol.DiagnosticSeverityInformation
		}

		pd := protocol.Diagnostic{
			Range:    rng,
			Severity: &severity,
			Source:   ptrString("luast"),
			Message:  d.Message,
		}
		if d.Code != "" {
			code := protocol.IntegerOrString{Value: d.Code}
			pd.Code = &code
		}
		out = append(out, pd)
	}
	return out
}

// IsSourceURI reports whether uri names a Lua source file.
func IsSourceURI(uri string) bool {
	return strings.HasSuffix(strings.ToLower(uri), ".lua")
}

func ptrString(s string) *string { return &s }
