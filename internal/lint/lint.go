package lint

import (
	"cmp"
	"slices"

	"luast/internal/diag"
	"luast/internal/lexer"
)

const (
	CodeUnusedLocal = "WL0001"
	CodeSelfAssign  = "WL0003"
	CodeShadowing   = "WL0004"
	CodeUnsetGlobal = "WL0005"
)

type Options struct {
	CheckShadowing bool
	CheckUndefined bool
}

func DefaultOptions() Options {
	return Options{CheckShadowing: true, CheckUndefined: true}
}

type Linter struct {
	opts Options
}

func New() *Linter {
	return &Linter{opts: DefaultOptions()}
}

func NewWithOptions(opts Options) *Linter {
	return &Linter{opts: opts}
}

func Run(src string) []diag.Diagnostic {
	return New().Run(src)
}

func RunWithOptions(src string, opts Options) []diag.Diagnostic {
	return NewWithOptions(opts).Run(src)
}

// Run returns warnings for src ordered by position. Source that does not
// lex yields no warnings; the compiler reports those faults.
func (l *Linter) Run(src string) []diag.Diagnostic {
	toks, err := lexer.NewString(src).All()
	if err != nil {
		return nil
	}
	r := newRunner(l.opts)
	r.walk(toks)
	r.finish()

	slices.SortStableFunc(r.diags, func(a, b diag.Diagnostic) int {
		if c := cmp.Compare(a.Range.Line, b.Range.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.Col, b.Range.Col)
	})
	return r.diags
}
