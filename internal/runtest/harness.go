package runtest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"luast/internal/compiler"
	"luast/internal/diag"
	"luast/internal/lexer"
	"luast/internal/vm"
)

type Mode string

const (
	ModePlain     Mode = "plain"
	ModeOptimized Mode = "optimized"
)

type Options struct {
	Mode     Mode
	Source   string
	Entry    string
	MaxSteps int64
}

type Expectation struct {
	Stdout      string
	ErrCode     string
	ErrContains string
	// ErrAt is "line:col" of the reported fault, checked when set.
	ErrAt string
}

type Result struct {
	Stdout  string
	ErrCode string
	ErrMsg  string
	ErrAt   string
}

// Run writes opts.Source to a temporary file and runs it through the
// compiler and VM, collecting what it printed and the first fault.
func Run(t *testing.T, opts Options) Result {
	t.Helper()

	entryPath := writeEntry(t, opts)
	f, err := os.Open(entryPath)
	if err != nil {
		t.Fatalf("failed to open entry: %v", err)
	}
	defer f.Close()

	var out bytes.Buffer
	res := Result{}

	c := compiler.NewWithFile(lexer.New(f), entryPath)
	if err := c.Compile(); err != nil {
		res.setFault(err)
		return res
	}
	bc := c.Bytecode()

	switch opts.Mode {
	case ModePlain:
	case ModeOptimized:
		if bc, err = (&compiler.Optimizer{}).Optimize(bc); err != nil {
			t.Fatalf("optimizer failed: %v", err)
		}
	default:
		t.Fatalf("unknown mode: %q", opts.Mode)
	}

	m := vm.New()
	m.SetOutput(&out)
	m.SetMaxSteps(opts.MaxSteps)
	if err := m.Execute(bc); err != nil {
		res.setFault(err)
	}
	res.Stdout = out.String()
	return res
}

func (r *Result) setFault(err error) {
	r.ErrMsg = err.Error()
	if d, ok := diag.From(err); ok {
		r.ErrCode = d.Code
		r.ErrMsg = d.Message
		r.ErrAt = fmt.Sprintf("%d:%d", d.Range.Line, d.Range.Col)
	}
}

func Assert(t *testing.T, res Result, exp Expectation) {
	t.Helper()

	if got, want := normalizeNewlines(res.Stdout), normalizeNewlines(exp.Stdout); got != want {
		t.Fatalf("stdout mismatch: expected %q, got %q", want, got)
	}

	wantErr := exp.ErrCode != "" || exp.ErrContains != ""
	gotErr := res.ErrCode != "" || res.ErrMsg != ""

	if wantErr && !gotErr {
		t.Fatalf("expected error %q/%q, got none", exp.ErrCode, exp.ErrContains)
	}
	if !wantErr && gotErr {
		t.Fatalf("unexpected error: %s", FormatError(res.ErrCode, res.ErrMsg))
	}

	if exp.ErrCode != "" && res.ErrCode != exp.ErrCode {
		t.Fatalf("error code mismatch: expected %q, got %q", exp.ErrCode, res.ErrCode)
	}
	if exp.ErrContains != "" && !strings.Contains(res.ErrMsg, exp.ErrContains) {
		t.Fatalf("error message mismatch: expected to contain %q, got %q", exp.ErrContains, res.ErrMsg)
	}
	if exp.ErrAt != "" && res.ErrAt != exp.ErrAt {
		t.Fatalf("error position mismatch: expected %s, got %s", exp.ErrAt, res.ErrAt)
	}
}

func writeEntry(t *testing.T, opts Options) string {
	t.Helper()

	entry := opts.Entry
	if entry == "" {
		entry = "main.lua"
	}
	if filepath.IsAbs(entry) {
		t.Fatalf("entry path must be relative, got %q", entry)
	}

	path := filepath.Join(t.TempDir(), entry)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create entry dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(opts.Source), 0o644); err != nil {
		t.Fatalf("failed to write entry: %v", err)
	}
	return path
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func ExpectBoth(exp Expectation) map[Mode]Expectation {
	return map[Mode]Expectation{
		ModePlain:     exp,
		ModeOptimized: exp,
	}
}

func Expect(mode Mode, exp Expectation) map[Mode]Expectation {
	return map[Mode]Expectation{mode: exp}
}

func FormatError(code, msg string) string {
	if code == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", code, msg)
}
