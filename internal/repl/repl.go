package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"

	"luast/internal/compiler"
	"luast/internal/diag"
	"luast/internal/lexer"
	"luast/internal/vm"
)

const (
	prompt1 = "luast> "
	prompt2 = "....> "
)

var log = commonlog.GetLogger("luast.repl")

type Options struct {
	// Interactive prints the banner and prompts.
	Interactive bool
	// Dis prints the instructions compiled for each input.
	Dis   bool
	Trace bool
}

// Session keeps one compiler and one VM alive across inputs, so locals
// and globals defined on one line are visible on the next.
type Session struct {
	comp *compiler.Compiler
	m    *vm.VM
	ran  int
	out  io.Writer
	opts Options
}

func NewSession(out io.Writer, opts Options) *Session {
	m := vm.New()
	m.SetOutput(out)
	m.SetTrace(opts.Trace)
	return &Session{
		comp: compiler.NewWithFile(lexer.NewString(""), "<repl>"),
		m:    m,
		out:  out,
		opts: opts,
	}
}

// Eval compiles and runs src. On any fault the input's code is discarded
// and the session stays usable.
func (s *Session) Eval(src string) error {
	mark := s.comp.Mark()
	s.comp.Reset(lexer.NewString(src))
	if err := s.comp.Compile(); err != nil {
		s.comp.Rollback(mark)
		return err
	}

	bc := s.comp.Bytecode()
	if s.opts.Dis {
		fmt.Fprint(s.out, bc.Instructions[s.ran:].String())
	}
	if err := s.m.ExecuteFrom(bc, s.ran); err != nil {
		s.comp.Rollback(mark)
		s.ran = len(s.comp.Bytecode().Instructions)
		return err
	}
	s.ran = len(bc.Instructions)
	return nil
}

func (s *Session) VM() *vm.VM {
	return s.m
}

func Start(in io.Reader, out io.Writer, opts Options) {
	scanner := bufio.NewScanner(in)
	s := NewSession(out, opts)

	if opts.Interactive {
		fmt.Fprint(out, "Luast REPL (Ctrl+D to exit)\n")
	}

	var buf strings.Builder
	depth := 0

	for {
		if opts.Interactive {
			if buf.Len() == 0 {
				fmt.Fprint(out, prompt1)
			} else {
				fmt.Fprint(out, prompt2)
			}
		}

		if !scanner.Scan() {
			if opts.Interactive {
				fmt.Fprint(out, "\n")
			}
			return
		}

		line := scanner.Text()
		trim := strings.TrimSpace(line)
		if buf.Len() == 0 && (trim == "exit" || trim == "quit") {
			return
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		depth = updateBalance(line, depth)
		if depth > 0 {
			continue
		}

		src := buf.String()
		buf.Reset()
		depth = 0

		if err := s.Eval(src); err != nil {
			printFault(out, err)
			continue
		}
	}
}

// updateBalance tracks open parentheses so a call can span lines.
// Strings and comments are skipped.
func updateBalance(line string, parens int) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		if ch == '-' && i+1 < len(line) && line[i+1] == '-' {
			break
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		}
	}
	return parens
}

func printFault(out io.Writer, err error) {
	log.Debugf("input rejected: %v", err)
	if d, ok := diag.From(err); ok {
		fmt.Fprintln(out, d.Format("stdin"))
		return
	}
	fmt.Fprintf(out, "error: %s\n", err)
}
