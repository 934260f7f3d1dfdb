package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"luast/internal/compiler"
	"luast/internal/config"
	"luast/internal/diag"
	"luast/internal/lexer"
	"luast/internal/lint"
	"luast/internal/repl"
	"luast/internal/runtimeio"
	"luast/internal/token"
	"luast/internal/vm"
)

var log = commonlog.GetLogger("luast")

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string { return strconv.Itoa(int(*v)) }

func (v *verbosity) Set(s string) error {
	if s == "true" {
		*v++
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid verbosity %q", s)
	}
	*v = verbosity(n)
	return nil
}

func (v *verbosity) IsBoolFlag() bool { return true }

type runOptions struct {
	tokens   bool
	lint     bool
	dis      bool
	optimize bool
	trace    bool
	maxSteps int64
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		if err := runInit(cwd, os.Args[2:]); err != nil {
			fmt.Println("init error:", err)
			os.Exit(1)
		}
		return
	}

	var verbose verbosity
	tokensMode := flag.Bool("tokens", false, "print tokens instead of running")
	lintMode := flag.Bool("lint", false, "report warnings before running")
	disMode := flag.Bool("dis", false, "dump constants and instructions before running")
	optMode := flag.Bool("O", false, "enable bytecode optimizer")
	traceMode := flag.Bool("trace", false, "log every instruction at debug level")
	maxSteps := flag.Int64("max-steps", 0, "abort after this many instructions (0 = unlimited)")
	logPath := flag.String("log", "", "log file (default stderr)")
	flag.Var(&verbose, "v", "increase log verbosity (repeatable)")
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	man, err := config.FindAndLoad(cwd)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	opts := runOptions{tokens: *tokensMode, lint: *lintMode, dis: *disMode, optimize: *optMode, trace: *traceMode, maxSteps: *maxSteps}
	level := int(verbose)
	path := *logPath
	if man != nil {
		opts.dis = opts.dis || man.Run.Dis
		opts.optimize = opts.optimize || man.Run.Optimize
		opts.trace = opts.trace || man.Run.Trace
		if opts.maxSteps == 0 {
			opts.maxSteps = man.Run.MaxSteps
		}
		if level == 0 {
			level = man.Log.Verbosity
		}
		if path == "" {
			path = man.LogPath()
		}
	}
	configureLogging(level, path)

	args := flag.Args()
	cmd := "run"
	if len(args) > 0 && (args[0] == "run" || args[0] == "repl") {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "repl":
		if len(args) != 0 || opts.tokens {
			fmt.Println("usage: luast [-dis] [-trace] repl")
			os.Exit(1)
		}
		repl.Start(os.Stdin, os.Stdout, repl.Options{
			Interactive: runtimeio.IsInteractive(),
			Dis:         opts.dis,
			Trace:       opts.trace,
		})
		return
	}

	if len(args) > 1 {
		fmt.Println("usage: luast [flags] [run] [file]")
		os.Exit(1)
	}

	var target string
	switch {
	case len(args) == 1:
		target = args[0]
	case man != nil:
		target = man.EntryPath()
	case runtimeio.IsInteractive():
		repl.Start(os.Stdin, os.Stdout, repl.Options{Interactive: true, Dis: opts.dis, Trace: opts.trace})
		return
	default:
		os.Exit(runSource("stdin", os.Stdin, opts, os.Stdout, os.Stderr))
	}

	f, err := os.Open(target)
	if err != nil {
		fmt.Println("run error:", err)
		os.Exit(1)
	}
	code := runSource(displayPath(cwd, target), f, opts, os.Stdout, os.Stderr)
	f.Close()
	os.Exit(code)
}

func configureLogging(level int, path string) {
	if path == "" {
		commonlog.Configure(level, nil)
		return
	}
	commonlog.Configure(level, &path)
}

// runSource compiles and runs one program, returning the exit code.
func runSource(path string, r io.Reader, opts runOptions, out, errOut io.Writer) int {
	if opts.tokens {
		return dumpTokens(path, r, out, errOut)
	}

	if opts.lint {
		src, err := io.ReadAll(r)
		if err != nil {
			fmt.Fprintln(errOut, "read error:", err)
			return 1
		}
		r = bytes.NewReader(src)
		if _, err := compiler.CompileString(string(src)); err == nil {
			for _, d := range lint.Run(string(src)) {
				fmt.Fprintln(errOut, d.Format(path))
			}
		}
	}

	c := compiler.NewWithFile(lexer.New(r), path)
	if err := c.Compile(); err != nil {
		reportFault(errOut, path, err)
		return 1
	}
	bc := c.Bytecode()
	log.Infof("compiled %s: %d instructions, %d constants", path, bc.Instructions.Count(), len(bc.Constants))

	if opts.optimize {
		var err error
		if bc, err = (&compiler.Optimizer{}).Optimize(bc); err != nil {
			reportFault(errOut, path, err)
			return 1
		}
	}
	if opts.dis {
		fmt.Fprint(out, compiler.Dump(bc))
	}

	m := vm.New()
	m.SetOutput(out)
	m.SetTrace(opts.trace)
	m.SetMaxSteps(opts.maxSteps)
	if err := m.Execute(bc); err != nil {
		reportFault(errOut, path, err)
		return 1
	}
	return 0
}

func dumpTokens(path string, r io.Reader, out, errOut io.Writer) int {
	l := lexer.New(r)
	for {
		tok, err := l.Next()
		if err != nil {
			reportFault(errOut, path, err)
			return 1
		}
		fmt.Fprintf(out, "%d:%d\t%s\n", tok.Line, tok.Col, tok)
		if tok.Type == token.EOF {
			return 0
		}
	}
}

func reportFault(w io.Writer, path string, err error) {
	if d, ok := diag.From(err); ok {
		fmt.Fprintln(w, d.Format(path))
		return
	}
	fmt.Fprintf(w, "%s: error: %s\n", path, err)
}

func displayPath(cwd, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, abs); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return abs
}

func runInit(dir string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		return errors.New("usage: luast init [name]")
	}
	name := filepath.Base(dir)
	if fs.NArg() == 1 {
		name = fs.Arg(0)
	}

	man := config.New(name)
	if err := man.Write(dir); err != nil {
		return err
	}

	entryPath := filepath.Join(dir, man.Project.Entry)
	if _, err := os.Stat(entryPath); err == nil {
		return nil
	}
	return os.WriteFile(entryPath, []byte(starterProgram()), 0o644)
}

func starterProgram() string {
	return "local greeting = \"hello, world!\"\nprint(greeting)\n"
}
