// Command golox is the command-line driver for the Lox tree-walking interpreter: a REPL, a single-file runner, and
// a glob-based multi-file runner, plus debug flags for dumping tokens and the parsed AST.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/juju/ansiterm/tabwriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/internal/config"
	"github.com/loxrun/golox/internal/logging"
	"github.com/loxrun/golox/interpreter"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/parser"
	"github.com/loxrun/golox/resolver"
	"github.com/loxrun/golox/scanner"
	"github.com/loxrun/golox/token"
)

// Exit codes, per the language's CLI contract.
const (
	exitOK          = 0
	exitUsage       = 64
	exitCompileTime = 65
	exitRuntime     = 70
)

var (
	flagPrintAST   bool
	flagTokens     bool
	flagVerbose    bool
	flagCPUProfile string
	flagMemProfile string
)

func main() {
	os.Exit(run())
}

func run() int {
	var exitCode int

	cmd := &cobra.Command{
		Use:   "golox [script]",
		Short: "A tree-walking interpreter for Lox",
		Long: heredoc.Doc(`
			golox is a tree-walking interpreter for the Lox programming language.

			Run it with no arguments to start an interactive REPL, with a single file
			argument to run a script, or with a glob pattern (e.g. "tests/*.lox") to
			run every matching file in sorted order.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = dispatch(args)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flagPrintAST, "print-ast", "p", false, "print the parsed AST instead of executing")
	cmd.Flags().BoolVar(&flagTokens, "tokens", false, "print the scanned tokens instead of executing")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose internal logging")
	cmd.Flags().StringVar(&flagCPUProfile, "cpuprofile", "", "write a CPU profile to this file")
	cmd.Flags().StringVar(&flagMemProfile, "memprofile", "", "write a memory profile to this file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, cmd.UsageString())
		return exitUsage
	}
	return exitCode
}

func dispatch(args []string) int {
	log := logging.New(flagVerbose)
	defer log.Sync() //nolint:errcheck

	if flagCPUProfile != "" {
		f, err := os.Create(flagCPUProfile)
		if err != nil {
			log.Errorw("failed to create cpu profile", "error", err)
			return exitUsage
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Errorw("failed to start cpu profile", "error", err)
			return exitUsage
		}
		defer pprof.StopCPUProfile()
	}
	defer writeMemProfile(log)

	cfg := config.Load()
	if cfg.ForceColor && !cfg.NoColor {
		color.NoColor = false
	}

	if len(args) == 0 {
		return runREPL(cfg, log)
	}
	return runPaths(args[0], cfg, log)
}

func writeMemProfile(log *zap.SugaredLogger) {
	if flagMemProfile == "" {
		return
	}
	f, err := os.Create(flagMemProfile)
	if err != nil {
		log.Errorw("failed to create memory profile", "error", err)
		return
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Errorw("failed to write memory profile", "error", err)
	}
}

// runPaths resolves pattern to one or more files (a literal path, or a doublestar glob) and runs each in sorted
// order. The aggregate exit code is the worst severity seen across every file: a runtime error (70) beats a
// compile-time error (65) beats success (0).
func runPaths(pattern string, cfg config.Config, log *zap.SugaredLogger) int {
	paths, err := resolvePaths(pattern)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "golox: no files matched %q\n", pattern)
		return exitUsage
	}
	log.Debugw("running files", "count", len(paths))

	worst := exitOK
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			worst = worse(worst, exitUsage)
			continue
		}
		code := runSource(string(src), cfg)
		worst = worse(worst, code)
	}
	return worst
}

func resolvePaths(pattern string) ([]string, error) {
	if _, err := os.Stat(pattern); err == nil {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func worse(a, b int) int {
	rank := map[int]int{exitOK: 0, exitUsage: 1, exitCompileTime: 2, exitRuntime: 3}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func runREPL(cfg config.Config, log *zap.SugaredLogger) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "lox>> ",
		HistoryFile: cfg.HistoryFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer rl.Close()
	log.Debugw("repl started", "history_file", cfg.HistoryFile)

	pretty := loxerror.Pretty{Enabled: !cfg.NoColor}
	interp := interpreter.New(os.Stdout, nil, cfg.Suggestions)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return exitOK
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		replEval(line, interp, pretty)
	}
}

// replEval scans, parses, resolves, and evaluates a single REPL line, reporting diagnostics but never exiting the
// process: the REPL keeps running after an error in one line.
func replEval(line string, interp *interpreter.Interpreter, pretty loxerror.Pretty) {
	sink := loxerror.NewSink()

	toks := scanner.New(line, sink).Scan()
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return
	}

	stmts := parser.New(toks, sink).Parse()
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return
	}

	locals := resolver.New(sink).Resolve(stmts)
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return
	}

	if err := interp.InterpretLine(stmts, locals); err != nil {
		fmt.Fprintln(os.Stderr, pretty.RuntimeError(err.(*loxerror.RuntimeError), line))
	}
}

// runSource runs a complete program (a whole file's contents) through the scan/parse/resolve/interpret pipeline and
// returns its exit code.
func runSource(src string, cfg config.Config) int {
	pretty := loxerror.Pretty{Enabled: !cfg.NoColor}
	sink := loxerror.NewSink()

	toks := scanner.New(src, sink).Scan()
	if flagTokens {
		dumpTokens(toks)
		if !sink.HadError() {
			return exitOK
		}
	}
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return exitCompileTime
	}

	stmts := parser.New(toks, sink).Parse()
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return exitCompileTime
	}
	if flagPrintAST {
		ast.PrintProgram(stmts)
		return exitOK
	}

	locals := resolver.New(sink).Resolve(stmts)
	if sink.HadError() {
		reportDiagnostics(sink, pretty)
		return exitCompileTime
	}

	interp := interpreter.New(os.Stdout, locals, cfg.Suggestions)
	if err := interp.Interpret(stmts); err != nil {
		re := err.(*loxerror.RuntimeError)
		srcLine := lineAt(src, re.Token.Line)
		fmt.Fprintln(os.Stderr, pretty.RuntimeError(re, srcLine))
		return exitRuntime
	}
	return exitOK
}

func lineAt(src string, n int) string {
	lines := strings.Split(src, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func reportDiagnostics(sink *loxerror.Sink, pretty loxerror.Pretty) {
	for _, d := range sink.Diagnostics() {
		fmt.Fprintln(os.Stderr, pretty.Diagnostic(d))
	}
}

func dumpTokens(toks []token.Token) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range toks {
		fmt.Fprintf(w, "%s\t%s\t%d\n", t.Type, t.Lexeme, t.Line)
	}
	w.Flush()
}
