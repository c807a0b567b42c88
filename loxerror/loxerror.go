// Package loxerror implements the diagnostic sink shared by the scanner, parser, and resolver, and the runtime
// error type raised by the interpreter.
//
// Diagnostics are collected explicitly by a [Sink] passed into each compile-time stage, rather than through global
// mutable state, so that the pipeline can be exercised in isolation in tests.
package loxerror

import (
	"fmt"
	"strings"

	"github.com/loxrun/golox/token"
)

// Diagnostic is a single compile-time error, attributable to a line and, where available, a specific token.
type Diagnostic struct {
	Line    int
	Where   string // "", " at end", or " at '<lexeme>'"
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Sink collects compile-time diagnostics from the scanner, parser, and resolver.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// AddLexical records a lexical error detected at line.
func (s *Sink) AddLexical(line int, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: line, Message: message})
}

// AddToken records a syntactic or static-semantic error attributed to tok.
func (s *Sink) AddToken(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = " at end"
	}
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: tok.Line, Where: where, Message: message})
}

// HadError reports whether any diagnostic has been recorded.
func (s *Sink) HadError() bool {
	return len(s.diagnostics) > 0
}

// Diagnostics returns the diagnostics recorded so far, in the order they were reported.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Error formats every recorded diagnostic, one per line, in [Diagnostic.String] form.
func (s *Sink) Error() string {
	lines := make([]string, len(s.diagnostics))
	for i, d := range s.diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// RuntimeError is raised by the interpreter when evaluation fails. It is carried as a panic value and recovered once
// at the top of Interpreter.Interpret.
type RuntimeError struct {
	Token   token.Token
	Message string
}

// NewRuntimeError returns a *RuntimeError attributed to tok, the token whose evaluation failed.
func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Error formats the error as "<message>\n[line N]", per the runtime diagnostic format.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}
