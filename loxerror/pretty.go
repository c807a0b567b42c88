package loxerror

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Pretty renders diagnostics with ANSI colour for interactive terminals. It never changes the diagnostic text
// itself (that's what [Sink.Error] and [RuntimeError.Error] return, and what tests assert against); it only adds
// colour and, when the offending source line is supplied, a caret underline beneath the reported column.
type Pretty struct {
	// Enabled controls whether ANSI escapes are emitted. The CLI sets it from whether colour has been disabled via
	// configuration; fatih/color's own color.NoColor setting also applies on top of it.
	Enabled bool
}

var (
	prettyBold = color.New(color.Bold)
	prettyRed  = color.New(color.FgRed)
)

// Diagnostic formats d as a single line, coloured if p.Enabled.
func (p Pretty) Diagnostic(d Diagnostic) string {
	if !p.Enabled {
		return d.String()
	}
	return prettyBold.Sprintf("[line %d] ", d.Line) + prettyRed.Sprint("Error"+d.Where+": ") + d.Message
}

// RuntimeError formats err as the two-line runtime diagnostic, coloured if p.Enabled, with an optional caret
// underline beneath the offending lexeme in srcLine.
func (p Pretty) RuntimeError(err *RuntimeError, srcLine string) string {
	if !p.Enabled {
		return err.Error()
	}
	var b strings.Builder
	prettyRed.Fprintln(&b, err.Message)
	fmt.Fprintf(&b, "[line %d]", err.Token.Line)
	if srcLine == "" || err.Token.Lexeme == "" {
		return b.String()
	}
	col := strings.Index(srcLine, err.Token.Lexeme)
	if col < 0 {
		return b.String()
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, srcLine, "\n")
	fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(srcLine[:col])))
	prettyRed.Fprint(&b, strings.Repeat("~", runewidth.StringWidth(err.Token.Lexeme)))
	return b.String()
}
