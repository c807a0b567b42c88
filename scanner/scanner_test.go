package scanner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/scanner"
	"github.com/loxrun/golox/token"
)

func tok(typ token.Type, lexeme string, line int) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: line}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	src := "(){},.-+;*!= == <= >= < > / = !"
	sink := loxerror.NewSink()
	got := scanner.New(src, sink).Scan()

	want := []token.Token{
		tok(token.LeftParen, "(", 1),
		tok(token.RightParen, ")", 1),
		tok(token.LeftBrace, "{", 1),
		tok(token.RightBrace, "}", 1),
		tok(token.Comma, ",", 1),
		tok(token.Dot, ".", 1),
		tok(token.Minus, "-", 1),
		tok(token.Plus, "+", 1),
		tok(token.Semicolon, ";", 1),
		tok(token.Star, "*", 1),
		tok(token.BangEqual, "!=", 1),
		tok(token.EqualEqual, "==", 1),
		tok(token.LessEqual, "<=", 1),
		tok(token.GreaterEqual, ">=", 1),
		tok(token.Less, "<", 1),
		tok(token.Greater, ">", 1),
		tok(token.Slash, "/", 1),
		tok(token.Equal, "=", 1),
		tok(token.Bang, "!", 1),
		tok(token.EOF, "", 1),
	}

	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(token.Token{}, "Literal")); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
}

func TestScanStringLiteral(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New(`"hello world"`, sink).Scan()

	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
	if len(got) != 2 {
		t.Fatalf("got %d tokens, want 2", len(got))
	}
	if got[0].Type != token.String || got[0].Literal != "hello world" {
		t.Errorf("got %+v, want String token with literal %q", got[0], "hello world")
	}
}

func TestScanMultilineString(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("\"a\nb\" + 1", sink).Scan()
	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
	if got[0].Literal != "a\nb" {
		t.Errorf("got literal %q, want %q", got[0].Literal, "a\nb")
	}
	if got[1].Line != 2 {
		t.Errorf("got '+' on line %d, want 2", got[1].Line)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	sink := loxerror.NewSink()
	scanner.New(`"unterminated`, sink).Scan()
	if !sink.HadError() {
		t.Fatal("expected an error for unterminated string")
	}
	if sink.Diagnostics()[0].Message != "Unterminated string." {
		t.Errorf("got message %q, want %q", sink.Diagnostics()[0].Message, "Unterminated string.")
	}
}

func TestScanNumberLiteral(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("123.45", sink).Scan()
	if got[0].Literal != 123.45 {
		t.Errorf("got literal %v, want 123.45", got[0].Literal)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("var fooBar = class", sink).Scan()
	wantTypes := []token.Type{token.Var, token.Identifier, token.Equal, token.Class, token.EOF}
	for i, want := range wantTypes {
		if got[i].Type != want {
			t.Errorf("token %d: got %s, want %s", i, got[i].Type, want)
		}
	}
}

func TestScanLineComment(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("1 // a comment\n2", sink).Scan()
	if len(got) != 3 { // 1, 2, EOF
		t.Fatalf("got %d tokens, want 3", len(got))
	}
	if got[1].Line != 2 {
		t.Errorf("got second number on line %d, want 2", got[1].Line)
	}
}

func TestScanNestedBlockComment(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("1 /* outer /* inner */ still outer */ 2", sink).Scan()
	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
	if len(got) != 3 {
		t.Fatalf("got %d tokens, want 3", len(got))
	}
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	sink := loxerror.NewSink()
	scanner.New("/* never closed", sink).Scan()
	if !sink.HadError() {
		t.Fatal("expected an error for unterminated block comment")
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	sink := loxerror.NewSink()
	got := scanner.New("1 @ 2", sink).Scan()
	if !sink.HadError() {
		t.Fatal("expected an error for unexpected character")
	}
	if len(got) != 3 {
		t.Fatalf("got %d tokens, want 3 (scanning continues past the bad character)", len(got))
	}
}
