package token_test

import (
	"testing"

	"github.com/loxrun/golox/token"
)

func TestTypeStringMatchesClosedSetNames(t *testing.T) {
	tests := []struct {
		typ  token.Type
		want string
	}{
		{token.LeftParen, "LEFT_PAREN"},
		{token.BangEqual, "BANG_EQUAL"},
		{token.Identifier, "IDENTIFIER"},
		{token.Class, "CLASS"},
		{token.EOF, "EOF"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestLookupIdentRecognisesKeywords(t *testing.T) {
	if got := token.LookupIdent("class"); got != token.Class {
		t.Errorf("LookupIdent(\"class\") = %s, want CLASS", got)
	}
	if got := token.LookupIdent("notAKeyword"); got != token.Identifier {
		t.Errorf("LookupIdent(\"notAKeyword\") = %s, want IDENTIFIER", got)
	}
}

func TestTokenStringIsLexeme(t *testing.T) {
	tok := token.Token{Type: token.Plus, Lexeme: "+"}
	if got := tok.String(); got != "+" {
		t.Errorf("got %q, want %q", got, "+")
	}
}
