package ast_test

import (
	"strings"
	"testing"

	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/token"
)

func TestSprintLiteral(t *testing.T) {
	stmts := []ast.Stmt{
		&ast.Print{Expr: &ast.Literal{Value: 1.0}},
	}
	got := ast.Sprint(stmts)
	if !strings.Contains(got, "1") {
		t.Errorf("Sprint() = %q, want it to contain the literal value", got)
	}
	if !strings.HasPrefix(got, "(Print") {
		t.Errorf("Sprint() = %q, want it to start with (Print", got)
	}
}

func TestSprintBinary(t *testing.T) {
	expr := &ast.Binary{
		Left:  &ast.Literal{Value: 1.0},
		Op:    token.Token{Type: token.Plus, Lexeme: "+"},
		Right: &ast.Literal{Value: 2.0},
	}
	got := ast.Sprint([]ast.Stmt{&ast.Expression{Expr: expr}})
	for _, want := range []string{"Binary", "Op: +", "1", "2"} {
		if !strings.Contains(got, want) {
			t.Errorf("Sprint() = %q, want it to contain %q", got, want)
		}
	}
}

func TestSprintNilElse(t *testing.T) {
	stmt := &ast.If{
		Cond: &ast.Literal{Value: true},
		Then: &ast.Print{Expr: &ast.Literal{Value: 1.0}},
	}
	got := ast.Sprint([]ast.Stmt{stmt})
	if strings.Contains(got, "<nil>") {
		t.Errorf("Sprint() = %q, should not render a nil Else branch", got)
	}
}
