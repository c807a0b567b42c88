package resolver_test

import (
	"testing"

	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/parser"
	"github.com/loxrun/golox/resolver"
	"github.com/loxrun/golox/scanner"
)

func resolve(t *testing.T, src string) (resolver.Locals, *loxerror.Sink) {
	t.Helper()
	sink := loxerror.NewSink()
	toks := scanner.New(src, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	if sink.HadError() {
		t.Fatalf("unexpected parse errors: %s", sink.Error())
	}
	locals := resolver.New(sink).Resolve(stmts)
	return locals, sink
}

func TestResolveLocalVariableDepth(t *testing.T) {
	locals, sink := resolve(t, `
		var a = "global";
		{
			var a = "outer";
			{
				print a;
			}
		}
	`)
	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
	found := false
	for _, depth := range locals {
		if depth == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("locals = %v, want a reference resolved at depth 1", locals)
	}
}

func TestResolveSelfReferenceInInitializerIsError(t *testing.T) {
	_, sink := resolve(t, `
		{
			var a = a;
		}
	`)
	if !sink.HadError() {
		t.Fatal("expected an error for reading a variable in its own initializer")
	}
}

func TestResolveReturnOutsideFunctionIsError(t *testing.T) {
	_, sink := resolve(t, `return 1;`)
	if !sink.HadError() {
		t.Fatal("expected an error for return outside a function")
	}
	if sink.Diagnostics()[0].Message != "Can't return from top-level code." {
		t.Errorf("got message %q", sink.Diagnostics()[0].Message)
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, sink := resolve(t, `
		class A {
			init() {
				return 1;
			}
		}
	`)
	if !sink.HadError() {
		t.Fatal("expected an error for returning a value from an initializer")
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, sink := resolve(t, `print this;`)
	if !sink.HadError() {
		t.Fatal("expected an error for 'this' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsError(t *testing.T) {
	_, sink := resolve(t, `
		class A {
			m() {
				return super.m();
			}
		}
	`)
	if !sink.HadError() {
		t.Fatal("expected an error for 'super' in a class with no superclass")
	}
}

func TestResolveSelfInheritanceIsError(t *testing.T) {
	_, sink := resolve(t, `class A < A {}`)
	if !sink.HadError() {
		t.Fatal("expected an error for a class inheriting from itself")
	}
}

func TestResolveDuplicateLocalDeclarationIsError(t *testing.T) {
	_, sink := resolve(t, `
		{
			var a = 1;
			var a = 2;
		}
	`)
	if !sink.HadError() {
		t.Fatal("expected an error for redeclaring a local variable in the same scope")
	}
}

func TestResolveShadowingAtGlobalScopeIsFine(t *testing.T) {
	_, sink := resolve(t, `
		var a = 1;
		var a = 2;
	`)
	if sink.HadError() {
		t.Errorf("redeclaring a variable at global scope should be allowed, got: %s", sink.Error())
	}
}

func TestResolveExprIdentityKeying(t *testing.T) {
	locals, sink := resolve(t, `
		{
			var a = 1;
			print a;
			print a;
		}
	`)
	if sink.HadError() {
		t.Fatalf("unexpected errors: %s", sink.Error())
	}
	// Two separate *ast.Variable nodes referencing the same name must each get their own side-table entry,
	// proving the table is keyed by node identity rather than by name or position.
	var keys []ast.Expr
	for k := range locals {
		keys = append(keys, k)
	}
	if len(keys) < 2 {
		t.Errorf("got %d side-table entries, want at least 2 distinct *ast.Variable keys", len(keys))
	}
}
