package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxrun/golox/interpreter"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/parser"
	"github.com/loxrun/golox/resolver"
	"github.com/loxrun/golox/scanner"
)

// run scans, parses, resolves, and interprets src, returning everything printed to stdout and any runtime error.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	sink := loxerror.NewSink()
	toks := scanner.New(src, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	if sink.HadError() {
		t.Fatalf("unexpected compile-time errors: %s", sink.Error())
	}
	locals := resolver.New(sink).Resolve(stmts)
	if sink.HadError() {
		t.Fatalf("unexpected resolve errors: %s", sink.Error())
	}

	var out bytes.Buffer
	err := interpreter.New(&out, locals, true).Interpret(stmts)
	return out.String(), err
}

func TestPrintArithmetic(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), "7")
	}
}

func TestPrintIntegralFloatHasNoDecimal(t *testing.T) {
	out, err := run(t, `print 6 / 2;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), "3")
	}
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), "foobar")
	}
}

func TestMixedPlusOperandsIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Operands must be two numbers or two strings.") {
		t.Errorf("got error %q", err.Error())
	}
}

func TestTruthiness(t *testing.T) {
	out, err := run(t, `print !nil; print !0; print !false; print !"";`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := "true\nfalse\ntrue\nfalse\n"
	if out != want {
		t.Errorf("got %q, want %q (only nil and false are falsy)", out, want)
	}
}

func TestClosureCapturesEnvironment(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun counter() {
				i = i + 1;
				return i;
			}
			return counter;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestWhileAndForLoops(t *testing.T) {
	out, err := run(t, `
		var sum = 0;
		for (var i = 1; i <= 5; i = i + 1) {
			sum = sum + i;
		}
		print sum;
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "15" {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), "15")
	}
}

func TestClassInitAndMethodCall(t *testing.T) {
	out, err := run(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				return "hello " + this.name;
			}
		}
		var g = Greeter("world");
		print g.greet();
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "hello world" {
		t.Errorf("got %q, want %q", strings.TrimSpace(out), "hello world")
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() {
				return "...";
			}
		}
		class Dog < Animal {
			speak() {
				return "woof, said the " + super.speak();
			}
		}
		print Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "woof, said the ...", strings.TrimSpace(out))
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undefinedThing;`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Undefined variable 'undefinedThing'.") {
		t.Errorf("got error %q", err.Error())
	}
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Can only call functions and classes.") {
		t.Errorf("got error %q", err.Error())
	}
}

func TestWrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Expected 2 arguments but got 1.") {
		t.Errorf("got error %q", err.Error())
	}
}

func TestNativeClockIsCallable(t *testing.T) {
	_, err := run(t, `print clock();`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
}

func TestNativeStrAndType(t *testing.T) {
	out, err := run(t, `print str(1); print type(1); print type("a"); print type(nil);`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := "1\nnumber\nstring\nnil\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
