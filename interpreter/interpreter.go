// Package interpreter implements the tree-walking evaluator which executes a resolved Lox program.
package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/resolver"
	"github.com/loxrun/golox/token"
)

// resultKind distinguishes the two ways a statement can finish: falling through, or unwinding a return value out of
// the nearest enclosing function.call. This sum type is threaded back up through every statement-executing method,
// rather than implemented with panic/recover, so that normal control flow stays on the Go call stack.
type resultKind int

const (
	resultNone resultKind = iota
	resultReturn
)

type stmtResult struct {
	kind  resultKind
	value any
}

var noResult = stmtResult{kind: resultNone}

// Interpreter evaluates a resolved program, holding the global environment, the current environment, and the
// resolver's variable-depth side-table.
type Interpreter struct {
	globals     *Environment
	env         *Environment
	locals      resolver.Locals
	stdout      io.Writer
	suggestions bool
}

// New returns an Interpreter which writes the output of print statements to stdout, resolving variables using
// locals (as computed by resolver.Resolve). suggestions gates whether undefined-variable runtime errors get a
// "did you mean" hint appended, per Config.Suggestions.
func New(stdout io.Writer, locals resolver.Locals, suggestions bool) *Interpreter {
	globals := NewEnvironment()
	defineGlobals(globals)
	if locals == nil {
		locals = make(resolver.Locals)
	}
	return &Interpreter{globals: globals, env: globals, locals: locals, stdout: stdout, suggestions: suggestions}
}

// InterpretLine merges a single REPL line's resolver side-table into the interpreter's own and then interprets its
// statements. Merging (rather than replacing) the side-table lets the REPL's persistent global environment and
// per-line resolution coexist: each line is resolved independently, but keys are unique expression pointers so
// merging never collides.
func (in *Interpreter) InterpretLine(stmts []ast.Stmt, locals resolver.Locals) error {
	for k, v := range locals {
		in.locals[k] = v
	}
	return in.Interpret(stmts)
}

// Interpret executes a program's statements in order. A runtime error raised during evaluation is recovered here,
// exactly once, and returned as a *loxerror.RuntimeError; nothing below this call ever lets a RuntimeError panic
// escape uncaught.
func (in *Interpreter) Interpret(stmts []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*loxerror.RuntimeError)
			if !ok {
				panic(r)
			}
			err = re
		}
	}()

	for _, stmt := range stmts {
		in.execute(stmt)
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) stmtResult {
	switch s := stmt.(type) {
	case *ast.Block:
		return in.executeBlock(s.Stmts, newChildEnvironment(in.env))
	case *ast.Class:
		return in.executeClass(s)
	case *ast.Expression:
		in.evaluate(s.Expr)
		return noResult
	case *ast.Function:
		fn := &function{decl: s, closure: in.env}
		in.env.define(s.Name.Lexeme, fn)
		return noResult
	case *ast.If:
		if isTruthy(in.evaluate(s.Cond)) {
			return in.execute(s.Then)
		} else if s.Else != nil {
			return in.execute(s.Else)
		}
		return noResult
	case *ast.Print:
		fmt.Fprintln(in.stdout, stringify(in.evaluate(s.Expr)))
		return noResult
	case *ast.Return:
		var value any
		if s.Value != nil {
			value = in.evaluate(s.Value)
		}
		return stmtResult{kind: resultReturn, value: value}
	case *ast.Var:
		var value any
		if s.Initializer != nil {
			value = in.evaluate(s.Initializer)
		}
		in.env.define(s.Name.Lexeme, value)
		return noResult
	case *ast.While:
		for isTruthy(in.evaluate(s.Cond)) {
			if result := in.execute(s.Body); result.kind != resultNone {
				return result
			}
		}
		return noResult
	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock executes stmts in env, stopping early and propagating the first non-fallthrough result (a return).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) stmtResult {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if result := in.execute(stmt); result.kind != resultNone {
			return result
		}
	}
	return noResult
}

func (in *Interpreter) executeClass(s *ast.Class) stmtResult {
	var super *class
	if s.Superclass != nil {
		v := in.evaluate(s.Superclass)
		sc, ok := v.(*class)
		if !ok {
			panic(loxerror.NewRuntimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		super = sc
	}

	in.env.define(s.Name.Lexeme, nil)

	env := in.env
	if s.Superclass != nil {
		env = newChildEnvironment(in.env)
		env.define("super", super)
	}

	methods := make(map[string]*function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &function{decl: m, closure: env, isInitializer: m.Name.Lexeme == "init"}
	}

	cls := &class{name: s.Name.Lexeme, superclass: super, methods: methods}
	in.env.assign(s.Name, cls)
	return noResult
}

func (in *Interpreter) evaluate(expr ast.Expr) any {
	switch e := expr.(type) {
	case *ast.Assign:
		value := in.evaluate(e.Value)
		if depth, ok := in.locals[e]; ok {
			in.env.assignAt(depth, e.Name.Lexeme, value)
		} else {
			in.assignGlobal(e.Name, value)
		}
		return value
	case *ast.Binary:
		return in.evaluateBinary(e)
	case *ast.Call:
		return in.evaluateCall(e)
	case *ast.Get:
		obj := in.evaluate(e.Object)
		inst, ok := obj.(*instance)
		if !ok {
			panic(loxerror.NewRuntimeError(e.Name, "Only instances have properties."))
		}
		return inst.get(e.Name)
	case *ast.Grouping:
		return in.evaluate(e.Inner)
	case *ast.Literal:
		return e.Value
	case *ast.Logical:
		left := in.evaluate(e.Left)
		if e.Op.Type == token.Or {
			if isTruthy(left) {
				return left
			}
		} else if !isTruthy(left) {
			return left
		}
		return in.evaluate(e.Right)
	case *ast.Set:
		obj := in.evaluate(e.Object)
		inst, ok := obj.(*instance)
		if !ok {
			panic(loxerror.NewRuntimeError(e.Name, "Only instances have fields."))
		}
		value := in.evaluate(e.Value)
		inst.set(e.Name, value)
		return value
	case *ast.Super:
		depth := in.locals[e]
		super := in.env.getAt(depth, "super").(*class)
		instVal := in.env.getAt(depth-1, "this")
		inst := instVal.(*instance)
		method := super.findMethod(e.Method.Lexeme)
		if method == nil {
			panic(loxerror.NewRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
		}
		return method.bind(inst)
	case *ast.This:
		return in.lookUpVariable(e.Keyword, e)
	case *ast.Unary:
		return in.evaluateUnary(e)
	case *ast.Variable:
		return in.lookUpVariable(e.Name, e)
	default:
		panic("interpreter: unhandled expression type")
	}
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) any {
	if depth, ok := in.locals[expr]; ok {
		return in.env.getAt(depth, name.Lexeme)
	}
	return in.getGlobal(name)
}

// getGlobal and assignGlobal wrap the corresponding Environment method, enriching an undefined-variable error with
// a "did you mean" suggestion when suggestions are enabled. The suggestion is searched for starting from in.env,
// the live current scope, rather than from in.globals (which is always called on directly and has no enclosing
// scope of its own), so that the search actually walks the full chain of scopes visible at the point of use.
func (in *Interpreter) getGlobal(name token.Token) (result any) {
	defer func() {
		if r := recover(); r != nil {
			panic(in.enrichUndefinedVariable(r, name))
		}
	}()
	return in.globals.get(name)
}

func (in *Interpreter) assignGlobal(name token.Token, value any) {
	defer func() {
		if r := recover(); r != nil {
			panic(in.enrichUndefinedVariable(r, name))
		}
	}()
	in.globals.assign(name, value)
}

func (in *Interpreter) enrichUndefinedVariable(r any, name token.Token) any {
	re, ok := r.(*loxerror.RuntimeError)
	if !ok || !in.suggestions {
		return r
	}
	suggestion := suggestName(in.env, name.Lexeme)
	if suggestion == "" {
		return r
	}
	return &loxerror.RuntimeError{Token: re.Token, Message: withSuggestion(re.Message, suggestion)}
}

func (in *Interpreter) evaluateCall(e *ast.Call) any {
	callee := in.evaluate(e.Callee)
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		args[i] = in.evaluate(a)
	}

	fn, ok := callee.(callable)
	if !ok {
		panic(loxerror.NewRuntimeError(e.Paren, "Can only call functions and classes."))
	}
	if len(args) != fn.arity() {
		panic(loxerror.NewRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.arity(), len(args)))
	}
	return fn.call(in, args)
}

func (in *Interpreter) evaluateUnary(e *ast.Unary) any {
	right := in.evaluate(e.Right)
	switch e.Op.Type {
	case token.Bang:
		return !isTruthy(right)
	case token.Minus:
		n := in.checkNumberOperand(e.Op, right)
		return -n
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (in *Interpreter) evaluateBinary(e *ast.Binary) any {
	left := in.evaluate(e.Left)
	right := in.evaluate(e.Right)

	switch e.Op.Type {
	case token.Minus:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l - r
	case token.Slash:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l / r
	case token.Star:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l * r
	case token.Plus:
		return in.evaluatePlus(e.Op, left, right)
	case token.Greater:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l > r
	case token.GreaterEqual:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l >= r
	case token.Less:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l < r
	case token.LessEqual:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l <= r
	case token.BangEqual:
		return !isEqual(left, right)
	case token.EqualEqual:
		return isEqual(left, right)
	default:
		panic("interpreter: unhandled binary operator")
	}
}

func (in *Interpreter) evaluatePlus(op token.Token, left, right any) any {
	if l, ok := left.(float64); ok {
		if r, ok := right.(float64); ok {
			return l + r
		}
	}
	if l, ok := left.(string); ok {
		if r, ok := right.(string); ok {
			return l + r
		}
	}
	panic(loxerror.NewRuntimeError(op, "Operands must be two numbers or two strings."))
}

func (in *Interpreter) checkNumberOperand(op token.Token, v any) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	panic(loxerror.NewRuntimeError(op, "Operand must be a number."))
}

func (in *Interpreter) checkNumberOperands(op token.Token, left, right any) (float64, float64) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		panic(loxerror.NewRuntimeError(op, "Operands must be numbers."))
	}
	return l, r
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify renders a value the way "print" and the "str" native function do.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return s
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// suggestName returns the closest global or environment-chain name to name, for use in "did you mean" hints
// appended to undefined-variable runtime errors. It returns "" if nothing is close enough to be useful.
func suggestName(env *Environment, name string) string {
	var candidates []string
	for e := env; e != nil; e = e.enclosing {
		for k := range e.values {
			candidates = append(candidates, k)
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	best := ""
	bestDist := -1
	for _, rank := range ranks {
		if rank.Target == name || rank.Distance > 2 {
			continue
		}
		if bestDist == -1 || rank.Distance < bestDist {
			bestDist = rank.Distance
			best = rank.Target
		}
	}
	return best
}

// withSuggestion appends a "did you mean '<name>'?" hint to an undefined-variable/property message if a
// sufficiently close name is found, purely as additional message text: it never changes the error's line, category,
// or exit code.
func withSuggestion(message, suggestion string) string {
	if suggestion == "" {
		return message
	}
	return strings.TrimSuffix(message, ".") + fmt.Sprintf(". Did you mean '%s'?", suggestion)
}
