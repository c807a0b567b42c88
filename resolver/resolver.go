// Package resolver performs a static analysis pass over the AST, computing for every variable reference the number
// of enclosing scopes between its use and its declaration. The result is handed to the interpreter as a side-table
// so that variable and assignment expressions resolve to the correct Environment without a runtime name lookup.
package resolver

import (
	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals maps a variable-referencing expression (always a pointer, per the identity convention documented in
// package ast) to the number of enclosing scopes that must be walked from the scope where the expression appears to
// reach the scope where the name was declared. An expression absent from the map is resolved at global scope.
type Locals map[ast.Expr]int

// Resolver walks a parsed program, resolving every variable reference to a lexical scope depth and reporting static
// errors, such as "can't return from top-level code", that the parser cannot catch on its own.
type Resolver struct {
	sink   *loxerror.Sink
	scopes []map[string]bool // innermost scope last; true once a name's initializer has finished evaluating
	locals Locals
	curFn  functionType
	curCls classType
}

// New returns a Resolver which reports errors to sink.
func New(sink *loxerror.Sink) *Resolver {
	return &Resolver{sink: sink, locals: make(Locals)}
}

// Resolve resolves every statement in stmts, in the top-level (global) scope, and returns the computed side-table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.curFn == functionNone {
			r.sink.AddToken(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFn == functionInitializer {
				r.sink.AddToken(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingCls := r.curCls
	r.curCls = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.sink.AddToken(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.curCls = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		fnType := functionMethod
		if method.Name.Lexeme == "init" {
			fnType = functionInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.curCls = enclosingCls
}

func (r *Resolver) resolveFunction(fn *ast.Function, fnType functionType) {
	enclosingFn := r.curFn
	r.curFn = fnType

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.curFn = enclosingFn
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Literal:
		// nothing to resolve
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Super:
		if r.curCls == classNone {
			r.sink.AddToken(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.curCls != classSubclass {
			r.sink.AddToken(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.This:
		if r.curCls == classNone {
			r.sink.AddToken(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if declared, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !declared {
				r.sink.AddToken(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	default:
		panic("resolver: unhandled expression type")
	}
}

// resolveLocal walks outward from the innermost scope looking for name, recording in the side-table the number of
// scopes between expr's use and the scope in which it was declared. If no scope declares name, expr is left absent
// from the table, meaning it resolves globally at runtime.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds name to the innermost scope, marked as not yet initialized, so that the variable's own initializer
// cannot refer to it.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.sink.AddToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

// define marks name as initialized in the innermost scope.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
