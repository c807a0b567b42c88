package interpreter

import (
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/token"
)

// Environment is a lexical scope: a mapping from variable names to values, with a link to the enclosing scope in
// which it was created. Environments form a tree, not a stack, so that a closure can keep its defining scope alive
// after the block which created it has returned.
type Environment struct {
	values    map[string]any
	enclosing *Environment
}

// NewEnvironment returns the top-level (global) environment, which has no enclosing scope.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]any)}
}

// newChildEnvironment returns a new scope nested directly inside enclosing.
func newChildEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]any), enclosing: enclosing}
}

// define binds name to value in this scope. Redefining an existing name in the same scope (permitted at global
// scope) simply overwrites it.
func (e *Environment) define(name string, value any) {
	e.values[name] = value
}

// get looks up name.Lexeme, starting in this scope and walking out through enclosing scopes, raising a
// *loxerror.RuntimeError if it is never found. This is used only for global lookups; resolved local lookups use
// getAt instead. Callers wanting a "did you mean" suggestion attached should do so against the live environment
// chain, which this method has no access to when called on the globals scope directly.
func (e *Environment) get(name token.Token) any {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v
		}
	}
	panic(loxerror.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme))
}

// assign rebinds name.Lexeme to value in the nearest enclosing scope that already defines it, raising a
// *loxerror.RuntimeError if no such scope exists.
func (e *Environment) assign(name token.Token, value any) {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return
		}
	}
	panic(loxerror.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme))
}

// ancestor walks exactly depth parent links outward from e.
func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.enclosing
	}
	return env
}

// getAt reads name directly from the scope depth levels out, as computed by the resolver. It does not search:
// a resolver-computed depth is trusted to be exact.
func (e *Environment) getAt(depth int, name string) any {
	return e.ancestor(depth).values[name]
}

// assignAt rebinds name directly in the scope depth levels out.
func (e *Environment) assignAt(depth int, name string, value any) {
	e.ancestor(depth).values[name] = value
}
