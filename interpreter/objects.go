package interpreter

import (
	"fmt"

	"github.com/loxrun/golox/ast"
	"github.com/loxrun/golox/loxerror"
	"github.com/loxrun/golox/token"
)

// Runtime values are represented directly as Go values: nil, bool, float64, and string carry themselves; every
// other kind of value is one of the pointer types below. This mirrors the dynamic typing of the language without
// needing a boxed Value wrapper type.

// callable is implemented by anything that can appear on the left of a call expression: user-defined functions,
// bound methods, classes (whose "call" constructs an instance), and native functions.
type callable interface {
	arity() int
	call(in *Interpreter, args []any) any
	String() string
}

// function is a user-defined function or method, closing over the environment in which it was declared.
type function struct {
	decl          *ast.Function
	closure       *Environment
	isInitializer bool
}

func (f *function) arity() int {
	return len(f.decl.Params)
}

func (f *function) call(in *Interpreter, args []any) any {
	env := newChildEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.define(param.Lexeme, args[i])
	}

	if f.isInitializer {
		in.executeBlock(f.decl.Body, env)
		return f.closure.getAt(0, "this")
	}

	result := in.executeBlock(f.decl.Body, env)
	if result.kind == resultReturn {
		return result.value
	}
	return nil
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

// bind returns a copy of f whose closure has "this" bound to instance, used when a method is looked up off an
// instance.
func (f *function) bind(inst *instance) *function {
	env := newChildEnvironment(f.closure)
	env.define("this", inst)
	return &function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// class is a Lox class: a name, an optional superclass, and its own (non-inherited) methods.
type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

func (c *class) findMethod(name string) *function {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *class) call(in *Interpreter, args []any) any {
	inst := &instance{class: c, fields: make(map[string]any)}
	if init := c.findMethod("init"); init != nil {
		init.bind(inst).call(in, args)
	}
	return inst
}

func (c *class) String() string {
	return c.name
}

// instance is an instance of a user-defined class, holding its own fields plus a reference to its class for method
// lookup.
type instance struct {
	class  *class
	fields map[string]any
}

func (i *instance) String() string {
	return i.class.name + " instance"
}

// get reads a field or bound method off the instance, raising a *loxerror.RuntimeError if neither exists. Fields
// shadow methods, matching the property-access rule.
func (i *instance) get(name token.Token) any {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if method := i.class.findMethod(name.Lexeme); method != nil {
		return method.bind(i)
	}
	panic(loxerror.NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme))
}

func (i *instance) set(name token.Token, value any) {
	i.fields[name.Lexeme] = value
}

// nativeFunction wraps a Go function as a callable, used for clock, str, and type.
type nativeFunction struct {
	name string
	n    int
	fn   func(in *Interpreter, args []any) any
}

func (nf *nativeFunction) arity() int { return nf.n }

func (nf *nativeFunction) call(in *Interpreter, args []any) any {
	return nf.fn(in, args)
}

func (nf *nativeFunction) String() string {
	return "<native fn>"
}
