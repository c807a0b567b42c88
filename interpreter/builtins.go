package interpreter

import "time"

// defineGlobals installs the native functions available in every program's global scope.
func defineGlobals(env *Environment) {
	env.define("clock", &nativeFunction{
		name: "clock",
		n:    0,
		fn: func(in *Interpreter, args []any) any {
			return float64(time.Now().UnixMilli())
		},
	})

	env.define("str", &nativeFunction{
		name: "str",
		n:    1,
		fn: func(in *Interpreter, args []any) any {
			return stringify(args[0])
		},
	})

	env.define("type", &nativeFunction{
		name: "type",
		n:    1,
		fn: func(in *Interpreter, args []any) any {
			return typeName(args[0])
		},
	})
}

// typeName names the runtime type of a value, as returned by the "type" native.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *class:
		return "class"
	case *instance:
		return "instance"
	case callable:
		return "function"
	default:
		return "unknown"
	}
}
