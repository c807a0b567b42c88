package ast

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/loxrun/golox/token"
)

// PrintProgram prints a program's statements to stdout as indented s-expressions.
func PrintProgram(stmts []Stmt) {
	fmt.Println(Sprint(stmts))
}

// Sprint formats a program's statements as indented s-expressions, one per top-level line.
func Sprint(stmts []Stmt) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = sprint(stmt, 0)
	}
	return strings.Join(lines, "\n")
}

// sprint renders node as an s-expression, driven entirely by reflection over its exported fields. This mirrors the
// approach of printing any AST node generically rather than writing one formatting function per node type.
func sprint(node any, depth int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	if lit, ok := node.(*Literal); ok {
		return fmt.Sprintf("%v", lit.Value)
	}

	value := reflect.ValueOf(node)
	for value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	typ := value.Type()

	var children []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldValue := value.Field(i)

		switch v := fieldValue.Interface().(type) {
		case token.Token:
			children = append(children, field.Name+": "+v.Lexeme)
		case []Stmt:
			for _, s := range v {
				children = append(children, sprint(s, depth+1))
			}
		case []*Function:
			for _, f := range v {
				children = append(children, sprint(f, depth+1))
			}
		case []Expr:
			for _, e := range v {
				children = append(children, sprint(e, depth+1))
			}
		case []token.Token:
			names := make([]string, len(v))
			for j, t := range v {
				names[j] = t.Lexeme
			}
			children = append(children, field.Name+": ("+strings.Join(names, " ")+")")
		default:
			if fieldValue.Kind() == reflect.Interface || fieldValue.Kind() == reflect.Ptr {
				if fieldValue.IsNil() {
					continue
				}
				children = append(children, sprint(fieldValue.Interface(), depth+1))
			}
		}
	}

	return sexpr(typ.Name(), depth, children)
}

func sexpr(name string, depth int, children []string) string {
	if len(children) == 0 {
		return "(" + name + ")"
	}
	var b strings.Builder
	fmt.Fprint(&b, "(", name)
	for _, child := range children {
		fmt.Fprint(&b, "\n", strings.Repeat("  ", depth+1), child)
	}
	fmt.Fprint(&b, ")")
	return b.String()
}
