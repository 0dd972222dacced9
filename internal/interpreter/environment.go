package interpreter

import (
	"sort"

	"github.com/kievzenit/nagato/internal/ast"
)

type binding struct {
	declared ast.ValueType

	value Value
	array []Value
}

func (b *binding) isArray() bool { return b.array != nil }

// Environment is one scope of bindings. The global environment also owns the
// function table; call environments leave it nil and are never chained to
// another environment.
type Environment struct {
	vars      map[string]*binding
	functions map[string]*ast.FuncDeclStmt
}

func NewGlobalEnvironment() *Environment {
	return &Environment{
		vars:      make(map[string]*binding),
		functions: make(map[string]*ast.FuncDeclStmt),
	}
}

func NewCallEnvironment() *Environment {
	return &Environment{
		vars: make(map[string]*binding),
	}
}

func (e *Environment) DefineFunction(fn *ast.FuncDeclStmt) {
	e.functions[fn.Name] = fn
}

func (e *Environment) Function(name string) (*ast.FuncDeclStmt, bool) {
	fn, ok := e.functions[name]
	return fn, ok
}

// Declare (re)binds name with a declared type; value is coerced to it.
func (e *Environment) Declare(name string, declared ast.ValueType, value Value) {
	e.vars[name] = &binding{
		declared: declared,
		value:    value.Coerce(declared),
	}
}

func (e *Environment) DeclareArray(name string, itemType ast.ValueType, size int) {
	items := make([]Value, size)
	for i := range items {
		items[i] = ZeroOf(itemType)
	}

	e.vars[name] = &binding{
		declared: itemType,
		array:    items,
	}
}

// Assign updates the existing binding in place, coercing to its declared
// type, or creates an untyped binding. It reports false when name is an array.
func (e *Environment) Assign(name string, value Value) bool {
	b, ok := e.vars[name]
	if !ok {
		e.vars[name] = &binding{value: value}
		return true
	}

	if b.isArray() {
		return false
	}

	b.value = value.Coerce(b.declared)
	return true
}

func (e *Environment) lookup(name string) (*binding, bool) {
	b, ok := e.vars[name]
	return b, ok
}

// Variable is a read-only copy of one binding.
type Variable struct {
	Name     string
	Declared ast.ValueType

	Value Value
	Array []Value
}

func (v Variable) IsArray() bool { return v.Array != nil }

func (v Variable) String() string {
	if v.IsArray() {
		return formatArray(v.Array)
	}
	return v.Value.String()
}

// Variables returns a snapshot of every binding sorted by name.
func (e *Environment) Variables() []Variable {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		b := e.vars[name]

		v := Variable{
			Name:     name,
			Declared: b.declared,
			Value:    b.value,
		}
		if b.isArray() {
			v.Array = append([]Value(nil), b.array...)
		}

		vars = append(vars, v)
	}

	return vars
}
