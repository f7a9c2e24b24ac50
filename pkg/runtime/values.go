package runtime

import (
	"fmt"

	"egg/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindArray
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// IsFalse reports whether v is exactly the boolean false. Egg treats every
// other value, 0 and "" included, as true.
func IsFalse(v Value) bool {
	b, ok := v.(BoolValue)
	return ok && !b.Val
}

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a closure created by the fun special form. Closure is the
// defining environment, never the caller's.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    ast.Node
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env  *Environment
	Node *ast.Application
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a host function. Arity -1 accepts any argument count.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// IsCallable reports whether v can appear as the operator of an application.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *FunctionValue, NativeFunctionValue, *NativeFunctionValue:
		return true
	default:
		return false
	}
}
