package interpreter

import (
	"math"

	"egg/interpreter-go/pkg/runtime"
)

func (i *Interpreter) initBuiltins() {
	i.global.Define("true", runtime.BoolValue{Val: true})
	i.global.Define("false", runtime.BoolValue{Val: false})

	i.defineNative("+", 2, nativeAdd)
	i.defineNative("-", 2, numericOp("-", func(a, b float64) float64 { return a - b }))
	i.defineNative("*", 2, numericOp("*", func(a, b float64) float64 { return a * b }))
	i.defineNative("/", 2, numericOp("/", func(a, b float64) float64 { return a / b }))
	i.defineNative("==", 2, nativeEqual)
	i.defineNative("<", 2, comparisonOp("<", func(c int) bool { return c < 0 }))
	i.defineNative(">", 2, comparisonOp(">", func(c int) bool { return c > 0 }))

	i.defineNative("print", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if err := i.printer(args[0]); err != nil {
			return nil, err
		}
		return args[0], nil
	})

	i.defineNative("array", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		elements := make([]runtime.Value, len(args))
		copy(elements, args)
		return &runtime.ArrayValue{Elements: elements}, nil
	})
	i.defineNative("length", 1, nativeLength)
	i.defineNative("element", 2, nativeElement)
}

func (i *Interpreter) defineNative(name string, arity int, impl runtime.NativeFunc) {
	i.global.Define(name, runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl})
}

func nativeAdd(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	left, right := args[0], args[1]
	if a, ok := left.(runtime.NumberValue); ok {
		if b, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: a.Val + b.Val}, nil
		}
	}
	_, leftStr := left.(runtime.StringValue)
	_, rightStr := right.(runtime.StringValue)
	if leftStr || rightStr {
		return runtime.StringValue{Val: runtime.FormatValue(left) + runtime.FormatValue(right)}, nil
	}
	return nil, operandError("+", left, right)
}

func numericOp(op string, fn func(a, b float64) float64) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		a, aok := args[0].(runtime.NumberValue)
		b, bok := args[1].(runtime.NumberValue)
		if !aok || !bok {
			return nil, operandError(op, args[0], args[1])
		}
		return runtime.NumberValue{Val: fn(a.Val, b.Val)}, nil
	}
}

func comparisonOp(op string, accept func(int) bool) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		switch a := args[0].(type) {
		case runtime.NumberValue:
			if b, ok := args[1].(runtime.NumberValue); ok {
				return runtime.BoolValue{Val: accept(compareNumbers(a.Val, b.Val))}, nil
			}
		case runtime.StringValue:
			if b, ok := args[1].(runtime.StringValue); ok {
				return runtime.BoolValue{Val: accept(compareStrings(a.Val, b.Val))}, nil
			}
		}
		return nil, operandError(op, args[0], args[1])
	}
}

// compareNumbers maps NaN operands to 0 so neither < nor > holds.
func compareNumbers(a, b float64) int {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return 0
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func nativeEqual(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return runtime.BoolValue{Val: valuesEqual(args[0], args[1])}, nil
}

func valuesEqual(left, right runtime.Value) bool {
	switch a := left.(type) {
	case runtime.NumberValue:
		b, ok := right.(runtime.NumberValue)
		return ok && a.Val == b.Val
	case runtime.StringValue:
		b, ok := right.(runtime.StringValue)
		return ok && a.Val == b.Val
	case runtime.BoolValue:
		b, ok := right.(runtime.BoolValue)
		return ok && a.Val == b.Val
	case *runtime.ArrayValue:
		b, ok := right.(*runtime.ArrayValue)
		return ok && a == b
	case *runtime.FunctionValue:
		b, ok := right.(*runtime.FunctionValue)
		return ok && a == b
	case runtime.NativeFunctionValue:
		b, ok := right.(runtime.NativeFunctionValue)
		return ok && a.Name == b.Name
	default:
		return false
	}
}

func nativeLength(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case *runtime.ArrayValue:
		return runtime.NumberValue{Val: float64(len(v.Elements))}, nil
	case runtime.StringValue:
		return runtime.NumberValue{Val: float64(len([]rune(v.Val)))}, nil
	default:
		return nil, runtime.Errorf(runtime.TypeError, "length expects an array or string, got %s", args[0].Kind())
	}
}

func nativeElement(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	arr, ok := args[0].(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "element expects an array, got %s", args[0].Kind())
	}
	idx, ok := args[1].(runtime.NumberValue)
	if !ok {
		return nil, runtime.Errorf(runtime.TypeError, "element index must be a number, got %s", args[1].Kind())
	}
	if idx.Val != math.Trunc(idx.Val) || idx.Val < 0 || idx.Val >= float64(len(arr.Elements)) {
		return nil, runtime.NewError(runtime.TypeError, "Index out of range")
	}
	return arr.Elements[int(idx.Val)], nil
}

func operandError(op string, left, right runtime.Value) error {
	return runtime.Errorf(runtime.TypeError, "Unsupported operands for %s: %s and %s", op, left.Kind(), right.Kind())
}
