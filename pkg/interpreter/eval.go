package interpreter

import (
	"errors"
	"fmt"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/runtime"
)

// Evaluate walks node in env. Side effects happen in evaluation order,
// left to right and depth first. The first call seals the special forms.
func (i *Interpreter) Evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if i == nil {
		return nil, fmt.Errorf("interpreter: nil interpreter")
	}
	if env == nil {
		return nil, fmt.Errorf("interpreter: nil environment")
	}
	i.seal()
	return i.evaluate(node, env)
}

func (i *Interpreter) evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalValue(n)
	case *ast.Identifier:
		val, err := env.Get(n.Name)
		if err != nil {
			return nil, attachSpan(err, n)
		}
		return val, nil
	case *ast.Application:
		return i.evaluateApplication(n, env)
	case nil:
		return nil, fmt.Errorf("interpreter: cannot evaluate <nil> node")
	default:
		return nil, fmt.Errorf("interpreter: unsupported node %T", node)
	}
}

func literalValue(lit *ast.Literal) (runtime.Value, error) {
	switch v := lit.Value.(type) {
	case string:
		return runtime.StringValue{Val: v}, nil
	case float64:
		return runtime.NumberValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported literal payload %T", lit.Value)
	}
}

func (i *Interpreter) evaluateApplication(app *ast.Application, env *runtime.Environment) (runtime.Value, error) {
	if name, ok := app.OperatorName(); ok {
		if form, ok := i.specialForms[name]; ok {
			val, err := form(i, app.Arguments, env)
			if err != nil {
				return nil, attachSpan(err, app)
			}
			return val, nil
		}
	}

	callee, err := i.evaluate(app.Operator, env)
	if err != nil {
		return nil, err
	}
	if !runtime.IsCallable(callee) {
		return nil, attachSpan(runtime.NewError(runtime.TypeError, "Applying a non-function"), app)
	}
	args := make([]runtime.Value, 0, len(app.Arguments))
	for _, argNode := range app.Arguments {
		val, err := i.evaluate(argNode, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callCallable(callee, args, env, app)
}

// callCallable is the single calling convention shared by Egg closures and
// native functions.
func (i *Interpreter) callCallable(callee runtime.Value, args []runtime.Value, env *runtime.Environment, call *ast.Application) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		val, err := i.invokeFunction(fn, args, call)
		if err != nil && call != nil {
			var langErr *runtime.Error
			if errors.As(err, &langErr) {
				langErr.AddFrame(call.Span())
			}
		}
		return val, err
	case runtime.NativeFunctionValue:
		return i.invokeNative(fn, args, env, call)
	case *runtime.NativeFunctionValue:
		return i.invokeNative(*fn, args, env, call)
	default:
		return nil, runtime.NewError(runtime.TypeError, "Applying a non-function")
	}
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, call *ast.Application) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, attachSpan(runtime.NewError(runtime.TypeError, "Wrong number of arguments"), call)
	}
	// The depth is counted per Interpreter, across every run it executes.
	if i.callDepth.Add(1) > i.maxCallDepth {
		i.callDepth.Add(-1)
		return nil, attachSpan(runtime.NewError(runtime.RangeError, "Maximum call depth exceeded"), call)
	}
	defer i.callDepth.Add(-1)
	localEnv := fn.Closure.Extend()
	for idx, param := range fn.Params {
		localEnv.Define(param, args[idx])
	}
	return i.evaluate(fn.Body, localEnv)
}

func (i *Interpreter) invokeNative(fn runtime.NativeFunctionValue, args []runtime.Value, env *runtime.Environment, call *ast.Application) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, attachSpan(runtime.NewError(runtime.TypeError, "Wrong number of arguments"), call)
	}
	if fn.Impl == nil {
		return nil, fmt.Errorf("interpreter: native function %s has no implementation", fn.Name)
	}
	val, err := fn.Impl(&runtime.NativeCallContext{Env: env, Node: call}, args)
	if err != nil {
		return nil, attachSpan(err, call)
	}
	return val, nil
}

// attachSpan records node's location on language errors that have none yet.
func attachSpan(err error, node ast.Node) error {
	if err == nil {
		return err
	}
	span, ok := nodeSpan(node)
	if !ok {
		return err
	}
	var langErr *runtime.Error
	if errors.As(err, &langErr) {
		langErr.WithSpan(span)
	}
	return err
}

func nodeSpan(node ast.Node) (ast.Span, bool) {
	switch n := node.(type) {
	case nil:
		return ast.Span{}, false
	case *ast.Application:
		if n == nil {
			return ast.Span{}, false
		}
	case *ast.Identifier:
		if n == nil {
			return ast.Span{}, false
		}
	case *ast.Literal:
		if n == nil {
			return ast.Span{}, false
		}
	}
	return node.Span(), true
}
