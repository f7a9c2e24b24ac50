package interpreter

import (
	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/runtime"
)

func (i *Interpreter) initSpecialForms() {
	i.specialForms["if"] = evalIf
	i.specialForms["while"] = evalWhile
	i.specialForms["do"] = evalDo
	i.specialForms["define"] = evalDefine
	i.specialForms["fun"] = evalFun
	i.specialForms["set"] = evalSet
}

var falseValue = runtime.BoolValue{Val: false}

func evalIf(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if len(args) != 3 {
		return nil, runtime.NewError(runtime.SyntaxError, "Wrong number of args to if")
	}
	cond, err := i.evaluate(args[0], env)
	if err != nil {
		return nil, err
	}
	if !runtime.IsFalse(cond) {
		return i.evaluate(args[1], env)
	}
	return i.evaluate(args[2], env)
}

// evalWhile always yields false; Egg has no meaningful loop result.
func evalWhile(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, runtime.NewError(runtime.SyntaxError, "Wrong number of args to while")
	}
	for {
		cond, err := i.evaluate(args[0], env)
		if err != nil {
			return nil, err
		}
		if runtime.IsFalse(cond) {
			return falseValue, nil
		}
		if _, err := i.evaluate(args[1], env); err != nil {
			return nil, err
		}
	}
}

func evalDo(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = falseValue
	for _, arg := range args {
		val, err := i.evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	return value, nil
}

// evalDefine binds in env itself, shadowing any outer binding of the name.
func evalDefine(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	name, ok := bindingName(args)
	if !ok {
		return nil, runtime.NewError(runtime.SyntaxError, "Incorrect use of define")
	}
	value, err := i.evaluate(args[1], env)
	if err != nil {
		return nil, err
	}
	if fn, ok := value.(*runtime.FunctionValue); ok && fn.Name == "" {
		fn.Name = name
	}
	env.Define(name, value)
	return value, nil
}

func evalFun(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, runtime.NewError(runtime.SyntaxError, "Functions need a body")
	}
	params := make([]string, 0, len(args)-1)
	for _, arg := range args[:len(args)-1] {
		ident, ok := arg.(*ast.Identifier)
		if !ok {
			return nil, attachSpan(runtime.NewError(runtime.SyntaxError, "Parameter names must be words"), arg)
		}
		params = append(params, ident.Name)
	}
	return &runtime.FunctionValue{
		Params:  params,
		Body:    args[len(args)-1],
		Closure: env,
	}, nil
}

// evalSet overwrites the nearest environment that owns the name.
func evalSet(i *Interpreter, args []ast.Node, env *runtime.Environment) (runtime.Value, error) {
	name, ok := bindingName(args)
	if !ok {
		return nil, runtime.NewError(runtime.SyntaxError, "Bad use of set")
	}
	value, err := i.evaluate(args[1], env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(name, value); err != nil {
		return nil, attachSpan(err, args[0])
	}
	return value, nil
}

func bindingName(args []ast.Node) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	ident, ok := args[0].(*ast.Identifier)
	if !ok {
		return "", false
	}
	return ident.Name, true
}
