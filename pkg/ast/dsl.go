package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *Literal {
	return NewStringLiteral(value)
}

func Num(value float64) *Literal {
	return NewNumberLiteral(value)
}

// Application helpers.

func Apply(operator Node, args ...Node) *Application {
	return NewApplication(operator, args)
}

// Call applies the identifier name to args.
func Call(name string, args ...Node) *Application {
	return NewApplication(ID(name), args)
}
