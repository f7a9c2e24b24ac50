package ast

type NodeType string

const (
	NodeLiteral     NodeType = "Literal"
	NodeIdentifier  NodeType = "Identifier"
	NodeApplication NodeType = "Application"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

// Position is a 1-based line/column pair plus the 0-based byte offset.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type" yaml:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Literal holds a quoted string or a decimal number.
type Literal struct {
	nodeImpl `yaml:",inline"`

	Value any `json:"value" yaml:"value"` // string or float64
}

func NewStringLiteral(value string) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

func NewNumberLiteral(value float64) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

// StringValue reports the literal's string payload, if it has one.
func (l *Literal) StringValue() (string, bool) {
	s, ok := l.Value.(string)
	return s, ok
}

// NumberValue reports the literal's numeric payload, if it has one.
func (l *Literal) NumberValue() (float64, bool) {
	n, ok := l.Value.(float64)
	return n, ok
}

type Identifier struct {
	nodeImpl `yaml:",inline"`

	Name string `json:"name" yaml:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Application is a call. The operator may be any node, so f(1)(2) nests.
type Application struct {
	nodeImpl `yaml:",inline"`

	Operator  Node   `json:"operator" yaml:"operator"`
	Arguments []Node `json:"arguments" yaml:"arguments"`
}

func NewApplication(operator Node, args []Node) *Application {
	if args == nil {
		args = make([]Node, 0)
	}
	return &Application{nodeImpl: newNodeImpl(NodeApplication), Operator: operator, Arguments: args}
}

// OperatorName returns the operator's identifier name when the operator is a
// bare identifier.
func (a *Application) OperatorName() (string, bool) {
	if a == nil {
		return "", false
	}
	ident, ok := a.Operator.(*Identifier)
	if !ok || ident == nil {
		return "", false
	}
	return ident.Name, true
}

// Equal compares two trees structurally, ignoring spans.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch left := a.(type) {
	case *Literal:
		right, ok := b.(*Literal)
		return ok && left.Value == right.Value
	case *Identifier:
		right, ok := b.(*Identifier)
		return ok && left.Name == right.Name
	case *Application:
		right, ok := b.(*Application)
		if !ok || len(left.Arguments) != len(right.Arguments) {
			return false
		}
		if !Equal(left.Operator, right.Operator) {
			return false
		}
		for idx := range left.Arguments {
			if !Equal(left.Arguments[idx], right.Arguments[idx]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
