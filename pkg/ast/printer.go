package ast

import (
	"math"
	"strconv"
	"strings"
)

// PrettyWidth is the line width Pretty tries to stay within.
const PrettyWidth = 72

// infDigits is the shortest digit run past math.MaxFloat64; the parser reads
// it back as +Inf.
var infDigits = "1" + strings.Repeat("0", 309)

// Format renders the node as single-line Egg source. Trees produced by the
// parser re-parse to an Equal tree; strings containing '"' and non-integral
// numbers have no Egg spelling and are rendered best-effort.
func Format(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Literal:
		b.WriteString(formatLiteral(n))
	case *Identifier:
		b.WriteString(n.Name)
	case *Application:
		writeNode(b, n.Operator)
		b.WriteByte('(')
		for idx, arg := range n.Arguments {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeNode(b, arg)
		}
		b.WriteByte(')')
	case nil:
	default:
		b.WriteString("<?>")
	}
}

func formatLiteral(lit *Literal) string {
	switch v := lit.Value.(type) {
	case string:
		return `"` + v + `"`
	case float64:
		if math.IsInf(v, 1) {
			return infDigits
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "<?>"
	}
}

// Pretty renders the node across multiple lines, aligning arguments under
// the column after their opening parenthesis:
//
//	do(define(x, 10),
//	   if(>(x, 5),
//	      print("large"),
//	      print("small")))
func Pretty(node Node) string {
	return prettyAt(node, 0)
}

func prettyAt(node Node, column int) string {
	compact := Format(node)
	app, ok := node.(*Application)
	if !ok || len(app.Arguments) == 0 || column+len(compact) <= PrettyWidth {
		return compact
	}
	head := prettyAt(app.Operator, column)
	lastLine := head
	if idx := strings.LastIndexByte(head, '\n'); idx >= 0 {
		lastLine = head[idx+1:]
	}
	innerColumn := len(lastLine) + 1
	if !strings.Contains(head, "\n") {
		innerColumn += column
	}
	indent := strings.Repeat(" ", innerColumn)

	var b strings.Builder
	b.WriteString(head)
	b.WriteByte('(')
	for idx, arg := range app.Arguments {
		if idx > 0 {
			b.WriteString(",\n")
			b.WriteString(indent)
		}
		b.WriteString(prettyAt(arg, innerColumn))
	}
	b.WriteByte(')')
	return b.String()
}
