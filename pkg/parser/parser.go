package parser

import (
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"egg/interpreter-go/pkg/ast"
	"egg/interpreter-go/pkg/runtime"
)

// Parse converts a complete Egg program into its root syntax tree node. The
// program must be exactly one expression; anything but whitespace and
// comments after it is a SyntaxError.
func Parse(source string) (ast.Node, error) {
	p := newParser(source)
	node, pos, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	pos = p.skipSpace(pos)
	if pos < len(p.src) {
		return nil, p.errorAt(pos, "Unexpected text after program")
	}
	return node, nil
}

// ParseExpression parses the expression at the start of text and returns it
// together with the unparsed remainder.
func ParseExpression(text string) (ast.Node, string, error) {
	p := newParser(text)
	node, pos, err := p.parseExpression(0)
	if err != nil {
		return nil, text, err
	}
	return node, text[pos:], nil
}

// HasContent reports whether text holds anything besides whitespace and
// comments.
func HasContent(text string) bool {
	p := newParser(text)
	return p.skipSpace(0) < len(text)
}

type parser struct {
	src        string
	lineStarts []int
}

func newParser(src string) *parser {
	starts := []int{0}
	for idx := 0; idx < len(src); idx++ {
		if src[idx] == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &parser{src: src, lineStarts: starts}
}

func (p *parser) parseExpression(pos int) (ast.Node, int, error) {
	pos = p.skipSpace(pos)
	start := pos

	var expr ast.Node
	if end, ok := p.matchString(pos); ok {
		expr = ast.NewStringLiteral(p.src[pos+1 : end-1])
		pos = end
	} else if end, ok := p.matchNumber(pos); ok {
		// Out-of-range digit runs saturate to +Inf.
		value, _ := strconv.ParseFloat(p.src[pos:end], 64)
		expr = ast.NewNumberLiteral(value)
		pos = end
	} else if end, ok := p.matchWord(pos); ok {
		expr = ast.NewIdentifier(p.src[pos:end])
		pos = end
	} else {
		return nil, pos, p.errorAt(pos, "Unexpected syntax: "+p.src[pos:])
	}
	ast.SetSpan(expr, p.span(start, pos))
	return p.parseApply(expr, start, pos)
}

func (p *parser) parseApply(expr ast.Node, start, pos int) (ast.Node, int, error) {
	pos = p.skipSpace(pos)
	if pos >= len(p.src) || p.src[pos] != '(' {
		return expr, pos, nil
	}

	pos = p.skipSpace(pos + 1)
	args := make([]ast.Node, 0)
	for pos >= len(p.src) || p.src[pos] != ')' {
		arg, next, err := p.parseExpression(pos)
		if err != nil {
			return nil, next, err
		}
		args = append(args, arg)
		pos = p.skipSpace(next)
		switch {
		case pos < len(p.src) && p.src[pos] == ',':
			pos = p.skipSpace(pos + 1)
		case pos < len(p.src) && p.src[pos] == ')':
		default:
			return nil, pos, p.errorAt(pos, "Expected ',' or ')'")
		}
	}
	pos++
	app := ast.NewApplication(expr, args)
	ast.SetSpan(app, p.span(start, pos))
	return p.parseApply(app, start, pos)
}

// skipSpace advances past whitespace and '#' comments.
func (p *parser) skipSpace(pos int) int {
	for pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += size
		case r == '#':
			for pos < len(p.src) && p.src[pos] != '\n' {
				pos++
			}
		default:
			return pos
		}
	}
	return pos
}

// matchString matches "..." with no escapes; end is past the closing quote.
func (p *parser) matchString(pos int) (int, bool) {
	if pos >= len(p.src) || p.src[pos] != '"' {
		return 0, false
	}
	for idx := pos + 1; idx < len(p.src); idx++ {
		if p.src[idx] == '"' {
			return idx + 1, true
		}
	}
	return 0, false
}

// matchNumber matches a digit run that ends on a word boundary, so "10abc"
// is left for matchWord.
func (p *parser) matchNumber(pos int) (int, bool) {
	end := pos
	for end < len(p.src) && isDigit(p.src[end]) {
		end++
	}
	if end == pos {
		return 0, false
	}
	if end < len(p.src) && isWordByte(p.src[end]) {
		return 0, false
	}
	return end, true
}

func (p *parser) matchWord(pos int) (int, bool) {
	end := pos
	for end < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[end:])
		if unicode.IsSpace(r) || isDelimiter(r) {
			break
		}
		end += size
	}
	return end, end > pos
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', ',', '#', '"':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordByte(b byte) bool {
	return isDigit(b) || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func (p *parser) position(offset int) ast.Position {
	line := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return ast.Position{Line: line + 1, Column: offset - p.lineStarts[line] + 1, Offset: offset}
}

func (p *parser) span(start, end int) ast.Span {
	return ast.Span{Start: p.position(start), End: p.position(end)}
}

func (p *parser) errorAt(pos int, message string) error {
	err := runtime.NewError(runtime.SyntaxError, message)
	err.Span = p.span(pos, pos)
	return err
}
