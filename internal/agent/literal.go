package agent

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseLiteral parses a restricted structured literal: numbers, quoted
// strings (single or double quotes), lists, string-keyed mappings, and
// the spellings true/false/null/True/False/None. The upstream backend
// frequently serializes lists Python-style ("['Orders', 'Order
// Details']"), so the grammar is deliberately wider than JSON but never
// evaluates anything. Returns false on any input outside the grammar.
func ParseLiteral(s string) (any, bool) {
	p := &literalParser{input: s}
	p.skipSpace()
	v, ok := p.parseValue(0)
	if !ok {
		return nil, false
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, false
	}
	return v, true
}

// maxLiteralDepth bounds nesting so a pathological reply cannot blow
// the stack.
const maxLiteralDepth = 32

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) parseValue(depth int) (any, bool) {
	if depth > maxLiteralDepth {
		return nil, false
	}
	c, ok := p.peek()
	if !ok {
		return nil, false
	}
	switch {
	case c == '[':
		return p.parseList(depth)
	case c == '{':
		return p.parseMap(depth)
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9') || c == '.':
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *literalParser) parseList(depth int) (any, bool) {
	p.pos++ // '['
	list := []any{}
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == ']' {
			p.pos++
			return list, true
		}
		v, ok := p.parseValue(depth + 1)
		if !ok {
			return nil, false
		}
		list = append(list, v)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, false
		}
		switch c {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return list, true
		default:
			return nil, false
		}
	}
}

func (p *literalParser) parseMap(depth int) (any, bool) {
	p.pos++ // '{'
	m := map[string]any{}
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return m, true
		}
		c, ok := p.peek()
		if !ok || (c != '\'' && c != '"') {
			return nil, false
		}
		key, ok := p.parseString()
		if !ok {
			return nil, false
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, false
		}
		p.pos++
		p.skipSpace()
		v, ok := p.parseValue(depth + 1)
		if !ok {
			return nil, false
		}
		m[key.(string)] = v
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, false
		}
		switch c {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return m, true
		default:
			return nil, false
		}
	}
}

func (p *literalParser) parseString() (any, bool) {
	quote := p.input[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), true
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, false
			}
			esc := p.input[p.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, false // unterminated
}

func (p *literalParser) parseNumber() (any, bool) {
	start := p.pos
	if c, ok := p.peek(); ok && (c == '-' || c == '+') {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && isFloat &&
			(p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, true
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (p *literalParser) parseWord() (any, bool) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(rune(p.input[p.pos]))) {
		p.pos++
	}
	switch p.input[start:p.pos] {
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	case "null", "None", "nil":
		return nil, true
	default:
		return nil, false
	}
}
