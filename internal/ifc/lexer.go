package ifc

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokKeyword
	tokInstance
	tokString
	tokEnum
	tokBinary
	tokInteger
	tokReal
	tokDollar
	tokStar
	tokLParen
	tokRParen
	tokComma
	tokEquals
	tokSemicolon
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokKeyword:
		return "keyword"
	case tokInstance:
		return "instance name"
	case tokString:
		return "string"
	case tokEnum:
		return "enumeration"
	case tokBinary:
		return "binary"
	case tokInteger:
		return "integer"
	case tokReal:
		return "real"
	case tokDollar:
		return "'$'"
	case tokStar:
		return "'*'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokEquals:
		return "'='"
	case tokSemicolon:
		return "';'"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	src  []byte
	pos  int
	line int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", l.line, fmt.Sprintf(format, args...))
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			start := l.line
			l.pos += 2
			closed := false
			for l.pos+1 < len(l.src) {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				return fmt.Errorf("line %d: unterminated comment", start)
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	line := l.line
	c := l.src[l.pos]
	single := func(kind tokenKind) (token, error) {
		l.pos++
		return token{kind: kind, text: string(c), line: line}, nil
	}

	switch {
	case c == '(':
		return single(tokLParen)
	case c == ')':
		return single(tokRParen)
	case c == ',':
		return single(tokComma)
	case c == '=':
		return single(tokEquals)
	case c == ';':
		return single(tokSemicolon)
	case c == '$':
		return single(tokDollar)
	case c == '*':
		return single(tokStar)
	case c == '#':
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if start == l.pos {
			return token{}, l.errorf("'#' without instance number")
		}
		return token{kind: tokInstance, text: string(l.src[start:l.pos]), line: line}, nil
	case c == '\'':
		return l.lexString()
	case c == '"':
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("line %d: unterminated binary literal", line)
		}
		text := string(l.src[start:l.pos])
		l.pos++
		return token{kind: tokBinary, text: text, line: line}, nil
	case c == '.':
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '.' {
			if !isKeywordChar(l.src[l.pos]) {
				return token{}, l.errorf("invalid character %q in enumeration", l.src[l.pos])
			}
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("line %d: unterminated enumeration", line)
		}
		text := string(l.src[start:l.pos])
		l.pos++
		return token{kind: tokEnum, text: text, line: line}, nil
	case c == '+' || c == '-' || isDigit(c):
		return l.lexNumber()
	case isAlpha(c) || c == '!':
		start := l.pos
		l.pos++
		for l.pos < len(l.src) && (isKeywordChar(l.src[l.pos]) || l.src[l.pos] == '-') {
			l.pos++
		}
		return token{kind: tokKeyword, text: strings.ToUpper(string(l.src[start:l.pos])), line: line}, nil
	default:
		return token{}, l.errorf("unexpected character %q", c)
	}
}

// lexString reads a quoted literal; a doubled apostrophe stands for one.
func (l *lexer) lexString() (token, error) {
	line := l.line
	l.pos++
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("line %d: unterminated string", line)
		}
		c := l.src[l.pos]
		if c == '\'' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'' {
				b.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			break
		}
		if c == '\n' {
			l.line++
		}
		b.WriteByte(c)
		l.pos++
	}
	return token{kind: tokString, text: decodeString(b.String()), line: line}, nil
}

func (l *lexer) lexNumber() (token, error) {
	line := l.line
	start := l.pos
	if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
		l.pos++
	}
	digits := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if digits == l.pos {
		return token{}, l.errorf("sign without digits")
	}
	kind := tokInteger
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		kind = tokReal
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'E' || l.src[l.pos] == 'e') {
		kind = tokReal
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		exp := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if exp == l.pos {
			return token{}, l.errorf("malformed exponent")
		}
	}
	return token{kind: kind, text: string(l.src[start:l.pos]), line: line}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }

func isKeywordChar(c byte) bool { return isAlpha(c) || isDigit(c) || c == '_' }
