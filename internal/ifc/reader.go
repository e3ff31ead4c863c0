package ifc

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindDerived
	KindString
	KindInteger
	KindReal
	KindEnum
	KindBinary
	KindRef
	KindList
	KindTyped
)

// Value is one attribute of a STEP instance. Typed values such as
// IFCLABEL('x') keep the type name in Str and the wrapped value in Inner.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Real  float64
	Ref   int
	List  []Value
	Inner *Value
}

type Entity struct {
	ID   int
	Type string
	Args []Value
}

func (e *Entity) Arg(i int) Value {
	if i < 0 || i >= len(e.Args) {
		return Value{Kind: KindNull}
	}
	return e.Args[i]
}

// Str returns attribute i when it holds a string (plain or typed).
func (e *Entity) Str(i int) string {
	v := e.Arg(i)
	for v.Kind == KindTyped && v.Inner != nil {
		v = *v.Inner
	}
	if v.Kind == KindString {
		return v.Str
	}
	return ""
}

// Refs returns the instance references held by attribute i, whether it is
// a single reference or an aggregate of them.
func (e *Entity) Refs(i int) []int {
	v := e.Arg(i)
	switch v.Kind {
	case KindRef:
		return []int{v.Ref}
	case KindList:
		out := make([]int, 0, len(v.List))
		for _, item := range v.List {
			if item.Kind == KindRef {
				out = append(out, item.Ref)
			}
		}
		return out
	default:
		return nil
	}
}

func Open(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Model, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	m, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	m.buildRelations()
	return m, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.errorf("expected %s, found %s %q", kind, p.tok.kind, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expectKeyword(word string) error {
	if p.tok.kind != tokKeyword || p.tok.text != word {
		return p.errorf("expected %s, found %q", word, p.tok.text)
	}
	return p.advance()
}

func (p *parser) parseFile() (*Model, error) {
	if p.tok.kind != tokKeyword || p.tok.text != "ISO-10303-21" {
		return nil, fmt.Errorf("not an ISO 10303-21 file")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	m := newModel()
	for {
		switch {
		case p.tok.kind == tokEOF:
			return m, nil
		case p.tok.kind == tokKeyword && p.tok.text == "END-ISO-10303-21":
			return m, nil
		case p.tok.kind == tokKeyword && p.tok.text == "HEADER":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			if err := p.parseHeader(m); err != nil {
				return nil, err
			}
		case p.tok.kind == tokKeyword && p.tok.text == "DATA":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokLParen {
				if _, err := p.parseList(); err != nil {
					return nil, err
				}
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			if err := p.parseData(m); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("unexpected %s %q", p.tok.kind, p.tok.text)
		}
	}
}

func (p *parser) parseHeader(m *Model) error {
	for {
		if p.tok.kind == tokKeyword && p.tok.text == "ENDSEC" {
			if err := p.advance(); err != nil {
				return err
			}
			return p.expect(tokSemicolon)
		}
		if p.tok.kind != tokKeyword {
			return p.errorf("expected header entity, found %s", p.tok.kind)
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
		args, err := p.parseList()
		if err != nil {
			return err
		}
		if err := p.expect(tokSemicolon); err != nil {
			return err
		}
		if name == "FILE_SCHEMA" && len(args) > 0 && args[0].Kind == KindList && len(args[0].List) > 0 {
			m.Schema = args[0].List[0].Str
		}
	}
}

func (p *parser) parseData(m *Model) error {
	for {
		if p.tok.kind == tokKeyword && p.tok.text == "ENDSEC" {
			if err := p.advance(); err != nil {
				return err
			}
			return p.expect(tokSemicolon)
		}
		if p.tok.kind != tokInstance {
			return p.errorf("expected instance name, found %s %q", p.tok.kind, p.tok.text)
		}
		id, err := strconv.Atoi(p.tok.text)
		if err != nil {
			return p.errorf("invalid instance name #%s", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expect(tokEquals); err != nil {
			return err
		}

		if p.tok.kind == tokLParen {
			// Complex (multi-leaf) instances carry no product data we read.
			if err := p.skipGroup(); err != nil {
				return err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return err
			}
			continue
		}

		if p.tok.kind != tokKeyword {
			return p.errorf("expected entity type for #%d", id)
		}
		typ := p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
		args, err := p.parseList()
		if err != nil {
			return fmt.Errorf("#%d %s: %w", id, typ, err)
		}
		if err := p.expect(tokSemicolon); err != nil {
			return err
		}
		if _, dup := m.entities[id]; dup {
			return fmt.Errorf("duplicate instance #%d", id)
		}
		m.add(&Entity{ID: id, Type: typ, Args: args})
	}
}

// skipGroup consumes a parenthesised group without interpreting it.
func (p *parser) skipGroup() error {
	depth := 0
	for {
		switch p.tok.kind {
		case tokEOF:
			return p.errorf("unbalanced parentheses")
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		}
		if err := p.advance(); err != nil {
			return err
		}
		if depth == 0 {
			return nil
		}
	}
}

// parseList consumes a parenthesised, comma separated aggregate.
func (p *parser) parseList() ([]Value, error) {
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	out := []Value{}
	if p.tok.kind == tokRParen {
		return out, p.advance()
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRParen:
			return out, p.advance()
		default:
			return nil, p.errorf("expected ',' or ')', found %s %q", p.tok.kind, p.tok.text)
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	tok := p.tok
	switch tok.kind {
	case tokDollar:
		return Value{Kind: KindNull}, p.advance()
	case tokStar:
		return Value{Kind: KindDerived}, p.advance()
	case tokString:
		return Value{Kind: KindString, Str: tok.text}, p.advance()
	case tokEnum:
		return Value{Kind: KindEnum, Str: tok.text}, p.advance()
	case tokBinary:
		return Value{Kind: KindBinary, Str: tok.text}, p.advance()
	case tokInstance:
		id, err := strconv.Atoi(tok.text)
		if err != nil {
			return Value{}, p.errorf("invalid reference #%s", tok.text)
		}
		return Value{Kind: KindRef, Ref: id}, p.advance()
	case tokInteger:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return Value{}, p.errorf("invalid integer %q", tok.text)
		}
		return Value{Kind: KindInteger, Int: n}, p.advance()
	case tokReal:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Value{}, p.errorf("invalid real %q", tok.text)
		}
		return Value{Kind: KindReal, Real: f}, p.advance()
	case tokLParen:
		list, err := p.parseList()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindList, List: list}, nil
	case tokKeyword:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		args, err := p.parseList()
		if err != nil {
			return Value{}, err
		}
		inner := Value{Kind: KindNull}
		if len(args) > 0 {
			inner = args[0]
		}
		return Value{Kind: KindTyped, Str: tok.text, Inner: &inner}, nil
	default:
		return Value{}, p.errorf("unexpected %s %q", tok.kind, tok.text)
	}
}
