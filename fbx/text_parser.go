package fbx

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// sniffBinary's ASCII counterpart: any buffer that does not start with the
// binary magic is handed to the text tokenizer, which fails fast on
// anything that isn't plausible FBX text.
type textParser struct {
	buf []byte
	pos int
}

func newTextParser(data []byte) *textParser {
	return &textParser{buf: data}
}

func (p *textParser) eof() bool { return p.pos >= len(p.buf) }

func (p *textParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.buf[p.pos]
}

func (p *textParser) skipSpaceAndComments() {
	for !p.eof() {
		c := p.buf[p.pos]
		if c == ';' {
			for !p.eof() && p.buf[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.pos++
			continue
		}
		break
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *textParser) readIdent() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.buf[p.pos]) {
		p.pos++
	}
	return string(p.buf[start:p.pos])
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || (c >= '0' && c <= '9')
}

func (p *textParser) readNumber() (*Attribute, error) {
	start := p.pos
	isFloat := false
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	for !p.eof() {
		c := p.buf[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			if !p.eof() && (p.buf[p.pos] == '-' || p.buf[p.pos] == '+') {
				p.pos++
			}
			continue
		}
		break
	}
	text := string(p.buf[start:p.pos])
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad numeric literal %q", text)
		}
		return &Attribute{Value: v}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "bad integer literal %q", text)
	}
	return &Attribute{Value: v}, nil
}

func (p *textParser) readQuotedString() (string, error) {
	if p.peek() != '"' {
		return "", errors.New("expected opening quote")
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.buf[p.pos] != '"' {
		p.pos++
	}
	if p.eof() {
		return "", errors.New("unterminated string literal")
	}
	s := string(p.buf[start:p.pos])
	p.pos++ // closing quote
	return s, nil
}

// readArrayLiteral parses "*N { a: v1,v2,... }" into a single Attribute
// carrying the homogeneous array (float64 if any element has a decimal
// point or exponent, int64 otherwise).
func (p *textParser) readArrayLiteral() (*Attribute, error) {
	p.pos++ // '*'
	p.skipSpaceAndComments()
	countStart := p.pos
	for !p.eof() && p.buf[p.pos] >= '0' && p.buf[p.pos] <= '9' {
		p.pos++
	}
	count, _ := strconv.Atoi(string(p.buf[countStart:p.pos]))
	p.skipSpaceAndComments()
	if p.peek() != '{' {
		return &Attribute{Value: []int64{}, ArraySize: uint(count)}, nil
	}
	p.pos++
	p.skipSpaceAndComments()
	if id := p.readIdent(); id != "a" {
		return nil, errors.Errorf("expected array body label \"a\", got %q", id)
	}
	p.skipSpaceAndComments()
	if p.peek() != ':' {
		return nil, errors.New("expected ':' after array label")
	}
	p.pos++
	p.skipSpaceAndComments()

	var floats []float64
	var ints []int64
	isFloat := false
	for {
		p.skipSpaceAndComments()
		if p.eof() || !isNumberStart(p.peek()) {
			break
		}
		a, err := p.readNumber()
		if err != nil {
			return nil, err
		}
		switch v := a.Value.(type) {
		case float64:
			isFloat = true
			floats = append(floats, v)
		case int64:
			ints = append(ints, v)
			floats = append(floats, float64(v))
		}
		p.skipSpaceAndComments()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpaceAndComments()
	if p.peek() == '}' {
		p.pos++
	}
	if isFloat {
		// floats holds every element, integers widened, in source order.
		return &Attribute{Value: floats, ArraySize: uint(count)}, nil
	}
	return &Attribute{Value: ints, ArraySize: uint(count)}, nil
}

func (p *textParser) readAttribute() (*Attribute, error) {
	p.skipSpaceAndComments()
	switch {
	case p.peek() == '"':
		s, err := p.readQuotedString()
		if err != nil {
			return nil, err
		}
		return &Attribute{Value: s}, nil
	case p.peek() == '*':
		return p.readArrayLiteral()
	case isNumberStart(p.peek()):
		return p.readNumber()
	case p.peek() == 'Y' || p.peek() == 'N':
		// bare Y/N boolean tokens seen in some exporter dialects
		id := p.readIdent()
		return &Attribute{Value: id == "Y"}, nil
	default:
		id := p.readIdent()
		if id == "" {
			return nil, errors.Errorf("unexpected character %q at offset %d", p.peek(), p.pos)
		}
		return &Attribute{Value: id}, nil
	}
}

func (p *textParser) readNode() (*Node, error) {
	p.skipSpaceAndComments()
	if p.eof() || p.peek() == '}' {
		return nil, nil
	}
	name := p.readIdent()
	if name == "" {
		return nil, errors.Errorf("expected identifier at offset %d", p.pos)
	}
	n := &Node{Name: name}
	p.skipSpaceAndComments()
	if p.peek() == ':' {
		p.pos++
		for {
			p.skipSpaceAndComments()
			if p.eof() || p.peek() == '{' || p.peek() == '\n' {
				break
			}
			a, err := p.readAttribute()
			if err != nil {
				return nil, errors.Wrapf(err, "node %q", name)
			}
			n.Attributes = append(n.Attributes, a)
			p.skipSpaceAndComments()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	p.skipSpaceAndComments()
	if p.peek() == '{' {
		p.pos++
		for {
			p.skipSpaceAndComments()
			if p.peek() == '}' {
				p.pos++
				break
			}
			if p.eof() {
				return nil, errors.Errorf("node %q: unterminated block", name)
			}
			child, err := p.readNode()
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}
			n.Children = append(n.Children, child)
		}
	}
	return n, nil
}

func (p *textParser) parse() (*Node, error) {
	root := &Node{}
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			break
		}
		child, err := p.readNode()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

// tokenize dispatches to the binary or ASCII tokenizer based on a magic
// sniff (spec.md §2: the two dialects share a single logical element
// tree and the rest of the pipeline is dialect-agnostic past this point).
func tokenize(data []byte, decompressor Decompressor) (*Node, error) {
	if sniffBinary(data) {
		return newBinaryParser(data, decompressor).parse()
	}
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" {
		return nil, errors.New("empty input")
	}
	return newTextParser(data).parse()
}
