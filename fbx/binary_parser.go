package fbx

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	binaryMagic        = "Kaydara FBX Binary  \x00"
	wideFramingVersion = 7500
	sentinelLenNarrow  = 13
	sentinelLenWide    = 25
)

// cursor is a bounds-checked read head over the whole input buffer. The
// tokenizer does not copy the buffer as a whole; string and raw property
// bytes are copied out of it into each Attribute.Value.
type cursor struct {
	buf []byte
	pos int64
}

func (c *cursor) remaining() int64 { return int64(len(c.buf)) - c.pos }

func (c *cursor) need(n int64) error {
	if n < 0 || c.remaining() < n {
		return errors.Errorf("truncated buffer at offset %d (need %d bytes, have %d)", c.pos, n, c.remaining())
	}
	return nil
}

func (c *cursor) skip(n int64) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *cursor) seek(pos int64) error {
	if pos < c.pos {
		return errors.Errorf("cannot rewind from %d to %d", c.pos, pos)
	}
	if pos > int64(len(c.buf)) {
		return errors.Errorf("seek past end of buffer: %d > %d", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

func (c *cursor) bytes(n int64) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) f32() (float32, error) {
	v, err := c.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *cursor) f64() (float64, error) {
	v, err := c.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (c *cursor) shortString() (string, error) {
	n, err := c.u8()
	if err != nil {
		return "", err
	}
	b, err := c.bytes(int64(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *cursor) longString() (string, error) {
	n, err := c.u32()
	if err != nil {
		return "", err
	}
	b, err := c.bytes(int64(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// binaryParser tokenizes a Kaydara-binary FBX buffer into a *Node tree.
type binaryParser struct {
	c            cursor
	wide         bool // 64-bit end_offset/prop_count/prop_length framing
	decompressor Decompressor
}

func newBinaryParser(data []byte, decompressor Decompressor) *binaryParser {
	if decompressor == nil {
		decompressor = defaultDecompressor
	}
	return &binaryParser{c: cursor{buf: data}, decompressor: decompressor}
}

// sniffBinary reports whether data begins with the binary magic header.
func sniffBinary(data []byte) bool {
	return len(data) >= len(binaryMagic) && string(data[:len(binaryMagic)]) == binaryMagic
}

func (p *binaryParser) readFrameTriplet() (endOffset, propCount, propLength int64, err error) {
	if p.wide {
		a, e1 := p.c.u64()
		b, e2 := p.c.u64()
		d, e3 := p.c.u64()
		if e1 != nil {
			return 0, 0, 0, e1
		}
		if e2 != nil {
			return 0, 0, 0, e2
		}
		if e3 != nil {
			return 0, 0, 0, e3
		}
		return int64(a), int64(b), int64(d), nil
	}
	a, e1 := p.c.u32()
	b, e2 := p.c.u32()
	d, e3 := p.c.u32()
	if e1 != nil {
		return 0, 0, 0, e1
	}
	if e2 != nil {
		return 0, 0, 0, e2
	}
	if e3 != nil {
		return 0, 0, 0, e3
	}
	return int64(a), int64(b), int64(d), nil
}

func (p *binaryParser) readAttribute() (*Attribute, error) {
	typ, err := p.c.u8()
	if err != nil {
		return nil, err
	}
	switch typ {
	case 'C':
		v, err := p.c.u8()
		return &Attribute{Value: v != 0}, err
	case 'Y':
		v, err := p.c.u16()
		return &Attribute{Value: int16(v)}, err
	case 'I':
		v, err := p.c.u32()
		return &Attribute{Value: int32(v)}, err
	case 'L':
		v, err := p.c.u64()
		return &Attribute{Value: int64(v)}, err
	case 'F':
		v, err := p.c.f32()
		return &Attribute{Value: v}, err
	case 'D':
		v, err := p.c.f64()
		return &Attribute{Value: v}, err
	case 'S':
		v, err := p.c.longString()
		return &Attribute{Value: v}, err
	case 'R':
		n, err := p.c.u32()
		if err != nil {
			return nil, err
		}
		b, err := p.c.bytes(int64(n))
		return &Attribute{Value: append([]byte(nil), b...)}, err
	case 'b', 'i', 'l', 'f', 'd':
		return p.readArrayAttribute(typ)
	}
	return nil, errors.Errorf("unknown property tag %q at offset %d", typ, p.c.pos-1)
}

var arrayElemSize = map[uint8]int{'b': 1, 'i': 4, 'l': 8, 'f': 4, 'd': 8}

func (p *binaryParser) readArrayAttribute(typ uint8) (*Attribute, error) {
	count, err := p.c.u32()
	if err != nil {
		return nil, err
	}
	encoding, err := p.c.u32()
	if err != nil {
		return nil, err
	}
	compLen, err := p.c.u32()
	if err != nil {
		return nil, err
	}
	raw, err := p.c.bytes(int64(compLen))
	if err != nil {
		return nil, err
	}

	elemSize := arrayElemSize[typ]
	wantLen := int(count) * elemSize
	var plain []byte
	switch encoding {
	case 0:
		if len(raw) != wantLen {
			return nil, errors.Errorf("array property: raw length %d != count*elemsize %d", len(raw), wantLen)
		}
		plain = raw
	case 1:
		plain, err = p.decompressor.Inflate(raw, wantLen)
		if err != nil {
			return nil, errors.Wrap(err, "array property")
		}
	default:
		return nil, errors.Errorf("unknown array encoding %d", encoding)
	}

	value, err := decodeTypedArray(typ, plain)
	if err != nil {
		return nil, err
	}
	return &Attribute{Value: value, ArraySize: uint(count)}, nil
}

func decodeTypedArray(typ uint8, plain []byte) (interface{}, error) {
	switch typ {
	case 'b':
		out := make([]bool, len(plain))
		for i, b := range plain {
			out[i] = b != 0
		}
		return out, nil
	case 'i':
		n := len(plain) / 4
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			out[i] = int32(binary.LittleEndian.Uint32(plain[i*4:]))
		}
		return out, nil
	case 'l':
		n := len(plain) / 8
		out := make([]int64, n)
		for i := 0; i < n; i++ {
			out[i] = int64(binary.LittleEndian.Uint64(plain[i*8:]))
		}
		return out, nil
	case 'f':
		n := len(plain) / 4
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(plain[i*4:]))
		}
		return out, nil
	case 'd':
		n := len(plain) / 8
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(plain[i*8:]))
		}
		return out, nil
	}
	return nil, errors.Errorf("unknown array type %q", typ)
}

// readNode reads one element frame (spec.md §4.1). A zero end_offset with
// zero prop_count terminates the containing child list and is reported by
// returning (nil, nil).
func (p *binaryParser) readNode() (*Node, error) {
	start := p.c.pos
	endOffset, propCount, propLength, err := p.readFrameTriplet()
	if err != nil {
		return nil, err
	}
	if endOffset == 0 && propCount == 0 && propLength == 0 {
		return nil, nil
	}

	name, err := p.c.shortString()
	if err != nil {
		return nil, err
	}

	n := &Node{Name: name}
	propStart := p.c.pos
	for i := int64(0); i < propCount; i++ {
		a, err := p.readAttribute()
		if err != nil {
			return nil, errors.Wrapf(err, "node %q property %d", name, i)
		}
		n.Attributes = append(n.Attributes, a)
	}
	if got := p.c.pos - propStart; propLength != 0 && got != propLength {
		return nil, errors.Errorf("node %q: prop_length mismatch: header says %d, parsed %d", name, propLength, got)
	}

	if endOffset < p.c.pos {
		return nil, errors.Errorf("node %q: end_offset %d precedes current offset %d", name, endOffset, p.c.pos)
	}
	if endOffset > int64(len(p.c.buf)) {
		return nil, errors.Errorf("node %q: end_offset %d past end of buffer (%d)", name, endOffset, len(p.c.buf))
	}

	sentinelLen := int64(sentinelLenNarrow)
	if p.wide {
		sentinelLen = sentinelLenWide
	}
	if p.c.pos < endOffset-sentinelLen || (p.c.pos == endOffset && endOffset != start) {
		for p.c.pos < endOffset-sentinelLen {
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
	if err := p.c.seek(endOffset); err != nil {
		return nil, err
	}
	return n, nil
}

// parse tokenizes the whole buffer, auto-detecting 32/64-bit framing.
// When the header claims version >= 7500 and any top-level element fails
// to parse under 64-bit framing, spec.md §9's documented fallback applies:
// the whole body is parsed again from its first element under 32-bit
// framing before giving up.
func (p *binaryParser) parse() (*Node, error) {
	if err := p.c.skip(int64(len(binaryMagic))); err != nil {
		return nil, errors.Wrap(err, "binary header")
	}
	if err := p.c.skip(2); err != nil { // reserved bytes
		return nil, err
	}
	version, err := p.c.u32()
	if err != nil {
		return nil, errors.Wrap(err, "binary header: version")
	}
	p.wide = version >= wideFramingVersion

	root := &Node{Name: ""}
	bodyStart := p.c.pos
	for {
		child, err := p.readNode()
		if err != nil {
			if p.wide {
				// auto-detect fallback: some exporters claim >=7500
				// but still write 32-bit framing.
				p.wide = false
				p.c.pos = bodyStart
				root.Children = nil
				continue
			}
			return nil, err
		}
		if child == nil {
			break
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}
