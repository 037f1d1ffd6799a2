package fbx

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildNarrowBinaryElement appends one leaf element frame using the
// pre-7500 32-bit field widths: end_offset/num_properties/property_list_len
// as u32, one int32 ('I') property, no children.
func buildNarrowBinaryElement(buf *bytes.Buffer, name string, value int32) {
	var props bytes.Buffer
	props.WriteByte('I')
	binary.Write(&props, binary.LittleEndian, value)

	header := buf.Len()
	// placeholders, patched below
	binary.Write(buf, binary.LittleEndian, uint32(0)) // end_offset
	binary.Write(buf, binary.LittleEndian, uint32(1)) // num_properties
	binary.Write(buf, binary.LittleEndian, uint32(props.Len()))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	buf.Write(props.Bytes())

	endOffset := uint32(buf.Len())
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[header:], endOffset)
}

func buildMinimalBinaryFBX(version uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString(binaryMagic)
	buf.Write([]byte{0, 0}) // reserved
	binary.Write(&buf, binary.LittleEndian, version)

	buildNarrowBinaryElement(&buf, "Foo", 42)

	// top-level null record terminator
	buf.Write(make([]byte, 12))
	return buf.Bytes()
}

func TestBinaryParserNarrowFraming(t *testing.T) {
	data := buildMinimalBinaryFBX(7400)
	if !sniffBinary(data) {
		t.Fatal("sniffBinary should recognize the magic header")
	}

	root, err := newBinaryParser(data, nil).parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(root.Children))
	}
	foo := root.Children[0]
	if foo.Name != "Foo" {
		t.Errorf("name = %q, want Foo", foo.Name)
	}
	if got := foo.PropInt(0); got != 42 {
		t.Errorf("PropInt(0) = %d, want 42", got)
	}
}

func TestTokenizeDispatchesBinary(t *testing.T) {
	data := buildMinimalBinaryFBX(7400)
	root, err := tokenize(data, nil)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(root.Children))
	}
}
