package fbx

import (
	"fmt"
	"strings"
)

// Attribute is one typed value carried by a Node (an FBX "Property").
// Value holds the already-decoded Go value: bool, int16, int32, int64,
// float32, float64, string, []byte, or one of the typed array slices
// ([]int32, []int64, []float32, []float64, []bool) for array properties.
// ArraySize is non-zero only for array properties (it is kept separately
// from len(Value.([]T)) so a Dump can tell an array property with one
// element apart from a scalar).
type Attribute struct {
	Value     interface{}
	ArraySize uint
}

type AttributeList []*Attribute

func (l AttributeList) Get(i int) *Attribute {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (a *Attribute) ToInt(defvalue int) int {
	return int(a.ToInt64(int64(defvalue)))
}

func (a *Attribute) ToInt64(defvalue int64) int64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return defvalue
}

func (a *Attribute) ToFloat32(defvalue float32) float32 {
	return float32(a.ToFloat64(float64(defvalue)))
}

func (a *Attribute) ToFloat64(defvalue float64) float64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defvalue
}

func (a *Attribute) ToBool(defvalue bool) bool {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case bool:
		return v
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	}
	return defvalue
}

func (a *Attribute) ToString(defvalue string) string {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return defvalue
}

// String renders the attribute roughly like the ASCII dialect, for Dump.
func (a *Attribute) String() string {
	switch v := a.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("%q", string(v))
	default:
		return fmt.Sprint(v)
	}
}

// Node is one entry of the raw element tree (spec.md's "Element"). The
// root node has an empty Name and no Attributes.
type Node struct {
	Name       string
	Attributes AttributeList
	Children   []*Node
}

func (n *Node) Attr(i int) *Attribute {
	if n == nil {
		return nil
	}
	return n.Attributes.Get(i)
}

func (n *Node) PropInt(i int) int       { return n.Attr(i).ToInt(0) }
func (n *Node) PropInt64(i int) int64   { return n.Attr(i).ToInt64(0) }
func (n *Node) PropFloat(i int) float32 { return n.Attr(i).ToFloat32(0) }
func (n *Node) PropString(i int) string { return n.Attr(i).ToString("") }
func (n *Node) PropValue(i int) interface{} {
	if a := n.Attr(i); a != nil {
		return a.Value
	}
	return nil
}

// GetString returns the value of the node's first attribute, falling back
// to the empty string.
func (n *Node) GetString() string { return n.PropString(0) }

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// Child finds the first direct child with the given name, linear scan
// over siblings (spec.md §4.3 "find first child by id").
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildOrEmpty is Child, but never nil, so callers can chain .Child()
// lookups and attribute accessors without nil-checking every step.
func (n *Node) ChildOrEmpty(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	return &Node{}
}

// ChildPath walks a dotted path ("A.B.C") greedily through nested
// children (spec.md §4.3 "find nested child by dotted-path").
func (n *Node) ChildPath(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, ".") {
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (n *Node) GetInt32Array() []int32 {
	v := n.PropValue(0)
	switch vv := v.(type) {
	case []int32:
		return vv
	case []int64:
		r := make([]int32, len(vv))
		for i, x := range vv {
			r[i] = int32(x)
		}
		return r
	case []byte:
		r := make([]int32, len(vv))
		for i, x := range vv {
			r[i] = int32(x)
		}
		return r
	}
	return nil
}

func (n *Node) GetInt64Array() []int64 {
	v := n.PropValue(0)
	switch vv := v.(type) {
	case []int64:
		return vv
	case []int32:
		r := make([]int64, len(vv))
		for i, x := range vv {
			r[i] = int64(x)
		}
		return r
	}
	return nil
}

func (n *Node) GetFloat32Array() []float32 {
	v := n.PropValue(0)
	switch vv := v.(type) {
	case []float32:
		return vv
	case []float64:
		r := make([]float32, len(vv))
		for i, x := range vv {
			r[i] = float32(x)
		}
		return r
	}
	return nil
}

func (n *Node) GetFloat64Array() []float64 {
	v := n.PropValue(0)
	switch vv := v.(type) {
	case []float64:
		return vv
	case []float32:
		r := make([]float64, len(vv))
		for i, x := range vv {
			r[i] = float64(x)
		}
		return r
	case []int64:
		// the ASCII dialect's array literal can't tell a whole-number
		// float column from an int column until it sees a decimal point
		// anywhere in the column; widen defensively.
		r := make([]float64, len(vv))
		for i, x := range vv {
			r[i] = float64(x)
		}
		return r
	}
	return nil
}

func (n *Node) GetBoolArray() []bool {
	v := n.PropValue(0)
	if vv, ok := v.([]bool); ok {
		return vv
	}
	return nil
}

// Dump writes the node tree back out in the ASCII dialect, mostly useful
// for debugging/diffing parsed trees in tests.
func (n *Node) Dump(w *strings.Builder, depth int, full bool) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(n.Name)
	w.WriteString(":")
	for i, a := range n.Attributes {
		if !full && a.ArraySize > 16 {
			fmt.Fprintf(w, " *%d { SKIPPED }", a.ArraySize)
			continue
		}
		s := a.String()
		if a.ArraySize > 0 {
			s = fmt.Sprintf("*%d { a: %s }", a.ArraySize, s)
		}
		if i == 0 {
			w.WriteString(" ")
		} else {
			w.WriteString(", ")
		}
		w.WriteString(s)
	}
	if len(n.Children) > 0 {
		w.WriteString(" {\n")
		for _, c := range n.Children {
			c.Dump(w, depth+1, full)
		}
		w.WriteString(strings.Repeat("  ", depth))
		w.WriteString("}\n")
	} else {
		w.WriteString("\n")
	}
}
