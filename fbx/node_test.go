package fbx

import "testing"

func TestNodeChildAndChildPath(t *testing.T) {
	root := &Node{
		Name: "Root",
		Children: []*Node{
			{Name: "A", Children: []*Node{
				{Name: "B", Attributes: AttributeList{{Value: int64(42)}}},
			}},
		},
	}

	if got := root.Child("A"); got == nil {
		t.Fatalf("Child(A) = nil")
	}
	b := root.ChildPath("A.B")
	if b == nil {
		t.Fatalf("ChildPath(A.B) = nil")
	}
	if got := b.PropInt64(0); got != 42 {
		t.Errorf("PropInt64(0) = %d, want 42", got)
	}

	if got := root.ChildPath("A.Missing"); got != nil {
		t.Errorf("ChildPath(A.Missing) = %v, want nil", got)
	}
}

func TestAttributeConversions(t *testing.T) {
	a := &Attribute{Value: int32(7)}
	if got := a.ToInt(0); got != 7 {
		t.Errorf("ToInt = %d, want 7", got)
	}
	if got := a.ToFloat64(0); got != 7 {
		t.Errorf("ToFloat64 = %v, want 7", got)
	}

	var missing *Attribute
	if got := missing.ToInt(9); got != 9 {
		t.Errorf("nil Attribute ToInt = %d, want default 9", got)
	}
}

func TestChildOrEmptyNeverNil(t *testing.T) {
	n := &Node{Name: "X"}
	empty := n.ChildOrEmpty("NoSuchChild")
	if empty == nil {
		t.Fatal("ChildOrEmpty returned nil")
	}
	if got := empty.GetString(); got != "" {
		t.Errorf("GetString on empty node = %q, want empty", got)
	}
}
