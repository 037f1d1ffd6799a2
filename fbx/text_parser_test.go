package fbx

import "testing"

func TestTextParserSimpleBlock(t *testing.T) {
	src := `; comment line
Model: 12345, "Model::Cube", "Mesh" {
	Version: 232
	Properties70:  {
		P: "Lcl Translation", "Lcl Translation", "", "A",1,2,3
	}
}
`
	root, err := newTextParser([]byte(src)).parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	model := root.Child("Model")
	if model == nil {
		t.Fatal("Model node not found")
	}
	if got := model.PropInt64(0); got != 12345 {
		t.Errorf("id = %d, want 12345", got)
	}
	if got := model.PropString(1); got != "Model::Cube" {
		t.Errorf("name = %q", got)
	}
	props := model.ChildPath("Properties70")
	if props == nil || len(props.Children) != 1 {
		t.Fatalf("Properties70 children = %v", props)
	}
	p := props.Children[0]
	if got := p.PropString(0); got != "Lcl Translation" {
		t.Errorf("property name = %q", got)
	}
}

func TestTextParserArrayLiteral(t *testing.T) {
	src := `Vertices: *9 {
	a: 0,0,0,1,0,0,1,1,0
}
`
	root, err := newTextParser([]byte(src)).parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	arr := root.Child("Vertices").GetFloat64Array()
	if len(arr) != 9 {
		t.Fatalf("array length = %d, want 9", len(arr))
	}
	if arr[3] != 1 {
		t.Errorf("arr[3] = %v, want 1", arr[3])
	}
}

func TestTokenizeDispatchesOnMagic(t *testing.T) {
	_, err := tokenize([]byte("Model: 1, \"a\", \"b\" {\n}\n"), nil)
	if err != nil {
		t.Fatalf("ascii tokenize: %v", err)
	}
	if _, err := tokenize(nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
