package fbx

import "testing"

func TestTriangulateFanQuad(t *testing.T) {
	// a quad: corners 0,1,2,3 with the last sentinel-negated
	raw := []int32{0, 1, 2, -4}
	got := triangulate(raw)
	want := []int32{0, 1, 2, 0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTriangulateTwoTriangles(t *testing.T) {
	// two independent triangles back to back
	raw := []int32{0, 1, -3, 3, 4, -6}
	got := triangulate(raw)
	want := []int32{0, 1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// multiMaterialPlaneFBX is a 2-triangle plane whose LayerElementMaterial
// assigns triangle 0 to material 0 and triangle 1 to material 1
// (spec.md §8 scenario S5).
const multiMaterialPlaneFBX = `
Geometry: 1000, "Geometry::", "Mesh" {
	Vertices: *12 {
		a: 0,0,0,1,0,0,1,1,0,0,1,0
	}
	PolygonVertexIndex: *6 {
		a: 0,1,-3,2,3,-1
	}
	LayerElementMaterial: 0 {
		MappingInformationType: "ByPolygon"
		ReferenceInformationType: "Direct"
		Materials: *2 {
			a: 0,1
		}
	}
}
`

func TestPartitionsMultiMaterialPlane(t *testing.T) {
	root, err := newTextParser([]byte(multiMaterialPlaneFBX)).parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := buildGeometry(nil, root.Child("Geometry"), 1000, "Geometry::")
	if err != nil {
		t.Fatalf("buildGeometry: %v", err)
	}

	if len(g.Partitions) != 2 {
		t.Fatalf("partition_count = %d, want 2", len(g.Partitions))
	}
	if g.Partitions[0].Material != 0 || g.Partitions[0].Start != 0 || g.Partitions[0].Count != 1 {
		t.Errorf("partition 0 = %+v, want material 0 covering polygon 0", g.Partitions[0])
	}
	if g.Partitions[1].Material != 1 || g.Partitions[1].Start != 1 || g.Partitions[1].Count != 1 {
		t.Errorf("partition 1 = %+v, want material 1 covering polygon 1", g.Partitions[1])
	}

	// disjoint cover of [0, polygon_count)
	covered := 0
	for _, p := range g.Partitions {
		covered += p.Count
	}
	if covered != 2 {
		t.Errorf("partitions cover %d polygons, want 2", covered)
	}
}

func TestDecodeIndexSentinel(t *testing.T) {
	if idx, last := decodeIndexSentinel(5); idx != 5 || last {
		t.Errorf("decodeIndexSentinel(5) = (%d,%v)", idx, last)
	}
	if idx, last := decodeIndexSentinel(-1); idx != 0 || !last {
		t.Errorf("decodeIndexSentinel(-1) = (%d,%v), want (0,true)", idx, last)
	}
	if idx, last := decodeIndexSentinel(-6); idx != 5 || !last {
		t.Errorf("decodeIndexSentinel(-6) = (%d,%v), want (5,true)", idx, last)
	}
}
