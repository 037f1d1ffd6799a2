package fbx

import "testing"

const minimalTriangleFBX = `
Objects:  {
	Geometry: 1000, "Geometry::", "Mesh" {
		Vertices: *9 {
			a: 0,0,0,1,0,0,1,1,0
		}
		PolygonVertexIndex: *3 {
			a: 0,1,-3
		}
	}
	Model: 2000, "Model::Cube", "Mesh" {
		Properties70:  {
			P: "Lcl Translation", "Lcl Translation", "", "A",5,0,0
		}
	}
}
Connections:  {
	C: "OO",1000,2000
	C: "OO",2000,0
}
`

func TestLoadMinimalTriangle(t *testing.T) {
	scene, err := Load([]byte(minimalTriangleFBX), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	geoms := scene.Geometries()
	if len(geoms) != 1 {
		t.Fatalf("geometries = %d, want 1", len(geoms))
	}
	g := geoms[0]
	if len(g.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(g.Vertices))
	}
	if g.Vertices[2].X != 1 || g.Vertices[2].Y != 1 {
		t.Errorf("vertex[2] = %+v, want (1,1,0)", g.Vertices[2])
	}

	models := scene.Models()
	if len(models) != 1 {
		t.Fatalf("models = %d, want 1", len(models))
	}
	m := models[0]
	if m.Geometry() == nil {
		t.Fatal("model has no connected geometry")
	}
	if got := m.Geometry().ID(); got != 1000 {
		t.Errorf("connected geometry id = %d, want 1000", got)
	}

	roots := scene.RootModels()
	if len(roots) != 1 || roots[0].ID() != 2000 {
		t.Fatalf("root models = %+v", roots)
	}

	lm := m.LocalMatrix()
	if lm[12] != 5 {
		t.Errorf("translation X in local matrix = %v, want 5", lm[12])
	}
}

func TestLoadEmptyBufferFails(t *testing.T) {
	if _, err := Load(nil, LoadOptions{}); err == nil {
		t.Fatal("expected error loading empty buffer")
	}
}

func TestLoadFlagsElideObjectsButKeepRawTree(t *testing.T) {
	scene, err := Load([]byte(minimalTriangleFBX), LoadOptions{Flags: IgnoreGeometry})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(scene.Geometries()) != 0 {
		t.Fatalf("geometries = %d, want 0 with IgnoreGeometry", len(scene.Geometries()))
	}
	if scene.Root().ChildPath("Objects").Child("Geometry") == nil {
		t.Fatal("raw Geometry element should still be reachable under IgnoreGeometry")
	}
}
