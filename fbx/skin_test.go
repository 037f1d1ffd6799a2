package fbx

import "testing"

func TestInverseIndexPoolExpandsDuplicatedVertices(t *testing.T) {
	// original vertex 0 was split into emitted vertices 0 and 2 during
	// triangulation (e.g. shared across two triangles); vertex 1 wasn't
	// duplicated.
	toOldVertices := []int32{0, 1, 0}
	pool := newInverseIndexPool(toOldVertices, 2)

	got0 := pool.emittedVerticesFor(0)
	if len(got0) != 2 {
		t.Fatalf("emittedVerticesFor(0) = %v, want 2 entries", got0)
	}
	seen := map[int32]bool{}
	for _, v := range got0 {
		seen[v] = true
	}
	if !seen[0] || !seen[2] {
		t.Errorf("emittedVerticesFor(0) = %v, want {0,2}", got0)
	}

	got1 := pool.emittedVerticesFor(1)
	if len(got1) != 1 || got1[0] != 1 {
		t.Errorf("emittedVerticesFor(1) = %v, want [1]", got1)
	}
}

func TestClusterReindexAgainstGeometry(t *testing.T) {
	c := &Cluster{
		Obj:        &Obj{},
		rawIndices: []int32{0, 1},
		rawWeights: []float64{0.5, 1.0},
	}
	pool := newInverseIndexPool([]int32{0, 1, 0}, 2)
	c.reindexAgainstGeometry(pool)

	if len(c.Indices) != 3 {
		t.Fatalf("Indices = %v, want 3 entries (vertex 0 duplicated + vertex 1)", c.Indices)
	}
	total := 0.0
	for _, w := range c.Weights {
		total += w
	}
	if total != 2.0 {
		t.Errorf("total weight = %v, want 2.0 (0.5 duplicated twice + 1.0)", total)
	}
}
