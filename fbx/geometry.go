package fbx

import "github.com/mirai3d/fbxscene/geom"

// MappingMode is a LayerElement's MappingInformationType.
type MappingMode int

const (
	MappingByPolygonVertex MappingMode = iota
	MappingByPolygon
	MappingByVertex
	MappingAllSame
	MappingByEdge // unsupported (spec.md §5 Non-goal); decodes to zero values
)

// ReferenceMode is a LayerElement's ReferenceInformationType.
type ReferenceMode int

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
)

// Geometry holds one Geometry object's post-triangulation vertex buffer
// and its decoded per-vertex layers. Construction follows the reference
// parser's GeometryImpl::triangulate/parseVertexData pipeline
// (original_source/ofbx.cpp) generalized to emit every supported layer.
type Geometry struct {
	*Obj

	// Vertices is the final, per-triangle-corner position buffer: one
	// entry per emitted vertex, 3 consecutive entries per triangle.
	Vertices []geom.Vector3

	// Indices is kept for API symmetry with consumers that expect a
	// dedicated index buffer; since triangulation already expands faces
	// to one vertex per corner, Indices is the identity permutation.
	Indices []int32

	// ToOldVertices maps an emitted vertex index back to its original
	// control-point index (spec.md §5's to_old_vertices).
	ToOldVertices []int32

	// ToOldIndices maps an emitted vertex index back to its position in
	// the raw PolygonVertexIndex array (spec.md §5's to_old_indices),
	// which per-polygon/per-polygon-vertex layers index by.
	ToOldIndices []int32

	// PolygonOf gives, for each emitted vertex, the polygon (face) index
	// it belongs to; layers with MappingByPolygon decode through this.
	PolygonOf []int32

	Normals       []geom.Vector3
	UVs           [][]geom.Vector2 // one slice per UV channel, in Layer order
	Colors        []geom.Vector4
	Tangents      []geom.Vector3
	Binormals     []geom.Vector3
	MaterialIndex []int32 // per emitted-triangle material index, or nil

	// Partitions groups the original polygons (and their emitted triangle
	// ranges) by material index (spec.md §4.6). Ranges are disjoint and
	// cover every polygon exactly once (spec.md §8 testable property 3). A
	// Geometry with no material layer gets a single partition spanning
	// every polygon, with Material == -1.
	Partitions []Partition
}

// Partition is a contiguous run of original polygons assigned to the same
// material, plus the corresponding contiguous run of emitted triangles.
type Partition struct {
	Material int32 // material index, or -1 when no material layer is present

	Start int // first original polygon index covered by this partition
	Count int // number of original polygons covered

	TriangleStart int32 // first emitted triangle index (Vertices[3*TriangleStart:])
	TriangleCount int32 // number of emitted triangles covered
}

func decodeIndexSentinel(raw int32) (idx int32, isLast bool) {
	if raw < 0 {
		return -raw - 1, true
	}
	return raw, false
}

// triangulate fans each polygon into (n-2) triangles, matching
// GeometryImpl::triangulate: a running in-polygon corner counter resets on
// the sentinel-negated terminal index of each polygon, and once three or
// more corners have been seen each additional corner contributes a
// (first, previous, current) triangle.
func triangulate(rawVertexIndex []int32) (toOldIndices []int32) {
	firstCorner := 0
	prevCorner := 0
	inPolygon := 0
	for i, raw := range rawVertexIndex {
		_, isLast := decodeIndexSentinel(raw)
		switch {
		case inPolygon == 0:
			firstCorner = i
		case inPolygon >= 2:
			toOldIndices = append(toOldIndices, int32(firstCorner), int32(prevCorner), int32(i))
		}
		prevCorner = i
		inPolygon++
		if isLast {
			inPolygon = 0
		}
	}
	return toOldIndices
}

func buildGeometry(scene *Scene, node *Node, id int64, name string) (*Geometry, error) {
	g := &Geometry{Obj: newObj(scene, node, id, name, KindGeometry)}

	verticesNode := node.Child("Vertices")
	raw := verticesNode.GetFloat64Array()
	rawVerts := make([]geom.Vector3, len(raw)/3)
	for i := range rawVerts {
		rawVerts[i] = geom.Vector3{
			X: geom.Element(raw[i*3+0]),
			Y: geom.Element(raw[i*3+1]),
			Z: geom.Element(raw[i*3+2]),
		}
	}

	pvi := node.Child("PolygonVertexIndex").GetInt32Array()
	oldVertexOfCorner := make([]int32, len(pvi))
	for i, raw := range pvi {
		idx, _ := decodeIndexSentinel(raw)
		oldVertexOfCorner[i] = idx
	}

	toOldIndices := triangulate(pvi)
	g.ToOldIndices = toOldIndices
	g.ToOldVertices = make([]int32, len(toOldIndices))
	g.Vertices = make([]geom.Vector3, len(toOldIndices))
	g.PolygonOf = make([]int32, len(toOldIndices))

	polygonOfCorner := make([]int32, len(pvi))
	polygon := int32(0)
	for i, raw := range pvi {
		polygonOfCorner[i] = polygon
		if _, isLast := decodeIndexSentinel(raw); isLast {
			polygon++
		}
	}

	for outIdx, corner := range toOldIndices {
		ov := oldVertexOfCorner[corner]
		g.ToOldVertices[outIdx] = ov
		if int(ov) < len(rawVerts) {
			g.Vertices[outIdx] = rawVerts[ov]
		}
		g.PolygonOf[outIdx] = polygonOfCorner[corner]
	}
	g.Indices = make([]int32, len(g.Vertices))
	for i := range g.Indices {
		g.Indices[i] = int32(i)
	}

	for _, layerNode := range node.Children {
		switch layerNode.Name {
		case "LayerElementNormal":
			g.Normals = decodeVector3Layer(layerNode, "Normals", g)
		case "LayerElementUV":
			g.UVs = append(g.UVs, decodeVector2Layer(layerNode, "UV", g))
		case "LayerElementColor":
			g.Colors = decodeVector4Layer(layerNode, "Colors", g)
		case "LayerElementTangent":
			g.Tangents = decodeVector3Layer(layerNode, "Tangents", g)
		case "LayerElementBinormal":
			g.Binormals = decodeVector3Layer(layerNode, "Binormals", g)
		case "LayerElementMaterial":
			g.MaterialIndex = decodeMaterialLayer(layerNode, g)
		}
	}
	g.Partitions = buildPartitions(g)
	return g, nil
}

// buildPartitions groups the emitted triangles into per-material,
// contiguous polygon runs (spec.md §4.6). With no material layer, every
// polygon is covered by a single Partition with Material == -1.
func buildPartitions(g *Geometry) []Partition {
	triCount := len(g.Vertices) / 3
	if triCount == 0 {
		return nil
	}
	polygonCount := 0
	for _, p := range g.PolygonOf {
		if int(p)+1 > polygonCount {
			polygonCount = int(p) + 1
		}
	}
	if len(g.MaterialIndex) == 0 {
		return []Partition{{Material: -1, Start: 0, Count: polygonCount, TriangleStart: 0, TriangleCount: int32(triCount)}}
	}

	var out []Partition
	var cur *Partition
	for t := 0; t < triCount; t++ {
		polygon := int(g.PolygonOf[t*3])
		material := g.MaterialIndex[t]
		switch {
		case cur == nil || material != cur.Material:
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Partition{Material: material, Start: polygon, Count: 1, TriangleStart: int32(t), TriangleCount: 1}
		default:
			if polygon >= cur.Start+cur.Count {
				cur.Count = polygon - cur.Start + 1
			}
			cur.TriangleCount++
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

func layerMapping(n *Node) (MappingMode, ReferenceMode) {
	mapping := MappingByPolygonVertex
	switch n.Child("MappingInformationType").GetString() {
	case "ByPolygon":
		mapping = MappingByPolygon
	case "ByVertice", "ByVertex":
		mapping = MappingByVertex
	case "AllSame":
		mapping = MappingAllSame
	case "ByEdge":
		mapping = MappingByEdge
	}
	ref := ReferenceDirect
	if n.Child("ReferenceInformationType").GetString() == "IndexToDirect" {
		ref = ReferenceIndexToDirect
	}
	return mapping, ref
}

// resolveLayerSlot maps an emitted vertex index to the direct-array slot
// a layer element should read, given its mapping/reference mode.
func resolveLayerSlot(g *Geometry, emittedIdx int, mapping MappingMode, ref ReferenceMode, indexArray []int32) int {
	var slot int
	switch mapping {
	case MappingByPolygonVertex:
		slot = int(g.ToOldIndices[emittedIdx])
	case MappingByVertex:
		slot = int(g.ToOldVertices[emittedIdx])
	case MappingByPolygon:
		slot = int(g.PolygonOf[emittedIdx])
	case MappingAllSame:
		slot = 0
	default:
		return -1
	}
	if ref == ReferenceIndexToDirect {
		if slot < 0 || slot >= len(indexArray) {
			return -1
		}
		slot = int(indexArray[slot])
	}
	return slot
}

func decodeVector3Layer(n *Node, arrayName string, g *Geometry) []geom.Vector3 {
	mapping, ref := layerMapping(n)
	data := n.Child(arrayName).GetFloat64Array()
	idx := n.Child(arrayName + "Index").GetInt32Array()
	out := make([]geom.Vector3, len(g.Vertices))
	for i := range out {
		slot := resolveLayerSlot(g, i, mapping, ref, idx)
		if slot < 0 || slot*3+2 >= len(data) {
			continue
		}
		out[i] = geom.Vector3{
			X: geom.Element(data[slot*3+0]),
			Y: geom.Element(data[slot*3+1]),
			Z: geom.Element(data[slot*3+2]),
		}
	}
	return out
}

func decodeVector2Layer(n *Node, arrayName string, g *Geometry) []geom.Vector2 {
	mapping, ref := layerMapping(n)
	data := n.Child(arrayName).GetFloat64Array()
	idx := n.Child(arrayName + "Index").GetInt32Array()
	out := make([]geom.Vector2, len(g.Vertices))
	for i := range out {
		slot := resolveLayerSlot(g, i, mapping, ref, idx)
		if slot < 0 || slot*2+1 >= len(data) {
			continue
		}
		out[i] = geom.Vector2{X: geom.Element(data[slot*2+0]), Y: geom.Element(data[slot*2+1])}
	}
	return out
}

func decodeVector4Layer(n *Node, arrayName string, g *Geometry) []geom.Vector4 {
	mapping, ref := layerMapping(n)
	data := n.Child(arrayName).GetFloat64Array()
	idx := n.Child(arrayName + "Index").GetInt32Array()
	out := make([]geom.Vector4, len(g.Vertices))
	for i := range out {
		slot := resolveLayerSlot(g, i, mapping, ref, idx)
		if slot < 0 || slot*4+3 >= len(data) {
			continue
		}
		out[i] = geom.Vector4{
			X: geom.Element(data[slot*4+0]),
			Y: geom.Element(data[slot*4+1]),
			Z: geom.Element(data[slot*4+2]),
			W: geom.Element(data[slot*4+3]),
		}
	}
	return out
}

// decodeMaterialLayer resolves one material index per emitted triangle
// (3 emitted vertices), since FBX stores material assignment per polygon.
func decodeMaterialLayer(n *Node, g *Geometry) []int32 {
	mapping, _ := layerMapping(n)
	data := n.Child("Materials").GetInt32Array()
	triCount := len(g.Vertices) / 3
	out := make([]int32, triCount)
	if mapping == MappingAllSame {
		if len(data) > 0 {
			for t := range out {
				out[t] = data[0]
			}
		}
		return out
	}
	for t := 0; t < triCount; t++ {
		slot := resolveLayerSlot(g, t*3, mapping, ReferenceDirect, nil)
		if slot < 0 || slot >= len(data) {
			continue
		}
		out[t] = data[slot]
	}
	return out
}
