package fbx

import "github.com/mirai3d/fbxscene/geom"

// Skin is a Deformer/Skin object grouping one or more Clusters.
type Skin struct{ *Obj }

// Clusters returns the Cluster objects bound to this skin, in file
// Connections order.
func (s *Skin) Clusters() []*Cluster {
	var out []*Cluster
	for _, id := range s.scene.conns.inLinks(s.id) {
		if c, ok := s.scene.clusters[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Cluster is a Deformer/Cluster object: a bone's influence over a subset
// of a Geometry's original (pre-triangulation) control points, expressed
// as (original vertex index, weight) pairs in the raw file.
type Cluster struct {
	*Obj

	rawIndices []int32
	rawWeights []float64

	transform     *geom.Matrix4
	transformLink *geom.Matrix4

	// Indices/Weights are re-indexed against the owning Geometry's
	// emitted (post-triangulation) vertex buffer, one weight per
	// emitted vertex the cluster influences (parallel arrays).
	Indices []int32
	Weights []float64
}

func buildCluster(scene *Scene, node *Node, id int64, name string) *Cluster {
	c := &Cluster{Obj: newObj(scene, node, id, name, KindCluster)}
	c.rawIndices = node.Child("Indexes").GetInt32Array()
	c.rawWeights = node.Child("Weights").GetFloat64Array()
	if tm := node.Child("Transform").GetFloat64Array(); len(tm) == 16 {
		c.transform = matrix4FromFloat64s(tm)
	}
	if tm := node.Child("TransformLink").GetFloat64Array(); len(tm) == 16 {
		c.transformLink = matrix4FromFloat64s(tm)
	}
	return c
}

func matrix4FromFloat64s(v []float64) *geom.Matrix4 {
	m := &geom.Matrix4{}
	for i := 0; i < 16; i++ {
		m[i] = geom.Element(v[i])
	}
	return m
}

func (c *Cluster) Transform() *geom.Matrix4     { return c.transform }
func (c *Cluster) TransformLink() *geom.Matrix4 { return c.transformLink }

// Link returns the LimbNode/bone Model driving this cluster.
func (c *Cluster) Link() *Model {
	for _, id := range c.scene.conns.inLinks(c.id) {
		if m, ok := c.scene.models[id]; ok {
			return m
		}
	}
	return nil
}

// inverseIndexPool is the bump-allocated intrusive linked list used to
// remap a Cluster's original-vertex-indexed weights onto a Geometry's
// emitted (post-triangulation, possibly duplicated) vertex indices,
// grounded directly on ClusterImpl::postprocess's Pool/NewNode scheme
// (original_source/ofbx.cpp): every original control point gets a list of
// every emitted vertex index it was expanded into.
type inverseIndexPool struct {
	heads []int32 // heads[oldIdx] = index into nodes, or -1
	nodes []inverseIndexNode
}

type inverseIndexNode struct {
	value int32
	next  int32 // index into nodes, or -1
}

func newInverseIndexPool(toOldVertices []int32, vertexCount int) *inverseIndexPool {
	p := &inverseIndexPool{
		heads: make([]int32, vertexCount),
		nodes: make([]inverseIndexNode, 0, len(toOldVertices)),
	}
	for i := range p.heads {
		p.heads[i] = -1
	}
	for emitted, old := range toOldVertices {
		node := inverseIndexNode{value: int32(emitted), next: p.heads[old]}
		p.nodes = append(p.nodes, node)
		p.heads[old] = int32(len(p.nodes) - 1)
	}
	return p
}

func (p *inverseIndexPool) emittedVerticesFor(oldIdx int32) []int32 {
	if int(oldIdx) < 0 || int(oldIdx) >= len(p.heads) {
		return nil
	}
	var out []int32
	for n := p.heads[oldIdx]; n != -1; n = p.nodes[n].next {
		out = append(out, p.nodes[n].value)
	}
	return out
}

// reindexAgainstGeometry expands the cluster's raw (old vertex index,
// weight) pairs into per-emitted-vertex (index, weight) pairs, so a
// single original control point's weight is replicated across every
// triangle-corner copy it was split into during triangulation.
func (c *Cluster) reindexAgainstGeometry(pool *inverseIndexPool) {
	c.Indices = c.Indices[:0]
	c.Weights = c.Weights[:0]
	n := len(c.rawIndices)
	if len(c.rawWeights) < n {
		n = len(c.rawWeights)
	}
	for i := 0; i < n; i++ {
		for _, emitted := range pool.emittedVerticesFor(c.rawIndices[i]) {
			c.Indices = append(c.Indices, emitted)
			c.Weights = append(c.Weights, c.rawWeights[i])
		}
	}
}
