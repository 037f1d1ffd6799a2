package fbx

import "github.com/mirai3d/fbxscene/geom"

// Model is the base of every node in the scene hierarchy: LimbNode,
// NullNode and Mesh all embed one. It owns the eleven-term local
// transform chain (spec.md §6) and resolves world transforms by walking
// Connections-derived parent links.
type Model struct {
	*Obj
}

func newModel(scene *Scene, node *Node, id int64, name string, kind ObjectKind) *Model {
	return &Model{Obj: newObj(scene, node, id, name, kind)}
}

func rotationOrderFromProperty(o *Obj) geom.RotationOrder {
	a := o.GetProperty("RotationOrder")
	if a == nil {
		return geom.RotationOrderXYZ
	}
	switch a.ToInt(0) {
	case 0:
		return geom.RotationOrderXYZ
	case 1:
		return geom.RotationOrderXZY
	case 2:
		return geom.RotationOrderYZX
	case 3:
		return geom.RotationOrderYXZ
	case 4:
		return geom.RotationOrderZXY
	case 5:
		return geom.RotationOrderZYX
	case 6:
		return geom.RotationOrderSphericXYZ
	default:
		return geom.RotationOrderXYZ
	}
}

// localTransform holds the TRS-related properties a Model's local and
// geometric matrices are assembled from, each defaulting per spec.md §6
// when absent.
type localTransform struct {
	translation       geom.Vector3
	rotationOffset    geom.Vector3
	rotationPivot     geom.Vector3
	preRotationDeg    geom.Vector3
	rotationDeg       geom.Vector3
	postRotationDeg   geom.Vector3
	scalingOffset     geom.Vector3
	scalingPivot      geom.Vector3
	scaling           geom.Vector3
	rotationOrder     geom.RotationOrder
	geometricTrans    geom.Vector3
	geometricRotDeg   geom.Vector3
	geometricScaling  geom.Vector3
}

func deg2rad(v geom.Vector3) geom.Vector3 {
	const k = geom.Element(3.14159265358979323846 / 180)
	return geom.Vector3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

func vec3(x, y, z float64) geom.Vector3 {
	return geom.Vector3{X: geom.Element(x), Y: geom.Element(y), Z: geom.Element(z)}
}

func (o *Obj) propVec3(name string, defX, defY, defZ float64) geom.Vector3 {
	x, y, z := o.propertyFloat3(name, defX, defY, defZ)
	return vec3(x, y, z)
}

func (m *Model) loadLocalTransform() localTransform {
	var t localTransform
	t.translation = m.propVec3("Lcl Translation", 0, 0, 0)
	t.rotationOffset = m.propVec3("RotationOffset", 0, 0, 0)
	t.rotationPivot = m.propVec3("RotationPivot", 0, 0, 0)
	t.preRotationDeg = m.propVec3("PreRotation", 0, 0, 0)
	t.rotationDeg = m.propVec3("Lcl Rotation", 0, 0, 0)
	t.postRotationDeg = m.propVec3("PostRotation", 0, 0, 0)
	t.scalingOffset = m.propVec3("ScalingOffset", 0, 0, 0)
	t.scalingPivot = m.propVec3("ScalingPivot", 0, 0, 0)
	t.scaling = m.propVec3("Lcl Scaling", 1, 1, 1)
	t.rotationOrder = rotationOrderFromProperty(m.Obj)
	t.geometricTrans = m.propVec3("GeometricTranslation", 0, 0, 0)
	t.geometricRotDeg = m.propVec3("GeometricRotation", 0, 0, 0)
	t.geometricScaling = m.propVec3("GeometricScaling", 1, 1, 1)
	return t
}

func translateMatrix(v geom.Vector3) *geom.Matrix4 {
	return geom.NewTranslateMatrix4(v.X, v.Y, v.Z)
}

func rotationMatrix(deg geom.Vector3, order geom.RotationOrder) *geom.Matrix4 {
	r := deg2rad(deg)
	return geom.EulerRotationMatrix4(r.X, r.Y, r.Z, order)
}

func scaleMatrix(v geom.Vector3) *geom.Matrix4 {
	return geom.NewScaleMatrix4(v.X, v.Y, v.Z)
}

func invTranslate(v geom.Vector3) *geom.Matrix4 {
	return geom.NewTranslateMatrix4(-v.X, -v.Y, -v.Z)
}

// chain multiplies matrices left-to-right so that chain(A,B,C) applies C
// first, matching the teacher's (*Matrix4).Mul(a) "apply a then receiver"
// convention used throughout Model.UpdateMatrix.
func chain(mats ...*geom.Matrix4) *geom.Matrix4 {
	r := geom.NewMatrix4()
	for _, m := range mats {
		r = r.Mul(m)
	}
	return r
}

// LocalMatrix assembles the full eleven-term local transform:
// T * Roff * Rp * Rpre * R * Rpost^-1 * Rp^-1 * Soff * Sp * S * Sp^-1
// (spec.md §6's transform-chain invariant). PostRotation is inverted here:
// spec.md §4.8's literal chain notation omits the hat, but the standard FBX
// pivot chain (matching Maya/the FBX SDK) does invert it, so the inverse
// stays.
func (m *Model) LocalMatrix() *geom.Matrix4 {
	t := m.loadLocalTransform()
	return chain(
		translateMatrix(t.translation),
		translateMatrix(t.rotationOffset),
		translateMatrix(t.rotationPivot),
		rotationMatrix(t.preRotationDeg, geom.RotationOrderXYZ),
		rotationMatrix(t.rotationDeg, t.rotationOrder),
		rotationMatrix(t.postRotationDeg, geom.RotationOrderXYZ).Inverse(),
		invTranslate(t.rotationPivot),
		translateMatrix(t.scalingOffset),
		translateMatrix(t.scalingPivot),
		scaleMatrix(t.scaling),
		invTranslate(t.scalingPivot),
	)
}

// GeometricMatrix is the GeometricTranslation/Rotation/Scaling transform
// that applies only to this model's own Geometry, never inherited by
// children (spec.md §6 edge case).
func (m *Model) GeometricMatrix() *geom.Matrix4 {
	t := m.loadLocalTransform()
	return chain(
		translateMatrix(t.geometricTrans),
		rotationMatrix(t.geometricRotDeg, geom.RotationOrderXYZ),
		scaleMatrix(t.geometricScaling),
	)
}

// ParentModel returns the Model this one is connected to, or nil at the
// scene root.
func (m *Model) ParentModel() *Model {
	pid := m.scene.parentOf(m.id)
	if pid == RootID {
		return nil
	}
	if p, ok := m.scene.models[pid]; ok {
		return p
	}
	return nil
}

// GlobalMatrix composes LocalMatrix up the parent chain to the root
// (spec.md §6: "a node's GlobalTransform is the product of its own local
// transform with every ancestor's local transform").
func (m *Model) GlobalMatrix() *geom.Matrix4 {
	local := m.LocalMatrix()
	parent := m.ParentModel()
	if parent == nil {
		return local
	}
	return parent.GlobalMatrix().Mul(local)
}

// Geometry returns the Geometry connected to this model, if any.
func (m *Model) Geometry() *Geometry {
	for _, id := range m.scene.conns.inLinks(m.id) {
		if g, ok := m.scene.geometries[id]; ok {
			return g
		}
	}
	return nil
}

// NodeAttributeRef returns the NodeAttribute connected to this model, if
// any (spec.md §5: LimbNode/Null carry one describing their node kind).
func (m *Model) NodeAttributeRef() *NodeAttribute {
	for _, id := range m.scene.conns.inLinks(m.id) {
		if a, ok := m.scene.nodeAttrs[id]; ok {
			return a
		}
	}
	return nil
}

// Children returns the Models parented directly to this one, in file
// Connections order.
func (m *Model) Children() []*Model {
	var out []*Model
	for _, id := range m.scene.conns.inLinks(m.id) {
		if c, ok := m.scene.models[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// NodeAttribute carries the "what kind of node is this" metadata FBX
// stores as a sibling object rather than inline on the Model.
type NodeAttribute struct {
	*Obj
	TypeFlags string
}
