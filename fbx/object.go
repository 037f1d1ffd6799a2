package fbx

// ObjectKind identifies the concrete variant behind an Object handle,
// mirroring the "Mesh"/"LimbNode"/"Null"/"Cluster"/"Skin" class tags
// carried by the FBX object records themselves (spec.md §5).
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindRoot
	KindMesh
	KindLimbNode
	KindNullNode
	KindNodeAttribute
	KindGeometry
	KindMaterial
	KindTexture
	KindVideo
	KindCluster
	KindSkin
	KindAnimationStack
	KindAnimationLayer
	KindAnimationCurveNode
	KindAnimationCurve
)

func (k ObjectKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindMesh:
		return "Mesh"
	case KindLimbNode:
		return "LimbNode"
	case KindNullNode:
		return "Null"
	case KindNodeAttribute:
		return "NodeAttribute"
	case KindGeometry:
		return "Geometry"
	case KindMaterial:
		return "Material"
	case KindTexture:
		return "Texture"
	case KindVideo:
		return "Video"
	case KindCluster:
		return "Cluster"
	case KindSkin:
		return "Skin"
	case KindAnimationStack:
		return "AnimationStack"
	case KindAnimationLayer:
		return "AnimationLayer"
	case KindAnimationCurveNode:
		return "AnimationCurveNode"
	case KindAnimationCurve:
		return "AnimationCurve"
	default:
		return "Unknown"
	}
}

// RootID is the reserved UID of the implicit scene root (spec.md §5: UID 0
// never names a real object and terminates every parent chain).
const RootID int64 = 0

// Object is the common read-only handle every scene object satisfies.
// Concrete variants (Model, Geometry, Material, ...) embed *Obj and add
// their own typed accessors.
type Object interface {
	ID() int64
	Name() string
	Kind() ObjectKind
	Node() *Node
	GetProperty(name string) *Attribute
}

// Obj is the shared base of every non-root object: its own element
// subtree, the Definitions-driven PropertyTemplate it falls back to, and an
// index of its own Properties70 entries built once at construction time
// (spec.md §9's resolved Open Question: Property70 template cascade).
// Building the index eagerly, rather than on first GetProperty call, keeps
// a loaded Scene safe for concurrent read-only use (spec.md §5): nothing
// writes to an Obj after Load returns.
type Obj struct {
	scene *Scene
	node  *Node
	id    int64
	name  string
	kind  ObjectKind

	template   *Obj
	properties map[string]*Node
}

func newObj(scene *Scene, node *Node, id int64, name string, kind ObjectKind) *Obj {
	o := &Obj{scene: scene, node: node, id: id, name: name, kind: kind}
	o.buildPropertyIndex()
	return o
}

func (o *Obj) ID() int64     { return o.id }
func (o *Obj) Name() string  { return o.name }
func (o *Obj) Kind() ObjectKind { return o.kind }
func (o *Obj) Node() *Node   { return o.node }

func (o *Obj) buildPropertyIndex() {
	if o.properties != nil {
		return
	}
	o.properties = map[string]*Node{}
	props := o.node.ChildPath("Properties70")
	if props == nil {
		return
	}
	for _, p := range props.Children {
		if p.Name != "P" {
			continue
		}
		if name := p.PropString(0); name != "" {
			o.properties[name] = p
		}
	}
}

// GetProperty resolves a named Properties70 entry, falling back to the
// object's template (the Definitions/ObjectType/PropertyTemplate record
// for its class) when the object itself doesn't override it.
func (o *Obj) GetProperty(name string) *Attribute {
	if p, ok := o.properties[name]; ok {
		return propertyValueAttribute(p)
	}
	if o.template != nil {
		return o.template.GetProperty(name)
	}
	return nil
}

// propertyValueAttribute extracts the value attribute(s) of a Properties70
// "P" record: P: name, type, label, flags, v0 [, v1, v2...]. Vector-valued
// properties (Lcl Translation etc.) are exposed as a []float64 of the
// trailing values; scalar properties as the single trailing attribute.
func propertyValueAttribute(p *Node) *Attribute {
	if len(p.Attributes) <= 4 {
		return nil
	}
	tail := p.Attributes[4:]
	if len(tail) == 1 {
		return tail[0]
	}
	vals := make([]float64, len(tail))
	for i, a := range tail {
		vals[i] = a.ToFloat64(0)
	}
	return &Attribute{Value: vals}
}

func (o *Obj) propertyFloat3(name string, defX, defY, defZ float64) (float64, float64, float64) {
	a := o.GetProperty(name)
	if a == nil {
		return defX, defY, defZ
	}
	if vals, ok := a.Value.([]float64); ok && len(vals) >= 3 {
		return vals[0], vals[1], vals[2]
	}
	return defX, defY, defZ
}
