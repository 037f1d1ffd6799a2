package fbx

import "github.com/pkg/errors"

// LoadFlags selectively disables construction of whole object categories,
// trading completeness for memory/CPU (spec.md §6's Input contract). The
// element stays reachable in the raw Node tree regardless of flags; only
// the typed Object construction is elided.
type LoadFlags uint32

const (
	Triangulate LoadFlags = 1 << iota
	IgnoreGeometry
	IgnoreBlendShapes
	IgnoreCameras
	IgnoreLights
	IgnoreTextures
	IgnoreSkin
	IgnoreBones
	IgnorePivots
	IgnoreMaterials
	IgnorePoses
	IgnoreVideos
	IgnoreLimbs
	IgnoreMeshes
	IgnoreAnimations
)

func (f LoadFlags) has(bit LoadFlags) bool { return f&bit != 0 }

// LoadOptions configures a single Load call.
type LoadOptions struct {
	Flags LoadFlags
	// Decompressor overrides the default zlib-backed array inflater
	// (spec.md §1's injected decompressor capability).
	Decompressor Decompressor
}

// Scene is the read-only facade over a parsed FBX file: every Object is
// reachable through it, and all graph queries (parent/child, connections,
// property resolution) are served out of the indices built at Load time.
// A Scene is fully built synchronously inside Load and never mutated
// afterward, so concurrent read access from multiple goroutines is safe.
type Scene struct {
	root    *Node
	conns   connectionIndex
	warn    warnings
	version uint32

	objects map[int64]Object

	models         map[int64]*Model
	geometries     map[int64]*Geometry
	materials      map[int64]*Material
	textures       map[int64]*Texture
	videos         map[int64]*Video
	clusters       map[int64]*Cluster
	skins          map[int64]*Skin
	nodeAttrs      map[int64]*NodeAttribute
	animStacks     map[int64]*AnimationStack
	animLayers     map[int64]*AnimationLayer
	animCurveNodes map[int64]*AnimationCurveNode
	animCurves     map[int64]*AnimationCurve

	// *Order slices preserve Objects-element file order (spec.md §8
	// testable property 6: "stable in file order"); map iteration order
	// is never exposed to callers.
	modelOrder     []*Model
	meshOrder      []*Model
	geometryOrder  []*Geometry
	materialOrder  []*Material
	animStackOrder []*AnimationStack

	templates map[string]*Obj

	globalSettings *Node
}

func newScene() *Scene {
	return &Scene{
		objects:        map[int64]Object{},
		models:         map[int64]*Model{},
		geometries:     map[int64]*Geometry{},
		materials:      map[int64]*Material{},
		textures:       map[int64]*Texture{},
		videos:         map[int64]*Video{},
		clusters:       map[int64]*Cluster{},
		skins:          map[int64]*Skin{},
		nodeAttrs:      map[int64]*NodeAttribute{},
		animStacks:     map[int64]*AnimationStack{},
		animLayers:     map[int64]*AnimationLayer{},
		animCurveNodes: map[int64]*AnimationCurveNode{},
		animCurves:     map[int64]*AnimationCurve{},
		templates:      map[string]*Obj{},
	}
}

// Load tokenizes data (auto-detecting the binary or ASCII dialect),
// builds the object graph, and returns a fully queryable Scene. A non-nil
// error means the file could not be tokenized or is structurally
// unrecoverable; per-object construction failures are recorded as
// warnings instead (see Scene.LastError) and do not fail the whole load.
func Load(data []byte, opts LoadOptions) (*Scene, error) {
	root, err := tokenize(data, opts.Decompressor)
	if err != nil {
		return nil, errors.Wrap(err, "fbx: tokenize")
	}

	scene := newScene()
	scene.root = root
	if header := root.Child("FBXHeaderExtension"); header != nil {
		scene.version = uint32(header.Child("FBXVersion").PropInt(0))
	}
	scene.globalSettings = root.ChildPath("GlobalSettings")

	scene.parseTemplates()
	scene.parseConnections()
	scene.parseObjects(opts.Flags)
	scene.postprocessClusters()

	return scene, nil
}

// LastError returns the most recent recoverable diagnostic recorded
// during Load, or "" if none occurred (spec.md §7).
func (s *Scene) LastError() string { return s.warn.last() }

// Warnings returns every recoverable diagnostic recorded during Load, in
// the order they were raised.
func (s *Scene) Warnings() []string { return append([]string(nil), s.warn.messages...) }

// Root returns the raw, untyped element tree exactly as tokenized, for
// callers that need element-level inspection regardless of LoadFlags
// (spec.md §6: "An IGNORE_* flag elides construction of matching Objects
// but does not prevent the element remaining in the raw tree").
func (s *Scene) Root() *Node { return s.root }

func (s *Scene) objectByID(id int64) Object {
	if o, ok := s.objects[id]; ok {
		return o
	}
	return nil
}

// Object looks up any scene object by UID, regardless of kind.
func (s *Scene) Object(id int64) Object { return s.objectByID(id) }

// Models returns every Model in Objects-element file order.
func (s *Scene) Models() []*Model {
	return append([]*Model(nil), s.modelOrder...)
}

// Geometries returns every Geometry in Objects-element file order.
func (s *Scene) Geometries() []*Geometry {
	return append([]*Geometry(nil), s.geometryOrder...)
}

// Materials returns every Material in Objects-element file order.
func (s *Scene) Materials() []*Material {
	return append([]*Material(nil), s.materialOrder...)
}

// AnimationStacks returns every AnimationStack in Objects-element file order.
func (s *Scene) AnimationStacks() []*AnimationStack {
	return append([]*AnimationStack(nil), s.animStackOrder...)
}

// MeshCount returns the number of Models of Kind Mesh (spec.md §6's
// "mesh count").
func (s *Scene) MeshCount() int { return len(s.meshOrder) }

// Mesh returns the i'th Mesh in Objects-element file order (spec.md §6's
// "mesh by index"), or nil if i is out of range.
func (s *Scene) Mesh(i int) *Model {
	if i < 0 || i >= len(s.meshOrder) {
		return nil
	}
	return s.meshOrder[i]
}

// AnimationStackCount returns the number of AnimationStacks (spec.md §6's
// "animation stack count").
func (s *Scene) AnimationStackCount() int { return len(s.animStackOrder) }

// AnimationStackByIndex returns the i'th AnimationStack in Objects-element
// file order (spec.md §6's "animation stack ... by index"), or nil if i is
// out of range.
func (s *Scene) AnimationStackByIndex(i int) *AnimationStack {
	if i < 0 || i >= len(s.animStackOrder) {
		return nil
	}
	return s.animStackOrder[i]
}

// TakeInfo resolves a named animation take to its local time span,
// sourced from the matching AnimationStack's LocalStart/LocalStop
// properties (spec.md §6's "get_take_info(name)"). The bool result is
// false when no AnimationStack with that name was loaded.
func (s *Scene) TakeInfo(name string) (*TakeInfo, bool) {
	for _, a := range s.animStackOrder {
		if a.Name() != name {
			continue
		}
		info := &TakeInfo{Name: name}
		if start := a.GetProperty("LocalStart"); start != nil {
			info.LocalTimeSpanStart = start.ToInt64(0)
		}
		if stop := a.GetProperty("LocalStop"); stop != nil {
			info.LocalTimeSpanStop = stop.ToInt64(0)
		}
		return info, true
	}
	return nil, false
}

// TakeInfo is the local time span of one named animation take (spec.md
// §6), read from its AnimationStack's LocalStart/LocalStop properties in
// FBX time-unit ticks.
type TakeInfo struct {
	Name               string
	LocalTimeSpanStart int64
	LocalTimeSpanStop  int64
}

// isNodeKind reports whether id names the scene root or a loaded Model of
// any kind (Mesh/LimbNode/NullNode, or an unrecognised Model class) — the
// only object kinds that can parent a node in the OO graph (spec.md §4.5).
func (s *Scene) isNodeKind(id int64) bool {
	if id == RootID {
		return true
	}
	_, ok := s.models[id]
	return ok
}

// parentOf resolves id's unique node-kind parent (spec.md §4.5: "the unique
// in-link node (Mesh/LimbNode/NullNode/Root); multiple node parents is an
// error"). When id's outgoing OO connections name more than one distinct
// node-kind object, that is logged as a warning and the first one in file
// order wins, rather than failing the whole Load (spec.md §7's partial-scene
// policy).
func (s *Scene) parentOf(id int64) int64 {
	var candidates []int64
	for _, to := range s.conns.outLinksAll(id) {
		if !s.isNodeKind(to) {
			continue
		}
		dup := false
		for _, c := range candidates {
			if c == to {
				dup = true
				break
			}
		}
		if !dup {
			candidates = append(candidates, to)
		}
	}
	if len(candidates) == 0 {
		return RootID
	}
	if len(candidates) > 1 {
		s.warn.note("object %d: multiple node parents, using first", id)
	}
	return candidates[0]
}

// RootModels returns the Models directly parented to the scene root.
func (s *Scene) RootModels() []*Model {
	var out []*Model
	for _, id := range s.conns.inLinks(RootID) {
		if m, ok := s.models[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// FrameRate resolves GlobalSettings' TimeMode/CustomFrameRate to fps.
func (s *Scene) FrameRate() float64 {
	if s.globalSettings == nil {
		return 24
	}
	props := s.globalSettings.ChildPath("Properties70")
	timeMode := 0
	customFPS := 0.0
	if props != nil {
		for _, p := range props.Children {
			switch p.PropString(0) {
			case "TimeMode":
				timeMode = int(propertyValueAttribute(p).ToInt64(0))
			case "CustomFrameRate":
				customFPS = propertyValueAttribute(p).ToFloat64(0)
			}
		}
	}
	return FrameRate(timeMode, customFPS)
}
