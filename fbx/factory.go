package fbx

import "strings"

// normalizeObjectName strips the "\x00\x01" separator FBX embeds between an
// object's display name and its class name (spec.md glossary: S properties
// "may contain NULs used as internal separators"), matching the teacher's
// fbx_object.go/fbx_geometry.go convention of collapsing it to "::".
func normalizeObjectName(raw string) string {
	return strings.ReplaceAll(raw, "\x00\x01", "::")
}

// parseTemplates indexes Definitions/ObjectType/PropertyTemplate records
// by object-type name ("Model", "Geometry", "Material", ...), resolving
// spec.md §9's Open Question in favor of wiring the cascade: the
// reference parser parses these records and discards them (a literal
// TODO in original_source/ofbx.cpp); here every Obj.GetProperty falls
// back through its template when it has no local Properties70 override.
func (s *Scene) parseTemplates() {
	defs := s.root.Child("Definitions")
	if defs == nil {
		return
	}
	for _, ot := range defs.Children {
		if ot.Name != "ObjectType" {
			continue
		}
		typeName := ot.PropString(0)
		tmpl := ot.Child("PropertyTemplate")
		if tmpl == nil {
			continue
		}
		t := &Obj{scene: s, node: tmpl}
		t.buildPropertyIndex()
		s.templates[typeName] = t
	}
}

// parseConnections indexes every Connections/C record in file order
// (spec.md §5).
func (s *Scene) parseConnections() {
	conns := s.root.Child("Connections")
	if conns == nil {
		return
	}
	for _, c := range conns.Children {
		if c.Name != "C" {
			continue
		}
		typ := c.PropString(0)
		from := c.PropInt64(1)
		to := c.PropInt64(2)
		conn := Connection{From: from, To: to}
		if typ == "OP" {
			conn.Type = ConnObjectProperty
			conn.Prop = c.PropString(3)
		} else {
			conn.Type = ConnObjectObject
		}
		s.conns.add(conn)
	}
}

func (s *Scene) templateFor(name string) *Obj { return s.templates[name] }

// parseObjects dispatches every Objects/* element to the matching
// constructor, mirroring the reference parser's parseObjects switch on
// element name + class attribute (original_source/ofbx.cpp). LoadFlags
// gate whole categories; a gated element is skipped here but remains
// inspectable through Scene.Root().
func (s *Scene) parseObjects(flags LoadFlags) {
	objs := s.root.Child("Objects")
	if objs == nil {
		return
	}
	for _, n := range objs.Children {
		id := n.PropInt64(0)
		name := normalizeObjectName(n.PropString(1))
		class := n.PropString(2)

		switch n.Name {
		case "Geometry":
			if flags.has(IgnoreGeometry) {
				continue
			}
			g, err := buildGeometry(s, n, id, name)
			if err != nil {
				s.warn.note("geometry %d: %v", id, err)
				continue
			}
			g.template = s.templateFor("Geometry")
			s.geometries[id] = g
			s.objects[id] = g
			s.geometryOrder = append(s.geometryOrder, g)

		case "Material":
			if flags.has(IgnoreMaterials) {
				continue
			}
			m := &Material{Obj: newObj(s, n, id, name, KindMaterial)}
			m.template = s.templateFor("Material")
			s.materials[id] = m
			s.objects[id] = m
			s.materialOrder = append(s.materialOrder, m)

		case "Texture":
			if flags.has(IgnoreTextures) {
				continue
			}
			t := buildTexture(s, n, id, name)
			t.template = s.templateFor("Texture")
			s.textures[id] = t
			s.objects[id] = t

		case "Video":
			if flags.has(IgnoreVideos) {
				continue
			}
			v := buildVideo(s, n, id, name)
			v.template = s.templateFor("Video")
			s.videos[id] = v
			s.objects[id] = v

		case "NodeAttribute":
			na := &NodeAttribute{Obj: newObj(s, n, id, name, KindNodeAttribute)}
			na.TypeFlags = n.PropString(2)
			na.template = s.templateFor("NodeAttribute")
			s.nodeAttrs[id] = na
			s.objects[id] = na

		case "Deformer":
			switch class {
			case "Cluster":
				if flags.has(IgnoreSkin) || flags.has(IgnoreBones) {
					continue
				}
				c := buildCluster(s, n, id, name)
				c.template = s.templateFor("Deformer")
				s.clusters[id] = c
				s.objects[id] = c
			case "Skin":
				if flags.has(IgnoreSkin) {
					continue
				}
				sk := &Skin{Obj: newObj(s, n, id, name, KindSkin)}
				sk.template = s.templateFor("Deformer")
				s.skins[id] = sk
				s.objects[id] = sk
			}

		case "Model":
			switch class {
			case "Mesh":
				if flags.has(IgnoreMeshes) {
					continue
				}
				m := newModel(s, n, id, name, KindMesh)
				m.template = s.templateFor("Model")
				s.models[id] = m
				s.objects[id] = m
				s.modelOrder = append(s.modelOrder, m)
				s.meshOrder = append(s.meshOrder, m)
			case "LimbNode":
				if flags.has(IgnoreLimbs) || flags.has(IgnoreBones) {
					continue
				}
				m := newModel(s, n, id, name, KindLimbNode)
				m.template = s.templateFor("Model")
				s.models[id] = m
				s.objects[id] = m
				s.modelOrder = append(s.modelOrder, m)
			case "Null":
				m := newModel(s, n, id, name, KindNullNode)
				m.template = s.templateFor("Model")
				s.models[id] = m
				s.objects[id] = m
				s.modelOrder = append(s.modelOrder, m)
			default:
				if flags.has(IgnorePivots) {
					continue
				}
				m := newModel(s, n, id, name, KindUnknown)
				m.template = s.templateFor("Model")
				s.models[id] = m
				s.objects[id] = m
				s.modelOrder = append(s.modelOrder, m)
			}

		case "AnimationStack":
			if flags.has(IgnoreAnimations) {
				continue
			}
			a := &AnimationStack{Obj: newObj(s, n, id, name, KindAnimationStack)}
			a.template = s.templateFor("AnimationStack")
			s.animStacks[id] = a
			s.objects[id] = a
			s.animStackOrder = append(s.animStackOrder, a)

		case "AnimationLayer":
			if flags.has(IgnoreAnimations) {
				continue
			}
			a := &AnimationLayer{Obj: newObj(s, n, id, name, KindAnimationLayer)}
			a.template = s.templateFor("AnimationLayer")
			s.animLayers[id] = a
			s.objects[id] = a

		case "AnimationCurveNode":
			if flags.has(IgnoreAnimations) {
				continue
			}
			cn := &AnimationCurveNode{Obj: newObj(s, n, id, name, KindAnimationCurveNode)}
			cn.TargetID, cn.TargetProperty = s.resolveCurveNodeTarget(id)
			cn.template = s.templateFor("AnimationCurveNode")
			s.animCurveNodes[id] = cn
			s.objects[id] = cn

		case "AnimationCurve":
			if flags.has(IgnoreAnimations) {
				continue
			}
			c := buildAnimationCurve(s, n, id, name)
			c.template = s.templateFor("AnimationCurve")
			s.animCurves[id] = c
			s.objects[id] = c
		}
	}
}

// resolveCurveNodeTarget finds the OP connection pointing FROM this curve
// node (to a Model/"Lcl Translation" etc.), since CurveNode->Model is the
// opposite direction from CurveNode->Curve links.
func (s *Scene) resolveCurveNodeTarget(curveNodeID int64) (int64, string) {
	for _, conn := range s.conns.all {
		if conn.Type == ConnObjectProperty && conn.From == curveNodeID {
			return conn.To, conn.Prop
		}
	}
	return RootID, ""
}

// postprocessClusters re-indexes every Cluster's raw weights against its
// owning Geometry's emitted vertex buffer, one inverse-index pool built
// per Geometry and shared across the Clusters that reference it
// (grounded on ClusterImpl::postprocess in original_source/ofbx.cpp,
// generalized from a single-mesh assumption to per-geometry pools).
func (s *Scene) postprocessClusters() {
	poolByGeometry := map[int64]*inverseIndexPool{}
	for _, c := range s.clusters {
		g := s.clusterGeometry(c)
		if g == nil {
			continue
		}
		pool, ok := poolByGeometry[g.id]
		if !ok {
			pool = newInverseIndexPool(g.ToOldVertices, vertexCountBound(g.ToOldVertices))
			poolByGeometry[g.id] = pool
		}
		c.reindexAgainstGeometry(pool)
	}
}

func vertexCountBound(toOld []int32) int {
	max := int32(-1)
	for _, v := range toOld {
		if v > max {
			max = v
		}
	}
	return int(max) + 1
}

// clusterGeometry walks Cluster -> Skin -> Model -> Geometry to find the
// geometry a cluster's weights are indexed against.
func (s *Scene) clusterGeometry(c *Cluster) *Geometry {
	for _, skinID := range s.conns.outLinks(c.id) {
		skin, ok := s.skins[skinID]
		if !ok {
			continue
		}
		for _, modelID := range s.conns.outLinks(skin.id) {
			if g, ok := s.geometries[modelID]; ok {
				return g
			}
			if m, ok := s.models[modelID]; ok {
				if g := m.Geometry(); g != nil {
					return g
				}
			}
		}
	}
	return nil
}
