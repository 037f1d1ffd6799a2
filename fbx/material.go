package fbx

import "github.com/mirai3d/fbxscene/geom"

// Material is a Material object: shading properties plus connected
// Textures keyed by the property they bind to (e.g. "DiffuseColor").
type Material struct{ *Obj }

func (m *Material) colorProperty(name string, defR, defG, defB float64) geom.Vector3 {
	r, g, b := m.propertyFloat3(name, defR, defG, defB)
	return geom.Vector3{X: geom.Element(r), Y: geom.Element(g), Z: geom.Element(b)}
}

func (m *Material) DiffuseColor() geom.Vector3  { return m.colorProperty("DiffuseColor", 0.8, 0.8, 0.8) }
func (m *Material) AmbientColor() geom.Vector3  { return m.colorProperty("AmbientColor", 0, 0, 0) }
func (m *Material) SpecularColor() geom.Vector3 { return m.colorProperty("SpecularColor", 0.2, 0.2, 0.2) }
func (m *Material) EmissiveColor() geom.Vector3 { return m.colorProperty("EmissiveColor", 0, 0, 0) }

func (m *Material) Shininess() float64 {
	if a := m.GetProperty("Shininess"); a != nil {
		return a.ToFloat64(20)
	}
	return 20
}

func (m *Material) Opacity() float64 {
	if a := m.GetProperty("Opacity"); a != nil {
		return a.ToFloat64(1)
	}
	return 1
}

// Texture returns the Texture bound to the given material property (one
// of the FBX OP connection property names, e.g. "DiffuseColor").
func (m *Material) Texture(property string) *Texture {
	for _, conn := range m.scene.conns.propertyLinksIn(m.id) {
		if conn.Prop != property {
			continue
		}
		if t, ok := m.scene.textures[conn.From]; ok {
			return t
		}
	}
	return nil
}

// Texture is a Texture object: a UV channel selector and a link to the
// embedded or external Video media it samples.
type Texture struct {
	*Obj
	RelativeFilename string
	FileName         string
	UVSet            string
}

func buildTexture(scene *Scene, node *Node, id int64, name string) *Texture {
	t := &Texture{Obj: newObj(scene, node, id, name, KindTexture)}
	t.RelativeFilename = node.Child("RelativeFilename").GetString()
	t.FileName = node.Child("FileName").GetString()
	t.UVSet = node.Child("UVSet").GetString()
	return t
}

// Video returns the embedded/external media object backing this texture.
func (t *Texture) Video() *Video {
	for _, id := range t.scene.conns.inLinks(t.id) {
		if v, ok := t.scene.videos[id]; ok {
			return v
		}
	}
	return nil
}

// Video is a Video object: FBX's container for embedded texture bytes
// (the "Content" binary attribute) or a path to an external image file.
type Video struct {
	*Obj
	RelativeFilename string
	FileName         string
	Content          []byte
}

func buildVideo(scene *Scene, node *Node, id int64, name string) *Video {
	v := &Video{Obj: newObj(scene, node, id, name, KindVideo)}
	v.RelativeFilename = node.Child("RelativeFilename").GetString()
	v.FileName = node.Child("FileName").GetString()
	if a := node.Child("Content").Attr(0); a != nil {
		if b, ok := a.Value.([]byte); ok {
			v.Content = b
		}
	}
	return v
}
