package fbx

import "sort"

// fbxTimeUnit is the FBX internal time unit: one second equals this many
// ticks (spec.md §6).
const fbxTimeUnit = 46186158000

// TimeToSeconds converts a raw FBX KeyTime tick count to seconds.
func TimeToSeconds(t int64) float64 { return float64(t) / fbxTimeUnit }

// SecondsToTime converts seconds to a raw FBX KeyTime tick count.
func SecondsToTime(s float64) int64 { return int64(s * fbxTimeUnit) }

// frameRateSeconds maps the GlobalSettings TimeMode enum to a per-frame
// duration, covering the named rates the format defines (spec.md §6).
var frameRateSeconds = map[int]float64{
	0:  1.0 / 24,  // Default (treated as 24fps)
	1:  1.0 / 120,
	2:  1.0 / 100,
	3:  1.0 / 60,
	4:  1.0 / 50,
	5:  1.0 / 48,
	6:  1.0 / 30,
	7:  1.0 / 30, // NTSC drop-frame, approximated as flat 30fps
	8:  1.0 / 1000,
	9:  1.0 / 1,
	10: 1.0 / 23.976,
	11: 1.0 / 29.97,
	12: 1.0 / 29.97, // drop-frame variant, approximated as 29.97fps
	13: 1.0 / 25,
	14: 1.0 / 24.975,
}

// FrameRate resolves a GlobalSettings TimeMode (and, for the custom mode,
// CustomFrameRate) to frames-per-second.
func FrameRate(timeMode int, customFrameRate float64) float64 {
	if timeMode == 14 && customFrameRate > 0 {
		return customFrameRate
	}
	if secs, ok := frameRateSeconds[timeMode]; ok && secs > 0 {
		return 1 / secs
	}
	return 24
}

// AnimationStack is a top-level named animation ("take").
type AnimationStack struct{ *Obj }

// Layers returns the AnimationLayers that compose this stack, in file
// Connections order. FBX supports additive layer blending; this parser
// exposes layers individually and leaves blending to the caller.
func (s *AnimationStack) Layers() []*AnimationLayer {
	var out []*AnimationLayer
	for _, id := range s.scene.conns.inLinks(s.id) {
		if l, ok := s.scene.animLayers[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// AnimationLayer groups the CurveNodes driving one evaluation pass.
type AnimationLayer struct{ *Obj }

// CurveNodes returns the AnimationCurveNodes on this layer, in file
// Connections order.
func (l *AnimationLayer) CurveNodes() []*AnimationCurveNode {
	var out []*AnimationCurveNode
	for _, id := range l.scene.conns.inLinks(l.id) {
		if c, ok := l.scene.animCurveNodes[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// AnimationCurveNode bundles up to three component AnimationCurves
// (d|X, d|Y, d|Z) and names the target object/property they drive.
type AnimationCurveNode struct {
	*Obj
	TargetID       int64
	TargetProperty string
}

// Target returns the object this curve node animates.
func (n *AnimationCurveNode) Target() Object {
	return n.scene.objectByID(n.TargetID)
}

// Curve returns the component curve bound to the given channel name
// ("d|X", "d|Y", or "d|Z"), or nil if this curve node doesn't drive it.
func (n *AnimationCurveNode) Curve(channel string) *AnimationCurve {
	for _, conn := range n.scene.conns.propertyLinksIn(n.id) {
		if conn.Prop != channel {
			continue
		}
		if c, ok := n.scene.animCurves[conn.From]; ok {
			return c
		}
	}
	return nil
}

// Sample evaluates all three channels at the given time, defaulting any
// missing channel to defX/defY/defZ.
func (n *AnimationCurveNode) Sample(t int64, defX, defY, defZ float64) (x, y, z float64) {
	x, y, z = defX, defY, defZ
	if c := n.Curve("d|X"); c != nil {
		x = c.Evaluate(t)
	}
	if c := n.Curve("d|Y"); c != nil {
		y = c.Evaluate(t)
	}
	if c := n.Curve("d|Z"); c != nil {
		z = c.Evaluate(t)
	}
	return
}

// AnimationCurve is a single animated scalar channel: a sorted list of
// (time, value) keyframes. Evaluate performs piecewise-linear
// interpolation; the reference format's cubic/Hermite tangent data is
// neither read nor applied (spec.md §9's documented fidelity reduction).
type AnimationCurve struct {
	*Obj
	Times  []int64
	Values []float64
}

func buildAnimationCurve(scene *Scene, node *Node, id int64, name string) *AnimationCurve {
	c := &AnimationCurve{Obj: newObj(scene, node, id, name, KindAnimationCurve)}
	c.Times = node.Child("KeyTime").GetInt64Array()
	c.Values = node.Child("KeyValueFloat").GetFloat64Array()
	return c
}

// Evaluate samples the curve at time t (FBX ticks) via linear
// interpolation, clamping to the first/last key outside the key range.
func (c *AnimationCurve) Evaluate(t int64) float64 {
	n := len(c.Times)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= c.Times[0] {
		return c.Values[0]
	}
	if t >= c.Times[n-1] {
		return c.Values[n-1]
	}
	i := sort.Search(n, func(i int) bool { return c.Times[i] >= t })
	if c.Times[i] == t {
		return c.Values[i]
	}
	lo, hi := i-1, i
	span := c.Times[hi] - c.Times[lo]
	if span == 0 {
		return c.Values[lo]
	}
	frac := float64(t-c.Times[lo]) / float64(span)
	return c.Values[lo] + (c.Values[hi]-c.Values[lo])*frac
}
