package geom

import "math"

type RotationOrder int

const (
	RotationOrderXYZ = iota
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
	RotationOrderXZY
	RotationOrderYZX
	// RotationOrderSphericXYZ is FBX's spherical-XYZ order. No known
	// exporter actually spells out a different evaluation for it, so it
	// is treated as a synonym of RotationOrderXYZ rather than given a
	// distinct closed form.
	RotationOrderSphericXYZ
)

// elementalRotationMatrix4 builds the rotation matrix for a single axis:
// 0=X, 1=Y, 2=Z.
func elementalRotationMatrix4(axis int, angle Element) *Matrix4 {
	c := Element(math.Cos(float64(angle)))
	s := Element(math.Sin(float64(angle)))
	m := NewMatrix4()
	switch axis {
	case 0:
		m[5], m[6] = c, s
		m[9], m[10] = -s, c
	case 1:
		m[0], m[2] = c, -s
		m[8], m[10] = s, c
	case 2:
		m[0], m[1] = c, s
		m[4], m[5] = -s, c
	}
	return m
}

// EulerRotationMatrix4 composes the rotation matrix for any of the six
// FBX rotation orders (plus the RotationOrderSphericXYZ fallback) by
// multiplying the three elemental axis rotations in the order the name
// implies applied right-to-left, generalizing the two hard-coded
// conventions of NewEulerRotationMatrix4 to the full FBX order set.
func EulerRotationMatrix4(x, y, z Element, order RotationOrder) *Matrix4 {
	rx := elementalRotationMatrix4(0, x)
	ry := elementalRotationMatrix4(1, y)
	rz := elementalRotationMatrix4(2, z)
	switch order {
	case RotationOrderXYZ, RotationOrderSphericXYZ:
		return rz.Mul(ry).Mul(rx)
	case RotationOrderYXZ:
		return rz.Mul(rx).Mul(ry)
	case RotationOrderZXY:
		return ry.Mul(rx).Mul(rz)
	case RotationOrderZYX:
		return rx.Mul(ry).Mul(rz)
	case RotationOrderXZY:
		return ry.Mul(rz).Mul(rx)
	case RotationOrderYZX:
		return rx.Mul(rz).Mul(ry)
	default:
		return rz.Mul(ry).Mul(rx)
	}
}

type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z float32, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	return NewEulerFromMatrix4(NewRotationMatrix4FromQuaternion(q), order)
}

func NewEulerFromMatrix4(mat *Matrix4, order RotationOrder) *EulerAngles {
	const eps = 0.00000001
	m11, m21, m31 := float64(mat[0]), float64(mat[1]), float64(mat[2])
	m12, m22, m32 := float64(mat[4]), float64(mat[5]), float64(mat[6])
	m13, m23, m33 := float64(mat[8]), float64(mat[9]), float64(mat[10])

	ret := &EulerAngles{Order: order}
	switch order {
	case RotationOrderXYZ:
		ret.Y = Element(math.Asin(math.Max(-1, math.Min(m13, 1))))
		if math.Abs(m13) < 1-eps {
			ret.X = Element(math.Atan2(-m23, m33))
			ret.Z = Element(math.Atan2(-m12, m11))
		} else {
			ret.X = Element(math.Atan2(m32, m22))
			ret.Z = 0
		}
		break
	case RotationOrderYXZ:
		ret.X = Element(math.Asin(-math.Max(-1, math.Min(m23, 1))))
		if math.Abs(m23) < 1-eps {
			ret.Y = Element(math.Atan2(m13, m33))
			ret.Z = Element(math.Atan2(m21, m22))
		} else {
			ret.Y = Element(math.Atan2(-m31, m11))
			ret.Z = 0
		}
		break
	case RotationOrderZXY:
		ret.X = Element(math.Asin(math.Max(-1, math.Min(m32, 1))))
		if math.Abs(m32) < 1-eps {
			ret.Y = Element(math.Atan2(-m31, m33))
			ret.Z = Element(math.Atan2(-m12, m22))
		} else {
			ret.Z = Element(math.Atan2(m21, m11))
			ret.Y = 0
		}
		break
	case RotationOrderZYX:
		ret.Y = Element(math.Asin(-math.Max(-1, math.Min(m31, 1))))
		if math.Abs(m31) < 1-eps {
			ret.X = Element(math.Atan2(m32, m33))
			ret.Z = Element(math.Atan2(m21, m11))
		} else {
			ret.X = 0
			ret.Z = Element(math.Atan2(-m12, m22))
		}
		break
	}
	return ret
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	cx := math.Cos(float64(v.X / 2))
	cy := math.Cos(float64(v.Y / 2))
	cz := math.Cos(float64(v.Z / 2))
	sx := math.Sin(float64(v.X / 2))
	sy := math.Sin(float64(v.Y / 2))
	sz := math.Sin(float64(v.Z / 2))

	switch v.Order {
	case RotationOrderXYZ:
		return &Vector4{
			X: float32(sx*cy*cz + cx*sy*sz),
			Y: float32(cx*sy*cz - sx*cy*sz),
			Z: float32(cx*cy*sz + sx*sy*cz),
			W: float32(cx*cy*cz - sx*sy*sz)}
	case RotationOrderYXZ:
		return &Vector4{
			X: float32(sx*cy*cz + cx*sy*sz),
			Y: float32(cx*sy*cz - sx*cy*sz),
			Z: float32(cx*cy*sz - sx*sy*cz),
			W: float32(cx*cy*cz + sx*sy*sz)}
	case RotationOrderZXY:
		return &Vector4{
			X: float32(sx*cy*cz - cx*sy*sz),
			Y: float32(cx*sy*cz + sx*cy*sz),
			Z: float32(cx*cy*sz + sx*sy*cz),
			W: float32(cx*cy*cz - sx*sy*sz)}
	case RotationOrderZYX:
		return &Vector4{
			X: float32(sx*cy*cz - cx*sy*sz),
			Y: float32(cx*sy*cz + sx*cy*sz),
			Z: float32(cx*cy*sz - sx*sy*cz),
			W: float32(cx*cy*cz + sx*sy*sz)}
	default:
		return &Quaternion{0, 0, 0, 1}
	}
}
