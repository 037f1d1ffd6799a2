package geom

import (
	"math"
	"testing"
)

func TestEulerRotationMatrix4AllOrders(t *testing.T) {
	const eps = 0.0001
	orders := []RotationOrder{
		RotationOrderXYZ, RotationOrderYXZ, RotationOrderZXY, RotationOrderZYX,
		RotationOrderXZY, RotationOrderYZX, RotationOrderSphericXYZ,
	}
	for _, order := range orders {
		m := EulerRotationMatrix4(0, 0, 0, order)
		identity := NewMatrix4()
		for i := range m {
			if Abs(m[i]-identity[i]) > eps {
				t.Fatalf("order %d: zero rotation should be identity, got %v", order, m)
			}
		}
	}
}

func TestSphericXYZIsXYZAlias(t *testing.T) {
	const eps = 0.0001
	x, y, z := Element(10*math.Pi/180), Element(20*math.Pi/180), Element(30*math.Pi/180)
	a := EulerRotationMatrix4(x, y, z, RotationOrderXYZ)
	b := EulerRotationMatrix4(x, y, z, RotationOrderSphericXYZ)
	for i := range a {
		if Abs(a[i]-b[i]) > eps {
			t.Fatalf("SphericXYZ should match XYZ, differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
